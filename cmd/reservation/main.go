package main

import (
	"errors"
	"io/fs"
	stdLog "log"
	"time"

	"github.com/Astemirdum/room-reservation/reservation/app"
	"github.com/Astemirdum/room-reservation/reservation/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg, err := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)
	if err != nil {
		stdLog.Fatal("NewConfig ", err)
	}

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("app.Run ", err)
	}
}
