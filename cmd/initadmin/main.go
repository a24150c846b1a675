package main

import (
	"errors"
	"io/fs"
	stdLog "log"

	"github.com/Astemirdum/room-reservation/reservation/app"
	"github.com/Astemirdum/room-reservation/reservation/config"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		stdLog.Fatal("NewConfig ", err)
	}
	if err := app.InitAdmin(cfg); err != nil {
		stdLog.Fatal(err)
	}
}
