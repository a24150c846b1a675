package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/pkg/logger"
	"github.com/Astemirdum/room-reservation/pkg/postgres"
	"github.com/Astemirdum/room-reservation/reservation/internal/cache"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"10s"`
}

type Auth struct {
	Secret     string        `envconfig:"JWT_SECRET"`
	AccessTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"5m"`
	RefreshTTL time.Duration `envconfig:"JWT_REFRESH_TTL" default:"24h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`
}

type Completer struct {
	Interval time.Duration `envconfig:"COMPLETER_INTERVAL" default:"1h"`
}

// Admin is the superuser created by initadmin.
type Admin struct {
	Username string `envconfig:"ADMIN_USERNAME" default:"admin"`
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}

type Config struct {
	Server     HTTPServer   `yaml:"server"`
	Auth       Auth         `yaml:"auth"`
	Database   postgres.DB  `yaml:"db"`
	Cache      cache.Config `yaml:"cache"`
	Kafka      kafka.Config `yaml:"kafka"`
	Completer  Completer    `yaml:"completer"`
	Admin      Admin        `yaml:"admin"`
	Log        logger.Log   `yaml:"log"`
	DateFormat string       `yaml:"dateFormat" envconfig:"DATE_FORMAT" default:"2006-01-02"`
}

// RequiredKeys must be present in the environment for the service to boot.
var RequiredKeys = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"JWT_SECRET",
}

type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

// NewConfig reads config from environment. Options are applied on top of it.
func NewConfig(ops ...Option) (*Config, error) {
	if err := checkRequired(RequiredKeys...); err != nil {
		return nil, err
	}
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.Wrap(err, "envconfig.Process")
	}
	for _, op := range ops {
		op(&config)
	}
	return &config, nil
}

func checkRequired(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); !ok || v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingKeysError{Keys: missing}
	}
	return nil
}
