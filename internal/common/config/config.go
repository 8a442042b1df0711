package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type DB struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"password"`
	Name string `koanf:"database"`
}

type MQ struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"password"`
}

type HTTP struct {
	Port int `koanf:"port"`
}

type Auth struct {
	// JWTSecret verifies bearer tokens minted by the auth service.
	JWTSecret string `koanf:"jwt_secret"`
}

type App struct {
	Database DB   `koanf:"database"`
	Rabbit   MQ   `koanf:"rabbitmq"`
	HTTP     HTTP `koanf:"http"`
	Auth     Auth `koanf:"auth"`
}

// Load reads the YAML config at path and applies PZ_-prefixed environment
// overrides (PZ_DATABASE__HOST maps to database.host).
func Load(path string) (App, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return App{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Load(env.Provider("PZ_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pz_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return App{}, err
	}
	var a App
	if err := k.Unmarshal("", &a); err != nil {
		return App{}, fmt.Errorf("unmarshal config: %w", err)
	}
	a.setDefaults()
	if err := a.validate(); err != nil {
		return App{}, err
	}
	return a, nil
}

func (a *App) setDefaults() {
	if a.HTTP.Port == 0 {
		a.HTTP.Port = 3000
	}
	if a.Database.Port == 0 {
		a.Database.Port = 5432
	}
	if a.Rabbit.Port == 0 {
		a.Rabbit.Port = 5672
	}
}

func (a *App) validate() error {
	if a.Database.Host == "" || a.Rabbit.Host == "" {
		return errors.New("invalid config: missing database/rabbitmq host")
	}
	return nil
}

// FindConfig locates a config file in the default candidate paths.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
