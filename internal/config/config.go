// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pomoechka/giveaway-service/internal/models"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Engine                  `yaml:"engine"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Engine значения настроек движка по умолчанию. Действующие значения
// хранятся в таблице settings и могут меняться админами на лету,
// конфиг задаёт только стартовые.
type Engine struct {
	ItemLifetimeHours       int  `yaml:"item_lifetime_hours" env-default:"6"`
	KarmaPublish            int  `yaml:"karma_publish" env-default:"10"`
	KarmaTaken              int  `yaml:"karma_taken" env-default:"25"`
	KarmaExtend             int  `yaml:"karma_extend" env-default:"2"`
	KarmaThanks             int  `yaml:"karma_thanks" env-default:"5"`
	AutoHideReportThreshold int  `yaml:"auto_hide_reports" env-default:"3"`
	RequirePhoto            bool `yaml:"require_photo" env-default:"false"`
	PreModeration           bool `yaml:"pre_moderation" env-default:"false"`
}

// DefaultSettings конвертирует значения конфига в настройки движка.
func (e Engine) DefaultSettings() models.Settings {
	return models.Settings{
		ItemLifetimeHours:       e.ItemLifetimeHours,
		KarmaPublish:            e.KarmaPublish,
		KarmaTaken:              e.KarmaTaken,
		KarmaExtend:             e.KarmaExtend,
		KarmaThanks:             e.KarmaThanks,
		AutoHideReportThreshold: e.AutoHideReportThreshold,
		RequirePhoto:            e.RequirePhoto,
		PreModeration:           e.PreModeration,
	}
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Engine:\n"+
			"  ItemLifetimeHours: %d\n"+
			"  AutoHideReportThreshold: %d\n",
		c.Env,
		c.StorageConnectionString,
		c.MigrationsPath,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.ItemLifetimeHours,
		c.AutoHideReportThreshold,
	)
}
