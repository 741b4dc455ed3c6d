package config

import (
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host    string  `envconfig:"HOST"`
	Port    string  `envconfig:"PORT"`
	Prefix  string  `envconfig:"PREFIX"`
	Mode    Mode    `envconfig:"MODE"`
	Mysql   Mysql   `envconfig:"MYSQL"`
	Redis   Redis   `envconfig:"REDIS"`
	JWT     JWT     `envconfig:"JWT"`
	Log     Log     `mapstructure:"log"`
	Admin   Admin   `mapstructure:"admin"`
	Archive Archive `mapstructure:"archive"`
}

type Mysql struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DBName   string `envconfig:"DB_NAME" mapstructure:"db_name"`
}

type Redis struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET" mapstructure:"access_secret"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE" mapstructure:"access_expire"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"`
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`
}

// Admin drives the bootstrap seeding of the single administrator row.
type Admin struct {
	NIS  string `envconfig:"NIS"`
	Nama string `envconfig:"NAMA"`
}

// Archive configures the optional S3 bucket imported spreadsheets are
// copied to. Archival is disabled when Bucket is empty.
type Archive struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_key"`
	Prefix          string `mapstructure:"prefix"`
	UsePathStyle    bool   `mapstructure:"path_style"`
}

var (
	instance *Config
	once     sync.Once
)

// Init loads config.yaml (optional) and then applies environment
// overrides. Safe to call more than once.
func Init() {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		v.SetDefault("host", "0.0.0.0")
		v.SetDefault("port", "8080")
		v.SetDefault("prefix", "api")
		v.SetDefault("mode", string(ModeDebug))
		v.SetDefault("jwt.access_expire", 86400)
		v.SetDefault("log.level", "info")
		v.SetDefault("admin.nis", "ADMIN")
		v.SetDefault("admin.nama", "Administrator")

		cfg := &Config{}
		// a missing config.yaml is fine, env vars can carry everything
		_ = v.ReadInConfig()
		if err := v.Unmarshal(cfg); err != nil {
			panic(err)
		}
		if err := envconfig.Process("sds", cfg); err != nil {
			panic(err)
		}
		instance = cfg
	})
}

func Get() *Config {
	if instance == nil {
		Init()
	}
	return instance
}
