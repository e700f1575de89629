package config

import (
	"log"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AppConfig struct {
	// EvolutionWeeks is the length N of the rolling weekly evolution
	// series in statistics reports.
	EvolutionWeeks int `mapstructure:"evolution_weeks"`
	// RecentLimit bounds the recent-recitations and recent-validations
	// lists on the profile view.
	RecentLimit int `mapstructure:"recent_limit"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	App      AppConfig      `mapstructure:"app"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using defaults and environment variables.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	if Cfg.Server.Port == "" {
		Cfg.Server.Port = ":8080"
	}
	if Cfg.App.EvolutionWeeks <= 0 {
		Cfg.App.EvolutionWeeks = 12
	}
	if Cfg.App.RecentLimit <= 0 {
		Cfg.App.RecentLimit = 10
	}
	if !viper.IsSet("auth.enabled") {
		Cfg.Auth.Enabled = true
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	log.Println("Config loaded successfully")
	return nil
}
