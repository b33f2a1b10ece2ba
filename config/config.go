package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	Gemini       Gemini
	CRM          CRM
	Survey       Survey
	Log          Log
	GeminiApiKey string
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	// ResultsTTL bounds how stale a polled results dashboard may be.
	ResultsTTL time.Duration
}

type Gemini struct {
	Model string
}

type CRM struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Survey struct {
	MultiSelectMax int
	SeedDemo       bool
}

type Log struct {
	Level  string
	Format string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RESULTS_CACHE_TTL", "10s")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("CRM_TIMEOUT", "5s")
	viper.SetDefault("MULTI_SELECT_MAX", 3)
	viper.SetDefault("SEED_DEMO", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.ResultsTTL = viper.GetDuration("RESULTS_CACHE_TTL")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.CRM.BaseURL = viper.GetString("CRM_BASE_URL")
	config.CRM.APIKey = viper.GetString("CRM_API_KEY")
	config.CRM.Timeout = viper.GetDuration("CRM_TIMEOUT")

	config.Survey.MultiSelectMax = viper.GetInt("MULTI_SELECT_MAX")
	config.Survey.SeedDemo = viper.GetBool("SEED_DEMO")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Format = viper.GetString("LOG_FORMAT")

	log.Info().
		Str("port", config.Server.Port).
		Str("dbHost", config.Database.Host).
		Str("dbName", config.Database.Name).
		Bool("redis", config.Redis.Addr != "").
		Bool("gemini", config.GeminiApiKey != "").
		Bool("crm", config.CRM.BaseURL != "").
		Msg("Config loaded")
	return &config, nil
}
