package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	LLM   LLMConfig
}

type AppConfig struct {
	Port           string
	Env            string
	MigrateOnStart bool
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type LLMConfig struct {
	APIKey         string
	Model          string
	Timeout        time.Duration
	PromptTemplate string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	llmTimeout, err := time.ParseDuration(viper.GetString("LLM_TIMEOUT"))
	if err != nil {
		llmTimeout = 60 * time.Second
	}

	llmModel := viper.GetString("LLM_MODEL")
	if llmModel == "" {
		llmModel = "claude-3-5-haiku-latest"
	}

	config := &Config{
		App: AppConfig{
			Port:           viper.GetString("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			MigrateOnStart: viper.GetBool("MIGRATE_ON_START"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		LLM: LLMConfig{
			APIKey:         viper.GetString("ANTHROPIC_API_KEY"),
			Model:          llmModel,
			Timeout:        llmTimeout,
			PromptTemplate: viper.GetString("LLM_PROMPT_TEMPLATE"),
		},
	}

	return config, nil
}
