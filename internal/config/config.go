// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	DashboardURL            string `yaml:"dashboard_url" env:"DASHBOARD_URL" env-default:"/dashboard.html"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Bank                    `yaml:"bank"`
	Groq                    `yaml:"groq"`
	GoogleOAuth             `yaml:"google_oauth"`
	Rabbit                  `yaml:"rabbit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
// Секрет обязателен: отсутствие секрета — ошибка деплоя, а не повод
// подписывать токены угадываемой константой.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// Bank реквизиты счёта для ручного банковского перевода.
type Bank struct {
	BankName      string `yaml:"name" env:"BANK_NAME" env-default:"BCA"`
	AccountNumber string `yaml:"account_number" env:"BANK_ACCOUNT_NUMBER" env-default:"1234567890"`
	AccountName   string `yaml:"account_name" env:"BANK_ACCOUNT_NAME" env-default:"ResellerHub"`
}

// Groq настройки клиента LLM-провайдера.
type Groq struct {
	GroqAPIKey  string        `yaml:"api_key" env:"GROQ_API_KEY"`
	GroqModel   string        `yaml:"model" env-default:"llama-3.1-70b-versatile"`
	GroqTimeout time.Duration `yaml:"timeout" env-default:"15s"`
}

// GoogleOAuth настройки федеративного входа через Google.
type GoogleOAuth struct {
	GoogleClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `yaml:"redirect_uri" env:"GOOGLE_REDIRECT_URI" env-default:"/api/v1/auth/google/callback"`
}

// Rabbit настройки подключения к RabbitMQ для событий платежей.
// Пустой URL отключает публикацию событий.
type Rabbit struct {
	RabbitURL      string `yaml:"url" env:"RABBIT_URL"`
	RabbitExchange string `yaml:"exchange" env-default:"payments"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH.
// Завершает процесс при отсутствии файла, ошибке парсинга или пустом
// секрете подписи JWT.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key is not set, refusing to start")
	}
	return &cfg, nil
}
