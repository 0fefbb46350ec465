package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`
	HTTPPort      string `mapstructure:"PORT"`
	MeetBaseURL   string `mapstructure:"MEET_BASE_URL"`
	MeetTokenTTL  time.Duration
	MeetCacheSize int
	SlotWeeks     int // на сколько недель вперёд генерировать слоты по шаблонам
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		DBDSN:       os.Getenv("DB_DSN"),
		Environment: os.Getenv("ENV"),
		HTTPPort:    os.Getenv("PORT"),
		MeetBaseURL: os.Getenv("MEET_BASE_URL"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.MeetBaseURL == "" {
		cfg.MeetBaseURL = "https://meet.tutorhub.io"
	}
	cfg.MeetTokenTTL = durationEnv("MEET_TOKEN_TTL", 24*time.Hour)
	cfg.MeetCacheSize = intEnv("MEET_CACHE_SIZE", 4096)
	cfg.SlotWeeks = intEnv("SLOT_GENERATION_WEEKS", 4)

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return n
}
