package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shahadat-technovicinity/school-management-system/internal/shared/connection"
)

type Config struct {
	Env      string
	Port     string
	Postgres connection.PostgresConfig
	Redis    string
	Kafka    string

	JWTSecret     string
	RBACModelPath string

	PayslipDir     string
	PayslipBaseURL string
	CloudinaryURL  string

	CORSOrigins []string

	AutoMigrate bool
}

// LoadConfig reads the process environment. cmd/* loads .env beforehand.
func LoadConfig() (Config, error) {
	cfg := Config{
		Env:  getenv("APP_ENV", "development"),
		Port: getenv("PORT", "3000"),
		Postgres: connection.PostgresConfig{
			Host:     getenv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			Port:     getenv("DB_PORT", "5432"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},
		Redis:          os.Getenv("REDIS_ADDR"),
		Kafka:          os.Getenv("KAFKA_BROKER"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RBACModelPath:  os.Getenv("RBAC_MODEL_PATH"),
		PayslipDir:     getenv("PAYSLIP_STORAGE_DIR", "storage/payslips"),
		PayslipBaseURL: getenv("PAYSLIP_PUBLIC_BASE_URL", "/payslips"),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if raw := os.Getenv("AUTO_MIGRATE"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = v
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Kafka != "" {
		cfg.Kafka = connection.BrokerAddr(cfg.Kafka)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ServesPayslips reports whether the API itself serves the payslip directory,
// which is the case when payslips stay on local disk behind a path URL.
func (c Config) ServesPayslips() bool {
	return c.CloudinaryURL == "" && strings.HasPrefix(c.PayslipBaseURL, "/")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
