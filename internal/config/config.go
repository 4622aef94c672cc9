package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"
)

type Config struct {
	Port    string
	Storage string // postgres|mongo|memory

	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	MongoURI string
	MongoDB  string

	JWTSecret string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	FrontendURL         string
	PasswordResetTTLMin string
	EmailWorkers        string

	RateLimitRPS   string
	RateLimitBurst string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:    def(os.Getenv("PORT"), "8080"),
		Storage: strings.ToLower(def(os.Getenv("STORAGE"), StoragePostgres)),

		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		MongoURI: def(os.Getenv("MONGO_URI"), "mongodb://localhost:27017"),
		MongoDB:  def(os.Getenv("MONGO_DB"), "bookshelf"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		FrontendURL:         def(os.Getenv("FRONTEND_URL"), "http://localhost:3000"),
		PasswordResetTTLMin: def(os.Getenv("PASSWORD_RESET_TTL_MIN"), "30"),
		EmailWorkers:        def(os.Getenv("EMAIL_WORKERS"), "3"),

		RateLimitRPS:   def(os.Getenv("RATE_LIMIT_RPS"), "5"),
		RateLimitBurst: def(os.Getenv("RATE_LIMIT_BURST"), "10"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	switch c.Storage {
	case StoragePostgres:
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case StorageMongo:
		if c.MongoURI == "" || c.MongoDB == "" {
			return nil, fmt.Errorf("incomplete Mongo config (MONGO_URI/MONGO_DB)")
		}
	case StorageMemory:
		warnings = append(warnings, "STORAGE=memory: data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (postgres|mongo|memory)", c.Storage)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.Env == "prod" {
			return nil, fmt.Errorf("JWT_SECRET is required in prod")
		}
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured, reset mails will not be delivered")
	}

	if _, err := strconv.Atoi(c.PasswordResetTTLMin); err != nil {
		warnings = append(warnings, "PASSWORD_RESET_TTL_MIN is not a number, using 30")
	}

	return warnings, nil
}

// PasswordResetTTL — срок жизни токена сброса пароля.
func (c *Config) PasswordResetTTL() time.Duration {
	return time.Duration(atoiDefault(c.PasswordResetTTLMin, 30)) * time.Minute
}

func (c *Config) EmailWorkerCount() int {
	return atoiDefault(c.EmailWorkers, 3)
}

func (c *Config) RateLimit() (rps, burst int) {
	return atoiDefault(c.RateLimitRPS, 5), atoiDefault(c.RateLimitBurst, 10)
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func atoiDefault(s string, d int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return d
	}
	return n
}
