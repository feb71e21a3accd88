package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Configはアプリ全体の設定
// 優先度: 環境変数 > YAML(CONFIG_PATH) > env-default
type Config struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"` // サーバーポート

	// DATABASE_URL があれば最優先で使う
	DatabaseURL      string `yaml:"database_url"      env:"DATABASE_URL"`
	PostgresUser     string `yaml:"postgres_user"     env:"POSTGRES_USER"     env-default:"postgres"`
	PostgresPassword string `yaml:"postgres_password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	PostgresDB       string `yaml:"postgres_db"       env:"POSTGRES_DB"       env-default:"pinventory"`
	PostgresHost     string `yaml:"postgres_host"     env:"POSTGRES_HOST"     env-default:"localhost"`
	PostgresPort     int    `yaml:"postgres_port"     env:"POSTGRES_PORT"     env-default:"5432"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"  env:"POSTGRES_SSLMODE"  env-default:"disable"`

	DBMaxOpenConns     int           `yaml:"db_max_open_conns"     env:"DB_MAX_OPEN_CONNS"     env-default:"20"`
	DBMaxIdleConns     int           `yaml:"db_max_idle_conns"     env:"DB_MAX_IDLE_CONNS"     env-default:"5"`
	DBConnMaxLifetime  time.Duration `yaml:"db_conn_max_lifetime"  env:"DB_CONN_MAX_LIFETIME"  env-default:"30m"`
	DBStatementTimeout time.Duration `yaml:"db_statement_timeout"  env:"DB_STATEMENT_TIMEOUT"  env-default:"5s"`
	DBAutoMigrate      bool          `yaml:"db_auto_migrate"       env:"DB_AUTO_MIGRATE"       env-default:"true"`

	JWTSecret      string        `yaml:"jwt_secret"       env:"JWT_SECRET"`                          // JWT署名シークレット
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"12h"` // アクセストークンの有効期限

	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"` // json/text

	// 日付だけの指定（YYYY-MM-DD）をどのタイムゾーンの1日として扱うか
	LedgerTimezone string `yaml:"ledger_timezone" env:"LEDGER_TIMEZONE" env-default:"Asia/Jakarta"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`

	// 起動時に作る管理者（空なら作らない）
	BootstrapAdminUsername string `yaml:"bootstrap_admin_username" env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword string `yaml:"bootstrap_admin_password" env:"BOOTSTRAP_ADMIN_PASSWORD"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxImportBytes  int64         `yaml:"max_import_bytes" env:"MAX_IMPORT_BYTES" env-default:"10485760"`
}

// Loadは設定ファイル（CONFIG_PATH）と環境変数から読む。
// CONFIG_PATHが未指定でconfig.yamlも無ければ環境変数だけ。
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DatabaseURL == "" {
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if _, err := time.LoadLocation(c.LedgerTimezone); err != nil {
		return fmt.Errorf("LEDGER_TIMEZONE is invalid: %w", err)
	}
	if (c.BootstrapAdminUsername == "") != (c.BootstrapAdminPassword == "") {
		return fmt.Errorf("BOOTSTRAP_ADMIN_USERNAME and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	if c.MaxImportBytes <= 0 {
		return fmt.Errorf("MAX_IMPORT_BYTES must be positive")
	}
	return nil
}

// 接続文字列。DATABASE_URL があれば最優先で使う
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
	if c.DBStatementTimeout > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", c.DBStatementTimeout.Milliseconds())
	}
	return dsn
}

// 台帳の日付を解釈するタイムゾーン（Validate済み前提）
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LedgerTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
