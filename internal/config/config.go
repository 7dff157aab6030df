package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chiaweilo/go-bank-ledger/pkg/mysql"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"-"`
}

type Config struct {
	Server  ServerConfig `yaml:"server"`
	Storage string       `yaml:"storage"`
	WALPath string       `yaml:"wal_path"`
	MySQL   mysql.Config `yaml:"mysql"`
	Auth    AuthConfig   `yaml:"auth"`
}

// Load 讀取 yaml 設定檔，疊上 .env / 環境變數，補上預設值
// 機密 (JWT secret、資料庫密碼) 只從環境變數來
func Load(path string) (*Config, error) {
	// .env 不存在就算了，環境變數照常生效
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}

	// 補全預設配置 (如果 yaml 沒寫)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Storage == "" {
		cfg.Storage = StorageMySQL
	}
	if cfg.WALPath == "" {
		cfg.WALPath = "wal.log"
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	cfg.Auth.TokenTTL = 24 * time.Hour

	if cfg.Storage != StorageMySQL && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("invalid storage backend: %q", cfg.Storage)
	}
	if cfg.Auth.Secret == "" {
		return nil, errors.New("jwt secret is required (set JWT_SECRET)")
	}
	return &cfg, nil
}
