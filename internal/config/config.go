package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // 容器內可能沒有 zoneinfo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-remittance/pkg/logger"
	"github.com/JoeShih716/go-remittance/pkg/mysql"
)

// DefaultPath 預設設定檔路徑
const DefaultPath = "config/config.yaml"

// StorageDriver 儲存實作
type StorageDriver string

const (
	StorageDriverMemory StorageDriver = "memory"
	StorageDriverMySQL  StorageDriver = "mysql"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	MySQL    mysql.Config   `yaml:"mysql"`
	Fee      FeeConfig      `yaml:"fee"`
	Clock    ClockConfig    `yaml:"clock"`
	Log      logger.Config  `yaml:"log"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	Metrics         bool          `yaml:"metrics"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver  StorageDriver `yaml:"driver"`
	WALPath string        `yaml:"wal_path"` // 空字串表示 memory store 不落地
}

type FeeConfig struct {
	Percent int64 `yaml:"percent"`
}

type ClockConfig struct {
	Timezone string `yaml:"timezone"` // IANA 時區，決定每日額度的日曆日期
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URI      string `yaml:"uri"`
	Exchange string `yaml:"exchange"`
}

// Load 讀取設定檔
//
// 流程: 載入 .env (可選) -> 讀取 YAML -> 環境變數覆寫 -> 補預設值 -> 驗證
//
// 參數:
//
//	path: string - YAML 檔案路徑，空字串使用 CONFIG_PATH 或 DefaultPath
//
// 回傳值:
//
//	*Config: 設定
//	error: 讀檔、解析或驗證失敗
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = getEnv("CONFIG_PATH", DefaultPath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML 內容並套用環境變數覆寫與預設值
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Storage.Driver = StorageDriver(getEnv("STORAGE_DRIVER", string(c.Storage.Driver)))
	c.Storage.WALPath = getEnv("WAL_PATH", c.Storage.WALPath)
	c.Server.HTTPAddr = getEnv("HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.MySQL.Host = getEnv("MYSQL_HOST", c.MySQL.Host)
	c.MySQL.User = getEnv("MYSQL_USER", c.MySQL.User)
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.DBName = getEnv("MYSQL_DATABASE", c.MySQL.DBName)
	c.RabbitMQ.URI = getEnv("RABBITMQ_URI", c.RabbitMQ.URI)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Clock.Timezone = getEnv("TZ_NAME", c.Clock.Timezone)

	if v, ok := os.LookupEnv("MYSQL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", v, err)
		}
		c.MySQL.Port = port
	}
	if v, ok := os.LookupEnv("RABBITMQ_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RABBITMQ_ENABLED %q: %w", v, err)
		}
		c.RabbitMQ.Enabled = enabled
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverMemory
	}
	if c.Fee.Percent == 0 {
		c.Fee.Percent = 1
	}
	if c.Clock.Timezone == "" {
		c.Clock.Timezone = "UTC"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "remittance.ledger"
	}
	// 補全 MySQL 預設配置 (如果 yaml 沒寫)
	c.MySQL = c.MySQL.WithDefaults()
}

// Validate 檢查設定是否可用
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverMySQL:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Fee.Percent < 0 || c.Fee.Percent > 100 {
		return fmt.Errorf("fee percent must be between 0 and 100, got %d", c.Fee.Percent)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URI == "" {
		return errors.New("rabbitmq uri is required when rabbitmq is enabled")
	}
	return nil
}

// Location 每日額度使用的時區
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Clock.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
