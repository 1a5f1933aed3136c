package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// StorageConfig selects where attachment blobs are written.
type StorageConfig struct {
	Driver string      `yaml:"driver"` // local, minio
	Local  LocalConfig `yaml:"local"`
	MinIO  MinIOConfig `yaml:"minio"`
}

type LocalConfig struct {
	Dir string `yaml:"dir"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "collabhub.db",
		},
		JWT: JWTConfig{
			Secret:     "collabhub-secret-key-change-in-production",
			ExpireHour: 24,
		},
		Storage: StorageConfig{
			Driver: "local",
			Local: LocalConfig{
				Dir: "uploads",
			},
			MinIO: MinIOConfig{
				Bucket: "collabhub-attachments",
			},
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		c.Storage.Local.Dir = dir
	}
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		c.Storage.MinIO.Endpoint = endpoint
	}
	if key := os.Getenv("MINIO_ACCESS_KEY"); key != "" {
		c.Storage.MinIO.AccessKey = key
	}
	if key := os.Getenv("MINIO_SECRET_KEY"); key != "" {
		c.Storage.MinIO.SecretKey = key
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		c.Storage.MinIO.Bucket = bucket
	}
}
