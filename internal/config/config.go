package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Inventory InventoryConfig `mapstructure:"inventory"`
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassword string `mapstructure:"admin_password"`
}

type InventoryConfig struct {
	PageSize      int `mapstructure:"page_size"`
	MaxImageBytes int `mapstructure:"max_image_bytes"`
}

// Load reads configs/config.yaml if present and lets environment variables
// override individual keys.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("inventory.page_size", 8)
	v.SetDefault("inventory.max_image_bytes", 300<<10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: environment variables alone carry the settings.
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")

	v.BindEnv("database.url", "DATABASE_URL")

	v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("minio.bucket", "MINIO_BUCKET")
	v.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	v.BindEnv("minio.public_base_url", "MINIO_PUBLIC_BASE_URL")

	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.admin_user", "ADMIN_USER")
	v.BindEnv("auth.admin_password", "ADMIN_PASSWORD")

	v.BindEnv("inventory.page_size", "INVENTORY_PAGE_SIZE")
	v.BindEnv("inventory.max_image_bytes", "INVENTORY_MAX_IMAGE_BYTES")
}
