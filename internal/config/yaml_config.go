package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLConfig mirrors config.yaml.
type YAMLConfig struct {
	Server struct {
		WebPort int    `yaml:"web_port"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Security struct {
		JWTSecret string `yaml:"jwt_secret"`
		AppEnv    string `yaml:"app_env"`
	} `yaml:"security"`

	Uploads struct {
		Dir           string `yaml:"dir"`
		CloudinaryURL string `yaml:"cloudinary_url"`
	} `yaml:"uploads"`

	Sync struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"sync"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

// LoadYAMLConfig parses the YAML file at path.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// ToConfig converts the YAML structure into the runtime Config, filling
// gaps with the same defaults the env path uses.
func (y *YAMLConfig) ToConfig() *Config {
	cfg := &Config{
		WebPort:        "8080",
		DatabasePath:   "./mbz.db",
		JWTSecret:      "mbz-secret-change-in-production",
		AppEnv:         "development",
		BaseURL:        "http://localhost:8080",
		UploadDir:      "./uploads",
		SyncTimeout:    120,
		SeedAdminEmail: "admin@localhost",
		SeedAdminPass:  "admin123456",
	}

	if y.Server.WebPort != 0 {
		cfg.WebPort = strconv.Itoa(y.Server.WebPort)
	}
	if y.Server.BaseURL != "" {
		cfg.BaseURL = y.Server.BaseURL
	}
	if y.Database.Path != "" {
		cfg.DatabasePath = y.Database.Path
	}
	if y.Security.JWTSecret != "" {
		cfg.JWTSecret = y.Security.JWTSecret
	}
	if y.Security.AppEnv != "" {
		cfg.AppEnv = y.Security.AppEnv
	}
	if y.Uploads.Dir != "" {
		cfg.UploadDir = y.Uploads.Dir
	}
	cfg.CloudinaryURL = y.Uploads.CloudinaryURL
	if y.Sync.TimeoutSeconds != 0 {
		cfg.SyncTimeout = y.Sync.TimeoutSeconds
	}
	if y.Admin.Email != "" {
		cfg.SeedAdminEmail = y.Admin.Email
	}
	if y.Admin.Password != "" {
		cfg.SeedAdminPass = y.Admin.Password
	}
	return cfg
}
