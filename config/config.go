package config

import (
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"` // in minutes
}

type AuthConfig struct {
	JWTSecret            string `yaml:"jwtSecret"`
	AccessTTLSeconds     int    `yaml:"accessTtlSeconds"`
	RefreshTTLSeconds    int    `yaml:"refreshTtlSeconds"`
	BcryptCost           int    `yaml:"bcryptCost"`
	PasswordMinLength    int    `yaml:"passwordMinLength"`
	TokenSweepGraceHours int    `yaml:"tokenSweepGraceHours"`
}

type StorageConfig struct {
	Endpoint          string `yaml:"endpoint"`
	AccessKey         string `yaml:"accessKey"`
	SecretKey         string `yaml:"secretKey"`
	Bucket            string `yaml:"bucket"`
	Region            string `yaml:"region"`
	UseSSL            bool   `yaml:"useSsl"`
	PresignTTLSeconds int    `yaml:"presignTtlSeconds"`
	TimeoutSeconds    int    `yaml:"timeoutSeconds"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"outputPath"`
}

var (
	config *Config
	once   sync.Once
)

// Load reads the configuration file and returns a Config struct
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		config = &Config{}

		// Read the config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			panic(err)
		}

		// Unmarshal the YAML into the config struct
		err = yaml.Unmarshal(data, config)
		if err != nil {
			panic(err)
		}

		config.applyDefaults()

		// Override with environment variables if they exist
		if envPort := os.Getenv("SERVER_PORT"); envPort != "" {
			config.Server.Port = envPort
		}
		if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
			config.Database.Host = dbHost
		}
		if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
			config.Database.Port = dbPort
		}
		if dbUser := os.Getenv("DB_USER"); dbUser != "" {
			config.Database.User = dbUser
		}
		if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
			config.Database.Password = dbPass
		}
		if dbName := os.Getenv("DB_NAME"); dbName != "" {
			config.Database.DBName = dbName
		}
		if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
			config.Auth.JWTSecret = jwtSecret
		}
		if accessTTL := os.Getenv("ACCESS_TOKEN_EXPIRE_SECONDS"); accessTTL != "" {
			if v, err := strconv.Atoi(accessTTL); err == nil {
				config.Auth.AccessTTLSeconds = v
			}
		}
		if refreshTTL := os.Getenv("REFRESH_TOKEN_EXPIRE_SECONDS"); refreshTTL != "" {
			if v, err := strconv.Atoi(refreshTTL); err == nil {
				config.Auth.RefreshTTLSeconds = v
			}
		}
		if endpoint := os.Getenv("STORAGE_ENDPOINT"); endpoint != "" {
			config.Storage.Endpoint = endpoint
		}
		if accessKey := os.Getenv("STORAGE_ACCESS_KEY"); accessKey != "" {
			config.Storage.AccessKey = accessKey
		}
		if secretKey := os.Getenv("STORAGE_SECRET_KEY"); secretKey != "" {
			config.Storage.SecretKey = secretKey
		}
		if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
			config.Storage.Bucket = bucket
		}
		if region := os.Getenv("STORAGE_REGION"); region != "" {
			config.Storage.Region = region
		}
	})

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Auth.AccessTTLSeconds == 0 {
		c.Auth.AccessTTLSeconds = 900
	}
	if c.Auth.RefreshTTLSeconds == 0 {
		c.Auth.RefreshTTLSeconds = 2592000
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Auth.PasswordMinLength == 0 {
		c.Auth.PasswordMinLength = 8
	}
	if c.Auth.TokenSweepGraceHours == 0 {
		c.Auth.TokenSweepGraceHours = 720
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "uploads"
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Storage.PresignTTLSeconds == 0 {
		c.Storage.PresignTTLSeconds = 3600
	}
	if c.Storage.TimeoutSeconds == 0 {
		c.Storage.TimeoutSeconds = 30
	}
}

// Get returns the loaded configuration
func Get() *Config {
	if config == nil {
		panic("Config not loaded")
	}
	return config
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return "postgresql://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}
