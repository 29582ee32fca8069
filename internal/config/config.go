package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Controller ControllerConfig `mapstructure:"controller"`
	Library    LibraryConfig    `mapstructure:"robot_presets"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// Auth Configuration
type AuthConfig struct {
	JWTSecretEnv           string        `mapstructure:"jwt_secret_env"`
	AccessTokenTTL         time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL        time.Duration `mapstructure:"refresh_token_ttl"`
	MaxFailedLoginAttempts int           `mapstructure:"max_failed_login_attempts"`
	AccountLockDuration    time.Duration `mapstructure:"account_lock_duration"`
}

// ControllerConfig covers the TCP link to the physical robot controller.
type ControllerConfig struct {
	Address             string        `mapstructure:"address"`
	UnitID              uint8         `mapstructure:"unit_id"`
	DefaultTimeout      time.Duration `mapstructure:"default_timeout"`
	DefaultPollInterval time.Duration `mapstructure:"default_poll_interval"`
}

type LibraryConfig struct {
	SearchPaths []string `mapstructure:"search_paths"`
}

// SimulationConfig tunes the program simulator.
type SimulationConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	StepTimeout   time.Duration `mapstructure:"step_timeout"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("controller.address", "127.0.0.1:5020")
	viper.SetDefault("controller.unit_id", 0)
	viper.SetDefault("controller.default_timeout", "1s")
	viper.SetDefault("controller.default_poll_interval", "100ms")
	viper.SetDefault("simulation.frame_interval", "50ms")
	viper.SetDefault("simulation.step_timeout", "30s")

	// Auth defaults
	viper.SetDefault("auth.jwt_secret_env", "JWT_SECRET")
	viper.SetDefault("auth.access_token_ttl", "60m")
	viper.SetDefault("auth.refresh_token_ttl", "168h")
	viper.SetDefault("auth.max_failed_login_attempts", 5)
	viper.SetDefault("auth.account_lock_duration", "15m")

	// Bind environment variables automatically
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ORC") // Environment variables with prefix ORC_

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// JWT secret comes from an environment variable, never from the file.
func (a *AuthConfig) GetJWTSecret() string {
	envVar := a.JWTSecretEnv
	if envVar == "" {
		envVar = "JWT_SECRET" // Fallback
	}

	secret := os.Getenv(envVar)
	if secret == "" {
		// Development fallback (logged as a warning at startup)
		return "dev-secret-change-in-production-min-32-chars"
	}
	return secret
}

func (a *AuthConfig) IsProductionReady() bool {
	secret := a.GetJWTSecret()
	return secret != "dev-secret-change-in-production-min-32-chars" && len(secret) >= 32
}
