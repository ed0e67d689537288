package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode                string        `mapstructure:"mode"`
	Port                int           `mapstructure:"port"`
	StaticPath          string        `mapstructure:"static_path"`
	ReadLimit           int64         `mapstructure:"read_limit"`
	PingPeriod          time.Duration `mapstructure:"ping_period"`
	SendBuffer          int           `mapstructure:"send_buffer"`
	Secret              string        `mapstructure:"secret"`
	JoinRequestLimit    int           `mapstructure:"join_request_limit"`
	JoinRequestInterval time.Duration `mapstructure:"join_request_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("join_request_limit", 5)
	v.SetDefault("join_request_interval", "10s")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
