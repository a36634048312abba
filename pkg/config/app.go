package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AppConfig is the full typed configuration for a process.
type AppConfig struct {
	DB      DBConfig      `yaml:"db"`
	MQ      MQConfig      `yaml:"mq"`
	Redis   RedisConfig   `yaml:"redis"`
	JWT     JWTConfig     `yaml:"jwt"`
	Server  ServerConfig  `yaml:"server"`
	Planner PlannerConfig `yaml:"planner"`
	Runner  RunnerConfig  `yaml:"runner"`
}

// Load reads the layered YAML config for the current CONFIG_ENV and applies
// environment variable overrides on top.
func Load(configDir string) (*AppConfig, error) {
	merged, err := LoadConfig(GetConfigEnv(), configDir)
	if err != nil {
		return nil, err
	}

	raw, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode merged config: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	OverrideDBFromEnv(&cfg.DB)
	OverrideMQFromEnv(&cfg.MQ)
	OverrideRedisFromEnv(&cfg.Redis)
	OverrideJWTFromEnv(&cfg.JWT)
	OverrideServerFromEnv(&cfg.Server)
	OverridePlannerFromEnv(&cfg.Planner)

	return &cfg, nil
}
