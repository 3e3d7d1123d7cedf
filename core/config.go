package core

import (
	"os"
	"runtime"

	"github.com/vuuvv/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHistory = 10
	MaxWorkers     = 256
)

// Options controls a single frame decode.
type Options struct {
	CheckChecksum bool
}

func DefaultOptions() Options {
	return Options{CheckChecksum: true}
}

type Config struct {
	CheckChecksum *bool  `yaml:"check_checksum"` // 默认校验
	Workers       int    `yaml:"workers"`        // 0: runtime.NumCPU()
	History       int    `yaml:"history"`        // 保留最近的解码结果数量
	Filter        string `yaml:"filter"`         // CEL 表达式, 变量为 frame
}

func DefaultConfig() *Config {
	cfg := &Config{}
	_ = cfg.Setup()
	return cfg
}

func NewConfigFromBytes(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config: %s", err.Error())
	}
	if err := cfg.Setup(); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}

func NewConfigFromFile(configFile string) (*Config, error) {
	f, err := os.Open(configFile)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		_ = f.Close()
	}()
	cfg := &Config{}
	err = yaml.NewDecoder(f).Decode(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s: %s", configFile, err.Error())
	}
	if err = cfg.Setup(); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}

// Setup fills defaults and validates the config.
func (c *Config) Setup() error {
	if c.CheckChecksum == nil {
		enabled := true
		c.CheckChecksum = &enabled
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return errors.Errorf("workers should be in 0~%d, got %d", MaxWorkers, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.History < 0 {
		return errors.Errorf("history should not be negative, got %d", c.History)
	}
	if c.History == 0 {
		c.History = DefaultHistory
	}
	return nil
}

func (c *Config) Options() Options {
	return Options{CheckChecksum: c.CheckChecksum == nil || *c.CheckChecksum}
}
