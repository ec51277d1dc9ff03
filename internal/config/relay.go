package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RelayConfig tunes the signal relay drain loop. It is reloadable at
// runtime so operators can slow the drain down without a restart.
type RelayConfig struct {
	QoS          int           `mapstructure:"qos"`
	BatchSize    int           `mapstructure:"batchSize"`
	PollInterval time.Duration `mapstructure:"pollInterval"`
	PublishWait  time.Duration `mapstructure:"publishWait"`
	MaxAttempts  int           `mapstructure:"maxAttempts"`
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		QoS:          1,
		BatchSize:    25,
		PollInterval: 2 * time.Second,
		PublishWait:  5 * time.Second,
		MaxAttempts:  5,
	}
}

type RelayConfigHolder struct {
	current atomic.Value // holds RelayConfig
}

func NewRelayConfigHolder() (*RelayConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("relay")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/fieldbill/config")
	v.AddConfigPath("/etc/fieldbill")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FIELDBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRelayConfig()
	v.SetDefault("relay.qos", defaults.QoS)
	v.SetDefault("relay.batchSize", defaults.BatchSize)
	v.SetDefault("relay.pollInterval", defaults.PollInterval)
	v.SetDefault("relay.publishWait", defaults.PublishWait)
	v.SetDefault("relay.maxAttempts", defaults.MaxAttempts)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg RelayConfig
	if err := v.UnmarshalKey("relay", &cfg); err != nil {
		return nil, err
	}
	if err := validateRelayConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RelayConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RelayConfig
		if err := v.UnmarshalKey("relay", &updated); err != nil {
			log.Printf("[relay-config] reload failed: %v", err)
			return
		}
		if err := validateRelayConfig(updated); err != nil {
			log.Printf("[relay-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[relay-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRelayHolder wraps a fixed config with no file watching.
func NewStaticRelayHolder(cfg RelayConfig) *RelayConfigHolder {
	holder := &RelayConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *RelayConfigHolder) Get() RelayConfig {
	return h.current.Load().(RelayConfig)
}

func validateRelayConfig(cfg RelayConfig) error {
	if cfg.QoS < 0 || cfg.QoS > 2 {
		return errors.New("relay.qos must be 0, 1 or 2")
	}
	if cfg.BatchSize <= 0 {
		return errors.New("relay.batchSize must be positive")
	}
	if cfg.PollInterval <= 0 {
		return errors.New("relay.pollInterval must be positive")
	}
	if cfg.PublishWait <= 0 {
		return errors.New("relay.publishWait must be positive")
	}
	if cfg.MaxAttempts <= 0 {
		return errors.New("relay.maxAttempts must be positive")
	}
	return nil
}
