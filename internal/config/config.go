package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// VenueConfig describes one swap venue and its contract entry points.
type VenueConfig struct {
	ID       string   `mapstructure:"id"`
	Protocol string   `mapstructure:"protocol"`
	Factory  string   `mapstructure:"factory"`
	Quoter   string   `mapstructure:"quoter"`
	Router   string   `mapstructure:"router"`
	FeeTiers []uint32 `mapstructure:"fee-tiers"`
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL        string
	ChainID       uint64
	WrappedNative map[uint64]string
	Staker        string
	Venues        []VenueConfig
	QueryTimeout  time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	PostgresDSN   string
	QuoteLog      string
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("query-timeout", 5*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 200*time.Millisecond)
	v.SetDefault("quote-log", "./data/quotes.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var venues []VenueConfig
	if v.IsSet("venues") {
		if err := v.UnmarshalKey("venues", &venues); err != nil {
			return Config{}, fmt.Errorf("parse venues: %w", err)
		}
	}

	wrapped, err := wrappedNativeMap(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:        v.GetString("rpc"),
		ChainID:       v.GetUint64("chain-id"),
		WrappedNative: wrapped,
		Staker:        v.GetString("staker"),
		Venues:        venues,
		QueryTimeout:  v.GetDuration("query-timeout"),
		MaxRetries:    v.GetInt("max-retries"),
		RetryBackoff:  v.GetDuration("retry-backoff"),
		PostgresDSN:   v.GetString("postgres-dsn"),
		QuoteLog:      v.GetString("quote-log"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// wrappedNativeMap reads the wrapped-native table keyed by decimal chain ID.
func wrappedNativeMap(v *viper.Viper) (map[uint64]string, error) {
	if !v.IsSet("wrapped-native") {
		return nil, nil
	}

	raw := v.GetStringMapString("wrapped-native")
	out := make(map[uint64]string, len(raw))
	for key, address := range raw {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("wrapped-native key %q: %w", key, err)
		}
		out[chainID] = strings.TrimSpace(address)
	}
	return out, nil
}
