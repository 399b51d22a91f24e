// Package config loads participant settings from an optional YAML file and
// SCHAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/TheusHen/schan/schan/channel"
	"github.com/TheusHen/schan/schan/crypto/digest"
	"github.com/TheusHen/schan/schan/crypto/keystream"
)

// EnvPrefix prefixes every environment override, e.g. SCHAN_PRIVATE_BITS.
const EnvPrefix = "SCHAN"

var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the tunables of one participant.
type Config struct {
	PrivateBits int    `mapstructure:"private_bits" validate:"min=16,max=4096"` // max is channel.MaxPrivateBits
	Hash        string `mapstructure:"hash" validate:"oneof=sha512 sha3-512 blake2b-512"`
	Nonce       string `mapstructure:"nonce" validate:"oneof=time counter"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=trace debug info warn error fatal panic disabled"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		PrivateBits: channel.DefaultPrivateBits,
		Hash:        digest.Default.String(),
		Nonce:       "time",
		LogLevel:    "info",
	}
}

var validate = validator.New()

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("private_bits", d.PrivateBits)
	v.SetDefault("hash", d.Hash)
	v.SetDefault("nonce", d.Nonce)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ChannelOptions translates c into communicator options.
func (c Config) ChannelOptions() ([]channel.Option, error) {
	alg, err := digest.Parse(c.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts := []channel.Option{
		channel.WithPrivateBits(c.PrivateBits),
		channel.WithDigest(alg),
	}
	switch c.Nonce {
	case "time":
		opts = append(opts, channel.WithNonceSource(keystream.TimeNonce{}))
	case "counter":
		src, err := keystream.NewCounterNonce()
		if err != nil {
			return nil, err
		}
		opts = append(opts, channel.WithNonceSource(src))
	default:
		return nil, fmt.Errorf("%w: nonce %q", ErrInvalid, c.Nonce)
	}
	return opts, nil
}
