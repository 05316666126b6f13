// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package config holds the settings of the bencode command line tool
package config

import (
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"go.e43.eu/bencode/internal/coder"
	"go.e43.eu/bencode/internal/log"
)

// DefaultPath is where the tool looks for its configuration file
const DefaultPath = "~/.config/bencode/config.toml"

type Config struct {
	LogLevel        string `mapstructure:"log_level"`
	Strict          bool   `mapstructure:"strict"`
	MaxDepth        int    `mapstructure:"max_depth"`
	MaxStringLength int    `mapstructure:"max_string_length"`
	Compact         bool   `mapstructure:"compact"`
	LooseText       bool   `mapstructure:"loose_text"`
}

var DefaultConfig = Config{
	LogLevel:        log.LevelInfo.String(),
	Strict:          false,
	MaxDepth:        coder.DefaultMaxDepth,
	MaxStringLength: 0,
	Compact:         false,
	LooseText:       false,
}

// CoderOptions returns the decoder options selected by c
func (c *Config) CoderOptions() []coder.Option {
	var opts []coder.Option
	if c.Strict {
		opts = append(opts, coder.Strict())
	}
	if c.MaxDepth > 0 {
		opts = append(opts, coder.MaxDepth(c.MaxDepth))
	}
	if c.MaxStringLength > 0 {
		opts = append(opts, coder.MaxStringLength(c.MaxStringLength))
	}
	return opts
}

func ReadConfig(r io.Reader) (*Config, error) {
	decoder := toml.NewDecoder(r)
	decoder.SetTagName("mapstructure")
	config := &Config{}
	if err := decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}

	// Keys left out of the file keep their defaults
	if config.LogLevel == "" {
		config.LogLevel = DefaultConfig.LogLevel
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = DefaultConfig.MaxDepth
	}
	if _, err := log.NewLevel(config.LogLevel); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	if config.MaxDepth < 0 || config.MaxStringLength < 0 {
		return nil, errors.New("error decoding config file: limits must not be negative")
	}
	return config, nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults
func Load(path string) (*Config, error) {
	f, err := os.Open(ExpandHomePath(path))
	if os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error opening config file for reading")
	}
	defer f.Close()

	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	return cfg, nil
}

func ExpandHomePath(path string) string {
	res, err := homedir.Expand(path)
	if err != nil {
		panic(err)
	}
	return res
}
