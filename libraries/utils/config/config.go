// Copyright 2019 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/table"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

const (
	DefaultLogLevel   = "warn"
	DefaultSQLDriver  = "sqlite"
	DefaultJSONIndent = "  "
)

var sqlDrivers = map[string]bool{"sqlite": true, "mysql": true, "postgres": true}

func nillableStrPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// FileConfig is the contents of a config file. Keys that are not present are nil.
type FileConfig struct {
	Table      *string `yaml:"table,omitempty" toml:"table"`
	Sheet      *string `yaml:"sheet,omitempty" toml:"sheet"`
	Layout     *string `yaml:"layout,omitempty" toml:"layout"`
	JSONIndent *string `yaml:"json_indent,omitempty" toml:"json_indent"`
	LogLevel   *string `yaml:"log_level,omitempty" toml:"log_level"`
	SQLDriver  *string `yaml:"sql_driver,omitempty" toml:"sql_driver"`
}

// Config holds resolved settings.
type Config struct {
	Table      string
	Sheet      string
	Layout     cavefile.Layout
	JSONIndent string
	LogLevel   logrus.Level
	SQLDriver  string
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Table:      table.DefaultTableName,
		Sheet:      table.DefaultTableName,
		Layout:     cavefile.LineLayout,
		JSONIndent: DefaultJSONIndent,
		LogLevel:   logrus.WarnLevel,
		SQLDriver:  DefaultSQLDriver,
	}
}

// NewYamlConfig parses YAML config data. Unknown keys are an error.
func NewYamlConfig(data []byte) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return nil, err
	}

	return &fc, nil
}

// NewTomlConfig parses TOML config data. Unknown keys are an error.
func NewTomlConfig(data []byte) (*FileConfig, error) {
	var fc FileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)

		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	return &fc, nil
}

// FromFile reads a config file and resolves it over the defaults. Files ending in .toml are TOML, anything else
// is YAML.
func FromFile(fs filesys.ReadableFS, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", path)
	}

	var fc *FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		fc, err = NewTomlConfig(data)
	} else {
		fc, err = NewYamlConfig(data)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file '%s'", path)
	}

	cfg, err := fc.Resolve(Default())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file '%s'", path)
	}

	logrus.Debugf("loaded config from %s", path)

	return cfg, nil
}

// Resolve applies the keys that are present in fc over base, validating them.
func (fc *FileConfig) Resolve(base *Config) (*Config, error) {
	cfg := *base

	if fc.Table != nil {
		if *fc.Table == "" {
			return nil, errors.New("table must not be empty")
		}
		cfg.Table = *fc.Table
	}

	if fc.Sheet != nil {
		if *fc.Sheet == "" {
			return nil, errors.New("sheet must not be empty")
		}
		cfg.Sheet = *fc.Sheet
	}

	if fc.Layout != nil {
		layout, err := cavefile.ParseLayout(*fc.Layout)
		if err != nil {
			return nil, err
		}
		cfg.Layout = layout
	}

	if fc.JSONIndent != nil {
		cfg.JSONIndent = *fc.JSONIndent
	}

	if fc.LogLevel != nil {
		lvl, err := logrus.ParseLevel(*fc.LogLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = lvl
	}

	if fc.SQLDriver != nil {
		if !sqlDrivers[*fc.SQLDriver] {
			return nil, fmt.Errorf("unsupported sql_driver '%s'", *fc.SQLDriver)
		}
		cfg.SQLDriver = *fc.SQLDriver
	}

	return &cfg, nil
}

// AsFileConfig returns the file form of cfg, leaving out keys that hold their default value.
func AsFileConfig(cfg *Config) *FileConfig {
	def := Default()
	fc := &FileConfig{}

	if cfg.Table != def.Table {
		fc.Table = nillableStrPtr(cfg.Table)
	}

	if cfg.Sheet != def.Sheet {
		fc.Sheet = nillableStrPtr(cfg.Sheet)
	}

	if cfg.Layout != def.Layout {
		fc.Layout = nillableStrPtr(cfg.Layout.String())
	}

	if cfg.JSONIndent != def.JSONIndent {
		indent := cfg.JSONIndent
		fc.JSONIndent = &indent
	}

	if cfg.LogLevel != def.LogLevel {
		fc.LogLevel = nillableStrPtr(cfg.LogLevel.String())
	}

	if cfg.SQLDriver != def.SQLDriver {
		fc.SQLDriver = nillableStrPtr(cfg.SQLDriver)
	}

	return fc
}

// YAML returns the YAML form of cfg.
func (cfg *Config) YAML() string {
	data, err := yaml.Marshal(AsFileConfig(cfg))
	if err != nil {
		panic(err)
	}

	return string(data)
}
