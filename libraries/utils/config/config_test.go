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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavesurvey/tmlu/libraries/cavefile"
	"github.com/cavesurvey/tmlu/libraries/utils/filesys"
)

const yamlConfig = `
table: stations
layout: compact
log_level: debug
json_indent: "    "
`

const tomlConfig = `
sheet = "Survey"
sql_driver = "postgres"
`

func TestFromFile(t *testing.T) {
	fs := filesys.NewInMemFS(nil, map[string][]byte{
		"/cfg/tmlu.yaml": []byte(yamlConfig),
		"/cfg/tmlu.toml": []byte(tomlConfig),
	}, "/")

	cfg, err := FromFile(fs, "/cfg/tmlu.yaml")
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Table:      "stations",
		Sheet:      "survey_data",
		Layout:     cavefile.CompactLayout,
		JSONIndent: "    ",
		LogLevel:   logrus.DebugLevel,
		SQLDriver:  "sqlite",
	}, cfg)

	cfg, err = FromFile(fs, "/cfg/tmlu.toml")
	require.NoError(t, err)
	assert.Equal(t, "Survey", cfg.Sheet)
	assert.Equal(t, "postgres", cfg.SQLDriver)
	assert.Equal(t, cavefile.LineLayout, cfg.Layout)

	_, err = FromFile(fs, "/cfg/missing.yaml")
	assert.Error(t, err)
}

func TestInvalidConfigs(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
	}{
		{"unknown yaml key", "c.yaml", "tabel: x\n"},
		{"unknown toml key", "c.toml", "tabel = \"x\"\n"},
		{"bad layout", "c.yaml", "layout: pretty\n"},
		{"bad log level", "c.yml", "log_level: loud\n"},
		{"bad driver", "c.toml", "sql_driver = \"oracle\"\n"},
		{"empty table", "c.yaml", "table: \"\"\n"},
		{"bad yaml", "c.yaml", "table: [\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fs := filesys.NewInMemFS(nil, map[string][]byte{test.path: []byte(test.data)}, "/")
			_, err := FromFile(fs, test.path)
			assert.Error(t, err)
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	assert.Equal(t, "{}\n", Default().YAML())

	cfg := Default()
	cfg.Table = "legs"
	cfg.Layout = cavefile.CompactLayout

	fc, err := NewYamlConfig([]byte(cfg.YAML()))
	require.NoError(t, err)

	resolved, err := fc.Resolve(Default())
	require.NoError(t, err)
	assert.Equal(t, cfg, resolved)
}
