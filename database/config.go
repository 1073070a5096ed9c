/*
 * Copyright 2026 matejhozlar.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file into a Config. Unset pool and
// timeout values fall back to DefaultConnectionConfig; environment overrides
// are applied later by the factory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConnectionConfig()
	conn := &c.Connection
	if conn.MaxIdleConns == 0 {
		conn.MaxIdleConns = defaults.MaxIdleConns
	}
	if conn.MaxOpenConns == 0 {
		conn.MaxOpenConns = defaults.MaxOpenConns
	}
	if conn.ConnMaxLifetime == 0 {
		conn.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	if conn.ConnMaxIdleTime == 0 {
		conn.ConnMaxIdleTime = defaults.ConnMaxIdleTime
	}
	if conn.ConnectTimeout == 0 {
		conn.ConnectTimeout = defaults.ConnectTimeout
	}
	if conn.ReadTimeout == 0 {
		conn.ReadTimeout = defaults.ReadTimeout
	}
	if conn.WriteTimeout == 0 {
		conn.WriteTimeout = defaults.WriteTimeout
	}
	if conn.ReconnectInterval == 0 {
		conn.ReconnectInterval = defaults.ReconnectInterval
	}
	if conn.MaxReconnectTries == 0 {
		conn.MaxReconnectTries = defaults.MaxReconnectTries
	}
	if conn.SlowQueryTime == 0 {
		conn.SlowQueryTime = defaults.SlowQueryTime
	}
}
