// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package billing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a billing policy file in YAML form. An empty path returns
// the default policy; a missing or malformed file is an error so a typo in
// the deployment never silently re-rates the practice.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read billing policy file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse billing policy file %s: %w", path, err)
	}

	return config, nil
}
