package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults is the on-disk shape of checked-in ConfigSnapshot default
// overrides, for operators who prefer a YAML file to environment
// variables.
type Defaults struct {
	Agent                 string `yaml:"agent"`
	TLSInsecureSkipVerify bool   `yaml:"tls_insecure_skip_verify"`
	MaxMessageSize        uint32 `yaml:"max_msg_size"`
}

// LoadDefaultsYAML reads and parses a Defaults document from path.
func LoadDefaultsYAML(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("config: reading defaults file: %w", err)
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("config: parsing defaults file %s: %w", path, err)
	}
	return d, nil
}
