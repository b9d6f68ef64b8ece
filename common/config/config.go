// Package config reads the optional YAML endpoint file: a prioritized list
// of database URIs plus namespace defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EndpointFile is the on-disk shape of --uriFile.
type EndpointFile struct {
	URIs       []string `yaml:"uris"`
	DB         string   `yaml:"db"`
	Collection string   `yaml:"collection"`
}

// LoadEndpointFile parses path. A missing or malformed file is a startup
// configuration error; there is no fallback.
func LoadEndpointFile(path string) (EndpointFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return EndpointFile{}, fmt.Errorf("cannot read endpoint file: %v", err)
	}
	var parsed EndpointFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return EndpointFile{}, fmt.Errorf("malformed endpoint file %v: %v", path, err)
	}
	return parsed, nil
}
