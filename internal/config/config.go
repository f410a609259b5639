package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// AuthInfo holds the credentials of a single cloud entry.
type AuthInfo struct {
	AuthURL           string `mapstructure:"auth_url" yaml:"auth_url"`
	Username          string `mapstructure:"username" yaml:"username"`
	UserID            string `mapstructure:"user_id" yaml:"user_id"`
	Password          string `mapstructure:"password" yaml:"password"`
	ProjectName       string `mapstructure:"project_name" yaml:"project_name"`
	ProjectID         string `mapstructure:"project_id" yaml:"project_id"`
	UserDomainName    string `mapstructure:"user_domain_name" yaml:"user_domain_name"`
	ProjectDomainName string `mapstructure:"project_domain_name" yaml:"project_domain_name"`
	DomainName        string `mapstructure:"domain_name" yaml:"domain_name"`
}

// Cloud is one named entry in a clouds.yaml file.
type Cloud struct {
	Auth       AuthInfo `mapstructure:"auth" yaml:"auth"`
	RegionName string   `mapstructure:"region_name" yaml:"region_name"`
}

// Clouds is the parsed content of a clouds.yaml file.
type Clouds struct {
	Clouds map[string]Cloud `mapstructure:"clouds" yaml:"clouds"`
}

// LoadFile reads and parses a clouds.yaml file.
func LoadFile(path string) (*Clouds, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clouds file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var clouds Clouds
	if err := mapstructure.Decode(raw, &clouds); err != nil {
		return nil, fmt.Errorf("failed to decode clouds file: %w", err)
	}

	return &clouds, nil
}

// SearchPaths returns the candidate clouds.yaml locations in lookup order,
// following the standard OpenStack client convention.
func SearchPaths() []string {
	paths := []string{"clouds.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "openstack", "clouds.yaml"))
	}
	paths = append(paths, filepath.Join("/etc", "openstack", "clouds.yaml"))
	return paths
}

// LookupCloud finds the named cloud entry in the first clouds.yaml that
// defines it. An empty name falls back to the OS_CLOUD environment variable.
func LookupCloud(name string) (*Cloud, error) {
	if name == "" {
		name = os.Getenv("OS_CLOUD")
	}
	if name == "" {
		return nil, fmt.Errorf("no cloud selected: set --cloud or OS_CLOUD")
	}

	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		clouds, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if cloud, ok := clouds.Clouds[name]; ok {
			if err := cloud.Validate(); err != nil {
				return nil, fmt.Errorf("cloud %q in %s: %w", name, path, err)
			}
			return &cloud, nil
		}
	}

	return nil, fmt.Errorf("cloud %q not found in any clouds.yaml", name)
}

// Validate checks that the entry carries enough information to authenticate.
func (c *Cloud) Validate() error {
	if c.Auth.AuthURL == "" {
		return fmt.Errorf("auth.auth_url is required")
	}
	if c.Auth.Username == "" && c.Auth.UserID == "" {
		return fmt.Errorf("auth.username or auth.user_id is required")
	}
	return nil
}
