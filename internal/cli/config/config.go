// Package config loads CLI configuration by layering, lowest precedence
// first: built-in defaults, a lightdash.yaml file in the working directory,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the resolved CLI configuration.
type Config struct {
	// URL is the Lightdash instance base URL.
	URL string `koanf:"url"`

	// Token is a Lightdash personal access token.
	Token string `koanf:"token"`

	// ProjectUUID pins the project; when empty the first project listed
	// by the instance is used.
	ProjectUUID string `koanf:"project_uuid"`

	// Cloudflare Access service-token credentials, for instances behind
	// Cloudflare Access.
	CFAccessClientID     string `koanf:"cf_access_client_id"`
	CFAccessClientSecret string `koanf:"cf_access_client_secret"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// envKeys maps recognized environment variables to config keys. CF_ACCESS_*
// are intentionally unprefixed; they match Cloudflare's own naming.
var envKeys = map[string]string{
	"LIGHTDASH_URL":           "url",
	"LIGHTDASH_TOKEN":         "token",
	"LIGHTDASH_PROJECT_UUID":  "project_uuid",
	"CF_ACCESS_CLIENT_ID":     "cf_access_client_id",
	"CF_ACCESS_CLIENT_SECRET": "cf_access_client_secret",
}

// findConfigFile returns the config file to use: an explicit path wins,
// otherwise lightdash.yaml then lightdash.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"lightdash.yaml", "lightdash.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration. configFile may be empty; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"url":          "",
		"token":        "",
		"project_uuid": "",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(configFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Variables set but empty are treated as unset so they never clobber
	// file-level values.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envKeys[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		// Flag names follow CLI convention (--project); map them onto
		// the underscore config keys.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			if key == "project" {
				return "project_uuid", value
			}
			return key, value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("lightdash URL is required (set LIGHTDASH_URL, the url key in lightdash.yaml, or --url)")
	}
	return &cfg, nil
}
