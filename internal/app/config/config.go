// Package config loads the settings for the certificate setup from defaults and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/mcp-sharepoint/cert-setup/internal/app/domain"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of the environment variables read by Load
const EnvPrefix = "SHP_SETUP_"

const (
	DefaultTool            = "openssl"
	DefaultOutputDirectory = "certs"
	DefaultValidityDays    = 365
	DefaultCommonName      = "mcp-sharepoint"
	DefaultOrganization    = "MCP SharePoint Server"
	DefaultKeyFile         = "sharepoint.key"
	DefaultCertificateFile = "sharepoint.crt"
	DefaultCombinedFile    = "sharepoint.pem"
	DefaultLogLevel        = "warn"
)

// Config contains everything the provisioner needs to know about a run
type Config struct {
	// Tool is the name or path of the openssl binary
	Tool            string           `koanf:"tool"`
	OutputDirectory string           `koanf:"output_dir"`
	ValidityDays    int              `koanf:"validity_days"`
	Subject         domain.Subject   `koanf:"subject"`
	Files           domain.FileNames `koanf:"files"`
	LogLevel        string           `koanf:"log_level"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Tool:            DefaultTool,
		OutputDirectory: DefaultOutputDirectory,
		ValidityDays:    DefaultValidityDays,
		Subject: domain.Subject{
			CommonName:   DefaultCommonName,
			Organization: DefaultOrganization,
		},
		Files: domain.FileNames{
			Key:         DefaultKeyFile,
			Certificate: DefaultCertificateFile,
			Combined:    DefaultCombinedFile,
		},
		LogLevel: DefaultLogLevel,
	}
}

func defaultValues() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"tool":                 d.Tool,
		"output_dir":           d.OutputDirectory,
		"validity_days":        d.ValidityDays,
		"subject.common_name":  d.Subject.CommonName,
		"subject.organization": d.Subject.Organization,
		"files.key":            d.Files.Key,
		"files.certificate":    d.Files.Certificate,
		"files.combined":       d.Files.Combined,
		"log_level":            d.LogLevel,
	}
}

// envKey maps SHP_SETUP_SUBJECT__COMMON_NAME to subject.common_name. A double underscore separates nesting levels.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load builds the configuration from the defaults overlaid with SHP_SETUP_* environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: failed loading defaults: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: failed loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values that cannot produce a usable certificate
func (c *Config) Validate() error {
	if c.Tool == "" {
		return errors.New("config: tool cannot be empty")
	}
	if c.OutputDirectory == "" {
		return errors.New("config: output_dir cannot be empty")
	}
	if c.ValidityDays <= 0 {
		return fmt.Errorf("config: validity_days must be positive, got %d", c.ValidityDays)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level: %w", err)
	}
	if c.Subject.CommonName == "" {
		return errors.New("config: subject.common_name cannot be empty")
	}

	names := map[string]string{
		"files.key":         c.Files.Key,
		"files.certificate": c.Files.Certificate,
		"files.combined":    c.Files.Combined,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if name == "" {
			return fmt.Errorf("config: %s cannot be empty", key)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("config: %s must be a file name, got %q", key, name)
		}
		if other, ok := seen[name]; ok {
			return fmt.Errorf("config: %s and %s both use %q", other, key, name)
		}
		seen[name] = key
	}

	return nil
}

// Request returns the generation request described by the configuration
func (c *Config) Request() domain.GenerationRequest {
	return domain.GenerationRequest{
		OutputDirectory: c.OutputDirectory,
		ValidityDays:    c.ValidityDays,
	}
}
