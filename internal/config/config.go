// Package config provides framesync's configuration types. It is
// decoupled from CLI concerns so embedding tools can load the same
// configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/framesync/pkg/adapter"
	"github.com/leapstack-labs/framesync/pkg/dialect"
	"github.com/leapstack-labs/framesync/pkg/infer"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Additional driver-specific options (e.g. sslmode).
	Options map[string]string `koanf:"options"`
}

// WriteConfig holds batch-write defaults.
type WriteConfig struct {
	Autoadjust       bool `koanf:"autoadjust"`
	IncludeMetadata  bool `koanf:"include_metadata"`
	DecimalPrecision int  `koanf:"decimal_precision"`
	DecimalScale     int  `koanf:"decimal_scale"`
	MaxVarCharLength int  `koanf:"max_varchar_length"`
}

// Config is the root configuration.
type Config struct {
	Target  TargetConfig `koanf:"target"`
	Write   WriteConfig  `koanf:"write"`
	Verbose bool         `koanf:"verbose"`
}

// DefaultSchemaForType returns the default schema for a database type,
// looked up from the dialect registry.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "public"
}

// ApplyTargetDefaults fills type-dependent defaults on a TargetConfig.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// Validate checks the target configuration against the adapter registry.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if _, ok := adapter.Get(strings.ToLower(t.Type)); !ok {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.List()}
	}
	return nil
}

// ToAdapterConfig converts the target settings to an adapter.Config.
func (t *TargetConfig) ToAdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}

// InferOptions converts the write settings to inference options, falling
// back to the package defaults for unset values.
func (w *WriteConfig) InferOptions() infer.Options {
	opts := infer.DefaultOptions()
	if w.DecimalPrecision > 0 {
		opts.DecimalPrecision = w.DecimalPrecision
	}
	if w.DecimalScale > 0 {
		opts.DecimalScale = w.DecimalScale
	}
	if w.MaxVarCharLength > 0 {
		opts.MaxVarCharLength = w.MaxVarCharLength
	}
	return opts
}
