// Package config loads client factory defaults from YAML.
//
// A defaults file looks like:
//
//	userAgent: inventory-sync/1.0
//	accept: application/json
//	headers:
//	  X-Tenant: acme
//	parameters:
//	  api-version: "2"
//	bearerTokenEnv: INVENTORY_TOKEN
//	requestId: true
//	followRedirects: false
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/adamwoolhether/rester/client/validate"
	"gopkg.in/yaml.v3"
)

// Defaults holds the configuration applied to every request a factory
// creates.
type Defaults struct {
	UserAgent  string            `yaml:"userAgent"`
	Accept     string            `yaml:"accept" validate:"omitempty,contains=/"`
	Headers    map[string]string `yaml:"headers" validate:"dive,keys,required,endkeys"`
	Parameters map[string]string `yaml:"parameters" validate:"dive,keys,required,endkeys"`

	// BearerToken is sent as-is on every request.
	BearerToken string `yaml:"bearerToken" validate:"excluded_with=BearerTokenEnv"`
	// BearerTokenEnv names an environment variable read on every request.
	BearerTokenEnv string `yaml:"bearerTokenEnv" validate:"excluded_with=BearerToken"`

	RequestID         bool  `yaml:"requestId"`
	ValidateResponses bool  `yaml:"validateResponses"`
	FollowRedirects   *bool `yaml:"followRedirects"`
}

// Load decodes and validates defaults from r. Unknown keys are rejected.
// An empty document yields zero Defaults.
func Load(r io.Reader) (Defaults, error) {
	var d Defaults

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Defaults{}, fmt.Errorf("decoding defaults: %w", err)
	}

	if err := validate.Check(d); err != nil {
		return Defaults{}, fmt.Errorf("validating defaults: %w", err)
	}

	return d, nil
}

// LoadFile reads defaults from the YAML file at path.
func LoadFile(path string) (Defaults, error) {
	f, err := os.Open(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("opening defaults: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Token returns the bearer token source described by d, or nil when no
// token is configured.
func (d Defaults) Token() func() string {
	switch {
	case d.BearerToken != "":
		token := d.BearerToken
		return func() string { return token }
	case d.BearerTokenEnv != "":
		name := d.BearerTokenEnv
		return func() string { return os.Getenv(name) }
	default:
		return nil
	}
}
