// Package schema validates request bodies against the JSON schemas embedded
// under schemas/. Each schema is compiled once and looked up by name.
package schema

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var files embed.FS

// Well-known schema names.
const (
	ContactCreate      = "contact_create"
	NewsletterEmail    = "newsletter_email"
	RegistrationCreate = "registration_create"
	DonationCreate     = "donation_create"
	PrayerCreate       = "prayer_create"
	StatusCheckCreate  = "status_check_create"
)

// ValidationError lists every key error found in a payload.
type ValidationError struct {
	Errors []jsonschema.KeyError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ke := range e.Errors {
		p := ke.PropertyPath
		if p == "" || p == "/" {
			msgs = append(msgs, ke.Message)
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.TrimPrefix(p, "/"), ke.Message))
	}
	return strings.Join(msgs, "; ")
}

// Validator holds compiled schemas.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	v := &Validator{cache: make(map[string]*jsonschema.Schema)}
	if err := v.Load(files); err != nil {
		return nil, err
	}

	return v, nil
}

// Load compiles all schemas/*.json files from fsys, replacing the cache.
func (v *Validator) Load(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, "schemas")
	if err != nil {
		return fmt.Errorf("read schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join("schemas", e.Name()))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", e.Name(), err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		newCache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	v.mu.Lock()
	v.cache = newCache
	v.mu.Unlock()
	return nil
}

// Validate checks data against the named schema. A *ValidationError is
// returned when the payload does not conform.
func (v *Validator) Validate(ctx context.Context, name string, data []byte) error {
	v.mu.RLock()
	rs, ok := v.cache[name]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	keyErrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return &ValidationError{Errors: []jsonschema.KeyError{{Message: "invalid JSON body"}}}
	}
	if len(keyErrs) > 0 {
		return &ValidationError{Errors: keyErrs}
	}

	return nil
}
