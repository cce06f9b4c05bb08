// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prefs stores per-user CLI preferences.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/yeetrun/sls/pkg/fileutil"
)

const (
	configName = "config.toml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Prefs struct {
	// InstallationID identifies this installation in telemetry and
	// deprecation reports.
	InstallationID string `toml:"installation_id,omitempty"`
	Color          string `toml:"color,omitempty"`
	Debug          bool   `toml:"debug,omitempty"`

	changed bool
}

// DefaultPath returns $SLS_CONFIG_DIR/config.toml, or ~/.sls/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("SLS_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, configName)
	}
	return filepath.Join(os.Getenv("HOME"), ".sls", configName)
}

// Load reads the prefs at path. A missing file yields the defaults.
func Load(path string) (*Prefs, error) {
	p := &Prefs{Color: ColorAuto}
	if _, err := toml.DecodeFile(path, p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if p.Color == "" {
		p.Color = ColorAuto
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid prefs in %s: %w", path, err)
	}
	return p, nil
}

func (p *Prefs) validate() error {
	switch p.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	}
	return fmt.Errorf("color must be one of %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, p.Color)
}

// ApplyEnv overrides p from SLS_COLOR, NO_COLOR and SLS_DEBUG. Overrides are
// not persisted by Save.
func (p *Prefs) ApplyEnv(getenv func(string) string) {
	if c := strings.ToLower(getenv("SLS_COLOR")); c != "" {
		switch c {
		case ColorAuto, ColorAlways, ColorNever:
			p.Color = c
		}
	}
	if getenv("NO_COLOR") != "" {
		p.Color = ColorNever
	}
	if d := getenv("SLS_DEBUG"); d != "" {
		if v, err := strconv.ParseBool(d); err == nil {
			p.Debug = v
		} else {
			p.Debug = d == "*"
		}
	}
}

// EnsureInstallationID assigns an installation id if there is none and
// reports whether it did.
func (p *Prefs) EnsureInstallationID() bool {
	if p.InstallationID != "" {
		return false
	}
	p.InstallationID = uuid.New().String()
	p.changed = true
	return true
}

// Changed reports whether p was modified since it was loaded.
func (p *Prefs) Changed() bool {
	return p.changed
}

// Save writes p to path, creating the directory if needed.
func (p *Prefs) Save(path string) error {
	err := fileutil.WriteAtomic(path, 0o600, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(p)
	})
	if err != nil {
		return err
	}
	p.changed = false
	return nil
}
