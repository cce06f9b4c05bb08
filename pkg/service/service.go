// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package service locates and loads the service configuration file of the
// current working directory.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/sls/pkg/clierr"
	"github.com/yeetrun/sls/pkg/cmdschema"
	"gopkg.in/yaml.v3"
)

// ConfigNames are the recognized service file names, in lookup order.
var ConfigNames = []string{"serverless.yml", "serverless.yaml", "serverless.json"}

// Config is the subset of the service configuration the CLI needs before
// handing off to a command.
type Config struct {
	// Path is the file the config was loaded from.
	Path             string   `yaml:"-"`
	Service          Name     `yaml:"service"`
	FrameworkVersion string   `yaml:"frameworkVersion"`
	Provider         Provider `yaml:"provider"`
	Plugins          Plugins  `yaml:"plugins"`
}

type Provider struct {
	Name   string `yaml:"name"`
	Stage  string `yaml:"stage"`
	Region string `yaml:"region"`
}

// Name is the service name, given either as a string or as {name: ...}.
type Name string

func (n *Name) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var obj struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*n = Name(obj.Name)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*n = Name(s)
	return nil
}

// Plugins lists plugin modules, given either as a list or as
// {modules: [...], localPath: ...}.
type Plugins []string

func (p *Plugins) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var obj struct {
			Modules []string `yaml:"modules"`
		}
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*p = obj.Modules
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// Find returns the path of the service file in dir, or "" if there is none.
// Parent directories are not searched.
func Find(dir string) (string, error) {
	for _, name := range ConfigNames {
		p := filepath.Join(dir, name)
		fi, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !fi.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// Locate resolves the service file for dir. A non-empty override, as given
// by --config, is taken relative to dir and must exist.
func Locate(dir, override string) (string, error) {
	if override == "" {
		return Find(dir)
	}
	p := override
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	if _, err := os.Stat(p); err != nil {
		return "", clierr.Wrap(clierr.ServiceConfigNotFound, err, "Cannot find %q in the service directory", override)
	}
	return p, nil
}

// Load reads and decodes the service file at path. JSON files are decoded
// with the YAML decoder.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, clierr.Wrap(clierr.InvalidServiceConfig, err, "Cannot parse %q: %v", filepath.Base(path), err)
	}
	if cfg.Service == "" {
		return nil, clierr.New(clierr.InvalidServiceConfig, "%q is missing the \"service\" property", filepath.Base(path))
	}
	cfg.Path = path
	return &cfg, nil
}

// CheckFrameworkVersion checks running against the frameworkVersion
// constraint of cfg. An empty constraint accepts any version.
func CheckFrameworkVersion(cfg *Config, running string) error {
	if cfg.FrameworkVersion == "" {
		return nil
	}
	c, err := semver.NewConstraint(cfg.FrameworkVersion)
	if err != nil {
		return clierr.Wrap(clierr.InvalidServiceConfig, err, "Invalid \"frameworkVersion\" %q: %v", cfg.FrameworkVersion, err)
	}
	v, err := semver.NewVersion(running)
	if err != nil {
		return fmt.Errorf("invalid framework version %q: %w", running, err)
	}
	if !c.Check(v) {
		return clierr.New(clierr.FrameworkVersionMismatch,
			"The Serverless version (%s) does not satisfy the \"frameworkVersion\" (%s) in %s",
			v, cfg.FrameworkVersion, filepath.Base(cfg.Path))
	}
	return nil
}

// Require fails when a command that depends on a service runs without one.
// path is the result of Find or Locate.
func Require(dep cmdschema.ServiceDependency, path string) error {
	if dep == cmdschema.ServiceRequired && path == "" {
		return clierr.New(clierr.ServiceConfigNotFound,
			"This command can only be run in a Serverless service directory. Make sure to reference a valid config file in the current working directory")
	}
	return nil
}
