// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/yeetrun/sls/pkg/clierr"
	"github.com/yeetrun/sls/pkg/cmdschema"
	"gopkg.in/yaml.v3"
	"tailscale.com/util/mak"
)

type extensionFile struct {
	Commands map[string]extensionCommand `yaml:"commands"`
}

type extensionCommand struct {
	Usage             string                     `yaml:"usage"`
	ServiceDependency string                     `yaml:"serviceDependency"`
	Hidden            bool                       `yaml:"hidden"`
	Options           map[string]extensionOption `yaml:"options"`
}

type extensionOption struct {
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
	Shortcut string `yaml:"shortcut"`
	Usage    string `yaml:"usage"`
}

// LoadExtensions adds the commands declared in the YAML document r to reg.
// A declared command replaces a registered one of the same name.
//
//	commands:
//	  offline start:
//	    usage: Simulate the API locally
//	    options:
//	      port: {type: string, shortcut: P}
func LoadExtensions(r io.Reader, reg *cmdschema.Registry) error {
	var f extensionFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return clierr.Wrap(clierr.InvalidServiceConfig, err, "Cannot parse command extensions: %v", err)
	}
	cmds := make(map[string]*cmdschema.Command, len(f.Commands))
	for name, ext := range f.Commands {
		cmd, err := ext.toCommand(name)
		if err != nil {
			return clierr.Wrap(clierr.InvalidServiceConfig, err, "Invalid extension command %q: %v", name, err)
		}
		cmds[name] = cmd
	}
	for name, cmd := range cmds {
		mak.Set(&reg.Commands, name, cmd)
	}
	return nil
}

func (e extensionCommand) toCommand(name string) (*cmdschema.Command, error) {
	if name == "" {
		return nil, fmt.Errorf("empty command name")
	}
	dep, err := parseServiceDependency(e.ServiceDependency)
	if err != nil {
		return nil, err
	}
	cmd := &cmdschema.Command{
		Name:              name,
		Usage:             e.Usage,
		ServiceDependency: dep,
		Hidden:            e.Hidden,
		Options:           make(cmdschema.Options, len(e.Options)),
	}
	for optName, o := range e.Options {
		typ := cmdschema.TypeString
		if o.Type != "" {
			if typ, err = cmdschema.ParseOptionType(o.Type); err != nil {
				return nil, fmt.Errorf("option %q: %w", optName, err)
			}
		}
		if o.Shortcut != "" && utf8.RuneCountInString(o.Shortcut) != 1 {
			return nil, fmt.Errorf("option %q: shortcut %q must be a single character", optName, o.Shortcut)
		}
		cmd.Options[optName] = cmdschema.Option{
			Type:     typ,
			Required: o.Required,
			Shortcut: o.Shortcut,
			Usage:    o.Usage,
		}
	}
	return cmd, nil
}

func parseServiceDependency(s string) (cmdschema.ServiceDependency, error) {
	switch s {
	case "", "none":
		return cmdschema.ServiceNone, nil
	case "optional":
		return cmdschema.ServiceOptional, nil
	case "required":
		return cmdschema.ServiceRequired, nil
	}
	return 0, fmt.Errorf("unknown service dependency %q", s)
}
