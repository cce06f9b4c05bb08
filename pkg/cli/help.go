// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/shayne/yargs"
	"github.com/yeetrun/sls/pkg/cmdschema"
)

const programName = "sls"

// globalFlags documents the common options for the yargs help renderer.
type globalFlags struct {
	Help       bool     `flag:"help" short:"h" help:"Show this message"`
	Version    bool     `flag:"version" short:"v" help:"Show the framework version"`
	Verbose    bool     `flag:"verbose" help:"Show verbose logs"`
	Debug      bool     `flag:"debug" help:"Show debug logs"`
	Config     string   `flag:"config" short:"c" help:"Path to serverless config file"`
	Stage      string   `flag:"stage" short:"s" help:"Stage of the service"`
	Region     string   `flag:"region" short:"r" help:"Region of the service"`
	Param      []string `flag:"param" help:"Custom parameter value (key=value), repeatable"`
	AWSProfile string   `flag:"aws-profile" help:"AWS profile to use with the command"`
	App        string   `flag:"app" help:"Dashboard app"`
	Org        string   `flag:"org" help:"Dashboard org"`
}

// HelpConfig bridges reg to the yargs help renderer. Single-word commands
// are flat subcommands; longer ones are grouped under their first word, so
// "deploy function" becomes command "function" of group "deploy".
func HelpConfig(reg *cmdschema.Registry) yargs.HelpConfig {
	cfg := yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        programName,
			Description: "Serverless Framework",
		},
		SubCommands: make(map[string]yargs.SubCommandInfo),
		Groups:      make(map[string]yargs.GroupInfo),
	}
	for _, name := range reg.Names() {
		cmd := reg.Commands[name]
		group, sub, nested := strings.Cut(name, " ")
		if !nested {
			cfg.SubCommands[name] = toSubCommandInfo(name, cmd)
			continue
		}
		g, ok := cfg.Groups[group]
		if !ok {
			g = yargs.GroupInfo{
				Name:        group,
				Description: fmt.Sprintf("%s commands", group),
				Commands:    make(map[string]yargs.SubCommandInfo),
				Hidden:      true,
			}
			if parent, ok := reg.Commands[group]; ok {
				g.Description = parent.Usage
			}
		}
		g.Commands[sub] = toSubCommandInfo(sub, cmd)
		g.Hidden = g.Hidden && cmd.Hidden
		cfg.Groups[group] = g
	}
	return cfg
}

func toSubCommandInfo(name string, cmd *cmdschema.Command) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: cmd.Usage,
		Usage:       usageLine(cmd),
		Hidden:      cmd.Hidden,
	}
}

// usageLine lists the required options of cmd, e.g. "--function <value>".
func usageLine(cmd *cmdschema.Command) string {
	var parts []string
	for _, name := range cmd.Options.Names() {
		if cmd.Options[name].Required {
			parts = append(parts, fmt.Sprintf("--%s <value>", name))
		}
	}
	return strings.Join(parts, " ")
}

// HelpText renders help for command, the global help when command is empty
// or "help". Unknown commands fall back to the global help.
func HelpText(reg *cmdschema.Registry, command string) string {
	cfg := HelpConfig(reg)
	if command == "" || command == CommandHelp {
		return yargs.GenerateGlobalHelp(cfg, globalFlags{})
	}
	cmd, ok := reg.Lookup(command)
	if !ok {
		if _, ok := cfg.Groups[command]; ok {
			return yargs.GenerateGroupHelp(cfg, command, globalFlags{})
		}
		return yargs.GenerateGlobalHelp(cfg, globalFlags{})
	}

	var b strings.Builder
	group, sub, nested := strings.Cut(command, " ")
	if nested {
		// Render the nested command as a subcommand of "sls <group>".
		scoped := yargs.HelpConfig{
			Command:     yargs.CommandInfo{Name: programName + " " + group},
			SubCommands: cfg.Groups[group].Commands,
		}
		b.WriteString(yargs.GenerateSubCommandHelpFromConfig(scoped, sub, globalFlags{}))
	} else {
		b.WriteString(yargs.GenerateSubCommandHelpFromConfig(cfg, command, globalFlags{}))
	}
	writeOptions(&b, cmd.Options)
	return b.String()
}

func writeOptions(b *strings.Builder, opts cmdschema.Options) {
	if len(opts) == 0 {
		return
	}
	b.WriteString("\nCOMMAND OPTIONS:\n")
	for _, name := range opts.Names() {
		o := opts[name]
		flag := "--" + name
		if o.Shortcut != "" {
			flag += ", -" + o.Shortcut
		}
		usage := o.Usage
		if o.Required {
			usage += " (required)"
		}
		fmt.Fprintf(b, "    %-28s %s\n", flag, usage)
	}
}
