// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the framework's command registry and turns a raw
// argument vector into a validated command invocation.
package cli

import (
	"slices"
	"strconv"
	"strings"

	"github.com/yeetrun/sls/pkg/clierr"
	"github.com/yeetrun/sls/pkg/cmdschema"
	"github.com/yeetrun/sls/pkg/parseargs"
	"tailscale.com/util/set"
)

const (
	CommandHelp   = "help"
	CommandDoctor = "doctor"
)

var commonOptions = cmdschema.Options{
	"help":        {Type: cmdschema.TypeBoolean, Shortcut: "h", Usage: "Show this message"},
	"version":     {Type: cmdschema.TypeBoolean, Shortcut: "v", Usage: "Show the framework version"},
	"verbose":     {Type: cmdschema.TypeBoolean, Usage: "Show verbose logs"},
	"debug":       {Type: cmdschema.TypeBoolean, Usage: "Show debug logs"},
	"config":      {Type: cmdschema.TypeString, Shortcut: "c", Usage: "Path to serverless config file"},
	"stage":       {Type: cmdschema.TypeString, Shortcut: "s", Usage: "Stage of the service"},
	"region":      {Type: cmdschema.TypeString, Shortcut: "r", Usage: "Region of the service"},
	"param":       {Type: cmdschema.TypeMultiple, Usage: "Pass custom parameter values for \"param\" variable source (usage: --param=\"key=value\")"},
	"aws-profile": {Type: cmdschema.TypeString, Usage: "AWS profile to use with the command"},
	"app":         {Type: cmdschema.TypeString, Usage: "Dashboard app"},
	"org":         {Type: cmdschema.TypeString, Usage: "Dashboard org"},
}

var functionOption = cmdschema.Option{Type: cmdschema.TypeString, Required: true, Shortcut: "f", Usage: "Name of the function"}

var commandInfos = map[string]cmdschema.Command{
	"deploy": {
		Usage:             "Deploy a Serverless service",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"package":             {Type: cmdschema.TypeString, Shortcut: "p", Usage: "Path of the deployment package"},
			"force":               {Type: cmdschema.TypeBoolean, Usage: "Forces a deployment to take place"},
			"aws-s3-accelerate":   {Type: cmdschema.TypeBoolean, Usage: "Enables S3 Transfer Acceleration for uploads"},
			"enforce-hash-update": {Type: cmdschema.TypeBoolean, Usage: "Enforces new function version by overriding the description"},
			"minify-template":     {Type: cmdschema.TypeBoolean, Usage: "Minify the CloudFormation template"},
		},
	},
	"deploy function": {
		Usage:             "Deploy a single function from the service",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function":      functionOption,
			"force":         {Type: cmdschema.TypeBoolean, Usage: "Forces a deployment to take place"},
			"update-config": {Type: cmdschema.TypeBoolean, Shortcut: "u", Usage: "Updates function configuration only"},
		},
	},
	"deploy list": {
		Usage:             "List deployed versions of the service",
		ServiceDependency: cmdschema.ServiceRequired,
	},
	"deploy list functions": {
		Usage:             "List all the deployed functions and their versions",
		ServiceDependency: cmdschema.ServiceRequired,
	},
	"info": {
		Usage:             "Display information about the service",
		ServiceDependency: cmdschema.ServiceRequired,
	},
	"invoke": {
		Usage:             "Invoke a deployed function",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function":     functionOption,
			"qualifier":    {Type: cmdschema.TypeString, Shortcut: "q", Usage: "Version number or alias to invoke"},
			"path":         {Type: cmdschema.TypeString, Shortcut: "p", Usage: "Path to JSON or YAML file holding input data"},
			"type":         {Type: cmdschema.TypeString, Shortcut: "t", Usage: "Type of invocation"},
			"log":          {Type: cmdschema.TypeBoolean, Shortcut: "l", Usage: "Trigger logging data output"},
			"data":         {Type: cmdschema.TypeString, Shortcut: "d", Usage: "Input data"},
			"raw":          {Type: cmdschema.TypeBoolean, Usage: "Flag to pass input data as a raw string"},
			"context":      {Type: cmdschema.TypeString, Usage: "Context of the service"},
			"context-path": {Type: cmdschema.TypeString, Usage: "Path to JSON or YAML file holding context data"},
		},
	},
	"invoke local": {
		Usage:             "Invoke function locally",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function":     functionOption,
			"path":         {Type: cmdschema.TypeString, Shortcut: "p", Usage: "Path to JSON or YAML file holding input data"},
			"data":         {Type: cmdschema.TypeString, Shortcut: "d", Usage: "Input data"},
			"raw":          {Type: cmdschema.TypeBoolean, Usage: "Flag to pass input data as a raw string"},
			"context":      {Type: cmdschema.TypeString, Usage: "Context of the service"},
			"context-path": {Type: cmdschema.TypeString, Shortcut: "x", Usage: "Path to JSON or YAML file holding context data"},
			"env":          {Type: cmdschema.TypeMultiple, Shortcut: "e", Usage: "Override environment variables. e.g. --env VAR1=val1 --env VAR2=val2"},
			"docker":       {Type: cmdschema.TypeBoolean, Usage: "Flag to turn on docker use for node/python/ruby/java"},
			"docker-arg":   {Type: cmdschema.TypeMultiple, Usage: "Arguments to docker run command. e.g. --docker-arg \"-p 9229:9229\""},
		},
	},
	"logs": {
		Usage:             "Output the logs of a deployed function",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function":  functionOption,
			"tail":      {Type: cmdschema.TypeBoolean, Shortcut: "t", Usage: "Tail the log output"},
			"startTime": {Type: cmdschema.TypeString, Usage: "Logs before this time will not be displayed"},
			"filter":    {Type: cmdschema.TypeString, Usage: "A filter pattern"},
			"interval":  {Type: cmdschema.TypeString, Shortcut: "i", Usage: "Tail polling interval in milliseconds"},
		},
	},
	"metrics": {
		Usage:             "Show metrics for a specific function",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function":  {Type: cmdschema.TypeString, Shortcut: "f", Usage: "Name of the function"},
			"startTime": {Type: cmdschema.TypeString, Usage: "Start time for the metrics retrieval"},
			"endTime":   {Type: cmdschema.TypeString, Usage: "End time for the metrics retrieval"},
		},
	},
	"package": {
		Usage:             "Package a Serverless service",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"package":         {Type: cmdschema.TypeString, Shortcut: "p", Usage: "Output path for the package"},
			"minify-template": {Type: cmdschema.TypeBoolean, Usage: "Minify the CloudFormation template"},
		},
	},
	"print": {
		Usage:             "Print your compiled and resolved config file",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"format":    {Type: cmdschema.TypeString, Usage: "Print configuration in given format (\"yaml\", \"json\", \"text\")"},
			"path":      {Type: cmdschema.TypeString, Usage: "Optional period-separated path to print a sub-value"},
			"transform": {Type: cmdschema.TypeString, Usage: "Optional transform-function to apply to the value (\"keys\")"},
		},
	},
	"remove": {
		Usage:             "Remove Serverless service and all resources",
		ServiceDependency: cmdschema.ServiceRequired,
	},
	"rollback": {
		Usage:             "Rollback the Serverless service to a specific deployment",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"timestamp": {Type: cmdschema.TypeString, Shortcut: "t", Usage: "Timestamp of the deployment (list deployments with `serverless deploy list`)"},
		},
	},
	"rollback function": {
		Usage:             "Rollback the function to the previous version",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function":         functionOption,
			"function-version": {Type: cmdschema.TypeString, Required: true, Usage: "Version of the function"},
		},
	},
	"plugin install": {
		Usage:             "Install and add a plugin to your service",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"name": {Type: cmdschema.TypeString, Required: true, Shortcut: "n", Usage: "The plugin name"},
		},
	},
	"plugin uninstall": {
		Usage:             "Uninstall and remove a plugin from your service",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"name": {Type: cmdschema.TypeString, Required: true, Shortcut: "n", Usage: "The plugin name"},
		},
	},
	"test": {
		Usage:             "Run HTTP tests",
		ServiceDependency: cmdschema.ServiceRequired,
		Options: cmdschema.Options{
			"function": {Type: cmdschema.TypeString, Shortcut: "f", Usage: "Specify the function to test"},
			"test":     {Type: cmdschema.TypeString, Shortcut: "t", Usage: "Specify a specific test to run"},
		},
	},
	CommandHelp: {
		Usage: "Show this help",
	},
	CommandDoctor: {
		Usage:             "Print status on reported deprecations triggered in the last command run",
		ServiceDependency: cmdschema.ServiceOptional,
	},
}

// Registry returns a fresh registry of the framework commands. Callers may
// extend it, e.g. with LoadExtensions, without affecting other registries.
func Registry() *cmdschema.Registry {
	reg := &cmdschema.Registry{
		Commands:      make(map[string]*cmdschema.Command, len(commandInfos)),
		CommonOptions: make(cmdschema.Options, len(commonOptions)),
	}
	for name, info := range commandInfos {
		cmd := info
		cmd.Name = name
		cmd.Options = make(cmdschema.Options, len(info.Options))
		for opt, spec := range info.Options {
			cmd.Options[opt] = spec
		}
		reg.Commands[name] = &cmd
	}
	for name, spec := range commonOptions {
		reg.CommonOptions[name] = spec
	}
	return reg
}

// Grammar derives the parser grammar for cmd, which may be nil to get the
// grammar of the common options alone. Array options stay free-form.
func Grammar(reg *cmdschema.Registry, cmd *cmdschema.Command) parseargs.Grammar {
	g := parseargs.Grammar{
		Boolean:  make(set.Set[string]),
		String:   make(set.Set[string]),
		Multiple: make(set.Set[string]),
		Alias:    make(map[string]string),
	}
	add := func(opts cmdschema.Options) {
		for name, spec := range opts {
			switch spec.Type {
			case cmdschema.TypeBoolean:
				g.Boolean.Add(name)
			case cmdschema.TypeString, cmdschema.TypeNumber:
				g.String.Add(name)
			case cmdschema.TypeMultiple:
				g.Multiple.Add(name)
			}
			if spec.Shortcut != "" {
				g.Alias[spec.Shortcut] = name
			}
		}
	}
	if reg != nil {
		add(reg.CommonOptions)
	}
	if cmd != nil {
		add(cmd.Options)
	}
	return g
}

// Input is a resolved CLI invocation.
type Input struct {
	// Command is the space-joined positional arguments, e.g. "deploy function".
	Command    string
	Positional []string
	Options    map[string]any
	// Schema is nil for version requests and for help on an empty command
	// or a group such as "plugin".
	Schema    *cmdschema.Command
	IsHelp    bool
	IsVersion bool
}

// ResolveInput parses args (without the program name) and validates the
// resulting command against reg.
//
// The arguments are parsed twice: once with the common options to find the
// command, then with the command's own grammar so its shortcuts and value
// options apply. Both passes treat the boolean options of every command as
// boolean, so a flag placed before a subcommand word does not take that word
// as its value.
func ResolveInput(args []string, reg *cmdschema.Registry) (*Input, error) {
	booleans := commandBooleans(reg)
	res, err := parseargs.Parse(args, withBooleans(Grammar(reg, nil), booleans))
	if err != nil {
		return nil, err
	}
	command := strings.Join(res.Positional, " ")
	schema, ok := reg.Lookup(command)
	seen := make(set.Set[string])
	for ok {
		res, err = parseargs.Parse(args, withBooleans(Grammar(reg, schema), booleans))
		if err != nil {
			return nil, err
		}
		next := strings.Join(res.Positional, " ")
		if next == command {
			break
		}
		// The command's value options consumed a different set of words.
		seen.Add(command)
		if seen.Contains(next) {
			return nil, clierr.New(clierr.UnrecognizedCommand,
				"Cannot determine the command from %q", strings.Join(args, " "))
		}
		command = next
		schema, ok = reg.Lookup(command)
	}

	in := &Input{
		Command:    command,
		Positional: res.Positional,
		Options:    res.Map(),
		Schema:     schema,
		IsHelp:     hasHelpFlag(args) || command == CommandHelp,
	}
	if command == "" {
		in.IsVersion = isTrue(res, "version")
		if !in.IsVersion {
			in.IsHelp = true
		}
		return in, nil
	}
	if in.IsHelp {
		// Required options do not apply to help, but unknown commands are
		// still reported.
		if schema == nil && !isGroup(reg, command) {
			return nil, cmdschema.EnsureSupportedCommand(cmdschema.Input{Command: command, Registry: reg})
		}
		return in, nil
	}

	coerceNumbers(in.Options, reg, schema)
	if err := cmdschema.EnsureSupportedCommand(cmdschema.Input{
		Command:  command,
		Options:  in.Options,
		Schema:   schema,
		Registry: reg,
	}); err != nil {
		return nil, err
	}
	return in, nil
}

// commandBooleans returns the options that are boolean in some command and
// take a value nowhere, neither in another command nor in the common options.
// Shortcuts are left out since they differ between commands.
func commandBooleans(reg *cmdschema.Registry) set.Set[string] {
	booleans := make(set.Set[string])
	valued := make(set.Set[string])
	collect := func(opts cmdschema.Options) {
		for name, spec := range opts {
			if spec.Type == cmdschema.TypeBoolean {
				booleans.Add(name)
			} else {
				valued.Add(name)
			}
		}
	}
	collect(reg.CommonOptions)
	for _, cmd := range reg.Commands {
		collect(cmd.Options)
	}
	for name := range valued {
		booleans.Delete(name)
	}
	return booleans
}

// withBooleans declares names as boolean in g unless g already knows them.
func withBooleans(g parseargs.Grammar, names set.Set[string]) parseargs.Grammar {
	for name := range names {
		if _, ok := g.Kind(name); !ok {
			g.Boolean.Add(name)
		}
	}
	return g
}

// isGroup reports whether command is the leading words of a registered
// command, e.g. "plugin" for "plugin install".
func isGroup(reg *cmdschema.Registry, command string) bool {
	for _, name := range reg.Names() {
		if strings.HasPrefix(name, command+" ") {
			return true
		}
	}
	return false
}

// hasHelpFlag matches the tokens that make parseargs.Parse tolerate errors,
// so a help request is recognized even when parsing stopped early.
func hasHelpFlag(args []string) bool {
	return slices.Contains(args, "--help") || slices.Contains(args, "-h")
}

func isTrue(res *parseargs.Result, name string) bool {
	v, _ := res.Get(name)
	b, ok := v.Bool()
	return ok && b
}

// coerceNumbers converts string values of number options that parse as
// numbers; anything else is left for the validator to reject.
func coerceNumbers(opts map[string]any, reg *cmdschema.Registry, cmd *cmdschema.Command) {
	for name, v := range opts {
		s, ok := v.(string)
		if !ok {
			continue
		}
		spec, ok := reg.Resolve(name, cmd)
		if !ok || spec.Type != cmdschema.TypeNumber {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			opts[name] = f
		}
	}
}
