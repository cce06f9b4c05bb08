// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdschema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/yeetrun/sls/pkg/clierr"
)

// Input is what EnsureSupportedCommand validates.
type Input struct {
	// Command is the command name as typed, e.g. "deploy function".
	Command string
	// Options are the parsed options as plain values (bool, string, nil,
	// []string, or numbers when supplied programmatically).
	Options map[string]any
	// Schema is the schema of Command, or nil if the command is unknown.
	Schema *Command
	// Registry provides the command names for suggestions and the common options.
	Registry *Registry
}

// deprecatedCommands lists commands that were removed from the framework.
// The value, if non-empty, is a hint appended to the error message.
var deprecatedCommands = map[string]string{
	"slstats":            "",
	"install":            `Use "git clone" or a template URL with "sls" instead.`,
	"uninstall":          "",
	"create":             `Run "sls" in an empty directory to create a new service.`,
	"dashboard":          "",
	"generate-event":     "",
	"config credentials": "Configure AWS credentials with the AWS CLI or environment variables instead.",
	"output get":         "",
	"output list":        "",
	"plugin search":      "",
	"plugin list":        "",
	"param get":          "",
}

// IsDeprecated reports whether name is a command that is no longer supported.
func IsDeprecated(name string) bool {
	_, ok := deprecatedCommands[name]
	return ok
}

// EnsureSupportedCommand validates in and returns the first violation found.
//
// It checks that the command exists, that every supplied option is known to
// the command or the common options with a value of the declared type, and
// that every required option of the command is present. Options are visited
// in sorted order so the reported violation is deterministic.
func EnsureSupportedCommand(in Input) error {
	if in.Schema == nil {
		return unrecognizedCommand(in.Command, in.Registry)
	}

	names := make([]string, 0, len(in.Options))
	for name := range in.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opt, ok := in.Registry.Resolve(name, in.Schema)
		if !ok {
			return clierr.New(clierr.UnsupportedOptions,
				"Detected unrecognized CLI option %q for command %q. Run \"sls %s --help\" for a list of supported options.",
				"--"+name, in.Command, in.Command)
		}
		if err := checkType(name, in.Options[name], opt.Type); err != nil {
			return err
		}
	}

	for _, name := range in.Schema.Options.Names() {
		if !in.Schema.Options[name].Required {
			continue
		}
		// An explicit null ("--name=") does not satisfy a required option.
		if v, ok := in.Options[name]; !ok || v == nil {
			return clierr.New(clierr.MissingRequiredOption,
				"Command %q requires option %q", in.Command, "--"+name)
		}
	}
	return nil
}

func unrecognizedCommand(command string, reg *Registry) error {
	if IsDeprecated(command) {
		msg := fmt.Sprintf("Command %q is no longer supported.", command)
		if hint := deprecatedCommands[command]; hint != "" {
			msg += " " + hint
		}
		return clierr.New(clierr.UnrecognizedCommand, "%s", msg)
	}
	msg := fmt.Sprintf("Serverless command %q not found.", command)
	if suggestion, ok := Suggest(command, reg.Names()); ok {
		msg += fmt.Sprintf(" Did you mean %q?", suggestion)
	}
	msg += ` Run "sls help" for a list of all available commands.`
	return clierr.New(clierr.UnrecognizedCommand, "%s", msg)
}

func checkType(name string, value any, want OptionType) error {
	// "--name=" produces an explicit nil, which satisfies any type.
	if value == nil {
		return nil
	}
	switch want {
	case TypeArray:
		return nil
	case TypeMultiple:
		if reflect.ValueOf(value).Kind() != reflect.Slice {
			return clierr.New(clierr.InvalidOptionType,
				"Option %q should be supplied as a list of values, received %q", "--"+name, typeName(value))
		}
		return nil
	}
	if got := typeName(value); got != want.String() {
		return clierr.New(clierr.InvalidOptionType,
			"Option %q is of type %q but expected type %q", "--"+name, got, want.String())
	}
	return nil
}

// typeName names the primitive type of v using the schema vocabulary.
func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return "object"
}
