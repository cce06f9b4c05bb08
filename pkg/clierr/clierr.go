// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clierr defines the user-facing error type shared by the argument
// parser, the command validator and the CLI front-end. Every error carries a
// stable machine-readable Code next to its human-readable message.
package clierr

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a class of CLI input errors.
type Code string

const (
	// MissingParamValue: a value-requiring flag had no value available.
	MissingParamValue Code = "MISSING_CLI_PARAM_VALUE"
	// UnexpectedParamValue: a value was supplied where none was expected.
	UnexpectedParamValue Code = "UNEXPECTED_CLI_PARAM_VALUE"
	// UnexpectedMultipleValue: a single-valued flag was supplied more than once.
	UnexpectedMultipleValue Code = "UNEXPECTED_CLI_PARAM_MULTIPLE_VALUE"
	// UnrecognizedCommand: the command is not in the registry.
	UnrecognizedCommand Code = "UNRECOGNIZED_CLI_COMMAND"
	// UnsupportedOptions: an option is not known to the command or the common options.
	UnsupportedOptions Code = "UNSUPPORTED_CLI_OPTIONS"
	// InvalidOptionType: an option value does not match its declared type.
	InvalidOptionType Code = "INVALID_OPTION_TYPE"
	// MissingRequiredOption: a required option was not supplied.
	MissingRequiredOption Code = "MISSING_REQUIRED_CLI_OPTION"

	ServiceConfigNotFound    Code = "MISSING_SERVICE_CONFIGURATION"
	InvalidServiceConfig     Code = "INVALID_SERVICE_CONFIGURATION"
	FrameworkVersionMismatch Code = "FRAMEWORK_VERSION_MISMATCH"
)

// Error is returned for every CLI input violation.
// Message is meant to be shown to the user as is, while Err optionally holds
// the underlying cause for verbose output.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like New but records err as the cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err's chain contains an *Error with the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
