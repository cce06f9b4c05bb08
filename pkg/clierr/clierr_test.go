// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clierr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestCodeOfWrappedChain(t *testing.T) {
	base := New(MissingParamValue, "Missing value for CLI parameter %q", "--stage")
	wrapped := fmt.Errorf("resolve input: %w", base)

	if got := CodeOf(wrapped); got != MissingParamValue {
		t.Fatalf("CodeOf = %q, want %q", got, MissingParamValue)
	}
	if !Is(wrapped, MissingParamValue) {
		t.Fatalf("Is(%v, %q) = false", wrapped, MissingParamValue)
	}
	if Is(wrapped, UnrecognizedCommand) {
		t.Fatalf("Is(%v, %q) = true", wrapped, UnrecognizedCommand)
	}
	if got := wrapped.Error(); got != `resolve input: Missing value for CLI parameter "--stage"` {
		t.Fatalf("Error() = %q", got)
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Fatalf("CodeOf = %q, want empty", got)
	}
	if Is(nil, MissingParamValue) {
		t.Fatal("Is(nil) = true")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(InvalidServiceConfig, fs.ErrNotExist, "cannot read %s", "serverless.yml")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("errors.Is(%v, fs.ErrNotExist) = false", err)
	}
	if err.Message != "cannot read serverless.yml" {
		t.Fatalf("Message = %q", err.Message)
	}
}
