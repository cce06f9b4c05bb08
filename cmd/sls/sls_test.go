// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/sls/pkg/prefs"
)

func newTestRunner(t *testing.T, env map[string]string) (*runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := &runner{
		stdout:    &stdout,
		stderr:    &stderr,
		getenv:    func(k string) string { return env[k] },
		dir:       t.TempDir(),
		prefsPath: filepath.Join(t.TempDir(), "config.toml"),
		handlers:  defaultHandlers(),
	}
	return r, &stdout, &stderr
}

func writeService(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "serverless.yml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestRunInvocation(t *testing.T) {
	r, stdout, stderr := newTestRunner(t, nil)
	writeService(t, r.dir, "service: api\nprovider:\n  name: aws\n  region: eu-central-1\nplugins:\n  - serverless-offline\n")

	code := r.run(context.Background(), []string{"deploy", "function", "-f", "hello", "--stage", "prod"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	var got invocation
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal error: %v\n%s", err, stdout)
	}
	want := invocation{
		Command:    "deploy function",
		Positional: []string{"deploy", "function"},
		Options:    map[string]any{"function": "hello", "stage": "prod"},
		Stage:      "prod",
		Region:     "eu-central-1",
		Service: &serviceInfo{
			Name:     "api",
			Path:     filepath.Join(r.dir, "serverless.yml"),
			Provider: "aws",
			Plugins:  []string{"serverless-offline"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invocation mismatch (-want +got):\n%s", diff)
	}

	p, err := prefs.Load(r.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load error: %v", err)
	}
	if p.InstallationID == "" {
		t.Fatal("installation id was not persisted")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		service string
		want    string
	}{
		{"unknown command", []string{"deploi"}, "", `Did you mean "deploy"?`},
		{"missing service", []string{"deploy"}, "", "can only be run in a Serverless service directory"},
		{"missing required", []string{"invoke"}, "service: api\n", `requires option "--function"`},
		{"version mismatch", []string{"info"}, "service: api\nframeworkVersion: \"^3\"\n", "does not satisfy"},
		{"missing config override", []string{"info", "-c", "other.yml"}, "service: api\n", `Cannot find "other.yml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newTestRunner(t, nil)
			if tt.service != "" {
				writeService(t, r.dir, tt.service)
			}
			if code := r.run(context.Background(), tt.args); code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if stdout.Len() != 0 {
				t.Fatalf("unexpected stdout:\n%s", stdout)
			}
			if !strings.HasPrefix(stderr.String(), "Error: ") || !strings.Contains(stderr.String(), tt.want) {
				t.Fatalf("stderr = %q, want error containing %q", stderr, tt.want)
			}
		})
	}
}

func TestRunVerboseError(t *testing.T) {
	r, _, stderr := newTestRunner(t, nil)
	if code := r.run(context.Background(), []string{"deploy", "--foo", "--verbose"}); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "[UNSUPPORTED_CLI_OPTIONS]") {
		t.Fatalf("stderr missing error code:\n%s", stderr)
	}
}

func TestRunHelpAndVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"version", []string{"--version"}, "Serverless Framework " + version},
		{"global help", nil, "deploy"},
		{"command help", []string{"invoke", "-h"}, "--function, -f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newTestRunner(t, nil)
			if code := r.run(context.Background(), tt.args); code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Fatalf("stdout missing %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestRunExtensions(t *testing.T) {
	ext := filepath.Join(t.TempDir(), "ext.yml")
	if err := os.WriteFile(ext, []byte("commands:\n  offline:\n    usage: Run offline\n    options:\n      port: {type: number}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	r, stdout, stderr := newTestRunner(t, map[string]string{"SLS_EXTENSIONS": ext})
	if code := r.run(context.Background(), []string{"offline", "--port", "4000"}); code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	var got invocation
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal error: %v\n%s", err, stdout)
	}
	if got.Command != "offline" || got.Options["port"] != 4000.0 {
		t.Fatalf("invocation = %+v", got)
	}
	if got.Stage != defaultStage || got.Region != defaultRegion || got.Service != nil {
		t.Fatalf("invocation defaults = %+v", got)
	}
}

func TestRunDoctor(t *testing.T) {
	r, stdout, stderr := newTestRunner(t, nil)
	if code := r.run(context.Background(), []string{"doctor"}); code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout.String(), "no deprecations to report") {
		t.Fatalf("doctor output = %q", stdout)
	}
}

func TestRunDebugLog(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"required service", []string{"info", "--debug"}, `command "info" service dependency: required`},
		{"optional service", []string{"doctor", "--debug"}, `command "doctor" service dependency: optional`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, stderr := newTestRunner(t, nil)
			writeService(t, r.dir, "service: api\n")
			if code := r.run(context.Background(), tt.args); code != 0 {
				t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Fatalf("stderr missing %q:\n%s", tt.want, stderr)
			}
		})
	}
}

func TestRunSavesPrefsOnlyWhenChanged(t *testing.T) {
	r, _, stderr := newTestRunner(t, nil)
	writeService(t, r.dir, "service: api\n")
	if code := r.run(context.Background(), []string{"info"}); code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	saved, err := os.ReadFile(r.prefsPath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	// Saving re-encodes the file, which drops the comment.
	want := append([]byte("# edited by hand\n"), saved...)
	if err := os.WriteFile(r.prefsPath, want, 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if code := r.run(context.Background(), []string{"info"}); code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	got, err := os.ReadFile(r.prefsPath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("unchanged prefs were rewritten (-want +got):\n%s", diff)
	}
}
