// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/sls/pkg/clierr"
	"github.com/yeetrun/sls/pkg/cmdschema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return p
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != "" {
		t.Fatalf("Find = %q in empty dir", got)
	}

	writeFile(t, dir, "serverless.json", "{}")
	yml := writeFile(t, dir, "serverless.yml", "service: a\n")
	got, err = Find(dir)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != yml {
		t.Fatalf("Find = %q, want %q", got, yml)
	}
}

func TestFindDoesNotWalkUp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "serverless.yml", "service: a\n")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir error: %v", err)
	}
	got, err := Find(sub)
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != "" {
		t.Fatalf("Find = %q, want no config in subdirectory", got)
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	custom := writeFile(t, dir, "custom.yml", "service: a\n")
	got, err := Locate(dir, "custom.yml")
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if got != custom {
		t.Fatalf("Locate = %q, want %q", got, custom)
	}
	if _, err := Locate(dir, "missing.yml"); !clierr.Is(err, clierr.ServiceConfigNotFound) {
		t.Fatalf("Locate missing: got %v, want %s", err, clierr.ServiceConfigNotFound)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Config
	}{
		{
			name: "yaml",
			file: "serverless.yml",
			content: `service: my-service
frameworkVersion: "^4.0.0"
provider:
  name: aws
  stage: dev
  region: eu-west-1
plugins:
  - serverless-offline
  - serverless-webpack
`,
			want: Config{
				Service:          "my-service",
				FrameworkVersion: "^4.0.0",
				Provider:         Provider{Name: "aws", Stage: "dev", Region: "eu-west-1"},
				Plugins:          Plugins{"serverless-offline", "serverless-webpack"},
			},
		},
		{
			name: "object forms",
			file: "serverless.yaml",
			content: `service:
  name: legacy
plugins:
  localPath: ./plugins
  modules:
    - local-plugin
`,
			want: Config{
				Service: "legacy",
				Plugins: Plugins{"local-plugin"},
			},
		},
		{
			name:    "json",
			file:    "serverless.json",
			content: `{"service": "json-service", "provider": {"name": "aws"}}`,
			want: Config{
				Service:  "json-service",
				Provider: Provider{Name: "aws"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), tt.file, tt.content)
			got, err := Load(p)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			tt.want.Path = p
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Fatalf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	noService := writeFile(t, dir, "a.yml", "provider:\n  name: aws\n")
	if _, err := Load(noService); !clierr.Is(err, clierr.InvalidServiceConfig) {
		t.Fatalf("missing service: got %v, want %s", err, clierr.InvalidServiceConfig)
	}
	broken := writeFile(t, dir, "b.yml", "service: [unclosed\n")
	if _, err := Load(broken); !clierr.Is(err, clierr.InvalidServiceConfig) {
		t.Fatalf("broken yaml: got %v, want %s", err, clierr.InvalidServiceConfig)
	}
	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestCheckFrameworkVersion(t *testing.T) {
	tests := []struct {
		constraint string
		running    string
		code       clierr.Code
	}{
		{"", "4.1.0", ""},
		{"^4.0.0", "4.1.0", ""},
		{">=3.38.0 <5", "4.0.2", ""},
		{"3", "4.1.0", clierr.FrameworkVersionMismatch},
		{"^3.0.0", "4.1.0", clierr.FrameworkVersionMismatch},
		{"not a range", "4.1.0", clierr.InvalidServiceConfig},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			cfg := &Config{Path: "/svc/serverless.yml", Service: "svc", FrameworkVersion: tt.constraint}
			err := CheckFrameworkVersion(cfg, tt.running)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("CheckFrameworkVersion error: %v", err)
				}
				return
			}
			if got := clierr.CodeOf(err); got != tt.code {
				t.Fatalf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	if err := Require(cmdschema.ServiceRequired, ""); !clierr.Is(err, clierr.ServiceConfigNotFound) {
		t.Fatalf("got %v, want %s", err, clierr.ServiceConfigNotFound)
	}
	if err := Require(cmdschema.ServiceRequired, "/svc/serverless.yml"); err != nil {
		t.Fatalf("Require error: %v", err)
	}
	if err := Require(cmdschema.ServiceOptional, ""); err != nil {
		t.Fatalf("Require optional error: %v", err)
	}
	if err := Require(cmdschema.ServiceNone, ""); err != nil {
		t.Fatalf("Require none error: %v", err)
	}
}
