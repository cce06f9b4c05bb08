// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yeetrun/sls/pkg/cli"
)

// invocation is a validated command ready to be run.
type invocation struct {
	Command    string         `json:"command"`
	Positional []string       `json:"positional"`
	Options    map[string]any `json:"options"`
	Stage      string         `json:"stage"`
	Region     string         `json:"region"`
	Service    *serviceInfo   `json:"service,omitempty"`
}

type serviceInfo struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Provider string   `json:"provider,omitempty"`
	Plugins  []string `json:"plugins,omitempty"`
}

type handler func(ctx context.Context, w io.Writer, inv *invocation) error

func defaultHandlers() map[string]handler {
	return map[string]handler{
		cli.CommandDoctor: handleDoctor,
	}
}

// printInvocation is the handler for commands implemented outside this
// binary: it hands them the resolved invocation as JSON.
func printInvocation(_ context.Context, w io.Writer, inv *invocation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(inv)
}

func handleDoctor(_ context.Context, w io.Writer, inv *invocation) error {
	if inv.Service == nil {
		_, err := fmt.Fprintln(w, "No service found in the current directory, no deprecations to report")
		return err
	}
	_, err := fmt.Fprintf(w, "No deprecations reported for service %q\n", inv.Service.Name)
	return err
}
