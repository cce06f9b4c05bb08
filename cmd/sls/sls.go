// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/yeetrun/sls/pkg/cli"
	"github.com/yeetrun/sls/pkg/cmdschema"
	"github.com/yeetrun/sls/pkg/prefs"
	"github.com/yeetrun/sls/pkg/service"
	"github.com/yeetrun/sls/pkg/tui"
)

// version is the framework version, set at build time.
var version = "4.4.0"

const (
	defaultStage  = "dev"
	defaultRegion = "us-east-1"
)

type runner struct {
	stdout    io.Writer
	stderr    io.Writer
	getenv    func(string) string
	dir       string
	prefsPath string
	handlers  map[string]handler
}

func main() {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	r := &runner{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		getenv:    os.Getenv,
		dir:       dir,
		prefsPath: prefs.DefaultPath(),
		handlers:  defaultHandlers(),
	}
	os.Exit(r.run(context.Background(), os.Args[1:]))
}

func (r *runner) run(ctx context.Context, args []string) int {
	log.SetFlags(0)
	log.SetPrefix("sls: ")
	log.SetOutput(io.Discard)

	p, err := prefs.Load(r.prefsPath)
	if err != nil {
		tui.NewColorizer(prefs.ColorAuto, r.stderr).RenderNotice(r.stderr, fmt.Sprintf("ignoring preferences: %v", err))
		p = &prefs.Prefs{Color: prefs.ColorAuto}
	}
	p.ApplyEnv(r.getenv)
	colors := tui.NewColorizer(p.Color, r.stderr)
	verbose := slices.Contains(args, "--verbose")
	if p.Debug || slices.Contains(args, "--debug") {
		log.SetOutput(r.stderr)
	}

	reg := cli.Registry()
	if path := r.getenv("SLS_EXTENSIONS"); path != "" {
		if err := loadExtensionsFile(path, reg); err != nil {
			colors.RenderError(r.stderr, err, verbose)
			return 1
		}
		log.Printf("loaded command extensions from %s", path)
	}

	in, err := cli.ResolveInput(args, reg)
	if err != nil {
		colors.RenderError(r.stderr, err, verbose)
		return 1
	}
	log.Printf("resolved command %q with options %v", in.Command, in.Options)

	if in.IsVersion {
		fmt.Fprintf(r.stdout, "Serverless Framework %s\n", version)
		return 0
	}
	if in.IsHelp {
		fmt.Fprint(r.stdout, cli.HelpText(reg, in.Command))
		return 0
	}

	inv, err := r.prepare(in)
	if err != nil {
		colors.RenderError(r.stderr, err, verbose)
		return 1
	}

	p.EnsureInstallationID()
	if p.Changed() {
		if err := p.Save(r.prefsPath); err != nil {
			log.Printf("failed to save preferences: %v", err)
		}
	}

	h, ok := r.handlers[in.Command]
	if !ok {
		h = printInvocation
	}
	if err := h(ctx, r.stdout, inv); err != nil {
		colors.RenderError(r.stderr, err, verbose)
		return 1
	}
	return 0
}

func loadExtensionsFile(path string, reg *cmdschema.Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open command extensions: %w", err)
	}
	defer f.Close()
	return cli.LoadExtensions(f, reg)
}

// prepare loads the service the command depends on and fills in the stage
// and region.
func (r *runner) prepare(in *cli.Input) (*invocation, error) {
	inv := &invocation{
		Command:    in.Command,
		Positional: in.Positional,
		Options:    in.Options,
		Stage:      defaultStage,
		Region:     defaultRegion,
	}
	dep := in.Schema.ServiceDependency
	log.Printf("command %q service dependency: %s", in.Command, dep)
	if dep != cmdschema.ServiceNone {
		override, _ := in.Options["config"].(string)
		path, err := service.Locate(r.dir, override)
		if err != nil {
			return nil, err
		}
		if err := service.Require(dep, path); err != nil {
			return nil, err
		}
		if path != "" {
			cfg, err := service.Load(path)
			if err != nil {
				return nil, err
			}
			if err := service.CheckFrameworkVersion(cfg, version); err != nil {
				return nil, err
			}
			log.Printf("loaded service %q from %s", cfg.Service, path)
			inv.Service = &serviceInfo{
				Name:     string(cfg.Service),
				Path:     path,
				Provider: cfg.Provider.Name,
				Plugins:  cfg.Plugins,
			}
			if cfg.Provider.Stage != "" {
				inv.Stage = cfg.Provider.Stage
			}
			if cfg.Provider.Region != "" {
				inv.Region = cfg.Provider.Region
			}
		}
	}
	if s, ok := in.Options["stage"].(string); ok && s != "" {
		inv.Stage = s
	}
	if s, ok := in.Options["region"].(string); ok && s != "" {
		inv.Region = s
	}
	return inv, nil
}
