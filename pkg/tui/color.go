// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/yeetrun/sls/pkg/prefs"
	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

type Colorizer struct {
	Enabled bool
}

// NewColorizer resolves a prefs color mode for output to w. In auto mode
// color is used only when w is a terminal, TERM is set and not "dumb", and
// NO_COLOR is unset.
func NewColorizer(mode string, w io.Writer) Colorizer {
	switch mode {
	case prefs.ColorAlways:
		return Colorizer{Enabled: true}
	case prefs.ColorNever:
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	f, ok := w.(*os.File)
	if !ok || !isTerminalFn(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Wrap(attr color.Attribute, text string) string {
	if !c.Enabled {
		return text
	}
	col := color.New(attr)
	col.EnableColor()
	return col.Sprint(text)
}
