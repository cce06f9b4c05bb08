// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/yeetrun/sls/pkg/clierr"
)

// RenderError writes err for the user. In verbose mode the error code and
// the underlying cause, if any, follow the message.
func (c Colorizer) RenderError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "%s %v\n", c.Wrap(color.FgRed, "Error:"), err)
	if !verbose {
		return
	}
	if code := clierr.CodeOf(err); code != "" {
		fmt.Fprintln(w, c.Wrap(color.FgHiBlack, "["+string(code)+"]"))
	}
	var ce *clierr.Error
	if errors.As(err, &ce) && ce.Err != nil {
		fmt.Fprintln(w, c.Wrap(color.FgHiBlack, "Cause: "+ce.Err.Error()))
	}
}

// RenderNotice writes a highlighted notice, e.g. a deprecation.
func (c Colorizer) RenderNotice(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", c.Wrap(color.FgYellow, "Notice:"), msg)
}
