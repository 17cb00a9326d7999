// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cliutil holds the options and setup shared by the fsstat
// commands.
package cliutil

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Options are the flags common to every command.
type Options struct {
	Verbose bool   `short:"v" help:"Log debug messages."`
	Tag     string `name:"output_folder_tag" short:"t" placeholder:"TAG" help:"Use the log folder remote_output-TAG instead of remote_output."`
	Root    string `short:"C" type:"path" default:"." help:"Directory holding the log folder and description folders."`
}

var tagRE = regexp.MustCompile(`^[0-9a-zA-Z-]*$`)

// LogDir returns the folder holding the benchmark logs and their
// statistics file.
func (o *Options) LogDir() (string, error) {
	if !tagRE.MatchString(o.Tag) {
		return "", fmt.Errorf("output folder tag %q does not match %s", o.Tag, tagRE)
	}
	name := "remote_output"
	if o.Tag != "" {
		name += "-" + o.Tag
	}
	return filepath.Join(o.Root, name), nil
}

// NewLogger returns a logger writing plain text to w. It logs at info
// level, or debug level if verbose is set.
func NewLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
