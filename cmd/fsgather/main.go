// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fsgather collects file system benchmark logs into a statistics file.
//
// Usage:
//
//	fsgather [-v] [-t tag] [-C root]
//
// Fsgather reads every log in root/remote_output (or
// root/remote_output-tag if a tag is given). Each log is named
// <filesystem>.<workload>.<anything>, and the measurements it reports
// after its "Running..." line are recorded under that filesystem and
// workload. The result is written to stats.json in the same folder,
// replacing any earlier one.
//
// A measurement line is either "Run took <seconds>", recorded as
// ops_throughput, or "<label>: <values>", recorded under the label
// lower-cased with spaces replaced by underscores. Values of the form
// "N (R: r, W: w)" and "N (Hit: h, Miss: m)" record three
// measurements with _total, _read and _write or _total, _hit and _miss
// suffixes.
package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/bytefs/fsstat/internal/cliutil"
	"github.com/bytefs/fsstat/logscan"
	"github.com/bytefs/fsstat/statfmt"
)

type cli struct {
	cliutil.Options `embed:""`
}

func main() {
	os.Exit(fsgather(os.Args[1:], os.Stdout, os.Stderr))
}

// fsgather runs the command with args and returns its exit status.
func fsgather(args []string, stdout, stderr io.Writer) int {
	var c cli
	parser := kong.Must(&c,
		kong.Name("fsgather"),
		kong.Description("Collect file system benchmark logs into "+statfmt.FileName+"."),
		kong.Writers(stdout, stderr),
	)
	if _, err := parser.Parse(args); err != nil {
		parser.Errorf("%s", err)
		return 1
	}
	dir, err := c.LogDir()
	if err != nil {
		parser.Errorf("%s", err)
		return 1
	}

	log := cliutil.NewLogger(stderr, c.Verbose)
	log.WithField("dir", dir).Info("gathering logs")
	d, err := logscan.Gather(dir, log)
	if err != nil {
		log.Error(err)
		return 1
	}
	out := filepath.Join(dir, statfmt.FileName)
	if err := d.WriteFile(out); err != nil {
		log.Error(err)
		return 1
	}
	log.WithField("file", out).Infof("wrote statistics of %d file systems", d.Len())
	return 0
}
