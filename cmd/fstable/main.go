// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fstable renders gathered file system benchmark statistics as a text
// table.
//
// Usage:
//
//	fstable [-v] [-t tag] [-C root] -f folder
//
// Fstable reads stats.json from root/remote_output (or
// root/remote_output-tag), as written by fsgather, and the table
// description root/folder/description.settings. It writes the table
// to the description's output file in the same folder, writes the
// optional spreadsheet and charts the description asks for, and
// finally runs the description's post-run action, if any, with sh in
// that folder. A post-run action that exits with a non-zero status is
// logged as a warning; the outputs are already written.
//
// See package github.com/bytefs/fsstat/describe for the description
// format.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/bytefs/fsstat/chart"
	"github.com/bytefs/fsstat/describe"
	"github.com/bytefs/fsstat/dims"
	"github.com/bytefs/fsstat/internal/cliutil"
	"github.com/bytefs/fsstat/pivot"
	"github.com/bytefs/fsstat/statfmt"
)

type cli struct {
	cliutil.Options `embed:""`

	Folder string `name:"output_description_folder" short:"f" required:"" placeholder:"FOLDER" help:"Folder under the root holding ${describe_file}; the table is written there."`
}

func main() {
	os.Exit(fstable(os.Args[1:], os.Stdout, os.Stderr))
}

// fstable runs the command with args and returns its exit status.
func fstable(args []string, stdout, stderr io.Writer) int {
	var c cli
	parser := kong.Must(&c,
		kong.Name("fstable"),
		kong.Description("Render gathered file system benchmark statistics as a table."),
		kong.Vars{"describe_file": describe.FileName},
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
	if err := render(dir, filepath.Join(c.Root, c.Folder), stdout, stderr, log); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func render(dataDir, folder string, stdout, stderr io.Writer, log *logrus.Logger) error {
	statsFile := filepath.Join(dataDir, statfmt.FileName)
	descFile := filepath.Join(folder, describe.FileName)
	log.WithFields(logrus.Fields{
		"stats":       statsFile,
		"description": descFile,
	}).Info("rendering table")

	d, err := statfmt.ReadFile(statsFile)
	if err != nil {
		return err
	}
	desc, err := describe.ParseFile(descFile, dims.Default, log)
	if err != nil {
		return err
	}
	tab, err := pivot.Build(desc, d, dims.Default, log)
	if err != nil {
		return err
	}
	for _, ax := range tab.Axes {
		log.Debugf("axis %s: %q", ax.Dim, ax.Labels)
	}

	out := filepath.Join(folder, desc.Settings.OutputFileName)
	if err := tab.WriteFile(out, desc.Settings.StatisticsSpacing); err != nil {
		return err
	}
	log.WithField("file", out).Info("wrote table")

	if name := desc.Settings.SpreadsheetFileName; name != "" {
		xlsx := filepath.Join(folder, name)
		if err := tab.WriteXLSX(xlsx); err != nil {
			return err
		}
		log.WithField("file", xlsx).Info("wrote spreadsheet")
	}

	if desc.Plot.FileName != "" {
		files, err := chart.Save(tab, desc.Plot, folder, log)
		if err != nil {
			return err
		}
		log.Infof("wrote %d charts", len(files))
	}

	if action := desc.Settings.PostRunAction; action != "" {
		log.WithField("action", action).Info("running post-run action")
		cmd := exec.Command("sh", "-c", action)
		cmd.Dir = folder
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		err := cmd.Run()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.WithField("action", action).Warnf("post-run action exited with status %d", exitErr.ExitCode())
		} else if err != nil {
			return fmt.Errorf("post-run action %q: %w", action, err)
		}
	}
	return nil
}
