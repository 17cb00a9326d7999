// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logscan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bytefs/fsstat/statfmt"
)

// ParseName splits a log file name of the form
// <filesystem>.<workload>[.anything] into its filesystem and workload.
func ParseName(name string) (filesystem, workload string, err error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("log file name %q is not of the form <filesystem>.<workload>.*", name)
	}
	filesystem, workload = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if filesystem == "" || workload == "" {
		return "", "", fmt.Errorf("log file name %q has an empty filesystem or workload", name)
	}
	return filesystem, workload, nil
}

// Gather reads every log file in dir into a Dataset keyed by
// filesystem, workload, and measurement name. Files are read in
// lexical order; the statistics file itself and subdirectories are
// skipped. Each log adds an entry for its filesystem and workload even
// if it holds no measurements. A later measurement with the same name
// replaces an earlier one.
//
// If log is non-nil, each measurement is logged at debug level.
func Gather(dir string, log logrus.FieldLogger) (*statfmt.Dataset, error) {
	if log == nil {
		log = discard()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	d := new(statfmt.Dataset)
	var r Reader
	for _, ent := range entries {
		if ent.IsDir() || ent.Name() == statfmt.FileName {
			continue
		}
		fs, wl, err := ParseName(ent.Name())
		if err != nil {
			return nil, err
		}
		d.Add(fs, wl)

		path := filepath.Join(dir, ent.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		r.Reset(f, path)
		n := 0
		for r.Scan() {
			m := r.Measurement()
			log.WithField("file", ent.Name()).Debugf("line %d: %s = %s", m.Line, m.Name, m.Value)
			d.Set(fs, wl, m.Name, m.Value)
			n++
		}
		f.Close()
		if err := r.Err(); err != nil {
			return nil, err
		}
		log.WithField("file", ent.Name()).Debugf("%d measurements for %s/%s", n, fs, wl)
	}
	return d, nil
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
