// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logscan extracts measurements from the free-text logs
// written by filesystem benchmark runs.
//
// A log is ignored up to the first line containing "Running...".
// From there on, lines of the form
//
//	[prefix:] label: value text
//
// produce measurements named after the label, and a line such as
//
//	12.3: Run took 2 seconds
//
// produces an ops_throughput measurement. All other lines are skipped.
package logscan

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytefs/fsstat/statfmt"
)

// A Measurement is a single named value extracted from a log.
type Measurement struct {
	Name  string
	Value statfmt.Value
	Line  int // Line number the measurement came from
}

// A Reader reads measurements from a benchmark log.
//
// Its API is modeled on bufio.Scanner. To construct a new Reader,
// either call NewReader, or call Reset on a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	fileName string
	line     int
	started  bool

	// q is the queue of measurements produced by the current
	// line. qPos is the index of the current measurement in q.
	q    []Measurement
	qPos int
}

// maxLine is the longest log line the Reader accepts.
const maxLine = 1 << 20

// NewReader constructs a reader to extract measurements from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(nil, maxLine)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.err = nil
	r.line = 0
	r.started = false
	r.qPos = 0
	r.q = r.q[:0]
}

// startMarker marks the beginning of the measured part of a log.
const startMarker = "Running..."

// ignoredLabels are labels that carry no measurement.
var ignoredLabels = map[string]bool{
	"logfile_populated":   true,
	"datafiles_populated": true,
	"svg_path":            true,
}

var (
	labelLine  = regexp.MustCompile(`^(?:.*:)?\s*([a-zA-Z0-9_ ]*):\s*(.*)\s*`)
	runTook    = regexp.MustCompile(`^(?:[\d\.]+:)?\s*(.*)`)
	numberToks = regexp.MustCompile(`\d+\.?\d*`)
)

// Scan advances the reader to the next measurement and reports
// whether one was read. The caller should use the Measurement method
// to get it. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.qPos+1 < len(r.q) {
		r.qPos++
		return true
	}
	r.qPos = 0
	r.q = r.q[:0]

	for len(r.q) == 0 && r.s.Scan() {
		r.line++
		line := r.s.Text()
		if !r.started {
			if !strings.Contains(line, startMarker) {
				continue
			}
			r.started = true
		}
		r.parseLine(line)
	}
	if len(r.q) > 0 {
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Measurement returns the measurement that was just read by Scan.
func (r *Reader) Measurement() Measurement {
	return r.q[r.qPos]
}

// Err returns the first I/O error encountered by the Reader.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) emit(name, val string) {
	r.q = append(r.q, Measurement{name, statfmt.Value(val), r.line})
}

func (r *Reader) parseLine(line string) {
	if m := labelLine.FindStringSubmatch(line); m != nil {
		name := labelName(m[1])
		if name == "" {
			return
		}
		r.parseLabel(name, numberToks.FindAllString(m[2], -1), line)
		return
	}
	if strings.Contains(line, "Run took") {
		rest := runTook.FindStringSubmatch(line)[1]
		toks := numberToks.FindAllString(rest, -1)
		if len(toks) != 1 {
			return
		}
		secs, err := strconv.ParseFloat(toks[0], 64)
		if err != nil || secs == 0 {
			return
		}
		r.emit("ops_throughput", formatFloat(100/secs))
	}
}

// parseLabel turns the numeric tokens following a label into
// measurements.
func (r *Reader) parseLabel(name string, toks []string, line string) {
	switch {
	case ignoredLabels[name]:
	case name == "io_summary":
		if len(toks) >= 2 {
			r.emit("ops", toks[0])
			r.emit("ops_throughput", toks[1])
		}
	case len(toks) == 3 && strings.Contains(line, "R:") && strings.Contains(line, "W:"):
		r.emit(name+"_total", toks[0])
		r.emit(name+"_read", toks[1])
		r.emit(name+"_write", toks[2])
	case len(toks) == 3 && strings.Contains(line, "Hit:") && strings.Contains(line, "Miss:"):
		r.emit(name+"_total", toks[0])
		r.emit(name+"_hit", toks[1])
		r.emit(name+"_miss", toks[2])
	case len(toks) >= 1:
		r.emit(name, toks[0])
	}
}

// labelName normalizes a log label into a measurement name:
// "Read  Latency" becomes "read_latency".
func labelName(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), "_"))
}

// formatFloat formats v using the fewest digits that read back as v,
// always including a fractional part or an exponent so the value
// reads as a float.
func formatFloat(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
