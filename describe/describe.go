// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package describe parses table description files.
//
// A description file, conventionally named description.settings,
// declares which benchmark values go into a rendered table and how
// they are labeled. It is line oriented. Blank lines and lines
// starting with "#" or "//" are ignored. The bare lines
//
//	generic_settings
//	dimension_settings
//	plot_settings
//
// switch between sections.
//
// In generic_settings, "key: value" lines override the defaults in
// Settings. The keys are output_file_name, spreadsheet_file_name,
// post_run_action, statistics_spacing, and dimension_setting_separator.
//
// In dimension_settings, each line selects values of one dimension. A
// bare dimension name selects every catalog value of the dimension.
// Otherwise the line lists formulas after the dimension name:
//
//	filesystem: ext4, bytefs|ByteFS, bytefs/ext4|speedup
//
// Each formula names values of the dimension and may combine them
// arithmetically. An optional "|label" sets the text shown in the
// table; the formula itself is shown otherwise. A line holding only
// "!", "EOS", or the configured separator ends one group of
// selections and starts another. Groups are overlaid into one table.
//
// In plot_settings, "key: value" lines configure an optional chart;
// see PlotSettings.
package describe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"

	"github.com/bytefs/fsstat/dims"
	"github.com/bytefs/fsstat/internal/formula"
)

// FileName is the conventional name of a description file.
const FileName = "description.settings"

// Settings are the generic settings of a description.
type Settings struct {
	OutputFileName            string // output_file_name
	SpreadsheetFileName       string // spreadsheet_file_name; none if empty
	PostRunAction             string // post_run_action
	StatisticsSpacing         int    // statistics_spacing
	DimensionSettingSeparator string // dimension_setting_separator
}

// DefaultSettings returns the settings used when a description does
// not override them.
func DefaultSettings() Settings {
	return Settings{
		OutputFileName:            "output",
		PostRunAction:             "",
		StatisticsSpacing:         15,
		DimensionSettingSeparator: "!",
	}
}

var settingKeys = []string{"output_file_name", "spreadsheet_file_name", "post_run_action", "statistics_spacing", "dimension_setting_separator"}

func (s *Settings) set(key, val string) error {
	switch key {
	case "output_file_name":
		if val == "" {
			return errors.New("output_file_name must not be empty")
		}
		s.OutputFileName = val
	case "spreadsheet_file_name":
		if val != "" && !strings.EqualFold(filepath.Ext(val), ".xlsx") {
			return fmt.Errorf("spreadsheet_file_name must end in .xlsx, got %q", val)
		}
		s.SpreadsheetFileName = val
	case "post_run_action":
		// The action must split into well-quoted shell words.
		if _, err := shellquote.Split(val); err != nil {
			return fmt.Errorf("post_run_action %q: %w", val, err)
		}
		s.PostRunAction = val
	case "statistics_spacing":
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("statistics_spacing must be a positive integer, got %q", val)
		}
		s.StatisticsSpacing = n
	case "dimension_setting_separator":
		if val == "" {
			return errors.New("dimension_setting_separator must not be empty")
		}
		s.DimensionSettingSeparator = val
	default:
		return fmt.Errorf("unknown generic setting %q, want one of %v", key, settingKeys)
	}
	return nil
}

// PlotSettings configure the optional chart of a table. No chart is
// drawn unless FileName is set.
type PlotSettings struct {
	FileName string  // plot_file_name; extension selects png, svg, or pdf
	Title    string  // plot_title
	WidthCm  float64 // plot_width_cm
	HeightCm float64 // plot_height_cm
	Summary  string  // plot_summary: none, mean, or geomean
}

// DefaultPlotSettings returns the plot settings used when a
// description does not override them.
func DefaultPlotSettings() PlotSettings {
	return PlotSettings{WidthCm: 16, HeightCm: 10, Summary: "none"}
}

var plotKeys = []string{"plot_file_name", "plot_title", "plot_width_cm", "plot_height_cm", "plot_summary"}

func (p *PlotSettings) set(key, val string) error {
	switch key {
	case "plot_file_name":
		p.FileName = val
	case "plot_title":
		p.Title = val
	case "plot_width_cm", "plot_height_cm":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || !(f > 0) {
			return fmt.Errorf("%s must be a positive number, got %q", key, val)
		}
		if key == "plot_width_cm" {
			p.WidthCm = f
		} else {
			p.HeightCm = f
		}
	case "plot_summary":
		switch val {
		case "none", "mean", "geomean":
			p.Summary = val
		default:
			return fmt.Errorf("plot_summary must be none, mean, or geomean, got %q", val)
		}
	default:
		return fmt.Errorf("unknown plot setting %q, want one of %v", key, plotKeys)
	}
	return nil
}

// A Selection is one configured value of a dimension: a formula over
// values of that dimension and the label to show for it.
type Selection struct {
	Formula string       // Formula as written
	Expr    formula.Expr // Parsed Formula
	Vars    []string     // Free variables of Expr, in order of appearance
	Label   string       // Display label; Formula if none was given
}

// NewSelection parses f into a Selection. If label is empty, the
// formula itself is the label.
func NewSelection(f, label string) (Selection, error) {
	e, err := formula.Parse(f)
	if err != nil {
		return Selection{}, err
	}
	if label == "" {
		label = f
	}
	return Selection{f, e, formula.Vars(e), label}, nil
}

// A DimSelections is the list of selections for one dimension.
type DimSelections struct {
	Dim        string
	Selections []Selection
}

// A Group is one complete set of per-dimension selections.
type Group struct {
	Dims []DimSelections
}

// Selections returns the selections for dim, or nil if g does not
// mention dim.
func (g *Group) Selections(dim string) []Selection {
	for _, d := range g.Dims {
		if d.Dim == dim {
			return d.Selections
		}
	}
	return nil
}

// DimNames returns the dimensions of g in the order they were
// declared.
func (g *Group) DimNames() []string {
	names := make([]string, len(g.Dims))
	for i, d := range g.Dims {
		names[i] = d.Dim
	}
	return names
}

func (g *Group) put(dim string, sels []Selection) {
	for i := range g.Dims {
		if g.Dims[i].Dim == dim {
			g.Dims[i].Selections = sels
			return
		}
	}
	g.Dims = append(g.Dims, DimSelections{dim, sels})
}

// A Description is a parsed description file.
type Description struct {
	Settings Settings
	Plot     PlotSettings
	Groups   []*Group
}

// A SyntaxError reports a malformed line of a description file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
	Err      error // Underlying error, if any
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: %s: %s", e.FileName, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ParseFile parses the named description file.
func ParseFile(path string, cat *dims.Catalog, log logrus.FieldLogger) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path, cat, log)
}

// Section names.
const (
	genericSection   = "generic_settings"
	dimensionSection = "dimension_settings"
	plotSection      = "plot_settings"
)

type parser struct {
	fileName string
	cat      *dims.Catalog
	log      logrus.FieldLogger

	desc  *Description
	state string
	line  int
	group *Group
}

// Parse parses a description from r. Dimension names and bare
// dimension selections are resolved against cat. fileName is used in
// error messages. If log is non-nil, parse progress and ignored lines
// are logged to it.
func Parse(r io.Reader, fileName string, cat *dims.Catalog, log logrus.FieldLogger) (*Description, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	p := &parser{
		fileName: fileName,
		cat:      cat,
		log:      log,
		desc: &Description{
			Settings: DefaultSettings(),
			Plot:     DefaultPlotSettings(),
		},
		group: new(Group),
	}
	s := bufio.NewScanner(r)
	for s.Scan() {
		p.line++
		if err := p.parseLine(strings.TrimSpace(s.Text())); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	if len(p.group.Dims) > 0 {
		p.endGroup()
	}
	return p.desc, nil
}

func (p *parser) errorf(err error, format string, args ...any) error {
	return &SyntaxError{p.fileName, p.line, fmt.Sprintf(format, args...), err}
}

func (p *parser) logger() logrus.FieldLogger {
	return p.log.WithField("line", p.line)
}

func (p *parser) endGroup() {
	if len(p.group.Dims) == 0 {
		p.logger().Warn("empty description group")
		return
	}
	p.desc.Groups = append(p.desc.Groups, p.group)
	p.logger().Debugf("description group %d recorded", len(p.desc.Groups)-1)
	p.group = new(Group)
}

func (p *parser) parseLine(line string) error {
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return nil
	}
	switch line {
	case genericSection, dimensionSection, plotSection:
		if line == p.state {
			p.logger().Warnf("already in %s", line)
			return nil
		}
		if p.state == dimensionSection {
			p.endGroup()
		}
		p.state = line
		p.logger().Debugf("section %s", line)
		return nil
	}

	switch p.state {
	case genericSection:
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			p.logger().Warnf("ignoring generic setting %q without \":\"", line)
			return nil
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if err := p.desc.Settings.set(key, val); err != nil {
			return p.errorf(err, "invalid generic setting")
		}
		p.logger().Infof("change setting %s: %s", key, val)
	case dimensionSection:
		return p.parseDimension(line)
	case plotSection:
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			p.logger().Warnf("ignoring plot setting %q without \":\"", line)
			return nil
		}
		if err := p.desc.Plot.set(strings.TrimSpace(key), strings.TrimSpace(val)); err != nil {
			return p.errorf(err, "invalid plot setting")
		}
	default:
		p.logger().Warnf("ignoring %q outside of any section", line)
	}
	return nil
}

func (p *parser) parseDimension(line string) error {
	if line == "!" || line == "EOS" || line == p.desc.Settings.DimensionSettingSeparator {
		p.endGroup()
		return nil
	}

	if !strings.Contains(line, ":") {
		dim := line
		if !p.cat.Has(dim) {
			return p.errorf(nil, "dimension %q does not exist", dim)
		}
		vals := p.cat.Values(dim)
		if len(vals) == 0 {
			p.logger().Warnf("dimension %q has no catalog values; nothing selected", dim)
		}
		sels := make([]Selection, 0, len(vals))
		for _, v := range vals {
			sel, err := NewSelection(v, "")
			if err != nil {
				return p.errorf(err, "catalog value %q of %q is not a name", v, dim)
			}
			sels = append(sels, sel)
		}
		p.group.put(dim, sels)
		return nil
	}

	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return p.errorf(nil, "invalid dimension setting %q, at most one \":\" is accepted", line)
	}
	dim := strings.TrimSpace(parts[0])
	if !p.cat.Has(dim) {
		return p.errorf(nil, "dimension %q does not exist", dim)
	}
	var sels []Selection
	for _, item := range strings.Split(parts[1], ",") {
		item = strings.TrimSpace(item)
		f, label := item, ""
		if strings.Contains(item, "|") {
			fields := strings.Split(item, "|")
			if len(fields) != 2 {
				return p.errorf(nil, "invalid selection %q, more than one \"|\"", item)
			}
			f, label = strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
			if label == "" {
				return p.errorf(nil, "invalid selection %q, empty label", item)
			}
		}
		sel, err := NewSelection(f, label)
		if err != nil {
			return p.errorf(err, "invalid %s formula %q", dim, f)
		}
		sels = append(sels, sel)
	}
	p.group.put(dim, sels)
	return nil
}
