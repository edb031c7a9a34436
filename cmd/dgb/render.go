// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"dgb/datatable"
	"dgb/export"
	"dgb/internal/source"
	"dgb/internal/view"
)

// gridRequest selects what part of a dataset is rendered and how.
type gridRequest struct {
	Columns    []string
	Filter     string
	Sort       string
	Descending bool
	Options    datatable.Options
}

// openView builds a view of d. Configured columns that do not fit the
// dataset are logged and ignored, leaving every column shown.
func openView(d *source.Dataset, configured []datatable.Column, req gridRequest, logger *zap.Logger) (*view.View, error) {
	v := view.New(d.Rows, d.Columns, req.Options)
	if err := v.Configure(configured); err != nil {
		logger.Warn("configured columns do not match dataset",
			zap.String("dataset", d.Name), zap.Error(err))
	}

	if len(req.Columns) > 0 {
		if err := v.SetColumns(req.Columns); err != nil {
			return nil, err
		}
	}
	if err := v.SetQuery(req.Filter); err != nil {
		return nil, err
	}

	if req.Sort != "" {
		col := slices.Index(v.ColumnKeys(), req.Sort)
		if col < 0 {
			return nil, fmt.Errorf("%w: sort by %s", datatable.ErrColumnNotFound, req.Sort)
		}
		dir := datatable.SortAscending
		if req.Descending {
			dir = datatable.SortDescending
		}
		if err := v.SetSort(datatable.SortState{Column: col, Direction: dir}); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// splitList splits a comma separated flag or query value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var renderOpts struct {
	format     string
	out        string
	columns    string
	filter     string
	sort       string
	desc       bool
	sheet      string
	limit      int64
	transpose  bool
	noHeader   bool
	emptyText  string
	striped    bool
	bordered   bool
	condensed  bool
	responsive bool
}

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a data file as a grid",
	Long: `Loads FILE, applies the column selection, filter and sort, and writes the
grid to stdout or --out in the chosen format.

Display flags default to the grid section of the config file.

Example:
  dgb render people.csv --columns name,age --filter "age > 40" --format html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOpts.format, "format", "f", "", "Output format: text, html, csv, json, parquet or xlsx (default: from --out, else text)")
	f.StringVarP(&renderOpts.out, "out", "o", "", "Output file (default: stdout)")
	f.StringVar(&renderOpts.columns, "columns", "", "Comma separated columns to show, in order")
	f.StringVar(&renderOpts.filter, "filter", "", `Filter query, e.g. "age > 40 AND city ~ york"`)
	f.StringVar(&renderOpts.sort, "sort", "", "Column to sort by")
	f.BoolVar(&renderOpts.desc, "desc", false, "Sort descending")
	f.StringVar(&renderOpts.sheet, "sheet", "", "Excel sheet (default: first)")
	f.Int64Var(&renderOpts.limit, "limit", 0, "Maximum rows to load (default: row_limit from config)")
	f.BoolVar(&renderOpts.transpose, "transpose", false, "Swap rows and columns")
	f.BoolVar(&renderOpts.noHeader, "no-header", false, "Omit the header")
	f.StringVar(&renderOpts.emptyText, "empty-text", "", "Text shown when no row passes the filter")
	f.BoolVar(&renderOpts.striped, "striped", false, "Striped rows")
	f.BoolVar(&renderOpts.bordered, "bordered", false, "Bordered table")
	f.BoolVar(&renderOpts.condensed, "condensed", false, "Condensed table")
	f.BoolVar(&renderOpts.responsive, "responsive", false, "Responsive HTML wrapper")
}

// gridOptions starts from the configured defaults and applies the display
// flags that were set on the command line.
func gridOptions(flags *pflag.FlagSet) datatable.Options {
	opts := cfg.GridOptions()
	if flags.Changed("transpose") {
		opts.Transpose = renderOpts.transpose
	}
	if flags.Changed("no-header") {
		opts.ShowHeader = !renderOpts.noHeader
	}
	if flags.Changed("empty-text") {
		opts.EmptyText = renderOpts.emptyText
	}
	if flags.Changed("striped") {
		opts.Striped = renderOpts.striped
	}
	if flags.Changed("bordered") {
		opts.Bordered = renderOpts.bordered
	}
	if flags.Changed("condensed") {
		opts.Condensed = renderOpts.condensed
	}
	if flags.Changed("responsive") {
		opts.Responsive = renderOpts.responsive
	}
	return opts
}

// outputFormat resolves --format, falling back to the extension of --out.
func outputFormat(format, out string) (export.Format, error) {
	if format == "" && out != "" {
		return export.ParseFormat(filepath.Ext(out))
	}
	return export.ParseFormat(format)
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(renderOpts.format, renderOpts.out)
	if err != nil {
		return err
	}

	limit := renderOpts.limit
	if limit <= 0 {
		limit = cfg.RowLimit
	}
	req := gridRequest{
		Columns:    splitList(renderOpts.columns),
		Filter:     renderOpts.filter,
		Sort:       renderOpts.sort,
		Descending: renderOpts.desc,
		Options:    gridOptions(cmd.Flags()),
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.APITimeout())
	defer cancel()

	r, err := renderFile(ctx, args[0], source.Options{Sheet: renderOpts.sheet, Limit: limit}, req)
	if err != nil {
		return err
	}

	if renderOpts.out == "" {
		return export.Write(cmd.OutOrStdout(), r, format)
	}
	if err := export.WriteFile(renderOpts.out, r, format); err != nil {
		return err
	}
	logger.Info("grid written",
		zap.String("file", renderOpts.out),
		zap.Stringer("format", format))
	return nil
}

// renderFile loads path and renders it under req.
func renderFile(ctx context.Context, path string, opts source.Options, req gridRequest) (*datatable.Rendering, error) {
	d, err := source.Load(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", zap.String("summary", d.Summary()))

	configured, err := cfg.GridColumns(logger)
	if err != nil {
		return nil, err
	}
	v, err := openView(d, configured, req, logger)
	if err != nil {
		return nil, err
	}
	return v.Render()
}
