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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dgb/datatable"
	"dgb/export"
	"dgb/internal/source"
)

var serveOpts struct {
	addr  string
	sheet string
	limit int64
}

var serveCmd = &cobra.Command{
	Use:   "serve FILE",
	Short: "Serve a data file as a grid over HTTP",
	Long: `Loads FILE once and serves it at /grid. Query parameters select the
format, columns, filter, sort and display flags of each response.

Example:
  dgb serve people.csv --addr :8080
  curl 'localhost:8080/grid?format=csv&filter=age%20%3E%2040&sort=name&desc=true'`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "Listen address (default: server.addr from config)")
	serveCmd.Flags().StringVar(&serveOpts.sheet, "sheet", "", "Excel sheet (default: first)")
	serveCmd.Flags().Int64Var(&serveOpts.limit, "limit", 0, "Maximum rows to load (default: row_limit from config)")
}

var contentTypes = map[export.Format]string{
	export.FormatText:    "text/plain; charset=utf-8",
	export.FormatHTML:    "text/html; charset=utf-8",
	export.FormatCSV:     "text/csv; charset=utf-8",
	export.FormatJSON:    "application/json",
	export.FormatParquet: "application/vnd.apache.parquet",
	export.FormatXLSX:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// gridServer serves one dataset. Every request renders through its own view,
// so requests never share filter or sort state.
type gridServer struct {
	router     *chi.Mux
	dataset    *source.Dataset
	configured []datatable.Column
	defaults   datatable.Options
	logger     *zap.Logger
}

func newGridServer(d *source.Dataset, configured []datatable.Column, defaults datatable.Options, logger *zap.Logger) *gridServer {
	s := &gridServer{
		router:     chi.NewRouter(),
		dataset:    d,
		configured: configured,
		defaults:   defaults,
		logger:     logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *gridServer) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *gridServer) setupRoutes() {
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/grid", http.StatusFound)
	})
	s.router.Get("/grid", s.handleGrid)
	s.router.Get("/columns", s.handleColumns)
}

// ServeHTTP implements http.Handler.
func (s *gridServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *gridServer) handleGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := export.FormatHTML
	if f := q.Get("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	req, err := requestFromQuery(q, s.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := openView(s.dataset, s.configured, req, s.logger)
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	rendering, err := v.Render()
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, rendering, format); err != nil {
		s.logger.Error("failed to write grid", zap.Stringer("format", format), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if format == export.FormatParquet || format == export.FormatXLSX {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "grid"+format.Extension()))
	}
	_, _ = w.Write(buf.Bytes())
}

type columnInfo struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

func (s *gridServer) handleColumns(w http.ResponseWriter, r *http.Request) {
	cols := make([]columnInfo, len(s.dataset.Columns))
	for i, c := range s.dataset.Columns {
		cols[i] = columnInfo{Key: c.AccessorKey, Title: c.Header()}
	}
	w.Header().Set("Content-Type", contentTypes[export.FormatJSON])
	if err := json.NewEncoder(w).Encode(cols); err != nil {
		s.logger.Warn("failed to write columns", zap.Error(err))
	}
}

// requestFromQuery reads the grid parameters of a request. Display flags
// that are absent keep their defaults.
func requestFromQuery(q url.Values, defaults datatable.Options) (gridRequest, error) {
	req := gridRequest{
		Columns: splitList(q.Get("columns")),
		Filter:  q.Get("filter"),
		Sort:    q.Get("sort"),
		Options: defaults,
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"desc", &req.Descending},
		{"transpose", &req.Options.Transpose},
		{"header", &req.Options.ShowHeader},
		{"striped", &req.Options.Striped},
		{"bordered", &req.Options.Bordered},
		{"condensed", &req.Options.Condensed},
		{"responsive", &req.Options.Responsive},
	}
	for _, f := range flags {
		if !q.Has(f.name) {
			continue
		}
		b, err := strconv.ParseBool(q.Get(f.name))
		if err != nil {
			return req, fmt.Errorf("invalid %s %q: %w", f.name, q.Get(f.name), err)
		}
		*f.dst = b
	}
	if q.Has("empty_text") {
		req.Options.EmptyText = q.Get("empty_text")
	}
	return req, nil
}

// statusOf maps request errors onto a status code.
func statusOf(err error) int {
	switch {
	case errors.Is(err, datatable.ErrColumnNotFound),
		errors.Is(err, datatable.ErrInvalidFilter),
		errors.Is(err, datatable.ErrInvalidSortColumn):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	limit := serveOpts.limit
	if limit <= 0 {
		limit = cfg.RowLimit
	}
	addr := serveOpts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	loadCtx, cancel := context.WithTimeout(commandContext(cmd), cfg.APITimeout())
	d, err := source.Load(loadCtx, args[0], source.Options{Sheet: serveOpts.sheet, Limit: limit})
	cancel()
	if err != nil {
		return err
	}
	configured, err := cfg.GridColumns(logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newGridServer(d, configured, cfg.GridOptions(), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving grid", zap.String("addr", addr), zap.String("dataset", d.Summary()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
