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

// Package deltasharing reads tables published over the Delta Sharing
// protocol.
package deltasharing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"go.uber.org/zap"

	arrowadapter "dgb/adapters/arrow"
)

// DefaultTimeout bounds each call to the sharing server when none is set.
const DefaultTimeout = 60 * time.Second

// ErrFileNotFound is returned when a requested data file is not part of a
// table.
var ErrFileNotFound = errors.New("file not found in table")

// Table identifies a shared table.
type Table = delta_sharing.Table

// IsProfile reports whether content looks like a Delta Sharing profile.
func IsProfile(content []byte) bool {
	var profile map[string]interface{}
	if err := json.Unmarshal(content, &profile); err != nil {
		return false
	}

	_, hasVersion := profile["shareCredentialsVersion"]
	_, hasEndpoint := profile["endpoint"]
	_, hasBearerToken := profile["bearerToken"]
	return hasVersion && hasEndpoint && hasBearerToken
}

// Client wraps a sharing client created from a profile.
type Client struct {
	client  delta_sharing.SharingClientV2
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a client from the JSON text of a profile. A timeout of
// zero uses DefaultTimeout.
func NewClient(profile string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client, err := delta_sharing.NewSharingClientV2FromString(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}
	return &Client{client: client, timeout: timeout, logger: logger}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// ListShares returns the share names visible to the profile.
func (c *Client) ListShares(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	shares, _, err := c.client.ListShares(ctx, 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}

	names := make([]string, len(shares))
	for i, share := range shares {
		names[i] = share.Name
	}
	return names, nil
}

// ListTables returns every table of every share, ordered by share, schema
// and name.
func (c *Client) ListTables(ctx context.Context) ([]Table, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	tables, _, err := c.client.ListAllTables_V2(ctx, 0, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list all tables: %w", err)
	}
	SortTables(tables)

	c.logger.Debug("listed shared tables",
		zap.Int("count", len(tables)),
		zap.Duration("elapsed", time.Since(start)))
	return tables, nil
}

// ListFiles returns the ids of the data files making up table.
func (c *Client) ListFiles(ctx context.Context, table Table) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.ListFilesInTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", QualifiedName(table), err)
	}

	ids := make([]string, len(resp.AddFiles))
	for i, f := range resp.AddFiles {
		ids[i] = f.Id
	}
	return ids, nil
}

// LoadFile loads one data file of table as an Arrow table.
func (c *Client) LoadFile(ctx context.Context, table Table, fileID string) (arrow.Table, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	t, err := delta_sharing.LoadArrowTable(ctx, c.client, table, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", QualifiedName(table), fileID, err)
	}
	return t, nil
}

// LoadTable loads fileID of table, or its first data file when fileID is
// empty, keeping at most limit rows (all rows when limit <= 0).
func (c *Client) LoadTable(ctx context.Context, table Table, fileID string, limit int64) (arrow.Table, error) {
	ids, err := c.ListFiles(ctx, table)
	if err != nil {
		return nil, err
	}

	id, err := pickFile(ids, fileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", QualifiedName(table), err)
	}

	t, err := c.LoadFile(ctx, table, id)
	if err != nil {
		return nil, err
	}
	defer t.Release()

	c.logger.Info("loaded shared table",
		zap.String("table", QualifiedName(table)),
		zap.String("file", id),
		zap.Int64("rows", t.NumRows()))
	return arrowadapter.Limit(t, limit), nil
}

func pickFile(ids []string, fileID string) (string, error) {
	if len(ids) == 0 {
		return "", ErrFileNotFound
	}
	if fileID == "" {
		return ids[0], nil
	}
	for _, id := range ids {
		if id == fileID {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
}

// QualifiedName returns share.schema.table.
func QualifiedName(t Table) string {
	return t.Share + "." + t.Schema + "." + t.Name
}

// SortTables orders tables by share, schema and name.
func SortTables(tables []Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		return QualifiedName(tables[i]) < QualifiedName(tables[j])
	})
}
