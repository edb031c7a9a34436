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

// Command dgb browses, renders and serves tabular data as grids.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dgb/internal/config"
	"dgb/internal/logging"
)

var (
	// Global flags
	configPath string
	logLevel   string
	envFiles   []string

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dgb",
	Short: "Data Grid Browser",
	Long: `dgb displays tabular data from CSV, JSON, Parquet and Excel files and
Delta Sharing tables as filterable, sortable grids.

Run without arguments to open the desktop browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(envFiles...); err != nil {
			return err
		}
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}

		l, err := logging.New(c.LogLevel)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		logger.Debug("configuration loaded",
			zap.String("config", configPath),
			zap.String("log_level", c.LogLevel),
			zap.Int("columns", len(c.Columns)))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Args: cobra.ArbitraryArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $DGB_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "Env files to load (default: .env)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext returns the command's context, which is nil when a RunE
// function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
