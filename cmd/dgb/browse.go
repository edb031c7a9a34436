package main

import (
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dgb/windows"
)

var browseCmd = &cobra.Command{
	Use:   "browse [file...]",
	Short: "Open the desktop grid browser",
	Long: `Opens the desktop browser. Each file argument is opened in its own tab;
a Delta Sharing profile populates the navigation tree instead.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a := app.NewWithID(windows.AppID)
	mw, err := windows.NewMainWindow(a, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("starting browser", zap.Strings("files", args))
	mw.ShowAndRun(args...)
	return nil
}
