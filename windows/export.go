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

package windows

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"dgb/export"
)

// exportFileName suggests a file name for exporting a grid called name.
func exportFileName(name string, f export.Format) string {
	return cleanFilename(name) + f.Extension()
}

func formatNames() []string {
	formats := export.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}

// ShowExportDialog asks for a format and a file, then writes the grid as
// it is currently rendered.
func ShowExportDialog(w fyne.Window, d *Data, logger *zap.Logger) {
	formatSelect := widget.NewSelect(formatNames(), nil)
	formatSelect.SetSelected(export.FormatCSV.String())

	dialog.ShowForm("Export "+d.Name, "Next", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Format", formatSelect)},
		func(ok bool) {
			if !ok {
				return
			}
			f, err := export.ParseFormat(formatSelect.Selected)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			showExportSave(w, d, f, logger)
		}, w)
}

func showExportSave(w fyne.Window, d *Data, f export.Format, logger *zap.Logger) {
	r := d.Grid.Rendering()

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if writer == nil {
			return
		}

		progress := widget.NewProgressBarInfinite()
		waiting := dialog.NewCustomWithoutButtons("Exporting...", progress, w)
		waiting.Resize(fyne.NewSize(300, 100))
		waiting.Show()

		go func() {
			exportErr := export.Write(writer, r, f)
			if cerr := writer.Close(); exportErr == nil {
				exportErr = cerr
			}
			path := writer.URI().Path()

			fyne.Do(func() {
				progress.Stop()
				waiting.Hide()
				if exportErr != nil {
					logger.Error("export failed", zap.String("grid", d.Name), zap.Stringer("format", f), zap.Error(exportErr))
					dialog.ShowError(exportErr, w)
					return
				}
				logger.Info("exported grid", zap.String("grid", d.Name), zap.Stringer("format", f), zap.String("path", path))
				dialog.ShowInformation("Export Successful", fmt.Sprintf("Data exported successfully to:\n%s", path), w)
			})
		}()
	}, w)

	save.SetFileName(exportFileName(d.Name, f))
	save.SetFilter(storage.NewExtensionFileFilter([]string{f.Extension()}))
	save.Show()
}
