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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Extensions offered by the file dialogs.
var (
	ProfileExtensions = []string{".share", ".json", ".txt"}
	DataExtensions    = []string{".csv", ".tsv", ".parquet", ".json", ".xlsx", ".xlsm"}
)

// dirEntry is one line of the file list.
type dirEntry struct {
	Name  string
	IsDir bool
}

// listDirectory returns the visible subdirectories of dir followed by the
// files with one of exts, each group sorted by name.
func listDirectory(dir string, exts []string) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []dirEntry
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, dirEntry{Name: name, IsDir: true})
			continue
		}
		if hasExtension(name, exts) {
			files = append(files, dirEntry{Name: name})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(dirs, files...), nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// FileDialog browses directories, starting at the home directory, for files
// with given extensions.
type FileDialog struct {
	title    string
	exts     []string
	window   fyne.Window
	callback func(path string)

	dialog      dialog.Dialog
	fileList    *widget.List
	pathLabel   *widget.Label
	entries     []dirEntry
	homeDir     string
	currentPath string
}

// NewFileDialog creates a dialog that calls callback with the chosen path.
func NewFileDialog(w fyne.Window, title string, exts []string, callback func(string)) *FileDialog {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &FileDialog{
		title:       title,
		exts:        exts,
		window:      w,
		callback:    callback,
		homeDir:     home,
		currentPath: home,
	}
}

// NewProfileDialog browses for Delta Sharing profiles.
func NewProfileDialog(w fyne.Window, callback func(string)) *FileDialog {
	return NewFileDialog(w, "Select Delta Sharing Profile", ProfileExtensions, callback)
}

// NewDataFileDialog browses for data files.
func NewDataFileDialog(w fyne.Window, callback func(string)) *FileDialog {
	return NewFileDialog(w, "Open Data File", DataExtensions, callback)
}

// Show displays the dialog.
func (fd *FileDialog) Show() {
	fd.pathLabel = widget.NewLabel(fd.currentPath)
	fd.pathLabel.Truncation = fyne.TextTruncateEllipsis
	fd.pathLabel.TextStyle = fyne.TextStyle{Bold: true}

	fd.fileList = widget.NewList(
		func() int { return len(fd.entries) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.DocumentIcon()), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			e := fd.entries[id]
			icon := theme.DocumentIcon()
			if e.IsDir {
				icon = theme.FolderIcon()
			}
			box.Objects[0].(*widget.Icon).SetResource(icon)
			box.Objects[1].(*widget.Label).SetText(e.Name)
		},
	)
	fd.fileList.OnSelected = func(id widget.ListItemID) {
		e := fd.entries[id]
		full := filepath.Join(fd.currentPath, e.Name)
		if e.IsDir {
			fd.navigate(full)
			return
		}
		fd.dialog.Hide()
		if fd.callback != nil {
			fd.callback(full)
		}
	}

	home := widget.NewButtonWithIcon("Home", theme.HomeIcon(), func() { fd.navigate(fd.homeDir) })
	up := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() {
		if parent := filepath.Dir(fd.currentPath); parent != fd.currentPath {
			fd.navigate(parent)
		}
	})
	refresh := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() { fd.navigate(fd.currentPath) })

	filterInfo := widget.NewLabel("Showing: " + strings.Join(fd.exts, ", ") + " files and directories")
	filterInfo.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		container.NewVBox(
			container.NewBorder(nil, nil, container.NewHBox(home, up, refresh), nil, fd.pathLabel),
			widget.NewSeparator(),
			filterInfo,
		),
		nil, nil, nil,
		fd.fileList,
	)

	fd.dialog = dialog.NewCustom(fd.title, "Close", content, fd.window)
	fd.dialog.Resize(fyne.NewSize(800, 600))
	fd.navigate(fd.currentPath)
	fd.dialog.Show()
}

func (fd *FileDialog) navigate(dir string) {
	entries, err := listDirectory(dir, fd.exts)
	if err != nil {
		dialog.ShowError(err, fd.window)
		return
	}
	fd.currentPath = dir
	fd.entries = entries
	fd.pathLabel.SetText(dir)
	fd.fileList.UnselectAll()
	fd.fileList.Refresh()
}
