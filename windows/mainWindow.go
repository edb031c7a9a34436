package windows

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"dgb/adapters/deltasharing"
	"dgb/internal/config"
)

// AppID identifies the application to Fyne preferences storage.
const AppID = "io.github.dgb"

// MainWindow is the grid browser window: a navigation tree of shared tables
// on the left and grid tabs in the middle.
type MainWindow struct {
	a      fyne.App
	w      fyne.Window
	cfg    *config.Config
	logger *zap.Logger

	docTabs   *container.DocTabs
	browser   *DataBrowser
	editor    *RendererEditor
	editorTab *container.TabItem
	left      *fyne.Container
	statusBar *widget.Label

	client        *deltasharing.Client
	nav           *NavigationTree
	selectedTable *deltasharing.Table
}

// NewMainWindow builds the window on a. Columns configured in cfg are
// compiled up front so script errors surface before the window opens.
func NewMainWindow(a fyne.App, cfg *config.Config, logger *zap.Logger) (*MainWindow, error) {
	columns, err := cfg.GridColumns(logger)
	if err != nil {
		return nil, err
	}

	t := &MainWindow{a: a, cfg: cfg, logger: logger}
	a.Settings().SetTheme(GridTheme{})
	t.w = a.NewWindow("Data Grid Browser")
	t.w.Resize(fyne.NewSize(1024, 700))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}

	t.docTabs = container.NewDocTabs()
	t.docTabs.CloseIntercept = func(ti *container.TabItem) {
		t.docTabs.Remove(ti)
	}
	t.browser = NewDataBrowser(t.docTabs, cfg.GridOptions(), columns, logger, t.SetStatus)
	t.editor = NewRendererEditor(t.w, t.browser, logger)

	t.left = container.NewStack(widget.NewCard("", "Shares", widget.NewLabel("Open a profile to browse shares")))
	t.left.Hide()

	t.w.Canvas().AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { t.Copy() })

	content := container.NewBorder(t.toolbar(), container.NewHBox(t.statusBar), t.left, nil, t.docTabs)
	t.w.SetContent(content)
	return t, nil
}

func (t *MainWindow) toolbar() *widget.Toolbar {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.MenuIcon(), t.toggleNavigation),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() {
			NewDataFileDialog(t.w, t.OpenPath).Show()
		}),
		widget.NewToolbarAction(theme.StorageIcon(), func() {
			NewProfileDialog(t.w, t.OpenPath).Show()
		}),
		widget.NewToolbarAction(theme.SearchIcon(), func() {
			if t.selectedTable == nil {
				dialog.ShowInformation("Select a Table", "Please select a table first", t.w)
				return
			}
			t.openTableWithOptions(*t.selectedTable)
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.SettingsIcon(), t.ShowGridOptions),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), t.ShowRendererEditor),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.Export),
		widget.NewToolbarAction(theme.ContentCopyIcon(), t.Copy),
	)
}

// Window returns the Fyne window.
func (t *MainWindow) Window() fyne.Window { return t.w }

// Browser returns the grid tabs.
func (t *MainWindow) Browser() *DataBrowser { return t.browser }

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

// ShowAndRun opens paths and runs the application until the window closes.
func (t *MainWindow) ShowAndRun(paths ...string) {
	for _, p := range paths {
		t.OpenPath(p)
	}
	t.w.ShowAndRun()
}

// Copy puts the selected cells of the current grid on the clipboard.
func (t *MainWindow) Copy() {
	d := t.browser.Current()
	if d == nil {
		return
	}
	if text := d.Grid.Copy(); text != "" {
		t.SetStatus("Copied selection")
	}
}

// ShowGridOptions edits the current grid's columns, filter and display.
func (t *MainWindow) ShowGridOptions() {
	d := t.browser.Current()
	if d == nil {
		dialog.ShowInformation("No Grid", "Open a file or table first", t.w)
		return
	}
	ShowGridOptionsDialog(t.w, d.View, func(s GridSettings) {
		if err := s.Apply(d.View); err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if err := t.browser.Refresh(d); err != nil {
			dialog.ShowError(err, t.w)
		}
	})
}

// ShowRendererEditor opens the renderer editor tab.
func (t *MainWindow) ShowRendererEditor() {
	t.editor.RefreshColumns()
	for _, item := range t.docTabs.Items {
		if item == t.editorTab {
			t.docTabs.Select(item)
			return
		}
	}
	t.editorTab = container.NewTabItemWithIcon("Renderers", theme.DocumentCreateIcon(), t.editor.Content())
	t.docTabs.Append(t.editorTab)
	t.docTabs.Select(t.editorTab)
}

// Export writes the current grid to a file.
func (t *MainWindow) Export() {
	d := t.browser.Current()
	if d == nil {
		dialog.ShowInformation("No Grid", "Open a file or table first", t.w)
		return
	}
	ShowExportDialog(t.w, d, t.logger)
}

func (t *MainWindow) toggleNavigation() {
	if t.left.Visible() {
		t.left.Hide()
	} else {
		t.left.Show()
	}
}

func (t *MainWindow) setNavigation(nav *NavigationTree) {
	t.nav = nav
	nav.OnTableSelected = func(table deltasharing.Table) {
		t.selectedTable = &table
		t.openTable(table, nil)
	}
	tree := nav.Widget()
	t.left.Objects = []fyne.CanvasObject{
		container.NewGridWrap(fyne.NewSize(240, 600), widget.NewCard("", "Shares", tree)),
	}
	t.left.Show()
	t.left.Refresh()
}
