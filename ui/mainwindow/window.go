// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"doc-viewer/internal/annotation"
	"doc-viewer/internal/app"
	"doc-viewer/internal/document"
	docimage "doc-viewer/internal/image"
	"doc-viewer/internal/version"
	"doc-viewer/internal/viewport"
	"doc-viewer/ui/prefs"
	"doc-viewer/ui/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	viewer    *viewer.DocumentViewer
	annotList *widget.List
	statusBar *widget.Label
	pageLabel *widget.Label
	prevPage  *widget.Button
	nextPage  *widget.Button

	// Menu items that need state tracking
	fitItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Document Viewer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.viewer = viewer.New()
	mw.viewer.OnMarkerTapped(mw.showAnnotationDialog)
	mw.viewer.OnMarkerMoved(mw.onMarkerMoved)

	mw.annotList = mw.createAnnotationList()
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	viewerArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.viewer,
	)

	// Annotation list | viewer area
	split := container.NewHSplit(
		container.NewBorder(widget.NewLabel("Annotations"), nil, nil, nil, mw.annotList),
		viewerArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom and page controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", func() {
		mw.state.Viewport.StepZoom(viewport.ZoomOut, nil)
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.state.Viewport.StepZoom(viewport.ZoomIn, nil)
	})
	fitBtn := widget.NewButton("Fit", mw.onToggleFit)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	mw.pageLabel = widget.NewLabel("")
	mw.prevPage = widget.NewButton("<", func() {
		mw.state.SetPage(mw.state.Page - 1)
	})
	mw.nextPage = widget.NewButton(">", func() {
		mw.state.SetPage(mw.state.Page + 1)
	})
	mw.setPageControlsVisible(false)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		mw.prevPage,
		mw.pageLabel,
		mw.nextPage,
	)
}

// createAnnotationList builds the side list of annotations for the current
// document (current page for flow documents).
func (mw *MainWindow) createAnnotationList() *widget.List {
	list := widget.NewList(
		func() int { return len(mw.listedAnnotations()) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("annotation")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			items := mw.listedAnnotations()
			if i < 0 || i >= len(items) {
				return
			}
			obj.(*widget.Label).SetText(items[i].Content)
		},
	)
	list.OnSelected = func(i widget.ListItemID) {
		items := mw.listedAnnotations()
		if i >= 0 && i < len(items) {
			mw.showAnnotationDialog(items[i])
		}
		list.UnselectAll()
	}
	return list
}

// listedAnnotations returns the annotations shown in the side list.
func (mw *MainWindow) listedAnnotations() []*document.Annotation {
	doc := mw.state.Document
	if doc == nil {
		return nil
	}
	if doc.Kind == document.KindFlow {
		return mw.state.Annotations.ByPage(mw.state.Page)
	}
	return mw.state.Annotations.List()
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.fitItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFit)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() {
			mw.state.Viewport.StepZoom(viewport.ZoomIn, nil)
		}),
		fyne.NewMenuItem("Zoom Out", func() {
			mw.state.Viewport.StepZoom(viewport.ZoomOut, nil)
		}),
		mw.fitItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Next Page", func() { mw.state.SetPage(mw.state.Page + 1) }),
		fyne.NewMenuItem("Previous Page", func() { mw.state.SetPage(mw.state.Page - 1) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDocumentOpened, func(data interface{}) {
		mw.bindDocument()
		if doc, ok := data.(*document.Document); ok {
			mw.SetTitle("Document Viewer - " + doc.Name)
			mw.updateStatus("Opened " + doc.Name)
		}
	})

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		mw.bindDocument()
		if path, ok := data.(string); ok {
			mw.SetTitle("Document Viewer - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Document Viewer - " + filepath.Base(path))
			mw.updateStatus("Project saved: " + path)
		}
	})

	mw.state.On(app.EventViewportChanged, func(interface{}) {
		mw.updateZoomStatus()
	})

	mw.state.On(app.EventAnnotationsChanged, func(interface{}) {
		mw.annotList.Refresh()
		mw.viewer.Refresh()
	})

	mw.state.On(app.EventPageChanged, func(data interface{}) {
		mw.updatePageLabel()
		mw.annotList.Refresh()
		mw.viewer.Refresh()
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// bindDocument points the viewer and side panel at the freshly opened
// document and its viewport.
func (mw *MainWindow) bindDocument() {
	doc := mw.state.Document
	if doc == nil {
		return
	}

	overlay := annotation.NewOverlay(doc.Kind, mw.state.Viewport, mw.onCreateRequest)
	mw.viewer.SetDocument(
		doc.Kind,
		mw.state.Layer,
		mw.state.Viewport,
		overlay,
		func() []*document.Annotation { return mw.state.Annotations.List() },
		func() int { return mw.state.Page },
	)

	// Opening at fit is the default; the preference opts into 100%.
	if !mw.prefs.Bool(prefs.KeyFitOnOpen, true) {
		mw.state.Viewport.SetZoom(1.0, nil)
	}

	mw.setPageControlsVisible(doc.Kind == document.KindFlow)
	mw.updatePageLabel()
	mw.annotList.Refresh()
	mw.updateZoomStatus()
}

func (mw *MainWindow) setPageControlsVisible(visible bool) {
	if visible {
		mw.prevPage.Show()
		mw.pageLabel.Show()
		mw.nextPage.Show()
	} else {
		mw.prevPage.Hide()
		mw.pageLabel.Hide()
		mw.nextPage.Hide()
	}
}

func (mw *MainWindow) updatePageLabel() {
	doc := mw.state.Document
	if doc == nil || doc.Kind != document.KindFlow {
		return
	}
	mw.pageLabel.SetText(fmt.Sprintf("Page %d/%d", mw.state.Page, doc.Pages))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// updateZoomStatus shows the current zoom level in the status bar.
func (mw *MainWindow) updateZoomStatus() {
	vp := mw.state.Viewport
	text := fmt.Sprintf("Zoom: %.0f%%", vp.Scale()*100)
	if vp.InFitMode() {
		text += " (fit)"
		mw.fitItem.Label = "✓ Fit to Window"
	} else {
		mw.fitItem.Label = "  Fit to Window"
	}
	mw.statusBar.SetText(text)
}

// onMarkerMoved commits a finished marker drag to the store.
func (mw *MainWindow) onMarkerMoved(id string, p document.StoragePoint) {
	if err := mw.state.Annotations.UpdatePosition(id, p); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.state.SetModified(true)
	mw.state.Emit(app.EventAnnotationsChanged, nil)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir, "")
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.OpenImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(docimage.SupportedExtensions()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{app.ProjectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != app.ProjectExt {
			path += app.ProjectExt
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("session" + app.ProjectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onToggleFit() {
	mw.state.Viewport.ToggleFit(nil)
}

func (mw *MainWindow) onActualSize() {
	mw.state.Viewport.SetZoom(1.0, nil)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Document Viewer",
		fmt.Sprintf("Document Viewer v%s\n\n"+
			"A multi-format document viewer with annotations.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
