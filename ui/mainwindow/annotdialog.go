package mainwindow

import (
	"fmt"

	"doc-viewer/internal/annotation"
	"doc-viewer/internal/app"
	"doc-viewer/internal/document"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const defaultAnnotationColor = "#FFD500"

// onCreateRequest is the creation sink: a gesture picked a spot, now ask
// for the note text before handing the request to the state.
func (mw *MainWindow) onCreateRequest(req annotation.CreateRequest) {
	contentEntry := widget.NewMultiLineEntry()
	contentEntry.SetPlaceHolder("Annotation text")
	colorEntry := widget.NewEntry()
	colorEntry.SetText(defaultAnnotationColor)

	items := []*widget.FormItem{
		widget.NewFormItem("Content", contentEntry),
		widget.NewFormItem("Color", colorEntry),
	}

	// Pointer gestures must not reach the pan controller while the
	// dialog is up.
	mw.state.Viewport.SetSuspended(true)

	dlg := dialog.NewForm("New Annotation", "Create", "Cancel", items,
		func(create bool) {
			mw.state.Viewport.SetSuspended(false)
			if !create {
				return
			}
			req.Content = contentEntry.Text
			req.Color = colorEntry.Text
			mw.state.CreateAnnotation(req)
		}, mw.Window)
	dlg.Show()
}

// showAnnotationDialog shows an annotation for viewing, editing, or
// deletion.
func (mw *MainWindow) showAnnotationDialog(a *document.Annotation) {
	contentEntry := widget.NewMultiLineEntry()
	contentEntry.SetText(a.Content)
	colorEntry := widget.NewEntry()
	colorEntry.SetText(a.Color)

	mw.state.Viewport.SetSuspended(true)

	var dlg dialog.Dialog
	deleteBtn := widget.NewButton("Delete...", func() {
		dlg.Hide()
		mw.deleteAnnotation(a)
	})

	form := widget.NewForm(
		widget.NewFormItem("Content", contentEntry),
		widget.NewFormItem("Color", colorEntry),
		widget.NewFormItem("Position", widget.NewLabel(positionText(a))),
		widget.NewFormItem("", deleteBtn),
	)

	dlg = dialog.NewCustomConfirm("Annotation", "Save", "Close", form,
		func(save bool) {
			mw.state.Viewport.SetSuspended(false)
			if !save {
				return
			}
			changed := false
			if contentEntry.Text != a.Content {
				if err := mw.state.Annotations.UpdateContent(a.ID, contentEntry.Text); err != nil {
					dialog.ShowError(err, mw.Window)
					return
				}
				changed = true
			}
			if colorEntry.Text != a.Color {
				if err := mw.state.Annotations.UpdateColor(a.ID, colorEntry.Text); err != nil {
					dialog.ShowError(err, mw.Window)
					return
				}
				changed = true
			}
			if changed {
				mw.state.SetModified(true)
				mw.state.Emit(app.EventAnnotationsChanged, nil)
			}
		}, mw.Window)
	dlg.Show()
}

// deleteAnnotation removes an annotation after confirmation.
func (mw *MainWindow) deleteAnnotation(a *document.Annotation) {
	dialog.ShowConfirm("Delete Annotation",
		fmt.Sprintf("Delete %q?", snippet(a.Content)),
		func(confirm bool) {
			if !confirm {
				return
			}
			if err := mw.state.Annotations.Remove(a.ID); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.state.SetModified(true)
			mw.state.Emit(app.EventAnnotationsChanged, nil)
		}, mw.Window)
}

func positionText(a *document.Annotation) string {
	switch {
	case a.Percent != nil:
		return fmt.Sprintf("page %d, %.1f%% / %.1f%%", a.Page, a.Percent.XPercent, a.Percent.YPercent)
	case a.Pixel != nil:
		return fmt.Sprintf("pixel %d, %d", a.Pixel.XPixel, a.Pixel.YPixel)
	}
	return "unknown"
}

func snippet(content string) string {
	const max = 40
	if len(content) > max {
		return content[:max] + "..."
	}
	return content
}
