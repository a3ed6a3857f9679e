// Package main provides the entry point for the document viewer.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"doc-viewer/internal/app"
	"doc-viewer/internal/viewport"
	"doc-viewer/ui/mainwindow"
	"doc-viewer/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const (
	appID    = "io.docviewer.viewer"
	appTitle = "Document Viewer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", appTitle)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()
	applyAnchoringPref(appState, appPrefs)

	win := mainwindow.New(fyneApp, appState, appPrefs)
	win.Resize(fyne.NewSize(1280, 820))
	win.SetTitle(appTitle)

	// A project or image path on the command line opens at startup.
	if len(os.Args) > 1 {
		openArg(appState, os.Args[1])
	}

	reloader := setupHotReload(win, appPrefs)
	win.SetOnClosed(func() {
		if reloader != nil {
			reloader.Stop()
		}
		if err := appPrefs.Save(); err != nil {
			log.Printf("Save preferences: %v", err)
		}
	})

	win.ShowAndRun()
}

// applyAnchoringPref maps the anchoring preference onto the state's
// per-kind defaults.
func applyAnchoringPref(state *app.State, appPrefs *prefs.Prefs) {
	switch appPrefs.String(prefs.KeyAnchoring, "") {
	case "center":
		a := viewport.AnchorCenter
		state.SetAnchorOverride(&a)
	case "topleft":
		a := viewport.AnchorTopLeft
		state.SetAnchorOverride(&a)
	}
}

func openArg(state *app.State, path string) {
	var err error
	if filepath.Ext(path) == app.ProjectExt {
		err = state.LoadProject(path)
	} else {
		err = state.OpenImage(path)
	}
	if err != nil {
		log.Printf("Failed to open %s: %v", path, err)
	}
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled, and piggybacks periodic preference flushes on its ticker.
func setupHotReload(win *mainwindow.MainWindow, appPrefs *prefs.Prefs) *app.HotReloader {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return nil
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		if err := appPrefs.SaveIfDirty(); err != nil {
			log.Printf("Save preferences: %v", err)
		}
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				if err := appPrefs.Save(); err != nil {
					log.Printf("Save preferences: %v", err)
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
	return reloader
}
