// Print Composer arranges images and text labels on a virtual page for
// printing, either scaled to the full page or tiled into a card grid.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"print-composer/internal/app"
	"print-composer/internal/version"
	"print-composer/ui/mainwindow"
	"print-composer/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Print Composer v%s starting", version.Version)

	fyneApp := fyneapp.NewWithID("io.printcomposer.app")
	fyneApp.Settings().SetTheme(&app.ComposerTheme{})

	state := app.NewState()
	preferences := prefs.Load()

	window := mainwindow.New(fyneApp, state, preferences)

	// Open a layout passed on the command line.
	if len(os.Args) > 1 {
		if err := state.LoadLayout(os.Args[1]); err != nil {
			log.Printf("Failed to open %s: %v", os.Args[1], err)
		}
	}

	// Offer a restart when a newer binary appears during development.
	if reloader := app.NewHotReloader(2 * time.Second); reloader != nil {
		reloader.OnNewBinary(func() {
			dialog.ShowConfirm("New Build", "A newer binary is available. Restart?",
				func(restart bool) {
					if !restart {
						reloader.ResetBaseline()
						reloader.Start()
						return
					}
					if err := reloader.Restart(); err != nil {
						log.Printf("Restart failed: %v", err)
					}
				}, window)
		})
		reloader.Start()
		defer reloader.Stop()
	}

	window.ShowAndRun()
}
