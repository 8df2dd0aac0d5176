package ui

import (
	"fmt"
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"slatecast/internal/bus"
	"slatecast/internal/export"
	"slatecast/internal/fileio"
	"slatecast/internal/geom"
	"slatecast/internal/state"
)

// App owns the windows: one control window and at most one presentation
// window. Each window is a full replica on its own transport connection;
// the presentation window mirrors the control window only through the
// replicated stores, exactly like a window on another machine would.
type App struct {
	fy      fyne.App
	connect func() (bus.Conn, error)

	control        fyne.Window
	controlConn    bus.Conn
	controlReplica *state.Replica

	presentation fyne.Window
}

// New builds the control window. connect is called once per window so every
// window gets its own connection, mirroring one socket per browser context.
func New(connect func() (bus.Conn, error), statusSuffix string) (*App, error) {
	conn, err := connect()
	if err != nil {
		return nil, fmt.Errorf("ui: connect control window: %w", err)
	}
	replica, err := state.NewReplica(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	a := &App{
		fy:             app.New(),
		connect:        connect,
		controlConn:    conn,
		controlReplica: replica,
	}

	a.control = a.fy.NewWindow("SlateCast")
	a.control.Resize(fyne.NewSize(1024, 768))
	a.control.SetMaster()

	board := NewBoardWidget(replica, true)
	toolbar := NewToolbar(replica)
	status := widget.NewLabel("Ready")
	a.watchStatus(status, statusSuffix)

	a.control.SetMainMenu(a.buildMenu())
	a.control.SetContent(container.NewBorder(toolbar, status, nil, nil, board))
	a.control.SetOnClosed(func() {
		replica.Close()
		_ = conn.Close()
	})
	return a, nil
}

// Replica exposes the control window's replica for wiring done in main
// (startup load, autosave).
func (a *App) Replica() *state.Replica { return a.controlReplica }

// Run shows the control window and blocks until it closes.
func (a *App) Run() {
	a.control.ShowAndRun()
}

// Quit closes every window and stops the event loop. Safe to call from any
// goroutine.
func (a *App) Quit() {
	fyne.Do(a.fy.Quit)
}

func (a *App) watchStatus(status *widget.Label, suffix string) {
	update := func() {
		doc := a.controlReplica.Document.Get()
		vp := a.controlReplica.Viewport.Get()
		text := fmt.Sprintf("%d strokes | zoom %.0f%%", len(doc.Strokes), vp.Scale*100)
		if suffix != "" {
			text += " | " + suffix
		}
		fyne.Do(func() { status.SetText(text) })
	}
	a.controlReplica.Document.Watch(func(state.Document) { update() })
	a.controlReplica.Viewport.Watch(func(geom.Viewport) { update() })
}

func (a *App) buildMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Board...", a.openBoard),
		fyne.NewMenuItem("Save Board As...", a.saveBoard),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export PNG...", a.exportPNG),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Presentation Window", a.OpenPresentation),
		fyne.NewMenuItem("Reset View", a.controlReplica.Viewport.Reset),
	)
	return fyne.NewMainMenu(fileMenu, viewMenu)
}

// OpenPresentation spawns (or refocuses) the mirroring window.
func (a *App) OpenPresentation() {
	if a.presentation != nil {
		a.presentation.RequestFocus()
		return
	}

	conn, err := a.connect()
	if err != nil {
		dialog.ShowError(err, a.control)
		return
	}
	replica, err := state.NewReplica(conn)
	if err != nil {
		_ = conn.Close()
		dialog.ShowError(err, a.control)
		return
	}

	win := a.fy.NewWindow("SlateCast - Presentation")
	win.Resize(fyne.NewSize(1024, 768))
	win.SetContent(NewBoardWidget(replica, false))
	win.SetOnClosed(func() {
		replica.Close()
		_ = conn.Close()
		a.presentation = nil
	})

	a.presentation = win
	win.Show()
	log.Println("[ui] presentation window opened")
}

func (a *App) openBoard() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.control)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, a.control)
			return
		}
		strokes, err := fileio.Decode(data)
		if err != nil {
			dialog.ShowError(err, a.control)
			return
		}

		a.controlReplica.Document.ReplaceAll(strokes)
		a.controlReplica.History.Clear()
		log.Printf("[ui] loaded %d strokes from %s", len(strokes), reader.URI())
	}, a.control)
}

func (a *App) saveBoard() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.control)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		strokes := a.controlReplica.Document.Strokes()
		data, err := fileio.Encode(strokes)
		if err != nil {
			dialog.ShowError(err, a.control)
			return
		}
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, a.control)
			return
		}
		log.Printf("[ui] saved %d strokes to %s", len(strokes), writer.URI())
	}, a.control)
}

func (a *App) exportPDF() {
	a.exportWith(func(w io.Writer, strokes []state.Stroke) error {
		return export.WritePDF(w, strokes)
	})
}

func (a *App) exportPNG() {
	a.exportWith(func(w io.Writer, strokes []state.Stroke) error {
		return export.WritePNG(w, strokes, 1920, 1080)
	})
}

func (a *App) exportWith(render func(io.Writer, []state.Stroke) error) {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.control)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := render(writer, a.controlReplica.Document.Strokes()); err != nil {
			dialog.ShowError(err, a.control)
		}
	}, a.control)
}
