package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"slatecast/internal/bus"
	"slatecast/internal/fileio"
	"slatecast/internal/ui"
)

const (
	ShareURLScheme = "slatecast://"
	DefaultPort    = 8973

	autosaveEvery   = 30 * time.Second
	discoverTimeout = 3 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	listenAddr := flag.String("listen", fmt.Sprintf(":%d", DefaultPort), "address the hub listens on when hosting")
	joinAddr := flag.String("join", "", "hub to join as host:port, or 'auto' to discover one on the LAN")
	standalone := flag.Bool("standalone", false, "no network: windows sync in-process only")
	boardName := flag.String("board", "", "named board in the library to open and autosave")
	openFile := flag.String("open", "", "board file (.json) to load at startup")
	flag.Parse()

	var (
		connect func() (bus.Conn, error)
		status  string
		cleanup []func()
	)
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	switch {
	case *standalone:
		log.Println("Starting standalone (no network)")
		mem := bus.NewMemory()
		cleanup = append(cleanup, func() { _ = mem.Close() })
		connect = func() (bus.Conn, error) { return mem.Conn(), nil }
		status = "standalone"

	case *joinAddr != "":
		addr := *joinAddr
		if addr == "auto" {
			log.Println("Looking for a hub on the local network...")
			found, err := bus.Discover(discoverTimeout)
			if err != nil {
				return err
			}
			addr = found
		}
		log.Printf("Joining hub at %s", addr)
		connect = func() (bus.Conn, error) { return bus.Dial(addr) }
		status = "joined " + addr

	default:
		hub := bus.NewHub()
		go func() {
			if err := hub.ListenAndServe(*listenAddr); err != nil {
				log.Printf("hub stopped: %v", err)
			}
		}()
		cleanup = append(cleanup, func() { _ = hub.Shutdown(context.Background()) })

		port := listenPort(*listenAddr)
		if server, err := bus.Advertise(port); err != nil {
			log.Printf("mdns advertise failed (join will need an explicit address): %v", err)
		} else {
			cleanup = append(cleanup, func() { _ = server.Shutdown() })
		}

		shareLink := fmt.Sprintf("%s%s:%d", ShareURLScheme, bus.OutgoingIP(), port)
		log.Printf("Hosting. Share link: %s", shareLink)

		local := fmt.Sprintf("localhost:%d", port)
		connect = func() (bus.Conn, error) { return dialWithRetry(local, 10) }
		status = "hosting " + shareLink
	}

	app, err := ui.New(connect, status)
	if err != nil {
		return err
	}
	replica := app.Replica()

	if *openFile != "" {
		strokes, err := fileio.Load(*openFile)
		if err != nil {
			return err
		}
		replica.Document.ReplaceAll(strokes)
		replica.History.Clear()
		log.Printf("Loaded %d strokes from %s", len(strokes), *openFile)
	}

	if *boardName != "" {
		library, err := fileio.OpenLibrary(libraryPath())
		if err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = library.Close() })

		strokes, err := library.Get(*boardName)
		switch {
		case errors.Is(err, fileio.ErrNoBoard):
			log.Printf("Board %q is new", *boardName)
		case err != nil:
			return err
		default:
			replica.Document.ReplaceAll(strokes)
			replica.History.Clear()
			log.Printf("Opened board %q (%d strokes)", *boardName, len(strokes))
		}

		stop := autosave(library, *boardName, app)
		cleanup = append(cleanup, stop)
	}

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-exit
		log.Printf("Signal caught: %v", sig)
		app.Quit()
	}()

	app.Run()
	return nil
}

// autosave snapshots the document into the library on a timer and once more
// at shutdown. Returns the stop function.
func autosave(library *fileio.Library, name string, app *ui.App) func() {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(autosaveEvery)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := library.Put(name, app.Replica().Document.Strokes()); err != nil {
					log.Printf("autosave failed: %v", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		if err := library.Put(name, app.Replica().Document.Strokes()); err != nil {
			log.Printf("final autosave failed: %v", err)
		}
	}
}

// dialWithRetry covers the race between the hub goroutine binding its port
// and the first window connecting to it.
func dialWithRetry(addr string, attempts int) (bus.Conn, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		conn, err := bus.Dial(addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	return nil, fmt.Errorf("hub at %s not reachable: %w", addr, lastErr)
}

func listenPort(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return DefaultPort
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil || port == 0 {
		return DefaultPort
	}
	return port
}

func libraryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "slatecast")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "boards.db"
	}
	return filepath.Join(dir, "boards.db")
}
