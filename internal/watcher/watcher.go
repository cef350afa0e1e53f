// Package watcher monitors the videos directory and reports newly
// landed dance videos so their pose extraction can be queued.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/erickrex/bachatrainer/internal/batch"
)

// OnVideo is called once a new video file has settled in the watched
// directory.
type OnVideo func(path string)

// Watcher monitors a videos directory for new files.
type Watcher struct {
	dir      string
	callback OnVideo
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	debounce map[string]*time.Timer
	stop     chan struct{}
}

// New creates a filesystem watcher over dir.
func New(dir string, cb OnVideo) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		callback: cb,
		watcher:  fw,
		debounce: make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Start begins watching the videos directory and processes events.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.eventLoop()
	log.Printf("[watcher] watching %s", w.dir)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Skip hidden files and temp files
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") {
		return
	}

	// Create covers fresh files, Rename covers downloads moved into place
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
		return
	}
	if !batch.IsVideo(event.Name) {
		return
	}

	// Debounce: 1 second, so a file still being written settles first.
	// Write events keep pushing the timer back until the copy finishes.
	w.mu.Lock()
	if timer, ok := w.debounce[event.Name]; ok {
		timer.Stop()
	}
	eventName := event.Name
	w.debounce[eventName] = time.AfterFunc(1*time.Second, func() {
		w.mu.Lock()
		delete(w.debounce, eventName)
		w.mu.Unlock()

		if info, err := os.Stat(eventName); err != nil || info.IsDir() {
			return
		}
		w.callback(eventName)
	})
	w.mu.Unlock()
}
