package catalog

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// FileWatcher polls a catalog file's modification time and calls onChange
// with the freshly parsed catalog. Edits that fail to parse are logged and skipped.
type FileWatcher struct {
	path     string
	interval time.Duration
	parser   *Parser
	onChange func(*Catalog)

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	lastMod  time.Time
}

// NewFileWatcher creates a watcher for path
func NewFileWatcher(path string, interval time.Duration, onChange func(*Catalog)) *FileWatcher {
	return &FileWatcher{
		path:     path,
		interval: interval,
		parser:   NewParser(),
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in a goroutine
func (w *FileWatcher) Start() {
	if fi, err := os.Stat(w.path); err == nil {
		w.lastMod = fi.ModTime()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan()
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher and waits for the polling goroutine
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *FileWatcher) scan() {
	log := logger.FromContext(context.Background())

	fi, err := os.Stat(w.path)
	if err != nil {
		log.Debug(LogMsgWatcherStatFailed, "path", w.path, "error", err)
		return
	}
	if !fi.ModTime().After(w.lastMod) {
		return
	}
	w.lastMod = fi.ModTime()

	cat, err := w.parser.LoadFile(w.path)
	if err != nil {
		log.Warn(LogMsgWatcherReload, "path", w.path, "error", err)
		return
	}
	log.Info(LogMsgWatcherReload, "path", w.path, "signature", cat.Signature())
	if w.onChange != nil {
		w.onChange(cat)
	}
}
