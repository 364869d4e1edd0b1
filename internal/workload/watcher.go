package workload

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cyclebind/internal/logging"
)

// Watcher reloads a workload document whenever its file changes on
// disk. Editors tend to fire several events per save, so changes are
// debounced before the reload runs.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(*Document, error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Watch starts watching path and invokes onChange with the reloaded
// document (or the load error) after each debounced change. The watch
// is attached to the containing directory so that rename-based saves
// are seen.
func Watch(path string, debounce time.Duration, onChange func(*Document, error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	w := &Watcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		running:  true,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.loop()
	logging.Workload("Watching %s for changes", abs)
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.WorkloadDebug("Change detected: %s (%s)", event.Name, event.Op)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			doc, err := Load(w.path)
			w.onChange(doc, err)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Workload("Watcher error: %v", err)
		}
	}
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
}
