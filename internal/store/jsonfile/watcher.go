package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// HistoryWatcher reports changes to a history file. The parent directory is
// watched instead of the file itself because saves replace the file through a
// rename.
type HistoryWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu       sync.Mutex
	subs     []chan time.Time
	debounce *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHistoryWatcher starts watching path. The parent directory is created if
// it doesn't exist.
func NewHistoryWatcher(path string, log zerolog.Logger) (*HistoryWatcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	hw := &HistoryWatcher{
		path:    filepath.Clean(path),
		watcher: watcher,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	hw.wg.Add(1)
	go hw.run()

	return hw, nil
}

// Watch returns a channel receiving the time of every settled change to the
// history file. The channel is closed when ctx ends or the watcher closes.
func (hw *HistoryWatcher) Watch(ctx context.Context) <-chan time.Time {
	ch := make(chan time.Time, eventBufferSize)

	hw.mu.Lock()
	hw.subs = append(hw.subs, ch)
	hw.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			hw.unsubscribe(ch)
		case <-hw.ctx.Done():
		}
	}()

	return ch
}

// Close stops watching and closes all subscriber channels.
func (hw *HistoryWatcher) Close() error {
	hw.cancel()

	hw.mu.Lock()
	if hw.debounce != nil {
		hw.debounce.Stop()
	}
	for _, ch := range hw.subs {
		close(ch)
	}
	hw.subs = nil
	hw.mu.Unlock()

	err := hw.watcher.Close()
	hw.wg.Wait()
	return err
}

func (hw *HistoryWatcher) unsubscribe(ch chan time.Time) {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	for i, sub := range hw.subs {
		if sub == ch {
			hw.subs = append(hw.subs[:i], hw.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

func (hw *HistoryWatcher) run() {
	defer hw.wg.Done()

	for {
		select {
		case <-hw.ctx.Done():
			return
		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}
			hw.handleEvent(event)
		case err, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
			hw.log.Warn().Err(err).Str("path", hw.path).Msg("history watch error")
		}
	}
}

func (hw *HistoryWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Clean(event.Name) != hw.path {
		return
	}

	hw.mu.Lock()
	defer hw.mu.Unlock()

	if hw.debounce != nil {
		hw.debounce.Stop()
	}
	hw.debounce = time.AfterFunc(debounceDelay, hw.notify)
}

func (hw *HistoryWatcher) notify() {
	now := time.Now()

	hw.mu.Lock()
	defer hw.mu.Unlock()

	for _, ch := range hw.subs {
		select {
		case ch <- now:
		default:
			// subscriber is behind; it will reload on the next event
		}
	}
	hw.debounce = nil
}
