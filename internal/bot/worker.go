package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

const inboxSize = 64

// errWorkerStopped is returned for work submitted to a retired worker.
var errWorkerStopped = errors.New("meeting worker stopped")

// worker exclusively owns one session. Every access to the session runs as a
// job on the worker goroutine, so lines are applied in arrival order.
type worker struct {
	key     Key
	session *meeting.Session

	inbox chan func()
	quit  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func newWorker(key Key, s *meeting.Session) *worker {
	w := &worker{
		key:     key,
		session: s,
		inbox:   make(chan func(), inboxSize),
		quit:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	return w
}

func (w *worker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.quit:
			return
		case job := <-w.inbox:
			job()
		}
	}
}

// do runs fn on the worker goroutine and waits for its result.
func (w *worker) do(ctx context.Context, fn func(s *meeting.Session) error) error {
	errc := make(chan error, 1)
	job := func() { errc <- fn(w.session) }

	select {
	case w.inbox <- job:
	case <-w.quit:
		return errWorkerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-w.quit:
		// the job may still have run before the worker stopped
		select {
		case err := <-errc:
			return err
		default:
			return errWorkerStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop ends the worker goroutine and waits for the running job to finish.
// Jobs still queued are dropped.
func (w *worker) stop() {
	w.once.Do(func() { close(w.quit) })
	w.wg.Wait()
}
