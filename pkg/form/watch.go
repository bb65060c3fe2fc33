package form

import (
	"context"
	"sync"
)

// watchers fans model-map snapshots out to subscribers. Each subscriber holds
// at most one pending snapshot: a newer one replaces an unread older one, so
// a slow reader never blocks the controller and always ends up on the latest
// state.
type watchers struct {
	mu     sync.Mutex
	subs   map[*watcher]struct{}
	latest ModelMap
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

type watcher struct {
	ch chan ModelMap
}

func newWatchers() *watchers {
	return &watchers{
		subs: make(map[*watcher]struct{}),
		done: make(chan struct{}),
	}
}

// subscribe returns a channel primed with the latest snapshot. The channel is
// closed when ctx is done or the watchers are closed.
func (w *watchers) subscribe(ctx context.Context) <-chan ModelMap {
	sub := &watcher{ch: make(chan ModelMap, 1)}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		close(sub.ch)
		return sub.ch
	}

	sub.ch <- w.latest
	w.subs[sub] = struct{}{}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			w.remove(sub)
		case <-w.done:
		}
	}()

	return sub.ch
}

// publish must only be called by the controller loop.
func (w *watchers) publish(m ModelMap) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.latest = m
	if w.closed {
		return
	}
	for sub := range w.subs {
		select {
		case sub.ch <- m:
			continue
		default:
		}
		// Drop the unread snapshot; the reader may have taken it meanwhile.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- m:
		default:
		}
	}
}

func (w *watchers) remove(sub *watcher) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.subs[sub]; ok {
		delete(w.subs, sub)
		close(sub.ch)
	}
}

func (w *watchers) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.done)
	for sub := range w.subs {
		close(sub.ch)
	}
	clear(w.subs)
	w.mu.Unlock()

	w.wg.Wait()
}
