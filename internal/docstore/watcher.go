package docstore

import "sync"

// watcher delivers snapshots to one subscriber from its own goroutine, so
// subscribers may call back into the store.
type watcher struct {
	segs []string
	fn   func(Snapshot)

	mu    sync.Mutex
	queue []Snapshot
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newWatcher(segs []string, fn func(Snapshot)) *watcher {
	return &watcher{
		segs: segs,
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (w *watcher) enqueue(s Snapshot) {
	w.mu.Lock()
	w.queue = append(w.queue, s)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *watcher) next() (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.queue) == 0 {
		return Snapshot{}, false
	}
	s := w.queue[0]
	w.queue = w.queue[1:]
	return s, true
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
		}

		for {
			s, ok := w.next()
			if !ok {
				break
			}
			select {
			case <-w.done:
				return
			default:
			}
			w.fn(s)
		}
	}
}

func (w *watcher) stop() {
	w.once.Do(func() {
		close(w.done)
	})
}
