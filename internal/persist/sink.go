package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/store"
)

// Saver is implemented by SnapshotStore.
type Saver interface {
	Save(ctx context.Context, imageID string, shapes []annotation.Annotation) (Snapshot, error)
}

// AsyncSink writes snapshots from a single worker goroutine. Notifications
// that arrive while a save is in flight are coalesced per image so only
// the newest shape list is written.
type AsyncSink struct {
	saver   Saver
	timeout time.Duration

	mu      sync.Mutex
	pending map[string][]annotation.Annotation
	order   []string
	stopped bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewAsyncSink(saver Saver, timeout time.Duration) *AsyncSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &AsyncSink{
		saver:   saver,
		timeout: timeout,
		pending: make(map[string][]annotation.Annotation),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// For returns a store.Sink that queues snapshots for imageID.
func (s *AsyncSink) For(imageID string) store.Sink {
	return store.SinkFunc(func(shapes []annotation.Annotation) {
		s.Enqueue(imageID, shapes)
	})
}

// Enqueue schedules shapes to be saved for imageID. It never blocks on
// the database.
func (s *AsyncSink) Enqueue(imageID string, shapes []annotation.Annotation) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if _, ok := s.pending[imageID]; !ok {
		s.order = append(s.order, imageID)
	}
	s.pending[imageID] = shapes
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop refuses new snapshots, writes whatever is still queued, and waits
// for the worker to exit.
func (s *AsyncSink) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.stopped = true
	s.mu.Unlock()
	close(s.stop)
	<-s.done
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.stop:
			s.drain()
			return
		}
	}
}

func (s *AsyncSink) drain() {
	for {
		s.mu.Lock()
		if len(s.order) == 0 {
			s.mu.Unlock()
			return
		}
		imageID := s.order[0]
		s.order = s.order[1:]
		shapes := s.pending[imageID]
		delete(s.pending, imageID)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		snap, err := s.saver.Save(ctx, imageID, shapes)
		cancel()
		if err != nil {
			slog.Error("failed to save snapshot", "image", imageID, "error", err)
			continue
		}
		slog.Debug("snapshot saved", "image", imageID, "version", snap.Version, "shapes", len(shapes))
	}
}
