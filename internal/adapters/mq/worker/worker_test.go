package worker_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/okian/prr/internal/adapters/mq/queue"
	"github.com/okian/prr/internal/adapters/mq/worker"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockQueue struct {
	events chan queue.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{events: make(chan queue.Event, 16)}
}

func (q *mockQueue) Dequeue(_ context.Context) <-chan queue.Event {
	return q.events
}

type mockRecorder struct {
	mu       sync.Mutex
	recorded []string
	failIDs  map[string]error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{failIDs: make(map[string]error)}
}

func (r *mockRecorder) RecordActivity(_ context.Context, e model.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failIDs[e.EventID]; ok {
		return err
	}
	r.recorded = append(r.recorded, e.EventID)
	return nil
}

func (r *mockRecorder) recordedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.recorded...)
}

func waitFor(check func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return check()
}

func event(id string) queue.Event {
	return queue.Event{EventID: id, EmployeeID: 1, Kind: model.KindRecognition, Date: "2014-06-01"}
}

func TestWorker(t *testing.T) {
	Convey("Given a worker over a queue and recorder", t, func() {
		q := newMockQueue()
		rec := newMockRecorder()
		w := worker.NewWorker(q, rec, worker.WithName("worker-test"))
		ctx := context.Background()

		Convey("When events arrive", func() {
			go w.Run(ctx)
			q.events <- event("evt-1")
			q.events <- event("evt-2")

			Convey("Then they are persisted in order", func() {
				So(waitFor(func() bool { return len(rec.recordedIDs()) == 2 }), ShouldBeTrue)
				So(rec.recordedIDs(), ShouldResemble, []string{"evt-1", "evt-2"})
				So(w.Shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When a record fails", func() {
			rec.failIDs["evt-bad"] = errors.New("constraint violation")
			go w.Run(ctx)
			q.events <- event("evt-bad")
			q.events <- event("evt-good")

			Convey("Then the worker keeps draining", func() {
				So(waitFor(func() bool { return len(rec.recordedIDs()) == 1 }), ShouldBeTrue)
				So(rec.recordedIDs(), ShouldResemble, []string{"evt-good"})
				So(w.Shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When the queue channel closes", func() {
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			close(q.events)

			Convey("Then the worker exits on its own", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					So("worker did not exit", ShouldBeEmpty)
				}
			})
		})

		Convey("When shutdown is called twice", func() {
			go w.Run(ctx)

			Convey("Then the second call is safe", func() {
				So(w.Shutdown(ctx), ShouldBeNil)
				So(w.Shutdown(ctx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool", t, func() {
		rec := newMockRecorder()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		ctx := context.Background()

		Convey("When started with an explicit size", func() {
			p := worker.NewPool(3, q, rec)
			p.Start(ctx)

			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, event("evt-"+string(rune('a'+i)))), ShouldBeTrue)
			}

			Convey("Then all events are persisted exactly once", func() {
				So(waitFor(func() bool { return len(rec.recordedIDs()) == 10 }), ShouldBeTrue)
				ids := make(map[string]int)
				for _, id := range rec.recordedIDs() {
					ids[id]++
				}
				So(len(ids), ShouldEqual, 10)
				p.Stop()
			})
		})

		Convey("When stopped while workers are idle", func() {
			p := worker.NewPool(2, q, rec)
			p.Start(ctx)

			Convey("Then stop returns promptly without draining a timeout", func() {
				start := time.Now()
				p.Stop()
				So(time.Since(start), ShouldBeLessThan, 2*time.Second)
			})
		})

		Convey("When stopped twice", func() {
			p := worker.NewPool(2, q, rec)
			p.Start(ctx)

			Convey("Then the second stop is safe", func() {
				p.Stop()
				p.Stop()
			})
		})
	})
}
