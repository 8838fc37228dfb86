package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/devpulse/engage/internal/adapters/mq/queue"
	"github.com/devpulse/engage/internal/adapters/mq/worker"
	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// recordingProcessor counts processed snapshots and can be told to fail.
type recordingProcessor struct {
	mu        sync.Mutex
	processed []string
	failOn    string
}

func (p *recordingProcessor) Process(ctx context.Context, snapshot model.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snapshot.ID == p.failOn {
		return errors.New("forced failure")
	}
	p.processed = append(p.processed, snapshot.ID)
	return nil
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.processed)
}

func (p *recordingProcessor) setFailOn(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOn = id
}

func waitFor(check func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWorker_ProcessesSnapshots(t *testing.T) {
	Convey("Given a worker over a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		p := &recordingProcessor{}
		w := worker.NewWorker(q, p, worker.WithName("worker-test"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		Convey("When snapshots are enqueued", func() {
			So(q.Enqueue(ctx, model.Snapshot{ID: "s1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.Snapshot{ID: "s2"}), ShouldBeTrue)

			Convey("Then the worker should process them", func() {
				So(waitFor(func() bool { return p.count() == 2 }), ShouldBeTrue)
			})
		})

		Convey("When a snapshot fails to process", func() {
			p.setFailOn("bad")
			So(q.Enqueue(ctx, model.Snapshot{ID: "bad"}), ShouldBeTrue)
			So(q.Enqueue(ctx, model.Snapshot{ID: "good"}), ShouldBeTrue)

			Convey("Then the worker should keep going", func() {
				So(waitFor(func() bool { return p.count() == 1 }), ShouldBeTrue)
			})
		})

		Convey("When shutting down", func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second)
			defer cancelShutdown()

			Convey("Then shutdown should complete cleanly", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(32))
		p := &recordingProcessor{}
		pool := worker.NewPool(4, q, p)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		Convey("When many snapshots are enqueued", func() {
			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, model.Snapshot{ID: "s", Cohort: "cohort-1"}), ShouldBeTrue)
			}

			Convey("Then the pool should drain the queue", func() {
				So(waitFor(func() bool { return p.count() == 20 }), ShouldBeTrue)
			})
		})

		Convey("When stopping the pool", func() {
			So(func() { pool.Stop() }, ShouldNotPanic)
		})
	})
}
