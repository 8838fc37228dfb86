package queue_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/devpulse/engage/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(id string) queue.Snapshot {
	return queue.Snapshot{ID: id, Cohort: "cohort-1", ReceivedAt: time.Now()}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with a small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(context.Background(), snapshot("a")), ShouldBeTrue)
			So(q.Enqueue(context.Background(), snapshot("b")), ShouldBeTrue)

			Convey("Then the length should reflect the buffered snapshots", func() {
				So(q.Len(context.Background()), ShouldEqual, 2)
			})

			Convey("And enqueuing past capacity should report backpressure", func() {
				So(q.Enqueue(context.Background(), snapshot("c")), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			So(q.Enqueue(context.Background(), snapshot("a")), ShouldBeTrue)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			got := <-q.Dequeue(ctx)

			Convey("Then the enqueued snapshot should come back", func() {
				So(got.ID, ShouldEqual, "a")
			})
		})

		Convey("When closing the queue", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and reject enqueues", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(context.Background(), snapshot("x")), ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel should drain then close", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestInMemoryQueue_Ordering(t *testing.T) {
	Convey("Given several enqueued snapshots", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		for i := 0; i < 5; i++ {
			So(q.Enqueue(context.Background(), snapshot(strconv.Itoa(i))), ShouldBeTrue)
		}
		So(q.Close(), ShouldBeNil)

		Convey("When draining the queue", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			var ids []string
			for s := range q.Dequeue(ctx) {
				ids = append(ids, s.ID)
			}

			Convey("Then snapshots should come out in FIFO order", func() {
				So(ids, ShouldResemble, []string{"0", "1", "2", "3", "4"})
			})
		})
	})
}
