package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/BS-European-Championship/ta-relay/internal/adapters/mq/queue"
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func scoreEvent(guid string) queue.Event {
	return queue.Event{
		Type:  model.EventRealtimeScore,
		Score: &model.RealtimeScore{UserGUID: guid},
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, scoreEvent("u1")), ShouldBeTrue)
			So(q.Enqueue(ctx, scoreEvent("u2")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("And the queue is full", func() {
				Convey("Then further events are dropped, not blocked", func() {
					So(q.Enqueue(ctx, scoreEvent("u3")), ShouldBeFalse)
					So(q.Len(ctx), ShouldEqual, 2)
				})
			})

			Convey("Then dequeue yields events in arrival order", func() {
				_ = q.Close()
				ch := q.Dequeue(ctx)

				first := <-ch
				second := <-ch
				So(first.Score.UserGUID, ShouldEqual, "u1")
				So(second.Score.UserGUID, ShouldEqual, "u2")

				_, open := <-ch
				So(open, ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is rejected", func() {
				So(q.Enqueue(ctx, scoreEvent("u1")), ShouldBeFalse)
			})

			Convey("And closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is canceled", func() {
			cancelCtx, cancel := context.WithCancel(ctx)
			ch := q.Dequeue(cancelCtx)
			cancel()
			q.Enqueue(ctx, scoreEvent("u1"))
			// Let the pump observe the canceled context before reading.
			time.Sleep(50 * time.Millisecond)

			Convey("Then the dequeue channel closes", func() {
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("dequeue channel did not close", ShouldBeEmpty)
				}
			})
		})
	})
}
