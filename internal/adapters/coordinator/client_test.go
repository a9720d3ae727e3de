package coordinator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/BS-European-Championship/ta-relay/internal/adapters/coordinator"
	"github.com/BS-European-Championship/ta-relay/internal/adapters/mq/queue"
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type inboundFrame struct {
	Type  string       `json:"type"`
	Name  string       `json:"name"`
	GUID  string       `json:"guid"`
	Match *model.Match `json:"match"`
}

// fakeCoordinatorServer accepts one relay connection, captures inbound
// frames, and replays scripted events.
type fakeCoordinatorServer struct {
	server   *httptest.Server
	inbound  chan inboundFrame
	outbound chan model.Event
}

func newFakeCoordinatorServer(t *testing.T) *fakeCoordinatorServer {
	t.Helper()
	f := &fakeCoordinatorServer{
		inbound:  make(chan inboundFrame, 16),
		outbound: make(chan model.Event, 16),
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		go func() {
			for {
				var fr inboundFrame
				if err := wsjson.Read(r.Context(), conn, &fr); err != nil {
					return
				}
				f.inbound <- fr
			}
		}()

		for ev := range f.outbound {
			if err := wsjson.Write(r.Context(), conn, ev); err != nil {
				return
			}
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCoordinatorServer) url() string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http")
}

func (f *fakeCoordinatorServer) nextInbound(t *testing.T) inboundFrame {
	t.Helper()
	select {
	case fr := <-f.inbound:
		return fr
	case <-time.After(2 * time.Second):
		t.Fatal("no inbound frame from relay")
		return inboundFrame{}
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestClient_Connect(t *testing.T) {
	Convey("Given a reachable coordinator", t, func() {
		fake := newFakeCoordinatorServer(t)
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		client := coordinator.New(fake.url(), "ta-relay", q)
		ctx := context.Background()

		Convey("When connecting", func() {
			err := client.Connect(ctx)
			defer client.Close()

			Convey("Then the relay registers its identity", func() {
				So(err, ShouldBeNil)
				reg := fake.nextInbound(t)
				So(reg.Type, ShouldEqual, "register")
				So(reg.Name, ShouldEqual, "ta-relay")
				So(reg.GUID, ShouldEqual, client.Self())
			})
		})
	})

	Convey("Given no coordinator is listening", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		client := coordinator.New("ws://127.0.0.1:1", "ta-relay", q)

		Convey("When connecting", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := client.Connect(ctx)

			Convey("Then the dial failure is surfaced", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, coordinator.ErrDial)
			})
		})
	})
}

func TestClient_Listen(t *testing.T) {
	Convey("Given a connected client", t, func() {
		fake := newFakeCoordinatorServer(t)
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		client := coordinator.New(fake.url(), "ta-relay", q)
		ctx := context.Background()
		So(client.Connect(ctx), ShouldBeNil)
		defer client.Close()

		listenErr := make(chan error, 1)
		go func() { listenErr <- client.Listen(ctx) }()

		Convey("When the coordinator streams events", func() {
			alice := model.User{GUID: "u1", Name: "Alice", ClientType: model.ClientTypePlayer}
			fake.outbound <- model.Event{Type: model.EventUserUpdated, User: &alice}
			fake.outbound <- model.Event{Type: model.EventRealtimeScore, Score: &model.RealtimeScore{UserGUID: "u1", Score: 100}}

			Convey("Then events land on the queue", func() {
				So(waitFor(func() bool { return q.Len(ctx) == 2 }), ShouldBeTrue)
			})

			Convey("And the roster mirrors user lifecycle events", func() {
				So(waitFor(func() bool {
					_, ok := client.UserByGUID("u1")
					return ok
				}), ShouldBeTrue)
				So(client.Users(), ShouldHaveLength, 1)

				fake.outbound <- model.Event{Type: model.EventUserLeft, User: &alice}
				So(waitFor(func() bool {
					_, ok := client.UserByGUID("u1")
					return !ok
				}), ShouldBeTrue)
			})
		})

		Convey("When the coordinator drops the link", func() {
			close(fake.outbound)

			Convey("Then Listen returns an error instead of reconnecting", func() {
				select {
				case err := <-listenErr:
					So(err, ShouldNotBeNil)
				case <-time.After(2 * time.Second):
					So("listen did not return", ShouldBeEmpty)
				}
			})
		})
	})

	Convey("Given a client that never connected", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		client := coordinator.New("ws://unused", "ta-relay", q)

		Convey("When listening or pushing a match", func() {
			So(client.Listen(context.Background()), ShouldEqual, coordinator.ErrNotConnected)
			So(client.UpdateMatch(context.Background(), model.Match{}), ShouldEqual, coordinator.ErrNotConnected)
		})
	})
}

func TestClient_UpdateMatch(t *testing.T) {
	Convey("Given a connected client", t, func() {
		fake := newFakeCoordinatorServer(t)
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		client := coordinator.New(fake.url(), "ta-relay", q)
		ctx := context.Background()
		So(client.Connect(ctx), ShouldBeNil)
		defer client.Close()
		fake.nextInbound(t) // register frame

		Convey("When pushing a match update", func() {
			match := model.Match{ID: "m1", AssociatedUsers: []string{"u1", client.Self()}}
			So(client.UpdateMatch(ctx, match), ShouldBeNil)

			Convey("Then the coordinator receives the authoritative copy", func() {
				fr := fake.nextInbound(t)
				So(fr.Type, ShouldEqual, "updateMatch")
				So(fr.Match, ShouldNotBeNil)
				So(fr.Match.ID, ShouldEqual, "m1")
				So(fr.Match.AssociatedUsers, ShouldContain, client.Self())
			})
		})
	})
}
