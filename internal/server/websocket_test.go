package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws://127.0.0.1:%d/ws", s.Port())
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error = %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMap(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]any
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return got
}

func TestHub_SnapshotOnSubscribe(t *testing.T) {
	s := newTestServer(t)
	s.Hub().Broadcast(map[string]any{"/avatar/parameters/Voice": 0.5})

	conn := dialWS(t, s)
	got := readMap(t, conn)
	if got["/avatar/parameters/Voice"] != 0.5 {
		t.Errorf("snapshot = %v, want the current map", got)
	}
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	// Initial snapshot (empty).
	if got := readMap(t, conn); len(got) != 0 {
		t.Fatalf("initial snapshot = %v, want empty", got)
	}

	s.Hub().Broadcast(map[string]any{"/avatar/parameters/VSync": true})
	got := readMap(t, conn)
	if got["/avatar/parameters/VSync"] != true {
		t.Errorf("broadcast = %v", got)
	}

	// Peer loss publishes the empty map, not silence.
	s.Hub().Broadcast(map[string]any{})
	if got := readMap(t, conn); len(got) != 0 {
		t.Errorf("after peer loss = %v, want empty map", got)
	}
}

func TestHub_ConcurrentSubscribeAndBroadcast(t *testing.T) {
	s := newTestServer(t)
	hub := s.Hub()

	// Broadcast continuously while subscribers connect: the connect-time
	// snapshot write and broadcast writes target the same connections
	// from different goroutines and must be serialized per connection.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			hub.Broadcast(map[string]any{"/avatar/parameters/Seq": i})
			time.Sleep(time.Millisecond)
		}
	}()

	conns := make([]*websocket.Conn, 0, 20)
	for i := 0; i < 20; i++ {
		conns = append(conns, dialWS(t, s))
	}
	// Every subscriber must still receive well-formed messages.
	for _, c := range conns {
		readMap(t, c)
	}

	close(stop)
	wg.Wait()
}

func TestHub_SubscriberCount(t *testing.T) {
	s := newTestServer(t)
	hub := s.Hub()

	conn := dialWS(t, s)
	readMap(t, conn) // consume snapshot so the subscription is established

	if n := hub.Subscribers(); n != 1 {
		t.Errorf("Subscribers() = %d, want 1", n)
	}

	_ = conn.Close()
	deadline := time.Now().Add(time.Second)
	for hub.Subscribers() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := hub.Subscribers(); n != 0 {
		t.Errorf("Subscribers() after close = %d, want 0", n)
	}
}
