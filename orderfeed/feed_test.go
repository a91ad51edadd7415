package orderfeed

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := &client{send: make(chan []byte, 10)}
	hub.register <- c

	msg := []byte(`{"kind":"placed","orderId":"o1"}`)
	hub.Broadcast(msg)

	select {
	case got := <-c.send:
		if string(got) != string(msg) {
			t.Fatalf("expected %s, got %s", msg, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for broadcast")
	}

	hub.unregister <- c

	// closed send channel means the writer goroutine will exit
	select {
	case _, open := <-c.send:
		if open {
			t.Fatal("expected send channel to be closed after unregister")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for unregister")
	}
}

func TestHubDropsSlowConsumers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// buffer of one, never drained
	c := &client{send: make(chan []byte, 1)}
	hub.register <- c

	hub.Broadcast([]byte("one"))
	hub.Broadcast([]byte("two"))

	deadline := time.After(1 * time.Second)
	for {
		hub.mu.Lock()
		_, registered := hub.clients[c]
		hub.mu.Unlock()
		if !registered {
			return
		}
		select {
		case <-deadline:
			t.Fatal("slow consumer was never dropped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
