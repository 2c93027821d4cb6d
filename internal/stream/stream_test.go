package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEncodeDecodeFrame(t *testing.T) {
	img := []float32{0, 0.5, 1, 2, -1, 0.25, 1, 1, 1, 0, 0, 0}
	msg := EncodeFrame(img, 2, 7)
	w, h, idx, rgb, ok := DecodeFrame(msg)
	if !ok || w != 2 || h != 2 || idx != 7 {
		t.Fatalf("decode: %d %d %d %v", w, h, idx, ok)
	}
	want := []byte{0, 128, 255, 255, 0, 64, 255, 255, 255, 0, 0, 0}
	for i := range want {
		if rgb[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, rgb[i], want[i])
		}
	}
	if _, _, _, _, ok := DecodeFrame(msg[:len(msg)-1]); ok {
		t.Fatal("truncated message must not decode")
	}
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d clients, have %d", n, h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(2)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	waitClients(t, hub, 1)

	msg := EncodeFrame([]float32{1, 0, 0}, 1, 3)
	hub.Broadcast(msg)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	mt, got, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if mt != websocket.BinaryMessage || string(got) != string(msg) {
		t.Fatalf("unexpected message type %d: %v", mt, got)
	}

	conn.Close()
	waitClients(t, hub, 0)
}

func TestHubMaxClients(t *testing.T) {
	hub := NewHub(1)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	waitClients(t, hub, 1)

	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	_ = second.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := second.ReadMessage(); err == nil {
		t.Fatal("the server must close connections over the client limit")
	}
	if hub.Clients() != 1 {
		t.Fatalf("have %d clients", hub.Clients())
	}
}
