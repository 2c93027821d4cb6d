package stream

import (
	"encoding/binary"
	"log"
	"math"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	OpCodeFrame byte = 0x01
	// frame header: opcode, u32 width, u32 height, u32 frame index
	headerSize = 13
	sendQueue  = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans rendered frames out to every connected websocket client. Slow
// clients drop frames instead of stalling the renderer.
type Hub struct {
	MaxClients int

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func NewHub(maxClients int) *Hub {
	return &Hub{MaxClients: maxClients, clients: make(map[*websocket.Conn]chan []byte)}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade failed:", err)
		return
	}

	h.mu.Lock()
	if h.MaxClients > 0 && len(h.clients) >= h.MaxClients {
		h.mu.Unlock()
		log.Println("Max clients reached")
		conn.Close()
		return
	}
	ch := make(chan []byte, sendQueue)
	h.clients[conn] = ch
	h.mu.Unlock()
	log.Printf("Client connected (%s)", r.RemoteAddr)

	done := make(chan struct{})
	go func() {
		writePump(conn, ch)
		close(done)
	}()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		close(ch)
		h.mu.Unlock()
		<-done
		conn.Close()
		log.Printf("Client disconnected (%s)", r.RemoteAddr)
	}()

	// Clients only listen; reading keeps control frames flowing and notices
	// when the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			log.Printf("Client %s's channel is full, dropping frame.", conn.RemoteAddr())
		}
	}
}

func writePump(conn *websocket.Conn, ch <-chan []byte) {
	for msg := range ch {
		if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			log.Printf("Write to client failed: %v", err)
			// drain so Broadcast never blocks on this client
			for range ch {
			}
			return
		}
	}
}

// EncodeFrame packs a res×res float RGB image into an 8-bit RGB message.
func EncodeFrame(img []float32, res int, index uint32) []byte {
	msg := make([]byte, headerSize+3*res*res)
	msg[0] = OpCodeFrame
	binary.LittleEndian.PutUint32(msg[1:], uint32(res))
	binary.LittleEndian.PutUint32(msg[5:], uint32(res))
	binary.LittleEndian.PutUint32(msg[9:], index)
	px := msg[headerSize:]
	for i, v := range img[:3*res*res] {
		px[i] = uint8(math.Round(float64(max(0, min(v, 1))) * 255))
	}
	return msg
}

// DecodeFrame unpacks a message built by EncodeFrame.
func DecodeFrame(msg []byte) (width, height int, index uint32, rgb []byte, ok bool) {
	if len(msg) < headerSize || msg[0] != OpCodeFrame {
		return 0, 0, 0, nil, false
	}
	width = int(binary.LittleEndian.Uint32(msg[1:]))
	height = int(binary.LittleEndian.Uint32(msg[5:]))
	index = binary.LittleEndian.Uint32(msg[9:])
	rgb = msg[headerSize:]
	if len(rgb) != 3*width*height {
		return 0, 0, 0, nil, false
	}
	return width, height, index, rgb, true
}
