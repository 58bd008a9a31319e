/* handler.go
 * Contains the websocket handler of the relay. Every connection gets a reader, which validates and rate limits
 * incoming events, and a writer, which drains the connection's queue.
 */

package relay

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Server upgrades connections and relays quizResult events between them
type Server struct {
	hub      *Hub
	cfg      Config
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

// NewServer creates the relay handler for cfg
func NewServer(cfg Config) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		hub: NewHub(cfg.QueueSize),
		cfg: cfg,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Hub returns the server's client registry
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.EqualFold(origin, s.cfg.AllowedOrigin)
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Relay upgrade failed: %v", err)
		return
	}

	c := s.hub.register(r.RemoteAddr + "#" + strconv.FormatUint(s.nextID.Add(1), 10))
	go s.writeLoop(conn, c)
	s.readLoop(conn, c)
}

// readLoop forwards quizResult events to the hub until the connection fails
func (s *Server) readLoop(conn *websocket.Conn, c *client) {
	defer func() {
		s.hub.unregister(c)
		conn.Close()
	}()

	conn.SetReadLimit(s.cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.Burst)
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				log.Printf("Relay client %s sent a message over %d bytes, closing connection", c.id, s.cfg.MaxMessageSize)
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Relay client %s read error: %v", c.id, err)
			}
			return
		}

		if limiter != nil && !limiter.Allow() {
			log.Printf("Relay client %s is over the rate limit, message dropped", c.id)
			continue
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Printf("Relay client %s sent malformed message: %v", c.id, err)
			continue
		}
		if env.Event != EventQuizResult {
			continue
		}

		log.Printf("Relay client %s sent quiz result", c.id)
		s.hub.Broadcast(msg)
	}
}

// writeLoop drains the client's queue and keeps the connection alive with pings
func (s *Server) writeLoop(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
