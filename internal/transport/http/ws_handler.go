package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WSHandler streams a user's newly recorded scores over a websocket.
type WSHandler struct {
	auth     *app.AuthService
	feed     *app.ScoreFeed
	upgrader websocket.Upgrader
}

func NewWSHandler(authService *app.AuthService, feed *app.ScoreFeed) *WSHandler {
	return &WSHandler{
		auth: authService,
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS authenticates the token query parameter (browsers cannot set
// headers on a websocket handshake), then forwards scoreRecorded events until
// the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}
	session, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	if !session.Can(domain.ActionViewScores) {
		writeError(w, domain.ErrForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe(session.UserID)
	defer cancel()

	// Only control frames are expected from the client; the reader exists to
	// notice pongs and disconnects.
	readerDone := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if err := h.write(conn, outboundMessage[any]{Type: "subscribed", Payload: session.Identity}); err != nil {
		return
	}
	for {
		select {
		case summary, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, outboundMessage[domain.ScoreSummary]{Type: "scoreRecorded", Payload: summary}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readerDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
