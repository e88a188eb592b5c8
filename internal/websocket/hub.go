package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/practice"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SessionDriver runs session commands arriving over the socket.
type SessionDriver interface {
	NextQuestion(ctx context.Context, sessionID uuid.UUID) (*practice.IssuedQuestion, error)
	SubmitAnswer(ctx context.Context, sessionID, turnID uuid.UUID, audioURL, text string) (*practice.TurnResult, error)
	Abort(ctx context.Context, sessionID uuid.UUID) (*models.PracticeReport, error)
}

// SessionLookup resolves a session for the ownership check. Returns
// (nil, nil) when the session does not exist.
type SessionLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PracticeSession, error)
}

// Hub carries the bidirectional practice channel: inbound
// answer/next_question/abort commands drive the session, outbound
// question/score/session_end events fan out to a user's open sockets.
// Events also arrive on the per-user Redis pub/sub channel, so a report
// finalized by any backend instance reaches every connected device.
type Hub struct {
	mu          sync.Mutex
	connections map[uuid.UUID][]*websocket.Conn
	redisClient *redis.Client
	jwtSecret   []byte
	cancelFuncs map[uuid.UUID]context.CancelFunc
	driver      SessionDriver
	sessions    SessionLookup
}

func NewHub(redisClient *redis.Client, jwtSecret string, driver SessionDriver, sessions SessionLookup) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*websocket.Conn),
		redisClient: redisClient,
		jwtSecret:   []byte(jwtSecret),
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		driver:      driver,
		sessions:    sessions,
	}
}

// command is the inbound message shape of the session channel.
type command struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id"`
	AudioURL  string `json:"audio_url"`
	Text      string `json:"text"`
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(userID, conn)

	go h.readLoop(userID, conn)
	go h.pingLoop(conn)
}

func (h *Hub) readLoop(userID uuid.UUID, conn *websocket.Conn) {
	defer h.unregisterConnection(userID, conn)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleCommand(userID, data)
	}
}

func (h *Hub) handleCommand(userID uuid.UUID, data []byte) {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.sendError(userID, "invalid message")
		return
	}

	sessionID, err := uuid.Parse(cmd.SessionID)
	if err != nil {
		h.sendError(userID, "invalid session_id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	session, err := h.sessions.GetByID(ctx, sessionID)
	if err != nil || session == nil || session.UserID != userID {
		h.sendError(userID, "session not found")
		return
	}

	switch cmd.Type {
	case "next_question":
		issued, err := h.driver.NextQuestion(ctx, sessionID)
		if err != nil {
			h.sendError(userID, err.Error())
			return
		}
		h.send(userID, models.WSMessage{Type: "question", Payload: issued})

	case "answer":
		turnID, err := uuid.Parse(cmd.TurnID)
		if err != nil {
			h.sendError(userID, "invalid turn_id")
			return
		}
		result, err := h.driver.SubmitAnswer(ctx, sessionID, turnID, cmd.AudioURL, cmd.Text)
		if err != nil {
			h.sendError(userID, err.Error())
			return
		}
		h.send(userID, models.WSMessage{Type: "score", Payload: result})
		if result.IsFinished {
			h.send(userID, models.WSMessage{Type: "session_end", Payload: result.Report})
		}

	case "abort":
		report, err := h.driver.Abort(ctx, sessionID)
		if err != nil {
			h.sendError(userID, err.Error())
			return
		}
		h.send(userID, models.WSMessage{Type: "session_end", Payload: report})

	default:
		h.sendError(userID, "unknown message type")
	}
}

func (h *Hub) send(userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(userID, data)
}

func (h *Hub) sendError(userID uuid.UUID, message string) {
	h.send(userID, models.WSMessage{Type: "error", Payload: map[string]string{"message": message}})
}

func (h *Hub) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			return
		}
	}
}

func (h *Hub) registerConnection(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[userID] = append(h.connections[userID], conn)

	// Start pub/sub subscription if this is the first connection for this user
	if len(h.connections[userID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[userID] = cancel
		go h.subscribeToPubSub(ctx, userID)
	}

	log.Printf("WebSocket connected: user %s (total: %d)", userID, len(h.connections[userID]))
}

func (h *Hub) unregisterConnection(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[userID]
	for i, c := range conns {
		if c == conn {
			h.connections[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections[userID]) == 0 {
		delete(h.connections, userID)
		if cancel, ok := h.cancelFuncs[userID]; ok {
			cancel()
			delete(h.cancelFuncs, userID)
		}
	}

	log.Printf("WebSocket disconnected: user %s", userID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, userID uuid.UUID) {
	channel := "user_updates:" + userID.String()
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(userID, []byte(msg.Payload))
		}
	}
}

// broadcast takes the full lock: gorilla connections do not tolerate
// concurrent writers.
func (h *Hub) broadcast(userID uuid.UUID, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections[userID] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
