package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"varsharaksha/feed"
	"varsharaksha/handlers"
	"varsharaksha/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Manager hands out live feed subscriptions over websockets. Each client
// picks a view and receives a full snapshot of that view on connect and
// after every change. There is no incremental patching; the client always
// replaces what it has.
type Manager struct {
	hub *feed.Synchronizer
}

func NewManager(hub *feed.Synchronizer) *Manager {
	return &Manager{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the connection and streams snapshots for the requested
// view: "feed" (last 24h, newest first), "profile" (own posts) or "map"
// (last 24h with coordinates).
func (m *Manager) Handler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		log.Printf("❌ WebSocket connection rejected: no token provided")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := middleware.ParseToken(token)
	if err != nil {
		log.Printf("❌ WebSocket connection rejected: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	view := c.DefaultQuery("view", "feed")
	var scope feed.Scope
	switch view {
	case "feed":
		scope = feed.Scope{Window: feed.DefaultWindow}
	case "profile":
		scope = feed.Scope{AuthorID: &userID}
	case "map":
		scope = feed.Scope{Window: feed.DefaultWindow, LocatedOnly: true}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown view"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	sub := m.hub.Subscribe(c.Request.Context(), scope)
	log.Printf("✅ WebSocket client connected: user=%s view=%s", claims.UserID, view)

	client := &client{
		conn: conn,
		sub:  sub,
		view: view,
	}
	go client.writePump()
	go client.readPump()
}

type client struct {
	conn *websocket.Conn
	sub  *feed.Subscription
	view string
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.sub.Unsubscribe()
		c.conn.Close()
	}()

	for {
		select {
		case snapshot, ok := <-c.sub.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeSnapshot(snapshot); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) writeSnapshot(snapshot feed.Snapshot) error {
	var data map[string]interface{}
	if snapshot.Err != nil {
		data = map[string]interface{}{
			"type": "error",
			"payload": map[string]interface{}{
				"error": "Failed to fetch posts",
				"view":  c.view,
			},
		}
	} else {
		data = map[string]interface{}{
			"type": c.view + "_snapshot",
			"payload": map[string]interface{}{
				"posts": handlers.RenderPosts(snapshot.Posts),
				"time":  time.Now().Unix(),
			},
		}
	}

	msg, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Error marshaling WebSocket snapshot: %v", err)
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *client) readPump() {
	defer func() {
		c.sub.Unsubscribe()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket read error: %v", err)
			}
			return
		}
	}
}
