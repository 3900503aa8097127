package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager maps logical rooms to live connections. Every connection sits in
// its user's personal room; chat rooms are joined and left explicitly by the
// client. Delivery is fire-and-forget: the database record is the durable
// source of truth and these events are only a low-latency UI hint.
type Manager struct {
	clients    map[string]*Client
	chatRooms  map[string]map[string]bool
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex

	// authorizeJoin gates join_chat_room frames. Set once during startup,
	// before any connection is accepted. A nil authorizer allows every join.
	authorizeJoin JoinAuthorizer
}

// JoinAuthorizer reports whether a user may subscribe to a chat room's
// events. Chats carry decrypted message previews, so room membership must
// match chat participation.
type JoinAuthorizer func(ctx context.Context, userID, chatID string) bool

// SetJoinAuthorizer installs the room membership check. Call before Start.
func (m *Manager) SetJoinAuthorizer(fn JoinAuthorizer) {
	m.authorizeJoin = fn
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		chatRooms:  make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					for chatID := range m.chatRooms {
						delete(m.chatRooms[chatID], client.UserID)
					}
					close(client.Send)
				}
				m.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// JoinChatRoom adds the user to a chat room until they leave or disconnect.
func (m *Manager) JoinChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.chatRooms[chatID] == nil {
		m.chatRooms[chatID] = make(map[string]bool)
	}
	m.chatRooms[chatID][userID] = true
}

// LeaveChatRoom removes the user from a chat room.
func (m *Manager) LeaveChatRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.chatRooms[chatID], userID)
}

// SendToUser sends a message to the user's personal room. This is the
// delivery fallback that works whether or not the user has the chat open.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("Dropping message for slow client %s", userID)
	}
}

// SendToChatRoom broadcasts a message to every connected member of the chat
// room, optionally excluding one user (usually the sender).
func (m *Manager) SendToChatRoom(chatID string, message []byte, excludeUserID string) {
	m.mutex.RLock()
	members := make([]*Client, 0, len(m.chatRooms[chatID]))
	for userID := range m.chatRooms[chatID] {
		if userID == excludeUserID {
			continue
		}
		if client, ok := m.clients[userID]; ok {
			members = append(members, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range members {
		select {
		case client.Send <- message:
		default:
			log.Printf("Dropping chat room message for slow client %s", client.UserID)
		}
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
