package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// WebSocket event types. Server-emitted events mirror the state machine;
// client-sent frames are the room/typing protocol.
const (
	EventNewMessage        = "new-message"
	EventOrderStatusUpdate = "order-status-update"
	EventChatUpdate        = "chat-update"
	EventUserTyping        = "user-typing"
	EventUserStopTyping    = "user-stop-typing"

	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
	MessageTypeJoinChatRoom  = "join_chat_room"
	MessageTypeLeaveChatRoom = "leave_chat_room"
	MessageTypeTypingStart   = "typing_start"
	MessageTypeTypingStop    = "typing_stop"
)

// WSMessage is the frame shape shared by client and server.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	ChatID    string      `json:"chat_id,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewEvent marshals a server-emitted event frame. Marshal failures cannot
// happen for the payload shapes we emit, so the error is only logged.
func NewEvent(eventType, chatID string, data interface{}) []byte {
	payload, err := json.Marshal(WSMessage{
		Type:      eventType,
		Data:      data,
		ChatID:    chatID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("WebSocket: failed to marshal %s event: %v", eventType, err)
		return nil
	}
	return payload
}

// HandleClientMessage processes incoming WebSocket frames.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		log.Printf("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.handlePing(client)

	case MessageTypeJoinChatRoom:
		m.handleJoinChatRoom(client, wsMessage)

	case MessageTypeLeaveChatRoom:
		m.handleLeaveChatRoom(client, wsMessage)

	case MessageTypeTypingStart:
		m.handleTyping(client, wsMessage, EventUserTyping)

	case MessageTypeTypingStop:
		m.handleTyping(client, wsMessage, EventUserStopTyping)

	default:
		log.Printf("WebSocket: Unknown message type '%s' from client %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "Unknown message type: "+wsMessage.Type)
	}
}

func (m *Manager) handlePing(client *Client) {
	m.sendToClient(client, WSMessage{
		Type:      MessageTypePong,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (m *Manager) handleJoinChatRoom(client *Client, wsMessage WSMessage) {
	if wsMessage.ChatID == "" {
		m.sendErrorToClient(client, "Missing chat_id")
		return
	}

	if m.authorizeJoin != nil && !m.authorizeJoin(context.Background(), client.UserID, wsMessage.ChatID) {
		log.Printf("WebSocket: Client %s denied join for chat room %s", client.UserID, wsMessage.ChatID)
		m.sendErrorToClient(client, "Not a participant of this chat")
		return
	}

	m.JoinChatRoom(wsMessage.ChatID, client.UserID)
	log.Printf("WebSocket: Client %s joined chat room %s", client.UserID, wsMessage.ChatID)
}

func (m *Manager) handleLeaveChatRoom(client *Client, wsMessage WSMessage) {
	if wsMessage.ChatID == "" {
		m.sendErrorToClient(client, "Missing chat_id")
		return
	}

	m.LeaveChatRoom(wsMessage.ChatID, client.UserID)
	log.Printf("WebSocket: Client %s left chat room %s", client.UserID, wsMessage.ChatID)
}

// Typing indicators are ephemeral and room-scoped; nothing is persisted.
func (m *Manager) handleTyping(client *Client, wsMessage WSMessage, eventType string) {
	if wsMessage.ChatID == "" {
		m.sendErrorToClient(client, "Missing chat_id")
		return
	}

	event := NewEvent(eventType, wsMessage.ChatID, map[string]interface{}{
		"userId": client.UserID,
	})
	m.SendToChatRoom(wsMessage.ChatID, event, client.UserID)
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		log.Printf("WebSocket: Dropping frame for slow client %s", client.UserID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, WSMessage{
		Type:      "error",
		Data:      map[string]string{"message": errorMsg},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
