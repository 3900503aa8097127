package entity

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeImage  = "image"
	MessageTypeVoice  = "voice"
	MessageTypeSystem = "system"
)

// Message belongs to exactly one Chat. Content is stored encrypted and only
// decrypted at read time for chat participants. Immutable after creation
// except for the read flag.
type Message struct {
	ID         string `json:"id" firestore:"id"`
	ChatID     string `json:"chat_id" firestore:"chatId"`
	SenderID   string `json:"sender_id" firestore:"senderId"`
	ReceiverID string `json:"receiver_id" firestore:"receiverId"`
	Type       string `json:"type" firestore:"type"`

	// Content holds ciphertext at rest; handlers get the decrypted text via
	// MessageView, never from this field directly.
	Content string `json:"-" firestore:"content"`

	// MediaURL is set for image/voice messages; the upload itself happens in
	// the media service, only the returned URL is stored here.
	MediaURL string `json:"media_url,omitempty" firestore:"mediaUrl,omitempty"`

	Read      bool       `json:"read" firestore:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
}

// MessageView is a Message with its content decrypted for delivery. Failed
// decryptions keep the stored blob and flag it so the UI can show a
// placeholder instead of ciphertext.
type MessageView struct {
	*Message
	Content       string `json:"content"`
	ContentBroken bool   `json:"content_broken,omitempty"`
}
