package line

import "fmt"

// WebhookRequest is the body LINE posts to the webhook endpoint.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one webhook event. Only "message" events carry a Message.
type Event struct {
	Type       string        `json:"type"`
	Timestamp  int64         `json:"timestamp"`
	ReplyToken string        `json:"replyToken,omitempty"`
	Source     EventSource   `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
}

// EventSource identifies where the event came from.
type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

// EventMessage is the message payload of a "message" event.
type EventMessage struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	StickerID string `json:"stickerId,omitempty"`
	PackageID string `json:"packageId,omitempty"`
}

// Message is an outbound reply message. Exactly one concrete shape is
// used per entry; LINE dispatches on the "type" field.
type Message interface {
	messageType() string
}

// TextMessage is an outbound text reply.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextMessage) messageType() string { return "text" }

// NewTextMessage builds a text reply.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// StickerMessage is an outbound sticker reply.
type StickerMessage struct {
	Type      string `json:"type"`
	PackageID string `json:"packageId"`
	StickerID string `json:"stickerId"`
}

func (StickerMessage) messageType() string { return "sticker" }

// NewStickerMessage builds a sticker reply.
func NewStickerMessage(packageID, stickerID string) StickerMessage {
	return StickerMessage{Type: "sticker", PackageID: packageID, StickerID: stickerID}
}

// ReplyRequest is the body for POST /message/reply.
type ReplyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

// Profile is the response of GET /profile/{userId}.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Language      string `json:"language,omitempty"`
}

// APIError is an error response from the Messaging API.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("line: API error %d: %s", e.StatusCode, e.Message)
}
