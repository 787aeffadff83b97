// Package models defines shared data types for the application.
package models

import "time"

// MessageType represents the kind of a chat message.
type MessageType string

// MessageType constants mirror the type tags stored by the backend.
const (
	MessageTypeChat         MessageType = "chat"
	MessageTypeImage        MessageType = "image"
	MessageTypeVideo        MessageType = "video"
	MessageTypeAudio        MessageType = "audio"
	MessageTypeDocument     MessageType = "document"
	MessageTypeSticker      MessageType = "sticker"
	MessageTypeNotification MessageType = "e2e_notification"
	MessageTypeProtocol     MessageType = "protocol"
)

// IsMedia reports whether the type carries a media payload.
func (t MessageType) IsMedia() bool {
	switch t {
	case MessageTypeImage, MessageTypeVideo, MessageTypeAudio, MessageTypeDocument, MessageTypeSticker:
		return true
	}
	return false
}

// Message represents one message row from the backend message log.
// Rows are read-only snapshots; nothing in this codebase mutates them.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Timestamp time.Time `json:"message_timestamp" db:"message_timestamp"`
	MessageID string    `json:"message_id" db:"message_id"`
	ChatID    string    `json:"chat_id" db:"chat_id"`

	// group
	GroupID   *string `json:"group_id,omitempty" db:"group_id"`
	GroupName *string `json:"group_name,omitempty" db:"group_name"`

	// sender identity (at most one of number/lid guaranteed present)
	SenderID       string  `json:"sender_id" db:"sender_id"`
	SenderName     *string `json:"sender_name,omitempty" db:"sender_name"`
	SenderPushName *string `json:"sender_pushname,omitempty" db:"sender_pushname"`
	SenderNumber   *string `json:"sender_number,omitempty" db:"sender_number"`
	SenderLID      *string `json:"sender_lid,omitempty" db:"sender_lid"`

	IsFromMe bool        `json:"is_from_me" db:"is_from_me"`
	Body     *string     `json:"body,omitempty" db:"body"`
	Type     MessageType `json:"message_type" db:"message_type"`

	// relations by key; dangling references are possible and resolve to "not found"
	MentionedIDs    []string `json:"mentioned_ids,omitempty" db:"mentioned_ids"`
	QuotedMessageID *string  `json:"quoted_message_id,omitempty" db:"quoted_message_id"`
	IsForwarded     bool     `json:"is_forwarded" db:"is_forwarded"`
	ForwardingScore int      `json:"forwarding_score" db:"forwarding_score"`
	IsStarred       bool     `json:"is_starred" db:"is_starred"`

	// media
	HasMedia      bool    `json:"has_media" db:"has_media"`
	MediaType     *string `json:"media_type,omitempty" db:"media_type"`
	MediaMimetype *string `json:"media_mimetype,omitempty" db:"media_mimetype"`
	MediaFilename *string `json:"media_filename,omitempty" db:"media_filename"`
	MediaFilesize *int64  `json:"media_filesize,omitempty" db:"media_filesize"`
}

// Text returns the message body, or a media placeholder when the body is empty.
func (m *Message) Text() string {
	if m.Body != nil && *m.Body != "" {
		return *m.Body
	}
	if m.HasMedia {
		if m.MediaType != nil && *m.MediaType != "" {
			return "[" + *m.MediaType + "]"
		}
		return "[Media]"
	}
	return "[Empty]"
}
