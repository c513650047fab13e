package dto

import "warbler/models"

// MessageDTO is a Data Transfer Object for the message response
type MessageDTO struct {
	ID       uint   `json:"id"`
	Text     string `json:"content"`
	PubDate  int64  `json:"pub_date"`
	Username string `json:"user"`
	UserID   uint   `json:"user_id"`
}

// LikeDTO answers a toggle-like request.
type LikeDTO struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"total-likes"`
}

// ErrorDTO is the JSON error body.
type ErrorDTO struct {
	Status   int    `json:"status"`
	ErrorMsg string `json:"error_msg"`
}

func NewMessageDTO(m models.Message) MessageDTO {
	return MessageDTO{
		ID:       m.ID,
		Text:     m.Text,
		PubDate:  m.Timestamp.Unix(),
		Username: m.User.Username,
		UserID:   m.UserID,
	}
}

func NewMessageDTOs(messages []models.Message) []MessageDTO {
	out := make([]MessageDTO, len(messages))
	for i, m := range messages {
		out[i] = NewMessageDTO(m)
	}
	return out
}
