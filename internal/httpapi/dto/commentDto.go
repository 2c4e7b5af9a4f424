package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateCommentDTO used for POST /v1/titles/:title_id/reviews/:review_id/comments
type CreateCommentDTO struct {
	Text string `json:"text"`
}

// UpdateCommentDTO used for PATCH
type UpdateCommentDTO struct {
	Text *string `json:"text,omitempty"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func CommentFromModel(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate,
	}
}
