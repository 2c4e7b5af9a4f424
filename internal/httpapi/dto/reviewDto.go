package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateReviewDTO used for POST /v1/titles/:title_id/reviews
type CreateReviewDTO struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// UpdateReviewDTO used for PATCH (partial updates allowed)
type UpdateReviewDTO struct {
	Text  *string `json:"text,omitempty"`
	Score *int    `json:"score,omitempty"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func ReviewFromModel(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
