package dto

import "reviewhub/internal/httpapi/models"

// CreateGenreDTO used for POST /v1/genres
type CreateGenreDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}
