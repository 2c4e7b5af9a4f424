package dto

import "reviewhub/internal/httpapi/models"

// CreateCategoryDTO used for POST /v1/categories
type CreateCategoryDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}
