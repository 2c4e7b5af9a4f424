package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type GenreService interface {
	List(ctx context.Context, search string) ([]models.Genre, error)
	Create(ctx context.Context, name, slug string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string) ([]models.Genre, error) {
	return s.repo.List(ctx, search)
}

func (s *genreService) Create(ctx context.Context, name, slug string) (*models.Genre, error) {
	if ve := validateNameAndSlug(name, slug); ve != nil {
		return nil, ve
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, FieldError("slug", "жанр с таким slug уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
