package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string) ([]models.Category, error)
	Create(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string) ([]models.Category, error) {
	return s.repo.List(ctx, search)
}

func (s *categoryService) Create(ctx context.Context, name, slug string) (*models.Category, error) {
	if ve := validateNameAndSlug(name, slug); ve != nil {
		return nil, ve
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, FieldError("slug", "категория с таким slug уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
