package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/cache"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

// RatedTitle pairs a title with its derived rating: the rounded average of
// its review scores, nil when no reviews exist.
type RatedTitle struct {
	Title  models.Title `json:"title"`
	Rating *int         `json:"rating"`
}

// TitleInput is the write shape after binding: genre and category arrive as
// slugs. Nil pointers mean "not provided" so the same shape serves partial
// updates.
type TitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Genre       []string
	Category    *string
}

type TitleService interface {
	List(ctx context.Context, f repository.TitleFilter) ([]RatedTitle, int64, error)
	Get(ctx context.Context, id int64) (*RatedTitle, error)
	Create(ctx context.Context, in TitleInput) (*RatedTitle, error)
	Update(ctx context.Context, id int64, in TitleInput) (*RatedTitle, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	reviews    repository.ReviewRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	cache      *cache.TitleCache
}

func NewTitleService(
	titles repository.TitleRepository,
	reviews repository.ReviewRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
	titleCache *cache.TitleCache,
) TitleService {
	return &titleService{
		titles:     titles,
		reviews:    reviews,
		categories: categories,
		genres:     genres,
		cache:      titleCache,
	}
}

func (s *titleService) List(ctx context.Context, f repository.TitleFilter) ([]RatedTitle, int64, error) {
	titles, total, err := s.titles.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	averages, err := s.reviews.AverageByTitle(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	rated := make([]RatedTitle, 0, len(titles))
	for _, t := range titles {
		rated = append(rated, RatedTitle{Title: t, Rating: ratingFrom(averages, t.ID)})
	}
	return rated, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*RatedTitle, error) {
	if data, ok := s.cache.Get(ctx, id); ok {
		var rt RatedTitle
		if err := json.Unmarshal(data, &rt); err == nil {
			return &rt, nil
		}
	}

	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	averages, err := s.reviews.AverageByTitle(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	rt := &RatedTitle{Title: *t, Rating: ratingFrom(averages, id)}
	if data, err := json.Marshal(rt); err == nil {
		s.cache.Set(ctx, id, data)
	}
	return rt, nil
}

func (s *titleService) Create(ctx context.Context, in TitleInput) (*RatedTitle, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, FieldError("name", "обязательное поле")
	}
	if len(*in.Name) > maxNameLen {
		return nil, FieldError("name", msgNameTooLong)
	}
	if in.Year == nil {
		return nil, FieldError("year", "обязательное поле")
	}
	if ve := validateYear(*in.Year, time.Now()); ve != nil {
		return nil, ve
	}
	if in.Category == nil {
		return nil, FieldError("category", "обязательное поле")
	}

	category, err := s.resolveCategory(ctx, *in.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        strings.TrimSpace(*in.Name),
		Year:        *in.Year,
		Description: in.Description,
		CategoryID:  &category.ID,
	}
	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	if err := s.titles.ReplaceGenres(ctx, title, genres); err != nil {
		return nil, err
	}

	title.Category = category
	title.Genres = genres
	return &RatedTitle{Title: *title}, nil
}

func (s *titleService) Update(ctx context.Context, id int64, in TitleInput) (*RatedTitle, error) {
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, FieldError("name", "обязательное поле")
		}
		if len(*in.Name) > maxNameLen {
			return nil, FieldError("name", msgNameTooLong)
		}
		title.Name = strings.TrimSpace(*in.Name)
	}
	if in.Year != nil {
		if ve := validateYear(*in.Year, time.Now()); ve != nil {
			return nil, ve
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		category, err := s.resolveCategory(ctx, *in.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titles.Save(ctx, title); err != nil {
		return nil, err
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, in.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titles.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	s.cache.Invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, FieldError("category", "категория с таким slug не найдена")
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(uniqueStrings(slugs)) {
		return nil, FieldError("genre", "жанр с таким slug не найден")
	}
	return genres, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func ratingFrom(averages map[int64]float64, titleID int64) *int {
	avg, ok := averages[titleID]
	if !ok {
		return nil
	}
	rating := int(math.Round(avg))
	return &rating
}
