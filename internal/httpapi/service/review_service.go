package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/cache"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, titleID int64, author *models.User, text string, score int) (*models.Review, error)
	Update(ctx context.Context, titleID, reviewID int64, text *string, score *int) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
	cache   *cache.TitleCache
}

func NewReviewService(
	reviews repository.ReviewRepository,
	titles repository.TitleRepository,
	titleCache *cache.TitleCache,
) ReviewService {
	return &reviewService{reviews: reviews, titles: titles, cache: titleCache}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Create binds author and title from the call site, never from the payload.
// The advisory one-review-per-title check runs first; the unique index backs
// it up and both failures surface the same validation error.
func (s *reviewService) Create(ctx context.Context, titleID int64, author *models.User, text string, score int) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, FieldError("text", "обязательное поле")
	}
	if ve := validateScore(score); ve != nil {
		return nil, ve
	}

	exists, err := s.reviews.ExistsByAuthorAndTitle(ctx, author.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, FieldError("title", msgDuplicateReview)
	}

	review := &models.Review{
		Text:     text,
		Score:    score,
		TitleID:  titleID,
		AuthorID: author.ID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, FieldError("title", msgDuplicateReview)
		}
		return nil, err
	}

	review.Author = *author
	s.cache.Invalidate(ctx, titleID)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, text *string, score *int) (*models.Review, error) {
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if text != nil {
		if strings.TrimSpace(*text) == "" {
			return nil, FieldError("text", "обязательное поле")
		}
		review.Text = *text
	}
	if score != nil {
		if ve := validateScore(*score); ve != nil {
			return nil, ve
		}
		review.Score = *score
	}

	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, titleID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64) error {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, titleID)
	return nil
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTitleNotFound
	}
	return nil
}
