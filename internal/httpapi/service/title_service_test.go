package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, search string) ([]models.Category, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context, search string) ([]models.Genre, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) Create(ctx context.Context, g *models.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type titleServiceMocks struct {
	titles     *MockTitleRepository
	reviews    *MockReviewRepository
	categories *MockCategoryRepository
	genres     *MockGenreRepository
}

func newTestTitleService() (TitleService, titleServiceMocks) {
	m := titleServiceMocks{
		titles:     new(MockTitleRepository),
		reviews:    new(MockReviewRepository),
		categories: new(MockCategoryRepository),
		genres:     new(MockGenreRepository),
	}
	return NewTitleService(m.titles, m.reviews, m.categories, m.genres, nil), m
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestTitleGet_RatingRounded(t *testing.T) {
	svc, m := newTestTitleService()

	m.titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Film", Year: 2000}, nil)
	m.reviews.On("AverageByTitle", mock.Anything, []int64{1}).Return(map[int64]float64{1: 7.5}, nil)

	rt, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, rt.Rating)
	assert.Equal(t, 8, *rt.Rating)
}

func TestTitleGet_NoReviewsMeansNilRating(t *testing.T) {
	svc, m := newTestTitleService()

	m.titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Film", Year: 2000}, nil)
	m.reviews.On("AverageByTitle", mock.Anything, []int64{1}).Return(map[int64]float64{}, nil)

	rt, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.Nil(t, rt.Rating)
}

func TestTitleGet_NotFound(t *testing.T) {
	svc, m := newTestTitleService()

	m.titles.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 404)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestTitleList_RatingsPerTitle(t *testing.T) {
	svc, m := newTestTitleService()

	titles := []models.Title{{ID: 1, Name: "A", Year: 1999}, {ID: 2, Name: "B", Year: 2001}}
	m.titles.On("List", mock.Anything, mock.AnythingOfType("repository.TitleFilter")).
		Return(titles, int64(2), nil)
	m.reviews.On("AverageByTitle", mock.Anything, []int64{1, 2}).
		Return(map[int64]float64{1: 4.4}, nil)

	rated, total, err := svc.List(context.Background(), repository.TitleFilter{Page: 1, PageSize: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 4, *rated[0].Rating)
	assert.Nil(t, rated[1].Rating)
}

func TestTitleCreate_Success(t *testing.T) {
	svc, m := newTestTitleService()

	category := &models.Category{ID: 10, Name: "Фильмы", Slug: "movies"}
	genres := []models.Genre{{ID: 5, Name: "Драма", Slug: "drama"}}

	m.categories.On("FindBySlug", mock.Anything, "movies").Return(category, nil)
	m.genres.On("FindBySlugs", mock.Anything, []string{"drama"}).Return(genres, nil)
	m.titles.On("Create", mock.Anything, mock.MatchedBy(func(title *models.Title) bool {
		return title.Name == "Film" && title.Year == 1994 && *title.CategoryID == 10
	})).Return(nil)
	m.titles.On("ReplaceGenres", mock.Anything, mock.Anything, genres).Return(nil)

	rt, err := svc.Create(context.Background(), TitleInput{
		Name:     strPtr("Film"),
		Year:     intPtr(1994),
		Genre:    []string{"drama"},
		Category: strPtr("movies"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "movies", rt.Title.Category.Slug)
	assert.Len(t, rt.Title.Genres, 1)
	m.titles.AssertExpectations(t)
}

func TestTitleCreate_FutureYearRejected(t *testing.T) {
	svc, _ := newTestTitleService()

	_, err := svc.Create(context.Background(), TitleInput{
		Name:     strPtr("Film"),
		Year:     intPtr(9999),
		Category: strPtr("movies"),
	})

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "year")
}

func TestTitleCreate_UnknownGenreSlug(t *testing.T) {
	svc, m := newTestTitleService()

	category := &models.Category{ID: 10, Slug: "movies"}
	m.categories.On("FindBySlug", mock.Anything, "movies").Return(category, nil)
	m.genres.On("FindBySlugs", mock.Anything, []string{"nope"}).Return([]models.Genre{}, nil)

	_, err := svc.Create(context.Background(), TitleInput{
		Name:     strPtr("Film"),
		Year:     intPtr(1994),
		Genre:    []string{"nope"},
		Category: strPtr("movies"),
	})

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "genre")
}

func TestTitleCreate_UnknownCategorySlug(t *testing.T) {
	svc, m := newTestTitleService()

	m.categories.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), TitleInput{
		Name:     strPtr("Film"),
		Year:     intPtr(1994),
		Category: strPtr("nope"),
	})

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "category")
}

func TestTitleDelete_NotFound(t *testing.T) {
	svc, m := newTestTitleService()

	m.titles.On("Delete", mock.Anything, int64(404)).Return(gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), 404)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}
