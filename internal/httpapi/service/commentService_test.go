package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/models"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) ListByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, reviewID, id int64) error {
	args := m.Called(ctx, reviewID, id)
	return args.Error(0)
}

func TestCommentCreate_Success(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	author := &models.User{ID: "u1", Username: "reader"}
	reviews.On("GetByID", mock.Anything, int64(7), int64(3)).
		Return(&models.Review{ID: 3, TitleID: 7}, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.ReviewID == 3 && c.AuthorID == "u1" && c.Text == "agreed"
	})).Return(nil)

	comment, err := svc.Create(context.Background(), 7, 3, author, "agreed")

	assert.NoError(t, err)
	assert.Equal(t, "reader", comment.Author.Username)
	comments.AssertExpectations(t)
}

func TestCommentCreate_ReviewUnderWrongTitle(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(8), int64(3)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), 8, 3, &models.User{ID: "u1"}, "text")

	assert.ErrorIs(t, err, ErrReviewNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreate_EmptyText(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(7), int64(3)).
		Return(&models.Review{ID: 3, TitleID: 7}, nil)

	_, err := svc.Create(context.Background(), 7, 3, &models.User{ID: "u1"}, "   ")

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "text")
}

func TestCommentGet_NotFound(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(7), int64(3)).
		Return(&models.Review{ID: 3, TitleID: 7}, nil)
	comments.On("GetByID", mock.Anything, int64(3), int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 7, 3, 99)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentDelete_NotFound(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(7), int64(3)).
		Return(&models.Review{ID: 3, TitleID: 7}, nil)
	comments.On("Delete", mock.Anything, int64(3), int64(99)).Return(gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), 7, 3, 99)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}
