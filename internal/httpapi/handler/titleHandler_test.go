package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
)

// MockTitleService mocks the TitleService interface
type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, f repository.TitleFilter) ([]service.RatedTitle, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]service.RatedTitle), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*service.RatedTitle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatedTitle), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, in service.TitleInput) (*service.RatedTitle, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatedTitle), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, in service.TitleInput) (*service.RatedTitle, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatedTitle), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func titleRouter(svc service.TitleService, user *models.User) *gin.Engine {
	router := setupRouter()
	group := router.Group("/titles", asUser(user))
	NewTitleHandler(svc).RegisterRoutes(group)
	return router
}

func intPtr(i int) *int { return &i }

func TestTitleList_FiltersParsed(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := titleRouter(mockSvc, nil)

	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f repository.TitleFilter) bool {
		return f.Name == "matrix" && f.Category == "movies" && f.Genre == "sci-fi" &&
			f.Year != nil && *f.Year == 1999 && f.Page == 2 && f.PageSize == 5
	})).Return([]service.RatedTitle{}, int64(0), nil)

	req, _ := http.NewRequest("GET", "/titles?name=matrix&category=movies&genre=sci-fi&year=1999&page=2&page_size=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTitleList_BadYear(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := titleRouter(mockSvc, nil)

	req, _ := http.NewRequest("GET", "/titles?year=not-a-year", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTitleGet_NullRatingSerialized(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := titleRouter(mockSvc, nil)

	rt := &service.RatedTitle{Title: models.Title{ID: 1, Name: "Film", Year: 2000}}
	mockSvc.On("Get", mock.Anything, int64(1)).Return(rt, nil)

	req, _ := http.NewRequest("GET", "/titles/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "null", string(response["rating"]))
}

func TestTitleCreate_NonAdminForbidden(t *testing.T) {
	mockSvc := new(MockTitleService)
	user := &models.User{ID: "u1", Role: models.RoleUser}
	router := titleRouter(mockSvc, user)

	w := postJSON(router, "/titles", dto.WriteTitleDTO{Name: strPtr("Film"), Year: intPtr(2000)})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_AnonymousForbidden(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := titleRouter(mockSvc, nil)

	w := postJSON(router, "/titles", dto.WriteTitleDTO{Name: strPtr("Film"), Year: intPtr(2000)})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTitleCreate_AdminAllowed(t *testing.T) {
	mockSvc := new(MockTitleService)
	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	router := titleRouter(mockSvc, admin)

	created := &service.RatedTitle{Title: models.Title{ID: 1, Name: "Film", Year: 2000}}
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.TitleInput) bool {
		return in.Name != nil && *in.Name == "Film"
	})).Return(created, nil)

	w := postJSON(router, "/titles", dto.WriteTitleDTO{
		Name:     strPtr("Film"),
		Year:     intPtr(2000),
		Category: strPtr("movies"),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTitleDelete_AdminAllowed(t *testing.T) {
	mockSvc := new(MockTitleService)
	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	router := titleRouter(mockSvc, admin)

	mockSvc.On("Delete", mock.Anything, int64(5)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTitleGet_NonNumericID(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := titleRouter(mockSvc, nil)

	// a non-numeric id cannot name any title
	req, _ := http.NewRequest("GET", "/titles/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestTitleGet_NotFound(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := titleRouter(mockSvc, nil)

	mockSvc.On("Get", mock.Anything, int64(404)).Return(nil, service.ErrTitleNotFound)

	req, _ := http.NewRequest("GET", "/titles/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
