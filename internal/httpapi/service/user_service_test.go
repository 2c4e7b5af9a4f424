package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/models"
)

func TestUserCreate_DefaultRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "newbie").Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "n@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleUser
	})).Return(nil)

	user, err := svc.Create(context.Background(), UserInput{
		Username: "newbie",
		Email:    "n@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestUserCreate_BadRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), UserInput{
		Username: "newbie",
		Email:    "n@example.com",
		Role:     "owner",
	})

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "role")
}

func TestUserCreate_WithPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("FindByUsername", mock.Anything, "newbie").Return(nil, gorm.ErrRecordNotFound)
	repo.On("FindByEmail", mock.Anything, "n@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.PasswordHash != "" && u.PasswordHash != "secret123"
	})).Return(nil)

	_, err := svc.Create(context.Background(), UserInput{
		Username: "newbie",
		Email:    "n@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserUpdate_RoleChange(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	existing := &models.User{ID: "u1", Username: "reader", Email: "r@example.com", Role: models.RoleUser}
	repo.On("FindByUsername", mock.Anything, "reader").Return(existing, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleModerator
	})).Return(nil)

	role := models.RoleModerator
	updated, err := svc.Update(context.Background(), "reader", UserPatch{Role: &role})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
	repo.AssertExpectations(t)
}

func TestUserUpdateMe_RoleAndPasswordDiscarded(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	existing := &models.User{ID: "u1", Username: "reader", Email: "r@example.com", Role: models.RoleUser}
	repo.On("FindByID", mock.Anything, "u1").Return(existing, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleUser && u.PasswordHash == "" && u.Bio == "hello"
	})).Return(nil)

	role := models.RoleAdmin
	password := "sneaky"
	bio := "hello"
	updated, err := svc.UpdateMe(context.Background(), "u1", UserPatch{
		Role:     &role,
		Password: &password,
		Bio:      &bio,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role)
	repo.AssertExpectations(t)
}

func TestUserUpdate_UsernameCollision(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	existing := &models.User{ID: "u1", Username: "reader", Email: "r@example.com", Role: models.RoleUser}
	other := &models.User{ID: "u2", Username: "taken", Email: "t@example.com"}
	repo.On("FindByUsername", mock.Anything, "reader").Return(existing, nil)
	repo.On("FindByUsername", mock.Anything, "taken").Return(other, nil)

	username := "taken"
	_, err := svc.Update(context.Background(), "reader", UserPatch{Username: &username})

	var ve ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "username")
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserDelete_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	repo.On("Delete", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
