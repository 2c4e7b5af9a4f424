package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/auth"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

// UserInput is the admin create shape. Password is optional; the signup flow
// never sets one.
type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
	Password  string
}

// UserPatch is the partial-update shape shared by the admin endpoint and
// /users/me. UpdateMe discards Role and Password no matter what arrived.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
	Password  *string
}

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, in UserInput) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, p UserPatch) (*models.User, error)
	Delete(ctx context.Context, username string) error
	UpdateMe(ctx context.Context, userID string, p UserPatch) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *userService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if ve := validateUsername(in.Username, true); ve != nil {
		return nil, ve
	}
	if ve := validateEmail(in.Email); ve != nil {
		return nil, ve
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, FieldError("role", "недопустимая роль")
	}

	if err := s.checkUnique(ctx, in.Username, in.Email, ""); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, p UserPatch) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, p)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UpdateMe applies a self-service patch. The role field is forced read-only
// here: even an admin cannot change their own role through this path.
func (s *userService) UpdateMe(ctx context.Context, userID string, p UserPatch) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p.Role = nil
	p.Password = nil
	return s.apply(ctx, user, p)
}

func (s *userService) apply(ctx context.Context, user *models.User, p UserPatch) (*models.User, error) {
	newUsername := user.Username
	newEmail := user.Email

	if p.Username != nil {
		if ve := validateUsername(*p.Username, true); ve != nil {
			return nil, ve
		}
		newUsername = *p.Username
	}
	if p.Email != nil {
		if ve := validateEmail(*p.Email); ve != nil {
			return nil, ve
		}
		newEmail = *p.Email
	}
	if p.Role != nil && !models.ValidRole(*p.Role) {
		return nil, FieldError("role", "недопустимая роль")
	}

	if newUsername != user.Username || newEmail != user.Email {
		if err := s.checkUnique(ctx, newUsername, newEmail, user.ID); err != nil {
			return nil, err
		}
	}

	user.Username = newUsername
	user.Email = newEmail
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
	if p.Bio != nil {
		user.Bio = *p.Bio
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
	if p.Password != nil && *p.Password != "" {
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// checkUnique is the advisory uniqueness check; the unique indexes on
// username and email remain the authoritative guard.
func (s *userService) checkUnique(ctx context.Context, username, email, selfID string) error {
	if other, err := s.repo.FindByUsername(ctx, username); err == nil && other.ID != selfID {
		return FieldError("username", "пользователь с таким именем уже существует")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != selfID {
		return FieldError("email", "пользователь с таким email уже существует")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
