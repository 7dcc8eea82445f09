package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/logger"
	"github.com/guttosm/dealtracker/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields needed to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Gender   *string
}

// UserChanges lists the fields to change; nil means "leave as is".
type UserChanges struct {
	Name     *string
	Email    *string
	Gender   *string
	Password *string
}

// UserService manages accounts and credentials.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, changes UserChanges) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo storage.UsersRepository
	cost int
}

// NewUserService hashes passwords with bcrypt.DefaultCost.
func NewUserService(repo storage.UsersRepository) UserService {
	return &userService{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return 0, ErrMissingFields
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Gender:       in.Gender,
	})
	if errors.Is(err, storage.ErrConflict) {
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}

	logger.Ctx(ctx).Info().Int64("uid", id).Msg("user registered")
	return id, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, id int64, changes UserChanges) (*models.User, error) {
	upd := models.UserUpdate{
		Name:   nonBlank(changes.Name),
		Gender: nonBlank(changes.Gender),
	}
	if e := nonBlank(changes.Email); e != nil {
		n := normalizeEmail(*e)
		upd.Email = &n
	}
	if p := changes.Password; p != nil && *p != "" {
		hash, err := s.hash(*p)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		upd.PasswordHash = &h
	}
	if upd.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	u, err := s.repo.Update(ctx, id, upd)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, storage.ErrConflict):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	logger.Ctx(ctx).Info().Int64("uid", id).Msg("user deleted")
	return nil
}

// maxPasswordBytes is the input limit of bcrypt.
const maxPasswordBytes = 72

func (s *userService) hash(password string) ([]byte, error) {
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
