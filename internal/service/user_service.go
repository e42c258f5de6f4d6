package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"user-service/internal/apperrors"
	"user-service/internal/cache"
	"user-service/internal/entities"
	"user-service/internal/models"
	"user-service/internal/repository"
)

// UserService defines the interface for user business logic
type UserService interface {
	Create(ctx context.Context, dto *models.UserDto) (*models.UserDto, error)
	GetByID(ctx context.Context, id int64) (*models.UserDto, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDto, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.UserDto, error)
	GetByRole(ctx context.Context, role string) ([]*models.UserDto, error)
	GetBornAfter(ctx context.Context, date models.Date) ([]*models.UserDto, error)
	GetAll(ctx context.Context) ([]*models.UserDto, error)
	GetPage(ctx context.Context, page, size int) (*models.Page[*models.UserDto], error)
	Update(ctx context.Context, id int64, dto *models.UserDto) (*models.UserDto, error)
	Delete(ctx context.Context, id int64) (*models.UserDto, error)
}

type userService struct {
	repo       repository.UserRepository
	users      *cache.Namespace[models.UserDto]
	cards      *cache.Namespace[models.CardInfoDto]
	validator  *Validator
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService creates a new user service. Deleting a user also evicts its cards from the card namespace.
func NewUserService(
	repo repository.UserRepository,
	users *cache.Namespace[models.UserDto],
	cards *cache.Namespace[models.CardInfoDto],
	validator *Validator,
	logger *zap.Logger,
	bcryptCost int,
) UserService {
	return &userService{
		repo:       repo,
		users:      users,
		cards:      cards,
		validator:  validator,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Create(ctx context.Context, dto *models.UserDto) (*models.UserDto, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}

	user := ToUserEntity(dto)
	if err := s.hashPassword(user, dto.Password); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, s.storeError(err, "id", dto.UserID)
	}

	s.logger.Info("user created", zap.Int64("user_id", created.ID))
	return ToUserDto(created), nil
}

// GetByID reads through the user cache
func (s *userService) GetByID(ctx context.Context, id int64) (*models.UserDto, error) {
	cached, ok, err := s.users.Get(ctx, id)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("cache", s.users.Name()), zap.Int64("id", id), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	dto := ToUserDto(user)
	s.cachePut(ctx, id, dto)
	return dto, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.UserDto, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.storeError(err, "email", email)
	}
	return ToUserDto(user), nil
}

func (s *userService) GetByIDs(ctx context.Context, ids []int64) ([]*models.UserDto, error) {
	if len(ids) == 0 {
		return nil, apperrors.Validation(map[string]string{"ids": "At least one id is required"})
	}
	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToUserDtos(users), nil
}

func (s *userService) GetByRole(ctx context.Context, role string) ([]*models.UserDto, error) {
	parsed, err := entities.ParseRole(role)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"role": "Role must be one of USER, ADMIN"})
	}
	users, err := s.repo.FindByRole(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return ToUserDtos(users), nil
}

func (s *userService) GetBornAfter(ctx context.Context, date models.Date) ([]*models.UserDto, error) {
	users, err := s.repo.FindBornAfter(ctx, date.Time())
	if err != nil {
		return nil, err
	}
	return ToUserDtos(users), nil
}

func (s *userService) GetAll(ctx context.Context) ([]*models.UserDto, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToUserDtos(users), nil
}

func (s *userService) GetPage(ctx context.Context, page, size int) (*models.Page[*models.UserDto], error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}
	users, total, err := s.repo.FindPage(ctx, page*size, size)
	if err != nil {
		return nil, err
	}
	result := models.NewPage(ToUserDtos(users), page, size, total)
	return &result, nil
}

// Update replaces every mutable field, then writes the result into the cache
func (s *userService) Update(ctx context.Context, id int64, dto *models.UserDto) (*models.UserDto, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	existing.Name = dto.Name
	existing.Surname = dto.Surname
	existing.BirthDate = dto.BirthDate.Time()
	existing.Email = dto.Email
	existing.Role = entities.Role(dto.Role)
	if err := s.hashPassword(existing, dto.Password); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	result := ToUserDto(updated)
	s.cachePut(ctx, id, result)
	s.logger.Info("user updated", zap.Int64("user_id", id))
	return result, nil
}

// Delete removes the user and its cards and evicts all of them from the cache
func (s *userService) Delete(ctx context.Context, id int64) (*models.UserDto, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	cardIDs, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	if err := s.users.Evict(ctx, id); err != nil {
		s.logger.Warn("cache evict failed", zap.String("cache", s.users.Name()), zap.Int64("id", id), zap.Error(err))
	}
	if err := s.cards.Evict(ctx, cardIDs...); err != nil {
		s.logger.Warn("cache evict failed", zap.String("cache", s.cards.Name()), zap.Int64s("ids", cardIDs), zap.Error(err))
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int("cards_deleted", len(cardIDs)))
	return ToUserDto(existing), nil
}

// bcryptMaxPassword is the longest input bcrypt accepts
const bcryptMaxPassword = 72

// passwordKey returns the bytes fed to bcrypt. Passwords longer than bcrypt's
// limit are replaced by their base64 SHA-256 digest.
func passwordKey(password string) []byte {
	if len(password) <= bcryptMaxPassword {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (s *userService) hashPassword(user *entities.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword(passwordKey(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return apperrors.Validation(map[string]string{"password": "Password is too long"})
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return nil
}

func (s *userService) cachePut(ctx context.Context, id int64, dto *models.UserDto) {
	if err := s.users.Put(ctx, id, dto); err != nil {
		s.logger.Warn("cache write failed", zap.String("cache", s.users.Name()), zap.Int64("id", id), zap.Error(err))
	}
}

func (s *userService) storeError(err error, key string, value any) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("User", key, value)
	case errors.Is(err, repository.ErrConflict):
		return apperrors.DataIntegrity("User with this email already exists", err)
	}
	s.logger.Error("user store failure", zap.String(key, fmt.Sprint(value)), zap.Error(err))
	return err
}

func validatePage(page, size int) error {
	fields := map[string]string{}
	if page < 0 {
		fields["page"] = "Page index must not be less than zero"
	}
	if size < 1 {
		fields["size"] = "Page size must not be less than one"
	} else if page > math.MaxInt/size {
		fields["page"] = "Page index is too large"
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}
