package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"user-service/internal/apperrors"
	"user-service/internal/cache"
	"user-service/internal/models"
	"user-service/internal/repository"
)

// CardInfoService defines the interface for card business logic
type CardInfoService interface {
	Create(ctx context.Context, dto *models.CardInfoDto) (*models.CardInfoDto, error)
	GetByID(ctx context.Context, id int64) (*models.CardInfoDto, error)
	GetByNumber(ctx context.Context, number string) (*models.CardInfoDto, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.CardInfoDto, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.CardInfoDto, error)
	GetExpired(ctx context.Context) ([]*models.CardInfoDto, error)
	GetAll(ctx context.Context) ([]*models.CardInfoDto, error)
	GetPage(ctx context.Context, page, size int) (*models.Page[*models.CardInfoDto], error)
	Update(ctx context.Context, id int64, dto *models.CardInfoDto) (*models.CardInfoDto, error)
	Delete(ctx context.Context, id int64) (*models.CardInfoDto, error)
}

type cardInfoService struct {
	repo      repository.CardInfoRepository
	users     repository.UserRepository
	cards     *cache.Namespace[models.CardInfoDto]
	validator *Validator
	logger    *zap.Logger
}

// NewCardInfoService creates a new card service. The user repository resolves card owners.
func NewCardInfoService(
	repo repository.CardInfoRepository,
	users repository.UserRepository,
	cards *cache.Namespace[models.CardInfoDto],
	validator *Validator,
	logger *zap.Logger,
) CardInfoService {
	return &cardInfoService{
		repo:      repo,
		users:     users,
		cards:     cards,
		validator: validator,
		logger:    logger,
	}
}

func (s *cardInfoService) Create(ctx context.Context, dto *models.CardInfoDto) (*models.CardInfoDto, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.resolveOwner(ctx, dto.UserID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, ToCardInfoEntity(dto))
	if err != nil {
		return nil, s.storeError(err, "id", dto.CardID)
	}

	s.logger.Info("card created", zap.Int64("card_id", created.ID))
	return ToCardInfoDto(created), nil
}

// GetByID reads through the card cache
func (s *cardInfoService) GetByID(ctx context.Context, id int64) (*models.CardInfoDto, error) {
	cached, ok, err := s.cards.Get(ctx, id)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("cache", s.cards.Name()), zap.Int64("id", id), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	dto := ToCardInfoDto(card)
	s.cachePut(ctx, id, dto)
	return dto, nil
}

func (s *cardInfoService) GetByNumber(ctx context.Context, number string) (*models.CardInfoDto, error) {
	card, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, s.storeError(err, "number", number)
	}
	return ToCardInfoDto(card), nil
}

func (s *cardInfoService) GetByIDs(ctx context.Context, ids []int64) ([]*models.CardInfoDto, error) {
	if len(ids) == 0 {
		return nil, apperrors.Validation(map[string]string{"ids": "At least one id is required"})
	}
	cards, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToCardInfoDtos(cards), nil
}

func (s *cardInfoService) GetByUserID(ctx context.Context, userID int64) ([]*models.CardInfoDto, error) {
	cards, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCardInfoDtos(cards), nil
}

func (s *cardInfoService) GetExpired(ctx context.Context) ([]*models.CardInfoDto, error) {
	cards, err := s.repo.FindExpired(ctx)
	if err != nil {
		return nil, err
	}
	return ToCardInfoDtos(cards), nil
}

func (s *cardInfoService) GetAll(ctx context.Context) ([]*models.CardInfoDto, error) {
	cards, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCardInfoDtos(cards), nil
}

func (s *cardInfoService) GetPage(ctx context.Context, page, size int) (*models.Page[*models.CardInfoDto], error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}
	cards, total, err := s.repo.FindPage(ctx, page*size, size)
	if err != nil {
		return nil, err
	}
	result := models.NewPage(ToCardInfoDtos(cards), page, size, total)
	return &result, nil
}

// Update replaces every mutable field, then writes the result into the cache.
// Expiration dates in the past are accepted here so expired cards can be edited.
func (s *cardInfoService) Update(ctx context.Context, id int64, dto *models.CardInfoDto) (*models.CardInfoDto, error) {
	if err := s.validator.StructExcept(dto, "ExpirationDate"); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}
	if err := s.resolveOwner(ctx, dto.UserID); err != nil {
		return nil, err
	}

	replacement := ToCardInfoEntity(dto)
	replacement.ID = existing.ID

	updated, err := s.repo.Update(ctx, replacement)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	result := ToCardInfoDto(updated)
	s.cachePut(ctx, id, result)
	s.logger.Info("card updated", zap.Int64("card_id", id))
	return result, nil
}

func (s *cardInfoService) Delete(ctx context.Context, id int64) (*models.CardInfoDto, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "id", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, s.storeError(err, "id", id)
	}

	if err := s.cards.Evict(ctx, id); err != nil {
		s.logger.Warn("cache evict failed", zap.String("cache", s.cards.Name()), zap.Int64("id", id), zap.Error(err))
	}

	s.logger.Info("card deleted", zap.Int64("card_id", id))
	return ToCardInfoDto(existing), nil
}

// resolveOwner fails with NotFound when userID names a user that does not exist
func (s *cardInfoService) resolveOwner(ctx context.Context, userID *int64) error {
	if userID == nil {
		return nil
	}
	_, err := s.users.FindByID(ctx, *userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User", "id", *userID)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve card owner: %w", err)
	}
	return nil
}

func (s *cardInfoService) cachePut(ctx context.Context, id int64, dto *models.CardInfoDto) {
	if err := s.cards.Put(ctx, id, dto); err != nil {
		s.logger.Warn("cache write failed", zap.String("cache", s.cards.Name()), zap.Int64("id", id), zap.Error(err))
	}
}

func (s *cardInfoService) storeError(err error, key string, value any) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("CardInfo", key, value)
	case errors.Is(err, repository.ErrConflict):
		return apperrors.DataIntegrity("Card violates a data integrity constraint", err)
	}
	s.logger.Error("card store failure", zap.String(key, fmt.Sprint(value)), zap.Error(err))
	return err
}
