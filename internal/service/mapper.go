package service

import (
	"time"

	"user-service/internal/entities"
	"user-service/internal/models"
)

// ToUserDto copies every field, including the password hash and role
func ToUserDto(u *entities.User) *models.UserDto {
	if u == nil {
		return nil
	}
	return &models.UserDto{
		UserID:    u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		BirthDate: models.DateOf(u.BirthDate),
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      string(u.Role),
	}
}

// ToUserEntity is the inverse of ToUserDto. Password is copied as is; hashing happens in the service.
func ToUserEntity(dto *models.UserDto) *entities.User {
	if dto == nil {
		return nil
	}
	return &entities.User{
		ID:           dto.UserID,
		Name:         dto.Name,
		Surname:      dto.Surname,
		BirthDate:    dto.BirthDate.Time(),
		Email:        dto.Email,
		PasswordHash: dto.Password,
		Role:         entities.Role(dto.Role),
	}
}

func ToUserDtos(users []*entities.User) []*models.UserDto {
	out := make([]*models.UserDto, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDto(u))
	}
	return out
}

func ToCardInfoDto(c *entities.CardInfo) *models.CardInfoDto {
	if c == nil {
		return nil
	}
	dto := &models.CardInfoDto{
		CardID: c.ID,
		Number: c.Number,
		Holder: c.Holder,
	}
	if c.ExpirationDate != nil {
		d := models.DateOf(*c.ExpirationDate)
		dto.ExpirationDate = &d
	}
	if c.UserID != nil {
		id := *c.UserID
		dto.UserID = &id
	}
	return dto
}

func ToCardInfoEntity(dto *models.CardInfoDto) *entities.CardInfo {
	if dto == nil {
		return nil
	}
	card := &entities.CardInfo{
		ID:     dto.CardID,
		Number: dto.Number,
		Holder: dto.Holder,
	}
	if dto.ExpirationDate != nil {
		t := time.Time(*dto.ExpirationDate)
		card.ExpirationDate = &t
	}
	if dto.UserID != nil {
		id := *dto.UserID
		card.UserID = &id
	}
	return card
}

func ToCardInfoDtos(cards []*entities.CardInfo) []*models.CardInfoDto {
	out := make([]*models.CardInfoDto, 0, len(cards))
	for _, c := range cards {
		out = append(out, ToCardInfoDto(c))
	}
	return out
}
