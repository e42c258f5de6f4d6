package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"user-service/internal/cache"
	"user-service/internal/entities"
	"user-service/internal/models"
	"user-service/internal/repository"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*entities.User
	cards    *fakeCardRepo
	findByID int
	creates  int
	updates  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entities.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, repository.ErrConflict
		}
	}
	r.nextID++
	stored := *u
	stored.ID = r.nextID
	r.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByID++
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []int64) ([]*entities.User, error) {
	return r.filter(func(u *entities.User) bool {
		for _, id := range ids {
			if u.ID == id {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role entities.Role) ([]*entities.User, error) {
	return r.filter(func(u *entities.User) bool { return u.Role == role }), nil
}

func (r *fakeUserRepo) FindBornAfter(_ context.Context, date time.Time) ([]*entities.User, error) {
	return r.filter(func(u *entities.User) bool { return u.BirthDate.After(date) }), nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*entities.User, error) {
	return r.filter(func(*entities.User) bool { return true }), nil
}

func (r *fakeUserRepo) FindPage(_ context.Context, offset, limit int) ([]*entities.User, int64, error) {
	all := r.filter(func(*entities.User) bool { return true })
	total := int64(len(all))
	if offset >= len(all) {
		return []*entities.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if _, ok := r.users[u.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *u
	r.users[u.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) ([]int64, error) {
	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	delete(r.users, id)
	r.mu.Unlock()

	if r.cards == nil {
		return nil, nil
	}
	return r.cards.deleteOwnedBy(id), nil
}

func (r *fakeUserRepo) filter(keep func(*entities.User) bool) []*entities.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.User{}
	for _, u := range r.users {
		if keep(u) {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeCardRepo struct {
	mu       sync.Mutex
	nextID   int64
	cards    map[int64]*entities.CardInfo
	findByID int
	creates  int
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[int64]*entities.CardInfo{}}
}

func (r *fakeCardRepo) Create(_ context.Context, c *entities.CardInfo) (*entities.CardInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.nextID++
	stored := *c
	stored.ID = r.nextID
	r.cards[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id int64) (*entities.CardInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByID++
	c, ok := r.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *fakeCardRepo) FindByNumber(_ context.Context, number string) (*entities.CardInfo, error) {
	matches := r.filter(func(c *entities.CardInfo) bool { return c.Number == number })
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return matches[0], nil
}

func (r *fakeCardRepo) FindByIDs(_ context.Context, ids []int64) ([]*entities.CardInfo, error) {
	return r.filter(func(c *entities.CardInfo) bool {
		for _, id := range ids {
			if c.ID == id {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeCardRepo) FindByUserID(_ context.Context, userID int64) ([]*entities.CardInfo, error) {
	return r.filter(func(c *entities.CardInfo) bool { return c.UserID != nil && *c.UserID == userID }), nil
}

func (r *fakeCardRepo) FindExpired(_ context.Context) ([]*entities.CardInfo, error) {
	return r.filter(func(c *entities.CardInfo) bool {
		return c.ExpirationDate != nil && c.ExpirationDate.Before(fixedNow)
	}), nil
}

func (r *fakeCardRepo) FindAll(_ context.Context) ([]*entities.CardInfo, error) {
	return r.filter(func(*entities.CardInfo) bool { return true }), nil
}

func (r *fakeCardRepo) FindPage(_ context.Context, offset, limit int) ([]*entities.CardInfo, int64, error) {
	all := r.filter(func(*entities.CardInfo) bool { return true })
	total := int64(len(all))
	if offset >= len(all) {
		return []*entities.CardInfo{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeCardRepo) Update(_ context.Context, c *entities.CardInfo) (*entities.CardInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[c.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *c
	r.cards[c.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeCardRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *fakeCardRepo) deleteOwnedBy(userID int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, c := range r.cards {
		if c.UserID != nil && *c.UserID == userID {
			ids = append(ids, id)
			delete(r.cards, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *fakeCardRepo) filter(keep func(*entities.CardInfo) bool) []*entities.CardInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.CardInfo{}
	for _, c := range r.cards {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fixture struct {
	userRepo *fakeUserRepo
	cardRepo *fakeCardRepo
	users    *cache.Namespace[models.UserDto]
	cards    *cache.Namespace[models.CardInfoDto]
	userSvc  UserService
	cardSvc  CardInfoService
}

func newFixture() *fixture {
	backend := cache.NewMemoryCache(1000, time.Minute)
	f := &fixture{
		userRepo: newFakeUserRepo(),
		cardRepo: newFakeCardRepo(),
		users:    cache.NewNamespace[models.UserDto](cache.UserNamespace, backend, cache.DefaultTTL),
		cards:    cache.NewNamespace[models.CardInfoDto](cache.CardInfoNamespace, backend, cache.DefaultTTL),
	}
	f.userRepo.cards = f.cardRepo
	v := newValidatorAt(func() time.Time { return fixedNow })
	f.userSvc = NewUserService(f.userRepo, f.users, f.cards, v, zap.NewNop(), bcrypt.MinCost)
	f.cardSvc = NewCardInfoService(f.cardRepo, f.userRepo, f.cards, v, zap.NewNop())
	return f
}

func jonSnowDto() *models.UserDto {
	return &models.UserDto{
		Name:      "Jon",
		Surname:   "Snow",
		BirthDate: models.NewDate(1990, time.January, 1),
		Email:     "jon.snow@example.com",
		Password:  "secret",
		Role:      "USER",
	}
}

func cardDto(userID *int64) *models.CardInfoDto {
	exp := models.NewDate(2030, time.December, 31)
	return &models.CardInfoDto{
		Number:         "4111111111111111",
		Holder:         "JON SNOW",
		ExpirationDate: &exp,
		UserID:         userID,
	}
}
