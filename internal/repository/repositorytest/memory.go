// Пакет repositorytest — in-memory реализация репозиториев для unit-тестов
// сервисов и HTTP-обработчиков (без PostgreSQL).
package repositorytest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/vnagar/portfolio/backend/internal/domain/model"
	"github.com/vnagar/portfolio/backend/internal/repository"
)

// IdentityRepo — in-memory repository.IdentityRepository.
// Поведение совпадает с pgx-реализацией: ErrNotFound, upsert по email.
type IdentityRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Identity
	seq  int
	now  time.Time

	// Writes — количество выполненных изменений (upsert, update).
	Writes int
	// Err — если задана, возвращается из всех методов.
	Err error
	// UpsertErr — если задана, возвращается только из UpsertByEmail.
	UpsertErr error
}

var _ repository.IdentityRepository = (*IdentityRepo)(nil)

// NewIdentityRepo создаёт пустой репозиторий.
func NewIdentityRepo() *IdentityRepo {
	return &IdentityRepo{
		byID: make(map[string]*model.Identity),
		now:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SetErr задаёт ошибку хранилища для всех последующих вызовов.
func (f *IdentityRepo) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// WriteCount возвращает количество изменений.
func (f *IdentityRepo) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Writes
}

// tick — монотонные временные метки, чтобы порядок создания был детерминирован.
func (f *IdentityRepo) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func clone(i *model.Identity) *model.Identity {
	c := *i
	return &c
}

func (f *IdentityRepo) FindByEmail(_ context.Context, email string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, i := range f.byID {
		if i.Email == email {
			return clone(i), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *IdentityRepo) FindByID(_ context.Context, id string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	i, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(i), nil
}

func (f *IdentityRepo) FindFirstByRole(_ context.Context, role string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var matches []*model.Identity
	for _, i := range f.byID {
		if i.Role == role {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(matches, func(a, b int) bool { return matches[a].CreatedAt.Before(matches[b].CreatedAt) })
	return clone(matches[0]), nil
}

func (f *IdentityRepo) CountByRole(_ context.Context, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	n := 0
	for _, i := range f.byID {
		if i.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *IdentityRepo) UpsertByEmail(_ context.Context, email, passwordHash, role string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if f.UpsertErr != nil {
		return nil, f.UpsertErr
	}
	f.Writes++
	ts := f.tick()
	for _, i := range f.byID {
		if i.Email == email {
			i.PasswordHash = passwordHash
			i.Role = role
			i.UpdatedAt = ts
			return clone(i), nil
		}
	}
	f.seq++
	i := &model.Identity{
		ID:           "id-" + strconv.Itoa(f.seq),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	f.byID[i.ID] = i
	return clone(i), nil
}

func (f *IdentityRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	i, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.Writes++
	i.PasswordHash = passwordHash
	i.UpdatedAt = f.tick()
	return nil
}
