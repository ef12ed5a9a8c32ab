package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"nerox-support-bot/internal/features/premium/models"
	"nerox-support-bot/internal/features/premium/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu     sync.Mutex
	grants map[string]*models.Grant
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{grants: make(map[string]*models.Grant)}
}

func (r *memoryRepo) Get(_ context.Context, userID string) (*models.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grant, ok := r.grants[userID]
	if !ok {
		return nil, repository.ErrGrantNotFound
	}
	copied := *grant
	return &copied, nil
}

func (r *memoryRepo) Set(_ context.Context, userID string, grant *models.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *grant
	r.grants[userID] = &copied
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, userID)
	return nil
}

func (r *memoryRepo) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.grants))
	for id := range r.grants {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestService(now time.Time) (*premiumService, *memoryRepo) {
	repo := newMemoryRepo()
	svc := NewPremiumService(repo).(*premiumService)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestGrantCreatesFreshRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	grant, extended, err := svc.Grant(context.Background(), "u1", 30, "admin")
	require.NoError(t, err)

	assert.False(t, extended)
	assert.NotEmpty(t, grant.GrantID)
	assert.Equal(t, "admin", grant.AddedBy)
	assert.Equal(t, now.UnixMilli(), grant.RedeemedAt)
	assert.Equal(t, now.UnixMilli()+30*dayMillis, grant.ExpiresAt)
}

func TestGrantExtendsActiveRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)

	existing := &models.Grant{
		GrantID:    "original",
		ExpiresAt:  now.UnixMilli() + 10*dayMillis,
		RedeemedAt: now.UnixMilli() - 20*dayMillis,
		AddedBy:    "admin",
	}
	require.NoError(t, repo.Set(context.Background(), "u1", existing))

	grant, extended, err := svc.Grant(context.Background(), "u1", 7, "other")
	require.NoError(t, err)

	assert.True(t, extended)
	assert.Equal(t, "original", grant.GrantID, "extension keeps the existing grant")
	assert.Equal(t, "admin", grant.AddedBy)
	assert.Equal(t, existing.ExpiresAt+7*dayMillis, grant.ExpiresAt)
}

func TestGrantReplacesExpiredRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)

	expired := &models.Grant{
		GrantID:   "old",
		ExpiresAt: now.UnixMilli() - dayMillis,
	}
	require.NoError(t, repo.Set(context.Background(), "u1", expired))

	grant, extended, err := svc.Grant(context.Background(), "u1", 30, "admin")
	require.NoError(t, err)

	assert.False(t, extended)
	assert.NotEqual(t, "old", grant.GrantID)
	assert.Equal(t, now.UnixMilli()+30*dayMillis, grant.ExpiresAt)
}

func TestGrantValidatesDays(t *testing.T) {
	svc, _ := newTestService(time.Now())

	for _, days := range []int{0, -5, 366} {
		_, _, err := svc.Grant(context.Background(), "u1", days, "admin")
		assert.ErrorIs(t, err, models.ErrInvalidDays)
	}
}

func TestRemove(t *testing.T) {
	now := time.Now()
	svc, repo := newTestService(now)

	require.NoError(t, repo.Set(context.Background(), "u1", &models.Grant{GrantID: "g", ExpiresAt: now.UnixMilli() + dayMillis}))
	require.NoError(t, svc.Remove(context.Background(), "u1"))

	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, repository.ErrGrantNotFound)

	err = svc.Remove(context.Background(), "u1")
	assert.ErrorIs(t, err, repository.ErrGrantNotFound)
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)

	grant, active, err := svc.Status(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, grant)
	assert.False(t, active)

	require.NoError(t, repo.Set(context.Background(), "active", &models.Grant{GrantID: "a", ExpiresAt: now.UnixMilli() + dayMillis}))
	grant, active, err = svc.Status(context.Background(), "active")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.True(t, active)

	require.NoError(t, repo.Set(context.Background(), "expired", &models.Grant{GrantID: "e", ExpiresAt: now.UnixMilli() - dayMillis}))
	grant, active, err = svc.Status(context.Background(), "expired")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.False(t, active)
}

func TestList(t *testing.T) {
	now := time.Now()
	svc, repo := newTestService(now)

	require.NoError(t, repo.Set(context.Background(), "u1", &models.Grant{GrantID: "g1", ExpiresAt: now.UnixMilli() + dayMillis}))
	require.NoError(t, repo.Set(context.Background(), "u2", &models.Grant{GrantID: "g2", ExpiresAt: now.UnixMilli() - dayMillis}))

	grants, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}
