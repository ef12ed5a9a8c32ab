package prize

import (
	"context"
	"errors"
	"testing"

	"nerox-support-bot/internal/features/premium/models"
	premiumservice "nerox-support-bot/internal/features/premium/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPremium struct {
	grantedUser string
	grantedDays int
	grantedBy   string
	err         error
}

func (s *stubPremium) Grant(_ context.Context, userID string, days int, addedBy string) (*models.Grant, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.grantedUser = userID
	s.grantedDays = days
	s.grantedBy = addedBy
	return &models.Grant{GrantID: "g"}, false, nil
}

func (s *stubPremium) Remove(context.Context, string) error { return nil }

func (s *stubPremium) Status(context.Context, string) (*models.Grant, bool, error) {
	return nil, false, nil
}

func (s *stubPremium) List(context.Context) ([]premiumservice.UserGrant, error) {
	return nil, nil
}

type stubNoPrefix struct {
	enabled []string
	err     error
}

func (s *stubNoPrefix) Enable(_ context.Context, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.enabled = append(s.enabled, userID)
	return nil
}

func (s *stubNoPrefix) Enabled(context.Context, string) (bool, error) { return false, nil }
func (s *stubNoPrefix) Disable(context.Context, string) error         { return nil }
func (s *stubNoPrefix) ListUserIDs(context.Context) ([]string, error) { return nil, nil }

func TestKnown(t *testing.T) {
	catalog := NewCatalog(nil, nil)

	assert.True(t, catalog.Known(KindNoPrefix))
	assert.True(t, catalog.Known(KindPremium))
	assert.False(t, catalog.Known("nitro"))
	assert.False(t, catalog.Known(""))
}

func TestDescribe(t *testing.T) {
	catalog := NewCatalog(nil, nil)

	assert.Equal(t, "No Prefix Access", catalog.Describe(KindNoPrefix).Name)
	assert.Equal(t, "Premium (30 days)", catalog.Describe(KindPremium).Name)
	assert.Equal(t, "mystery", catalog.Describe("mystery").Name)
}

func TestApplyNoPrefix(t *testing.T) {
	noprefix := &stubNoPrefix{}
	catalog := NewCatalog(nil, noprefix)

	require.NoError(t, catalog.Apply(context.Background(), KindNoPrefix, "u1", "Giveaway"))
	assert.Equal(t, []string{"u1"}, noprefix.enabled)
}

func TestApplyPremium(t *testing.T) {
	premium := &stubPremium{}
	catalog := NewCatalog(premium, nil)

	require.NoError(t, catalog.Apply(context.Background(), KindPremium, "u1", "Giveaway"))
	assert.Equal(t, "u1", premium.grantedUser)
	assert.Equal(t, models.DefaultGrantDays, premium.grantedDays)
	assert.Equal(t, "Giveaway", premium.grantedBy)
}

func TestApplyPropagatesFailures(t *testing.T) {
	premium := &stubPremium{err: errors.New("redis down")}
	catalog := NewCatalog(premium, &stubNoPrefix{err: errors.New("redis down")})

	assert.Error(t, catalog.Apply(context.Background(), KindPremium, "u1", "Giveaway"))
	assert.Error(t, catalog.Apply(context.Background(), KindNoPrefix, "u1", "Giveaway"))
}

func TestApplyUnknownKind(t *testing.T) {
	catalog := NewCatalog(nil, nil)

	err := catalog.Apply(context.Background(), "nitro", "u1", "Giveaway")
	assert.Error(t, err)
}
