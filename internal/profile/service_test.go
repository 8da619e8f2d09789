// File: internal/profile/service_test.go
package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/common"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/shared"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Profile{}))
	return db
}

func newTestService(t *testing.T, startingCredits int) (*ServiceImplementation, Repository) {
	t.Helper()
	repo := NewGORMRepository(newTestDB(t))
	cfg := &config.Config{StartingCredits: startingCredits}
	return NewService(repo, cfg, zap.NewNop()), repo
}

func TestResolveCreatesProfileWithStartingCredits(t *testing.T) {
	svc, _ := newTestService(t, 5)

	profile, created, err := svc.Resolve(context.Background(), shared.IdentityClaims{
		GoogleID: "uid-123",
		Email:    "Person@Example.COM",
		Name:     "Test Person",
		Picture:  "https://example.com/p.jpg",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 5, profile.Credits)
	assert.Equal(t, "uid-123", profile.GoogleID)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "person@example.com", *profile.Email)
}

func TestResolveIsIdempotentAndDoesNotRefreshClaims(t *testing.T) {
	svc, _ := newTestService(t, 5)
	ctx := context.Background()

	first, created, err := svc.Resolve(ctx, shared.IdentityClaims{
		GoogleID: "uid-123",
		Name:     "Original Name",
	})
	require.NoError(t, err)
	require.True(t, created)

	// Same identity with changed claims: the stored row wins.
	second, created, err := svc.Resolve(ctx, shared.IdentityClaims{
		GoogleID: "uid-123",
		Name:     "Changed Name",
		Email:    "new@example.com",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Name)
	assert.Equal(t, "Original Name", *second.Name)
	assert.Nil(t, second.Email)
}

func TestResolveRejectsMissingProviderID(t *testing.T) {
	svc, _ := newTestService(t, 5)

	_, _, err := svc.Resolve(context.Background(), shared.IdentityClaims{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestDebitCreditDecrementsByExactlyOne(t *testing.T) {
	svc, _ := newTestService(t, 3)
	ctx := context.Background()

	profile, _, err := svc.Resolve(ctx, shared.IdentityClaims{GoogleID: "uid-123"})
	require.NoError(t, err)

	require.NoError(t, svc.DebitCredit(ctx, profile.ID))

	refreshed, err := svc.GetProfileByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.Credits)
}

func TestDebitCreditAtZeroBalanceFails(t *testing.T) {
	svc, _ := newTestService(t, 1)
	ctx := context.Background()

	profile, _, err := svc.Resolve(ctx, shared.IdentityClaims{GoogleID: "uid-123"})
	require.NoError(t, err)

	require.NoError(t, svc.DebitCredit(ctx, profile.ID))

	err = svc.DebitCredit(ctx, profile.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPaymentRequired))

	// The guard never lets the balance go negative.
	refreshed, err := svc.GetProfileByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.Credits)
}

func TestDebitCreditUnknownProfile(t *testing.T) {
	svc, _ := newTestService(t, 5)

	err := svc.DebitCredit(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestAddCreditsIncrementsBalance(t *testing.T) {
	svc, _ := newTestService(t, 2)
	ctx := context.Background()

	profile, _, err := svc.Resolve(ctx, shared.IdentityClaims{GoogleID: "uid-123"})
	require.NoError(t, err)

	require.NoError(t, svc.AddCredits(ctx, profile.ID, 50))

	refreshed, err := svc.GetProfileByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 52, refreshed.Credits)
}

func TestAddCreditsRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t, 2)
	ctx := context.Background()

	profile, _, err := svc.Resolve(ctx, shared.IdentityClaims{GoogleID: "uid-123"})
	require.NoError(t, err)

	err = svc.AddCredits(ctx, profile.ID, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestCreateDuplicateGoogleIDConflicts(t *testing.T) {
	_, repo := newTestService(t, 5)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Profile{GoogleID: "uid-123", Credits: 5}))

	err := repo.Create(ctx, &Profile{GoogleID: "uid-123", Credits: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
}
