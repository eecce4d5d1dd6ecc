package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/pkg/auth"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/usecase"
	"github.com/milan-history-map/internal/usecase/dto"
)

func newAuthUseCase() (*usecase.AuthUseCase, *MockContentRepository, *usecase.SessionRegistry, auth.TokenService) {
	repo := &MockContentRepository{}
	tokens := auth.NewTokenService("test-secret", "milan-history-map", time.Hour)
	sessions := usecase.NewSessionRegistry(time.Hour, time.Minute, zap.NewNop())
	return usecase.NewAuthUseCase(repo, tokens, sessions, zap.NewNop()), repo, sessions, tokens
}

func TestAuthUseCase_SignInAnonymously(t *testing.T) {
	ctx := context.Background()

	t.Run("guest name is generated", func(t *testing.T) {
		uc, repo, sessions, _ := newAuthUseCase()
		repo.On("InsertProfile", mock.Anything, mock.MatchedBy(func(p domain.ProfileRow) bool {
			return strings.HasPrefix(p.Name, "Visitatore ") && strings.HasPrefix(p.ID, p.Name[len("Visitatore "):])
		})).Return(nil)

		resp, err := uc.SignInAnonymously(ctx, dto.SignInRequest{})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.Token)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
		assert.Equal(t, 1, sessions.Len())
		assert.Equal(t, resp.User.ID, sessions.Get(resp.User.ID).UserID())
	})

	t.Run("token round trips through GetSession", func(t *testing.T) {
		uc, repo, _, _ := newAuthUseCase()
		repo.On("InsertProfile", mock.Anything, mock.Anything).Return(nil)

		resp, err := uc.SignInAnonymously(ctx, dto.SignInRequest{Name: " Lucia "})
		require.NoError(t, err)
		assert.Equal(t, "Lucia", resp.User.Name)

		claims, err := uc.GetSession(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})

	t.Run("profile insert failure", func(t *testing.T) {
		uc, repo, sessions, _ := newAuthUseCase()
		repo.On("InsertProfile", mock.Anything, mock.Anything).Return(errors.ErrDatabaseError)

		_, err := uc.SignInAnonymously(ctx, dto.SignInRequest{})
		assert.ErrorIs(t, err, errors.ErrDatabaseError)
		assert.Equal(t, 0, sessions.Len())
	})
}

func TestAuthUseCase_GetSession_RejectsForeignToken(t *testing.T) {
	uc, _, _, _ := newAuthUseCase()
	other := auth.NewTokenService("another-secret", "milan-history-map", time.Hour)
	token, _, err := other.Sign("user-1", "Giulia")
	require.NoError(t, err)

	_, err = uc.GetSession(token)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestAuthUseCase_GetUser(t *testing.T) {
	uc, repo, sessions, tokens := newAuthUseCase()
	token, _, err := tokens.Sign("user-1", "Giulia")
	require.NoError(t, err)

	repo.On("GetProfile", mock.Anything, "user-1").Return(&domain.ProfileRow{ID: "user-1", Name: "Giulia"}, nil)

	profile, err := uc.GetUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Giulia", profile.Name)
	assert.Zero(t, profile.Contributions)

	// После загрузки каталога вклад берётся из него
	expectCatalog(repo, sampleRaw())
	fetch := usecase.NewFetchUseCase(repo, zap.NewNop())
	require.NoError(t, fetch.Load(context.Background(), sessions.Get("user-1")))

	profile, err = uc.GetUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.Contributions)

	uc.SignOut("user-1")
	assert.Equal(t, 0, sessions.Len())
}
