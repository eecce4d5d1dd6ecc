package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/auth"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// guestNamePrefix - имя профиля анонимного входа без выбранного имени
const guestNamePrefix = "Visitatore "

// AuthUseCase - анонимные сессии: профиль, токен и хранилище сессии
type AuthUseCase struct {
	profiles repository.ProfileRepository
	tokens   auth.TokenService
	sessions *SessionRegistry
	logger   *zap.Logger
}

func NewAuthUseCase(
	profiles repository.ProfileRepository,
	tokens auth.TokenService,
	sessions *SessionRegistry,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		profiles: profiles,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// SignInAnonymously создаёт профиль и выдаёт токен
func (uc *AuthUseCase) SignInAnonymously(ctx context.Context, req dto.SignInRequest) (*dto.SessionResponse, error) {
	id := uuid.NewString()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = guestNamePrefix + id[:6]
	}

	if err := uc.profiles.InsertProfile(ctx, domain.ProfileRow{ID: id, Name: name}); err != nil {
		return nil, err
	}

	token, expiresAt, err := uc.tokens.Sign(id, name)
	if err != nil {
		uc.logger.Error("Failed to sign session token", zap.Error(err))
		return nil, errors.ErrInternalServer.Wrap(err)
	}

	uc.sessions.Get(id)
	uc.logger.Info("Anonymous session started", zap.String("user_id", id))

	return &dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      domain.Profile{ID: id, Name: name},
	}, nil
}

// GetSession проверяет токен и возвращает его claims
func (uc *AuthUseCase) GetSession(token string) (*auth.Claims, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, errors.ErrInvalidToken.Wrap(err)
	}
	return claims, nil
}

// GetUser возвращает профиль владельца токена
func (uc *AuthUseCase) GetUser(ctx context.Context, token string) (*domain.Profile, error) {
	claims, err := uc.GetSession(token)
	if err != nil {
		return nil, err
	}

	row, err := uc.profiles.GetProfile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{ID: row.ID, Name: row.Name}
	if row.AvatarURL != nil {
		profile.AvatarURL = *row.AvatarURL
	}
	// Вклад считается при загрузке каталога
	if catalog, _, loaded := uc.sessions.Get(row.ID).Catalog(); loaded {
		for _, p := range catalog.Profiles {
			if p.ID == row.ID {
				profile.Contributions = p.Contributions
			}
		}
	}
	return &profile, nil
}

// SignOut закрывает хранилище сессии пользователя
func (uc *AuthUseCase) SignOut(userID string) {
	uc.sessions.Drop(userID)
}
