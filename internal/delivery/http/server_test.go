package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milan-history-map/internal/config"
	apphttp "github.com/milan-history-map/internal/delivery/http"
	"github.com/milan-history-map/internal/delivery/http/handler"
	"github.com/milan-history-map/internal/domain"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/pkg/auth"
	"github.com/milan-history-map/internal/pkg/media"
	"github.com/milan-history-map/internal/usecase"
)

// fakeRepo отвечает на чтения каталога и избранное; остальные методы
// интерфейса не реализованы и паникуют при вызове
type fakeRepo struct {
	repository.ContentRepository

	mu          sync.Mutex
	raw         domain.RawCatalog
	profiles    map[string]domain.ProfileRow
	favoriteErr error
}

func newFakeRepo() *fakeRepo {
	author := "user-1"
	return &fakeRepo{
		raw: domain.RawCatalog{
			Categories: []domain.Category{{ID: "battaglie", Name: "Battaglie"}},
			Periods:    []domain.Period{{ID: "risorgimento", Name: "Risorgimento", StartYear: 1815, EndYear: 1871}},
			POIs: []domain.POIRow{{
				ID:            "p1",
				Type:          domain.GeometryPoint,
				Coordinates:   &domain.Coordinates{Latitude: 45.4668, Longitude: 9.1905},
				PeriodID:      "risorgimento",
				Title:         "Cinque Giornate",
				AuthorID:      &author,
				POICategories: []domain.CategoryJoinRow{{Category: &domain.IDRef{ID: "battaglie"}}},
				Favorites:     []domain.CountAggregate{{Count: 3}},
			}},
		},
		profiles: map[string]domain.ProfileRow{},
	}
}

func (r *fakeRepo) ListCategories(context.Context) ([]domain.Category, error) {
	return r.raw.Categories, nil
}

func (r *fakeRepo) ListPeriods(context.Context) ([]domain.Period, error) {
	return r.raw.Periods, nil
}

func (r *fakeRepo) ListCharacters(context.Context) ([]domain.CharacterRow, error) {
	return r.raw.Characters, nil
}

func (r *fakeRepo) ListProfiles(context.Context) ([]domain.ProfileRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ProfileRow, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) ListPOIs(context.Context) ([]domain.POIRow, error) {
	return r.raw.POIs, nil
}

func (r *fakeRepo) ListItineraries(context.Context) ([]domain.ItineraryRow, error) {
	return r.raw.Itineraries, nil
}

func (r *fakeRepo) ListFavoriteIDs(context.Context, domain.FavoriteTarget, string) ([]string, error) {
	return []string{}, nil
}

func (r *fakeRepo) InsertFavorite(context.Context, domain.FavoriteTarget, string, string) error {
	return r.favoriteErr
}

func (r *fakeRepo) DeleteFavorite(context.Context, domain.FavoriteTarget, string, string) error {
	return r.favoriteErr
}

func (r *fakeRepo) InsertProfile(_ context.Context, p domain.ProfileRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeRepo) GetProfile(_ context.Context, id string) (*domain.ProfileRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[id]
	return &p, nil
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) (string, error) {
	return "", stderrors.New("model overloaded")
}

func newTestServer(t *testing.T, repo *fakeRepo) *apphttp.Server {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{
		Server: config.ServerConfig{CORSOrigins: "http://localhost:5173"},
		Media:  config.MediaConfig{MaxUploadMB: 1},
	}

	sessions := usecase.NewSessionRegistry(time.Hour, time.Minute, logger)
	tokens := auth.NewTokenService("test-secret", "milan-history-map", time.Hour)

	fetchUC := usecase.NewFetchUseCase(repo, logger)
	photos := usecase.NewPhotoPipeline(nil, repo, media.NewProcessor(1920, 82, 1), logger)
	mapUC := usecase.NewMapUseCase(nil, fetchUC, "mapbox://styles/test", "pk.test", logger)
	authUC := usecase.NewAuthUseCase(repo, tokens, sessions, logger)

	handlers := apphttp.Handlers{
		State:     handler.NewStateHandler(fetchUC, logger),
		Favorite:  handler.NewFavoriteHandler(usecase.NewFavoriteUseCase(repo, fetchUC, logger), logger),
		POI:       handler.NewPOIHandler(usecase.NewPOIUseCase(repo, photos, nil, fetchUC, nil, logger), logger),
		Character: handler.NewCharacterHandler(usecase.NewCharacterUseCase(repo, photos, fetchUC, nil, logger), logger),
		Itinerary: handler.NewItineraryHandler(usecase.NewItineraryUseCase(repo, photos, fetchUC, nil, logger), mapUC, logger),
		Taxonomy:  handler.NewTaxonomyHandler(usecase.NewTaxonomyUseCase(repo, fetchUC, nil, logger), logger),
		Narration: handler.NewNarrationHandler(usecase.NewNarrationUseCase(failingGenerator{}, nil, fetchUC, logger), logger),
		Map:       handler.NewMapHandler(mapUC),
		Auth:      handler.NewAuthHandler(authUC, logger),
	}
	return apphttp.NewServer(cfg, logger, handlers, authUC, sessions)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, srv *apphttp.Server, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func signIn(t *testing.T, srv *apphttp.Server) string {
	t.Helper()
	status, env := do(t, srv, http.MethodPost, "/api/v1/auth/anonymous", "", map[string]string{"name": "Giulia"})
	require.Equal(t, http.StatusCreated, status)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestServer_AnonymousState(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())

	status, env := do(t, srv, http.MethodGet, "/api/v1/state", "", nil)
	require.Equal(t, http.StatusOK, status)

	var state struct {
		Loaded  bool `json:"loaded"`
		Catalog struct {
			POIs []map[string]interface{} `json:"pois"`
		} `json:"catalog"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Loaded)
	require.Len(t, state.Catalog.POIs, 1)
	assert.Equal(t, "point", state.Catalog.POIs[0]["type"])
	assert.Equal(t, "Anonimo", state.Catalog.POIs[0]["author"])
}

func TestServer_AnonymousMutationIsRejected(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())

	status, env := do(t, srv, http.MethodPost, "/api/v1/pois/p1/favorite", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
}

func TestServer_AnonymousVisitorsShareOnlyTheCatalog(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())

	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/detail/pois/p1"},
		{http.MethodPost, "/api/v1/detail/itineraries/it1"},
		{http.MethodDelete, "/api/v1/detail"},
		{http.MethodPost, "/api/v1/forms/poi"},
		{http.MethodDelete, "/api/v1/forms"},
		{http.MethodDelete, "/api/v1/notifications/n1"},
		{http.MethodPost, "/api/v1/pois/p1/favorite"},
	} {
		status, env := do(t, srv, req.method, req.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, req.path)
		if assert.NotNil(t, env.Error, req.path) {
			assert.Equal(t, "UNAUTHENTICATED", env.Error.Code, req.path)
		}
	}

	status, env := do(t, srv, http.MethodGet, "/api/v1/state", "", nil)
	require.Equal(t, http.StatusOK, status)
	var state usecase.StoreState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Loaded)
	assert.Nil(t, state.Detail.POI)
	assert.Nil(t, state.Detail.Itinerary)
	assert.Empty(t, state.ActiveForm)
	assert.Empty(t, state.Notifications)
}

func TestServer_InvalidToken(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())

	status, env := do(t, srv, http.MethodGet, "/api/v1/state", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
}

func TestServer_FavoriteRollbackIsVisibleInState(t *testing.T) {
	repo := newFakeRepo()
	srv := newTestServer(t, repo)
	token := signIn(t, srv)

	status, env := do(t, srv, http.MethodPost, "/api/v1/pois/p1/favorite", token, nil)
	require.Equal(t, http.StatusOK, status)
	var poi domain.POI
	require.NoError(t, json.Unmarshal(env.Data, &poi))
	assert.Equal(t, 4, poi.FavoriteCount)
	assert.True(t, poi.IsFavorited)

	repo.favoriteErr = stderrors.New("row-level security")
	status, env = do(t, srv, http.MethodPost, "/api/v1/pois/p1/favorite", token, nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "MUTATION_FAILED", env.Error.Code)

	_, env = do(t, srv, http.MethodGet, "/api/v1/state", token, nil)
	var state usecase.StoreState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Len(t, state.Catalog.POIs, 1)
	assert.Equal(t, 4, state.Catalog.POIs[0].FavoriteCount)
	assert.True(t, state.Catalog.POIs[0].IsFavorited)
	require.Len(t, state.Notifications, 1)
	assert.Contains(t, state.Notifications[0].Message, "row-level security")
}

func TestServer_CreatePOIWithoutCategories(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())
	token := signIn(t, srv)

	status, env := do(t, srv, http.MethodPost, "/api/v1/pois", token, map[string]interface{}{
		"title":       "Arco della Pace",
		"type":        "point",
		"coordinates": map[string]float64{"latitude": 45.4755, "longitude": 9.1725},
		"preciseDate": "1838-09-10",
		"categoryIds": []string{},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Message, "categoria")
}

func TestServer_NarrationFailureIsNotAnError(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())

	status, env := do(t, srv, http.MethodGet, "/api/v1/pois/p1/narration", "", nil)
	require.Equal(t, http.StatusOK, status)

	var narration struct {
		Failed bool   `json:"failed"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &narration))
	assert.True(t, narration.Failed)
	assert.Equal(t, usecase.NarrationFailedMessage, narration.Text)
}

func TestServer_FormsAndDetail(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())
	token := signIn(t, srv)

	status, _ := do(t, srv, http.MethodPost, "/api/v1/forms/spaceship", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, srv, http.MethodPost, "/api/v1/forms/poi", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	do(t, srv, http.MethodGet, "/api/v1/state", token, nil)
	status, _ = do(t, srv, http.MethodPost, "/api/v1/detail/pois/p1", token, nil)
	assert.Equal(t, http.StatusOK, status)

	_, env := do(t, srv, http.MethodGet, "/api/v1/state", token, nil)
	var state usecase.StoreState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, "poi", state.ActiveForm)
	require.NotNil(t, state.Detail.POI)
	assert.Equal(t, "p1", state.Detail.POI.ID)
}

func TestServer_MeAndSignOut(t *testing.T) {
	srv := newTestServer(t, newFakeRepo())

	status, _ := do(t, srv, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := signIn(t, srv)
	status, env := do(t, srv, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile domain.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Giulia", profile.Name)

	status, _ = do(t, srv, http.MethodPost, "/api/v1/auth/sign-out", token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}
