package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/handler"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/middleware"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/storage"
	"github.com/jamdate/jamdate-backend/internal/repository/memory"
	"github.com/jamdate/jamdate-backend/internal/usecase/access"
	"github.com/jamdate/jamdate-backend/internal/usecase/assist"
	"github.com/jamdate/jamdate-backend/internal/usecase/auth"
	"github.com/jamdate/jamdate-backend/internal/usecase/favourite"
	"github.com/jamdate/jamdate-backend/internal/usecase/match"
	"github.com/jamdate/jamdate-backend/internal/usecase/photo"
	"github.com/jamdate/jamdate-backend/internal/usecase/profile"
	"github.com/jamdate/jamdate-backend/internal/usecase/report"
	"github.com/jamdate/jamdate-backend/internal/usecase/search"
	"github.com/jamdate/jamdate-backend/internal/usecase/user"
	"github.com/jamdate/jamdate-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-of-at-least-32-chars"

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validate := validation.New()

	photos, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	uploader := photo.NewUploader(photos)

	listing := config.ListingConfig{ProfilesDefaultLimit: 4, ProfilesMaxLimit: 50, FavouritesTopDefault: 20}

	authUseCase := auth.NewAuthUseCase(store.Users(), store.Profiles(), store.Blocklist(), validate, testSecret, time.Hour)
	handlers := Handlers{
		Auth:      handler.NewAuthHandler(authUseCase),
		User:      handler.NewUserHandler(user.NewUserUseCase(store.Users(), store.Profiles(), store.Favourites(), store, uploader)),
		Profile:   handler.NewProfileHandler(profile.NewProfileUseCase(store.Profiles(), store.Users(), store, uploader, validate, listing), match.NewMatchUseCase(store.Profiles())),
		Favourite: handler.NewFavouriteHandler(favourite.NewFavouriteUseCase(store.Favourites(), store.Users(), listing.FavouritesTopDefault)),
		Report:    handler.NewReportHandler(report.NewReportUseCase(store.Reports(), store.Users(), validate)),
		Search:    handler.NewSearchHandler(search.NewSearchUseCase(store.Profiles())),
		Assist:    handler.NewAssistHandler(assist.NewAssistUseCase(nil, validate, logger)),
		Health:    handler.NewHealthHandler(goversion.Info{GitVersion: "v0.0.0-test"}),
	}

	router := NewRouter(
		handlers,
		middleware.NewAuthMiddleware(authUseCase),
		middleware.NewGateMiddleware(access.NewGate(store.Users(), store.Profiles())),
		logger,
		"",
	)
	return &testServer{t: t, engine: router.Setup()}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(username string) int {
	s.t.Helper()
	w := s.do(stdhttp.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"password": "secret123",
		"name":     "Name " + username,
		"email":    username + "@example.com",
	})
	require.Equal(s.t, stdhttp.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID int `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &created))
	return created.ID
}

func (s *testServer) login(username string) auth.AuthResponse {
	s.t.Helper()
	w := s.do(stdhttp.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(s.t, stdhttp.StatusOK, w.Code, w.Body.String())

	var resp auth.AuthResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func completeProfile() gin.H {
	return gin.H{
		"description":        "Likes long walks",
		"parish":             "Kingston",
		"biography":          "Born and raised on the island.",
		"sex":                "female",
		"race":               "black",
		"birth_year":         1995,
		"height":             170.0,
		"fav_cuisine":        "jamaican",
		"fav_colour":         "green",
		"fav_school_subject": "maths",
		"political":          false,
		"religious":          true,
		"family_oriented":    true,
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(stdhttp.MethodGet, "/health", "", nil)
	assert.Equal(t, stdhttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "v0.0.0-test")

	w = s.do(stdhttp.MethodHead, "/health", "", nil)
	assert.Equal(t, stdhttp.StatusOK, w.Code)
}

func TestRouterFlow(t *testing.T) {
	s := newTestServer(t)

	aliceID := s.register("alice")
	bobID := s.register("bob")

	alice := s.login("alice")
	assert.Equal(t, aliceID, alice.UserID)
	assert.False(t, alice.HasProfile)

	// Gated before the profile is complete
	w := s.do(stdhttp.MethodGet, "/api/users", alice.AccessToken, nil)
	require.Equal(t, stdhttp.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN_INCOMPLETE_PROFILE", errorCode(t, w))

	w = s.do(stdhttp.MethodPost, "/api/profiles", alice.AccessToken, completeProfile())
	require.Equal(t, stdhttp.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"is_complete":true`)

	w = s.do(stdhttp.MethodGet, "/api/users", alice.AccessToken, nil)
	require.Equal(t, stdhttp.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	favPath := fmt.Sprintf("/api/users/%d/favourite", bobID)
	w = s.do(stdhttp.MethodPost, favPath, alice.AccessToken, nil)
	require.Equal(t, stdhttp.StatusCreated, w.Code, w.Body.String())

	w = s.do(stdhttp.MethodPost, favPath, alice.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusConflict, w.Code)

	w = s.do(stdhttp.MethodPost, fmt.Sprintf("/api/users/%d/favourite", aliceID), alice.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusForbidden, w.Code)

	w = s.do(stdhttp.MethodGet, "/api/favourites/top/1", alice.AccessToken, nil)
	require.Equal(t, stdhttp.StatusOK, w.Code)
	var top []struct {
		ID            int `json:"id"`
		FavoriteCount int `json:"favorite_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, bobID, top[0].ID)
	assert.Equal(t, 1, top[0].FavoriteCount)

	w = s.do(stdhttp.MethodGet, "/api/favourites/top/0", alice.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)

	w = s.do(stdhttp.MethodPost, "/api/reports", alice.AccessToken, gin.H{"reported_user_id": bobID, "reason": "  spam  "})
	require.Equal(t, stdhttp.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"reason":"spam"`)

	w = s.do(stdhttp.MethodGet, "/api/reports?sort_by=reason&order=asc", alice.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusOK, w.Code)

	w = s.do(stdhttp.MethodGet, "/api/reports?sort_by=bogus", alice.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_SORT_FIELD", errorCode(t, w))

	w = s.do(stdhttp.MethodDelete, "/api/auth/me", alice.AccessToken, nil)
	require.Equal(t, stdhttp.StatusOK, w.Code)

	w = s.do(stdhttp.MethodGet, "/api/auth/me", alice.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusNotFound, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	s.register("carol")
	carol := s.login("carol")

	w := s.do(stdhttp.MethodGet, "/api/auth/me", carol.AccessToken, nil)
	require.Equal(t, stdhttp.StatusOK, w.Code)

	w = s.do(stdhttp.MethodPost, "/api/auth/logout", carol.AccessToken, nil)
	require.Equal(t, stdhttp.StatusOK, w.Code)

	w = s.do(stdhttp.MethodGet, "/api/auth/me", carol.AccessToken, nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{method: stdhttp.MethodGet, path: "/api/users"},
		{method: stdhttp.MethodPost, path: "/api/profiles"},
		{method: stdhttp.MethodGet, path: "/api/favourites"},
		{method: stdhttp.MethodGet, path: "/api/search"},
		{method: stdhttp.MethodGet, path: "/api/reports"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := s.do(tt.method, tt.path, "", nil)
			assert.Equal(t, stdhttp.StatusUnauthorized, w.Code)
		})
	}
}

func TestPhotoUploadRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t)
	s.register("erin")
	erin := s.login("erin")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, maxUploadBytes+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/auth/me/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+erin.AccessToken)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	assert.Equal(t, "PHOTO_TOO_LARGE", errorCode(t, w))
}
