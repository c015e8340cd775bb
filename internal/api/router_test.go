package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/auth-service-be/internal/auth"
	"github.com/isdelr/auth-service-be/internal/models"
	"github.com/isdelr/auth-service-be/internal/security"
	"github.com/isdelr/auth-service-be/internal/services"
	"github.com/isdelr/auth-service-be/internal/store"
)

// memStore is an in-memory UserStore backing the end-to-end tests.
type memStore struct {
	mu      sync.Mutex
	users   map[string]models.User
	nextID  int64
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]models.User)}
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[username]; exists {
		return 0, store.ErrDuplicateUsername
	}
	m.nextID++
	m.users[username] = models.User{ID: m.nextID, Username: username, PasswordHash: passwordHash, Email: email}
	return m.nextID, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[username]
	if !exists {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) Ping(_ context.Context) error {
	return m.pingErr
}

func newTestRouter(st store.UserStore) http.Handler {
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	issuer := auth.NewIssuer([]byte("e2e-secret"))
	return NewRouter(services.NewAuthService(st, hasher, issuer))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, header http.Header) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestEndToEnd_RegisterLoginVerify(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, body := doJSON(t, router, http.MethodPost, "/register",
		map[string]string{"username": "bob", "password": "secret"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", body["message"])
	userID, ok := body["userId"].(float64)
	require.True(t, ok, "userId must be a number")

	rec, body = doJSON(t, router, http.MethodPost, "/login",
		map[string]string{"username": "bob", "password": "secret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, userID, body["userId"])
	assert.Equal(t, "bob", body["username"])

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	rec, body = doJSON(t, router, http.MethodGet, "/verify", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, userID, body["userId"])
	assert.Equal(t, "bob", body["username"])
}

func TestRegister_MissingFields(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, body := doJSON(t, router, http.MethodPost, "/register",
		map[string]string{"username": "bob"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username and password required", body["error"])
}

func TestRegister_DuplicateUsername(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, _ := doJSON(t, router, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/register",
		map[string]string{"username": "alice", "password": "pw2"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", body["error"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, _ := doJSON(t, router, http.MethodPost, "/register",
		map[string]string{"username": "bob", "password": "secret"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	recWrong, bodyWrong := doJSON(t, router, http.MethodPost, "/login",
		map[string]string{"username": "bob", "password": "nope"}, nil)
	recGhost, bodyGhost := doJSON(t, router, http.MethodPost, "/login",
		map[string]string{"username": "ghost", "password": "secret"}, nil)

	// Wrong password and unknown username must be indistinguishable.
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recGhost.Code)
	assert.Equal(t, bodyWrong, bodyGhost)
}

func TestVerify_MissingOrWrongScheme(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, body := doJSON(t, router, http.MethodGet, "/verify", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", body["error"])

	header := http.Header{}
	header.Set("Authorization", "Basic xyz")
	rec, body = doJSON(t, router, http.MethodGet, "/verify", nil, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", body["error"])
}

func TestVerify_TamperedToken(t *testing.T) {
	router := newTestRouter(newMemStore())

	header := http.Header{}
	header.Set("Authorization", "Bearer not.a.jwt")
	rec, body := doJSON(t, router, http.MethodGet, "/verify", nil, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestHealth(t *testing.T) {
	st := newMemStore()
	router := newTestRouter(st)

	rec, body := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "auth-service", body["service"])

	st.pingErr = errors.New("connection refused")
	rec, body = doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "auth-service", body["service"])
}

func TestRegister_MalformedBody(t *testing.T) {
	router := newTestRouter(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
