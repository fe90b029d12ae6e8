package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelms/travel-be/internal/auth"
	"github.com/travelms/travel-be/internal/config"
	"github.com/travelms/travel-be/internal/models"
	"github.com/travelms/travel-be/internal/server"
	"github.com/travelms/travel-be/internal/service"
	"github.com/travelms/travel-be/internal/storage/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Name     string `json:"name"`
	} `json:"user"`
	Token string `json:"token"`
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokenManager("handler-test-secret", "travel-backend", time.Hour)
	authService := service.NewAuthService(store, tokens, 4)
	destinationService := service.NewDestinationService(store)

	cfg := config.Config{CORSOrigins: []string{"*"}}
	ts := httptest.NewServer(server.NewRouter(cfg, authService, destinationService))
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerUser(t *testing.T, baseURL, username, email, password, name string) authData {
	t.Helper()
	resp, env := doJSON(t, http.MethodPost, baseURL+"/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestRegister_ReturnsUserAndToken(t *testing.T) {
	ts, _ := newTestServer(t)

	data := registerUser(t, ts.URL, "bob", "bob@x.com", "pw123", "Bob")
	assert.NotZero(t, data.User.ID)
	assert.Equal(t, "bob", data.User.Username)
	assert.Equal(t, "bob@x.com", data.User.Email)
	assert.NotEmpty(t, data.Token)
}

func TestRegister_DuplicateIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	registerUser(t, ts.URL, "bob", "bob@x.com", "pw123", "Bob")

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/register", "", map[string]string{
		"username": "bob",
		"email":    "elsewhere@x.com",
		"password": "pw123",
		"name":     "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Username or email already exists", env.Message)
}

func TestRegister_InvalidJSON(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/register", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginScenario(t *testing.T) {
	ts, _ := newTestServer(t)

	reg := registerUser(t, ts.URL, "bob", "bob@x.com", "pw123", "Bob")

	resp, env := doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": "bob",
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var login authData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	resp, env = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": "bob",
		"password": "wrongpw",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password", env.Message)
}

func TestLogin_UnknownUserMatchesWrongPassword(t *testing.T) {
	ts, _ := newTestServer(t)

	registerUser(t, ts.URL, "alice", "alice@x.com", "pw123", "Alice")

	respWrong, envWrong := doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	respUnknown, envUnknown := doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
		"username": "nonexistent", "password": "anything",
	})

	assert.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	assert.Equal(t, envWrong.Message, envUnknown.Message)
}

func TestProfile_RequiresToken(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbled token", "not-a-jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := doJSON(t, http.MethodGet, ts.URL+"/profile", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}
}

func TestProfile_ExpiredToken(t *testing.T) {
	ts, _ := newTestServer(t)

	reg := registerUser(t, ts.URL, "bob", "bob@x.com", "pw123", "Bob")

	// Same secret as the server, but already past its expiry.
	expired := auth.NewTokenManager("handler-test-secret", "travel-backend", -time.Minute)
	tok, err := expired.Generate(models.User{ID: reg.User.ID, Username: reg.User.Username})
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/profile", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfile_ReturnsAuthenticatedUser(t *testing.T) {
	ts, _ := newTestServer(t)

	reg := registerUser(t, ts.URL, "bob", "bob@x.com", "pw123", "Bob")

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/profile", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, reg.User.ID, data.User.ID)
	assert.Equal(t, "bob", data.User.Username)
}

func TestUpdateProfile(t *testing.T) {
	ts, _ := newTestServer(t)

	alice := registerUser(t, ts.URL, "alice", "alice@x.com", "pw123", "Alice")
	registerUser(t, ts.URL, "bob", "bob@x.com", "pw123", "Bob")

	t.Run("email taken by another user", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPut, ts.URL+"/profile", alice.Token, map[string]string{
			"name": "Alice", "email": "bob@x.com",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Email already exists", env.Message)
	})

	t.Run("success", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPut, ts.URL+"/profile", alice.Token, map[string]string{
			"name": "Alice Updated", "email": "alice@x.com",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data authData
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "Alice Updated", data.User.Name)
	})
}

func TestChangePassword(t *testing.T) {
	ts, _ := newTestServer(t)

	reg := registerUser(t, ts.URL, "bob", "bob@x.com", "oldpw123", "Bob")

	t.Run("wrong current password", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPut, ts.URL+"/password", reg.Token, map[string]string{
			"currentPassword": "nope", "newPassword": "newpw123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Current password is incorrect", env.Message)
	})

	t.Run("success rotates the credential", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPut, ts.URL+"/password", reg.Token, map[string]string{
			"currentPassword": "oldpw123", "newPassword": "newpw123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Password changed successfully", env.Message)

		resp, _ = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
			"username": "bob", "password": "oldpw123",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodPost, ts.URL+"/login", "", map[string]string{
			"username": "bob", "password": "newpw123",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestChangePassword_UserVanished(t *testing.T) {
	ts, store := newTestServer(t)

	reg := registerUser(t, ts.URL, "ghost", "ghost@x.com", "pw123", "Ghost")

	store.DeleteUser(reg.User.ID)

	// The auth middleware itself can no longer resolve the bearer.
	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/password", reg.Token, map[string]string{
		"currentPassword": "pw123", "newPassword": "newpw123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}
