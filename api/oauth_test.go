package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"seisan/config"
	"seisan/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider token と userinfo を返す外部IDプロバイダの代役
func fakeProvider(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sub":   "provider-sub-123",
			"name":  "鈴木一郎",
			"email": "suzuki@example.com",
		})
	})
	return httptest.NewServer(mux)
}

func oauthConfig(provider *httptest.Server) *config.Config {
	cfg := testConfig()
	cfg.OAuth = config.OAuthConfig{
		Enabled:      true,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      provider.URL + "/auth",
		TokenURL:     provider.URL + "/token",
		UserInfoURL:  provider.URL + "/userinfo",
	}
	return cfg
}

func TestOAuthHandler_GetOAuthConfig(t *testing.T) {
	provider := fakeProvider(t)
	defer provider.Close()

	cfg := oauthConfig(provider)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auth/oauth/config", NewOAuthHandler(cfg).GetOAuthConfig)

	req := httptest.NewRequest("GET", "/auth/oauth/config?state=xyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "client-id", data["client_id"])
	authURL := data["auth_url"].(string)
	assert.Contains(t, authURL, provider.URL+"/auth")
	assert.Contains(t, authURL, "state=xyz")
}

func TestOAuthHandler_GetOAuthConfig_Disabled(t *testing.T) {
	cfg := testConfig()

	router := gin.New()
	router.GET("/auth/oauth/config", NewOAuthHandler(cfg).GetOAuthConfig)

	req := httptest.NewRequest("GET", "/auth/oauth/config", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestOAuthHandler_Callback_FirstLoginCreatesUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := fakeProvider(t)
	defer provider.Close()

	cfg := oauthConfig(provider)
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	defer func() { config.GlobalConfig = nil }()

	// sub での検索は未登録を返し、自動作成される
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("provider-sub-123").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.GET("/auth/oauth/callback", NewOAuthHandler(cfg).OAuthCallback)

	req := httptest.NewRequest("GET", "/auth/oauth/callback?code=auth-code", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	userInfo := data["user_info"].(map[string]interface{})
	assert.Equal(t, "suzuki@example.com", userInfo["email"])
	assert.Equal(t, "user", userInfo["role"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthHandler_Callback_ExistingUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := fakeProvider(t)
	defer provider.Close()

	cfg := oauthConfig(provider)
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	defer func() { config.GlobalConfig = nil }()

	// 登録済みユーザーはそのままログインする
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("provider-sub-123").
		WillReturnRows(userRows(2, "suzuki@example.com", "", "鈴木一郎", "user"))

	router := gin.New()
	router.GET("/auth/oauth/callback", NewOAuthHandler(cfg).OAuthCallback)

	req := httptest.NewRequest("GET", "/auth/oauth/callback?code=auth-code", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthHandler_Callback_LookupError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := fakeProvider(t)
	defer provider.Close()

	cfg := oauthConfig(provider)
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	defer func() { config.GlobalConfig = nil }()

	// 一時的なDB障害は「未登録」ではないので、独自作成に進んではいけない
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("provider-sub-123").
		WillReturnError(errors.New("connection refused"))

	router := gin.New()
	router.GET("/auth/oauth/callback", NewOAuthHandler(cfg).OAuthCallback)

	req := httptest.NewRequest("GET", "/auth/oauth/callback?code=auth-code", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 500, w.Code)
	// INSERT が発行されていないこと
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthHandler_Callback_MissingCode(t *testing.T) {
	provider := fakeProvider(t)
	defer provider.Close()

	cfg := oauthConfig(provider)

	router := gin.New()
	router.GET("/auth/oauth/callback", NewOAuthHandler(cfg).OAuthCallback)

	req := httptest.NewRequest("GET", "/auth/oauth/callback", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
