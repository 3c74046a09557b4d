package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bolso_aberto/internal/config"
	"bolso_aberto/internal/db"
	"bolso_aberto/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// newTestApp builds the full router exactly as cmd/server does, backed by an
// in-memory sqlite database and a miniredis instance.
func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// One connection so every statement sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.MigrateDB(conn))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		AppPort:        "3000",
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	return NewRouter(conn, rdb, cfg), conn
}

// doJSON performs a request against the router, optionally authenticated,
// and returns the recorded response.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON body into dest
func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// registerAndLogin creates an account and returns its bearer token and id
func registerAndLogin(t *testing.T, r *gin.Engine, nome, email, senha string) (string, uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"nome": nome, "email": email, "senha": senha,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"email": email, "senha": senha,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.UsuarioID
}

// loginAsAdmin creates an account, promotes it directly in the database and
// logs in again so the token carries the admin claim
func loginAsAdmin(t *testing.T, r *gin.Engine, conn *gorm.DB, email string) (string, uint) {
	t.Helper()
	_, id := registerAndLogin(t, r, "Admin", email, "s3cret!!")
	require.NoError(t, conn.Model(&domain.Usuario{}).Where("id = ?", id).Update("is_admin", true).Error)

	w := doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"email": email, "senha": "s3cret!!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	decode(t, w, &resp)
	require.True(t, resp.IsAdmin)
	return resp.Token, resp.UsuarioID
}

// newCategoria inserts a category row directly and returns its id
func newCategoria(t *testing.T, conn *gorm.DB, nome string, usuarioID *uint) uint {
	t.Helper()
	cat := domain.Categoria{Nome: nome, UsuarioID: usuarioID}
	require.NoError(t, conn.Create(&cat).Error)
	return cat.ID
}
