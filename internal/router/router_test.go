package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"techdesk_backend/internal/database"
	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newBusyEngine builds the API over a one-connection pool whose only
// connection is already taken, so any request that leases one times out.
func newBusyEngine(t *testing.T) (*gin.Engine, *utils.TokenManager) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pool := database.NewPoolFromDB(db, 1, 1)
	busy, err := db.Conn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { busy.Close() })

	tokens, err := utils.NewTokenManager("router-test-secret", 0)
	require.NoError(t, err)
	textMirror := mirror.New(t.TempDir())

	engine := gin.New()
	Setup(engine, Deps{
		Pool:          pool,
		Mirror:        textMirror,
		MirrorService: services.NewMirrorService(repositories.NewSchemaRepository(), pool, textMirror),
		Tokens:        tokens,
	})
	return engine, tokens
}

func serve(t *testing.T, engine *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T, tokens *utils.TokenManager) string {
	t.Helper()
	token, _, err := tokens.GenerateAccessToken(1, "admin")
	require.NoError(t, err)
	return token
}

func TestUnauthenticatedRequestIsRejectedBeforeLeasing(t *testing.T) {
	engine, _ := newBusyEngine(t)

	w := serve(t, engine, http.MethodGet, "/api/clientes", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatedRequestLeasesConnection(t *testing.T) {
	engine, tokens := newBusyEngine(t)

	w := serve(t, engine, http.MethodGet, "/api/clientes/abc", adminToken(t, tokens), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Database unavailable.")
}

func TestLoginLeasesConnection(t *testing.T) {
	engine, _ := newBusyEngine(t)

	w := serve(t, engine, http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Database unavailable.")
}

func TestExpirationScanHoldsNoRequestLease(t *testing.T) {
	engine, tokens := newBusyEngine(t)

	w := serve(t, engine, http.MethodGet, "/api/licencias/verificar-vencimientos?dias=-1", adminToken(t, tokens), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
