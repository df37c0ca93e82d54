package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/middleware"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

func init() { gin.SetMode(gin.TestMode) }

func servir(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cuerpo(t *testing.T, w *httptest.ResponseRecorder) apierror.APIError {
	t.Helper()
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestModoDemo_BloqueaEscrituras(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ModoDemo(true))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.PATCH("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/x", nil).Code)

	for _, m := range []string{http.MethodPost, http.MethodPatch} {
		w := servir(r, m, "/x", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		body := cuerpo(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, middleware.MensajeModoDemo, body.Detail)
	}
}

func TestModoDemo_Inactivo(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ModoDemo(false))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, servir(r, http.MethodPost, "/x", nil).Code)
}

func token(t *testing.T, secret, userID, rol string, exp time.Time) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID: userID,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTAuth_InstalaSesion(t *testing.T) {
	const secret = "s3cret"
	id := uuid.New()
	var vista model.Sesion

	r := gin.New()
	r.Use(middleware.JWTAuth(secret))
	r.GET("/yo", func(c *gin.Context) {
		vista = middleware.GetSesion(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin", middleware.RequireRole(model.RolAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	ok := token(t, secret, id.String(), model.RolUsuario, time.Now().Add(time.Hour))
	w := servir(r, http.MethodGet, "/yo", map[string]string{"Authorization": "Bearer " + ok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, vista.UsuarioID)
	assert.False(t, vista.EsAdmin())

	w = servir(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + ok})
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, http.StatusUnauthorized, servir(r, http.MethodGet, "/yo", nil).Code)

	vencido := token(t, secret, id.String(), model.RolAdmin, time.Now().Add(-time.Minute))
	w = servir(r, http.MethodGet, "/yo", map[string]string{"Authorization": "Bearer " + vencido})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ajeno := token(t, "otro", id.String(), model.RolAdmin, time.Now().Add(time.Hour))
	w = servir(r, http.MethodGet, "/yo", map[string]string{"Authorization": "Bearer " + ajeno})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorHandler_OcultaErroresInternos(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.GET("/negocio", func(c *gin.Context) { _ = c.Error(apierror.Negocio("Ya está anulada")) })
	r.GET("/interno", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	w := servir(r, http.MethodGet, "/negocio", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Ya está anulada", cuerpo(t, w).Detail)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = servir(r, http.MethodGet, "/interno", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apierror.MensajeInterno, cuerpo(t, w).Detail)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestRequestID_RespetaEncabezado(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	w := servir(r, http.MethodGet, "/x", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimiter(2, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/x", nil).Code)
	w := servir(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://caja.local"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := servir(r, http.MethodOptions, "/x", map[string]string{"Origin": "https://caja.local"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://caja.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = servir(r, http.MethodGet, "/x", map[string]string{"Origin": "https://otro"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	abierto := gin.New()
	abierto.Use(middleware.CORS(nil))
	abierto.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = servir(abierto, http.MethodGet, "/x", map[string]string{"Origin": "https://cualquiera"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
