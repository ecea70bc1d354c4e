package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisched/appointment-api/internal/config"
	"github.com/medisched/appointment-api/internal/model"
	authService "github.com/medisched/appointment-api/internal/service/auth"
	"github.com/medisched/appointment-api/pkg/auth"
)

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (stubUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, nil
}
func (stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (stubUserRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return nil, nil
}

func newTestAuth(t *testing.T) (*AuthMiddleware, auth.JWTService) {
	t.Helper()
	jwtSvc := auth.NewJWTService(config.JWTConfig{Secret: "test-secret", ExpiryMinutes: 30})
	return NewAuthMiddleware(authService.NewService(stubUserRepo{}, jwtSvc)), jwtSvc
}

func tokenFor(t *testing.T, jwtSvc auth.JWTService, role model.Role) (string, uuid.UUID) {
	t.Helper()
	user := &model.User{Email: "someone@example.com", Role: role}
	user.ID = uuid.New()
	token, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)
	return token, user.ID
}

func performRequest(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, jwtSvc := newTestAuth(t)
	token, userID := tokenFor(t, jwtSvc, model.RolePatient)

	engine := gin.New()
	engine.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		assert.Equal(t, userID, id)

		role, ok := UserRole(c)
		require.True(t, ok)
		assert.Equal(t, model.RolePatient, role)

		c.Status(http.StatusOK)
	})

	w := performRequest(engine, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticateRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, jwtSvc := newTestAuth(t)
	token, _ := tokenFor(t, jwtSvc, model.RolePatient)

	engine := gin.New()
	engine.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"no token", "Bearer"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(engine, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, jwtSvc := newTestAuth(t)
	doctorToken, _ := tokenFor(t, jwtSvc, model.RoleDoctor)
	patientToken, _ := tokenFor(t, jwtSvc, model.RolePatient)

	engine := gin.New()
	engine.GET("/protected", m.Authenticate(), m.RequireRole(model.RoleDoctor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(engine, "Bearer "+doctorToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(engine, "Bearer "+patientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, _ := newTestAuth(t)

	engine := gin.New()
	engine.GET("/protected", m.RequireRole(model.RoleDoctor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
