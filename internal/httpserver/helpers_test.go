package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authmw "github.com/sweetlab/sweet_shop/internal/middleware/auth"
	"github.com/sweetlab/sweet_shop/internal/models"
	"github.com/sweetlab/sweet_shop/internal/repo"
	"github.com/sweetlab/sweet_shop/internal/service"
	"github.com/sweetlab/sweet_shop/internal/tokens"
)

type testServer struct {
	e     *echo.Echo
	repo  *repo.GormRepo
	auth  *service.AuthService
	sweet *service.SweetService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	tk := &tokens.Service{Secret: []byte("test-jwt-secret")}
	authSvc := &service.AuthService{Repo: r, Tokens: tk}
	sweetSvc := &service.SweetService{Repo: r}

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(false)
	Register(e, &Deps{
		AuthHandler:  &AuthHTTP{Svc: authSvc},
		SweetHandler: &SweetHTTP{Svc: sweetSvc},
		Auth:         &authmw.Middleware{Tokens: tk, Repo: r},
	})

	return &testServer{e: e, repo: r, auth: authSvc, sweet: sweetSvc}
}

// do runs a request through the full router, error handler included, and
// decodes the JSON envelope.
func (s *testServer) do(t *testing.T, method, target, token, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec.Code, envelope
}

func (s *testServer) registerUser(t *testing.T, name, email, password string) string {
	t.Helper()

	res, err := s.auth.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return res.Token
}

func (s *testServer) registerAdmin(t *testing.T, email string) string {
	t.Helper()

	res, err := s.auth.Register(context.Background(), "Shop Admin", email, "secret123")
	require.NoError(t, err)
	require.NoError(t, s.repo.DB.Model(&models.User{}).
		Where("id = ?", res.User.ID).
		Update("role", models.RoleAdmin).Error)
	return res.Token
}

func (s *testServer) addSweet(t *testing.T, name, category string, price float64, quantity int) *models.Sweet {
	t.Helper()

	sweet := &models.Sweet{Name: name, Category: category, Price: price, Quantity: quantity}
	require.NoError(t, s.repo.DB.Create(sweet).Error)
	return sweet
}
