package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterFrontUserInput) (*domain.FrontUser, string, error)
	frontLoginFn  func(ctx context.Context, email, password string) (*domain.FrontUser, string, error)
	adminLoginFn  func(ctx context.Context, username, password string) (*domain.AdminUser, string, error)
	createAdminFn func(ctx context.Context, creator domain.AdminPrincipal, in ports.CreateAdminInput) (*domain.AdminUser, error)
}

func (s *stubAuthService) RegisterFrontUser(ctx context.Context, in ports.RegisterFrontUserInput) (*domain.FrontUser, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) LoginFrontUser(ctx context.Context, email, password string) (*domain.FrontUser, string, error) {
	return s.frontLoginFn(ctx, email, password)
}

func (s *stubAuthService) LoginAdmin(ctx context.Context, username, password string) (*domain.AdminUser, string, error) {
	return s.adminLoginFn(ctx, username, password)
}

func (s *stubAuthService) CreateAdmin(ctx context.Context, creator domain.AdminPrincipal, in ports.CreateAdminInput) (*domain.AdminUser, error) {
	return s.createAdminFn(ctx, creator, in)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterFrontUserInput) (*domain.FrontUser, string, error) {
			if in.Name != "alice" || in.Email != "a@example.com" || in.Phone != "555" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.FrontUser{ID: 1, Name: in.Name, Email: in.Email, PasswordHash: "secret-hash", Active: true}, "tok", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/front/register",
		`{"name":"alice","email":"a@example.com","password":"pw","phone":"555"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Data.Token != "tok" || resp.Data.User["email"] != "a@example.com" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
	if _, leaked := resp.Data.User["password_hash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_Register_ValidatesBeforeService(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterFrontUserInput) (*domain.FrontUser, string, error) {
			t.Fatalf("service must not be called with missing fields")
			return nil, "", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/front/register", `{"name":"  ","email":"a@example.com"}`)
	err := handler.Register(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msg := ve.Error()
	if !strings.Contains(msg, "name is required") || !strings.Contains(msg, "password is required") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterFrontUserInput) (*domain.FrontUser, string, error) {
			return nil, "", domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/front/register", `{"name":"a","email":"a@example.com","password":"pw"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodPost, "/api/front/register", `{"name":`)
	var ve *domain.ValidationError
	if err := handler.Register(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthHandler_FrontLogin_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		frontLoginFn: func(context.Context, string, string) (*domain.FrontUser, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/front/login", `{"email":"a@example.com","password":"nope"}`)
	if err := handler.FrontLogin(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_AdminLogin_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		adminLoginFn: func(_ context.Context, username, password string) (*domain.AdminUser, string, error) {
			if username != "root" || password != "s3cret" {
				t.Fatalf("unexpected credentials %s/%s", username, password)
			}
			return &domain.AdminUser{ID: 1, Username: "root", Role: domain.RoleSuperAdmin}, "admintok", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/admin/login", `{"username":"root","password":"s3cret"}`)
	if err := handler.AdminLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"admin":{`) || !strings.Contains(rec.Body.String(), `"token":"admintok"`) {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestAuthHandler_CreateAdmin(t *testing.T) {
	e := newTestEcho()
	creator := domain.AdminPrincipal{AdminID: 1, Role: domain.RoleSuperAdmin}
	stub := &stubAuthService{
		createAdminFn: func(_ context.Context, got domain.AdminPrincipal, in ports.CreateAdminInput) (*domain.AdminUser, error) {
			if got != creator {
				t.Fatalf("unexpected creator %#v", got)
			}
			if in.Role != domain.RoleAdmin {
				t.Fatalf("expected default role admin, got %q", in.Role)
			}
			return &domain.AdminUser{ID: 2, Username: in.Username, Role: in.Role}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/admin/create-admin", `{"username":"ann","email":"ann@x.com","password":"pw"}`)
	c.Set("principal", domain.Principal(creator))
	if err := handler.CreateAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = jsonContext(e, http.MethodPost, "/api/admin/create-admin", `{"username":"ann","email":"ann@x.com","password":"pw","role":"owner"}`)
	c.Set("principal", domain.Principal(creator))
	var ve *domain.ValidationError
	if err := handler.CreateAdmin(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown role, got %v", err)
	}
}

func TestAuthHandler_CreateAdmin_WithoutPrincipal(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodPost, "/api/admin/create-admin", `{}`)
	if err := handler.CreateAdmin(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
