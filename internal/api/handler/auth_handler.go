package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/api/metrics"
	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type frontLoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type createAdminRequest struct {
	Username    string `json:"username" validate:"notblank"`
	Email       string `json:"email" validate:"notblank,email"`
	Password    string `json:"password" validate:"notblank"`
	Role        string `json:"role" validate:"omitempty,oneof=super_admin admin editor"`
	Permissions string `json:"permissions"`
}

type frontAuthResponse struct {
	User  *domain.FrontUser `json:"user"`
	Token string            `json:"token"`
}

type adminAuthResponse struct {
	Admin *domain.AdminUser `json:"admin"`
	Token string            `json:"token"`
}

// Register creates a storefront account and signs it in.
//
// @Summary      Register a storefront customer
// @Tags         front
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Customer details"
// @Success      200   {object}  SuccessResponse{data=frontAuthResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/front/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.RealmFrontUser), loginResult(err)).Inc()
		return err
	}

	user, token, err := h.authService.RegisterFrontUser(c.Request().Context(), ports.RegisterFrontUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	metrics.LoginsTotal.WithLabelValues(string(domain.RealmFrontUser), loginResult(err)).Inc()
	if err != nil {
		return err
	}

	metrics.SessionsCreatedTotal.WithLabelValues(string(domain.RealmFrontUser)).Inc()
	return ok(c, frontAuthResponse{User: user, Token: token})
}

// FrontLogin authenticates a storefront customer and returns a session token.
//
// @Summary      Storefront login
// @Tags         front
// @Accept       json
// @Produce      json
// @Param        body  body      frontLoginRequest  true  "Login credentials"
// @Success      200   {object}  SuccessResponse{data=frontAuthResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/front/login [post]
func (h *AuthHandler) FrontLogin(c echo.Context) error {
	var req frontLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.RealmFrontUser), loginResult(err)).Inc()
		return err
	}

	user, token, err := h.authService.LoginFrontUser(c.Request().Context(), req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues(string(domain.RealmFrontUser), loginResult(err)).Inc()
	if err != nil {
		return err
	}

	metrics.SessionsCreatedTotal.WithLabelValues(string(domain.RealmFrontUser)).Inc()
	return ok(c, frontAuthResponse{User: user, Token: token})
}

// AdminLogin authenticates a back-office account and returns a session token.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Login credentials"
// @Success      200   {object}  SuccessResponse{data=adminAuthResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.RealmAdminUser), loginResult(err)).Inc()
		return err
	}

	admin, token, err := h.authService.LoginAdmin(c.Request().Context(), req.Username, req.Password)
	metrics.LoginsTotal.WithLabelValues(string(domain.RealmAdminUser), loginResult(err)).Inc()
	if err != nil {
		return err
	}

	metrics.SessionsCreatedTotal.WithLabelValues(string(domain.RealmAdminUser)).Inc()
	return ok(c, adminAuthResponse{Admin: admin, Token: token})
}

// CreateAdmin provisions a back-office account. Only super_admin may call it.
// The role defaults to admin.
//
// @Summary      Create an admin account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAdminRequest  true  "Admin details"
// @Success      200   {object}  SuccessResponse{data=domain.AdminUser}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/admin/create-admin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	creator, err := adminPrincipal(c)
	if err != nil {
		return err
	}

	var req createAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role := domain.AdminRole(req.Role)
	if role == "" {
		role = domain.RoleAdmin
	}

	admin, err := h.authService.CreateAdmin(c.Request().Context(), creator, ports.CreateAdminInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        role,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return ok(c, admin)
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	return c.Validate(req)
}

func loginResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		return "conflict"
	default:
		return "error"
	}
}
