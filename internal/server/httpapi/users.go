package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
	"github.com/dmitrijs2005/blogmirror/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, userName, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	FindID(ctx context.Context, userName, email string) (*models.User, error)
	ResetPassword(ctx context.Context, userName, email string) (string, error)
	ChangePassword(ctx context.Context, userName, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userName, email, password string) (services.DeletionState, error)
}

func (s *Server) register(c echo.Context) error {
	req := &registerRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	user, err := s.svc.Users.Register(c.Request().Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) login(c echo.Context) error {
	req := &loginRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	res, err := s.svc.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: res.AccessToken, TokenType: common.BearerScheme})
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

func (s *Server) findID(c echo.Context) error {
	req := &accountRequest{}
	if err := bindQueryAndBody(c, req); err != nil {
		return err
	}

	user, err := s.svc.Users.FindID(c.Request().Context(), req.UserName, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"username": user.UserName, "email": user.Email})
}

func (s *Server) resetPassword(c echo.Context) error {
	req := &accountRequest{}
	if err := bindQueryAndBody(c, req); err != nil {
		return err
	}

	password, err := s.svc.Users.ResetPassword(c.Request().Context(), req.UserName, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, temporaryPasswordResponse{TemporaryPassword: password})
}

func (s *Server) changePassword(c echo.Context) error {
	req := &changePasswordRequest{}
	if err := bindQueryAndBody(c, req); err != nil {
		return err
	}

	if err := s.svc.Users.ChangePassword(c.Request().Context(), req.UserName, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

func (s *Server) deleteAccount(c echo.Context) error {
	req := &deleteAccountRequest{}
	if err := bindQueryAndBody(c, req); err != nil {
		return err
	}

	if _, err := s.svc.Users.DeleteAccount(c.Request().Context(), req.UserName, req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// bindQueryAndBody reads query parameters, then the JSON or form body, so a
// field may come from either. echo's Bind only looks at the query string for
// GET, DELETE and HEAD.
func bindQueryAndBody(c echo.Context, req any) error {
	b := &echo.DefaultBinder{}
	if err := b.BindQueryParams(c, req); err != nil {
		return err
	}
	return b.BindBody(c, req)
}
