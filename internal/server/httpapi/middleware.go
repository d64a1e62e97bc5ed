package httpapi

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

const userContextKey = "user"

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		s.logger.Info(req.Context(), "request",
			"method", req.Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration", time.Since(start).String(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireUser authenticates the bearer token and stores the user in the
// echo context.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
		if !ok {
			return common.ErrInvalidCredentials
		}

		user, err := s.svc.Users.Authenticate(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userContextKey).(*models.User)
	return u
}
