package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type PostService interface {
	Create(ctx context.Context, ownerID int64, title, content string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, ownerID, id int64, title, content string) (*models.Post, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (s *Server) createPost(c echo.Context) error {
	req := &postRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	post, err := s.svc.Posts.Create(c.Request().Context(), currentUser(c).ID, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

func (s *Server) listPosts(c echo.Context) error {
	list, err := s.svc.Posts.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]postResponse, 0, len(list))
	for i := range list {
		out = append(out, toPostResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := s.svc.Posts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

func (s *Server) updatePost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	req := &postRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	post, err := s.svc.Posts.Update(c.Request().Context(), currentUser(c).ID, id, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

func (s *Server) deletePost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.svc.Posts.Delete(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
