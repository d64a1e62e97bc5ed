package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type CommentService interface {
	Create(ctx context.Context, userID, postID int64, content string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	Update(ctx context.Context, userID, id int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, userID, id int64) error
}

func (s *Server) createComment(c echo.Context) error {
	req := &commentRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	comment, err := s.svc.Comments.Create(c.Request().Context(), currentUser(c).ID, req.PostID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (s *Server) listComments(c echo.Context) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return err
	}

	list, err := s.svc.Comments.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	out := make([]commentResponse, 0, len(list))
	for i := range list {
		out = append(out, toCommentResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	req := &commentUpdateRequest{}
	if err := c.Bind(req); err != nil {
		return err
	}

	comment, err := s.svc.Comments.Update(c.Request().Context(), currentUser(c).ID, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

func (s *Server) deleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.svc.Comments.Delete(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
