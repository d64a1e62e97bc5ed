package httpapi

import (
	"time"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type registerRequest struct {
	UserName string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type accountRequest struct {
	UserName string `json:"username" form:"username" query:"username"`
	Email    string `json:"email" form:"email" query:"email"`
}

type changePasswordRequest struct {
	UserName    string `json:"username" form:"username" query:"username"`
	OldPassword string `json:"old_password" form:"old_password" query:"old_password"`
	NewPassword string `json:"new_password" form:"new_password" query:"new_password"`
}

type deleteAccountRequest struct {
	UserName string `json:"username" form:"username" query:"username"`
	Email    string `json:"email" form:"email" query:"email"`
	Password string `json:"password" form:"password" query:"password"`
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type commentRequest struct {
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}

type commentUpdateRequest struct {
	Content string `json:"content"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type temporaryPasswordResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type commentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	Content    string    `json:"content"`
	CreateDate time.Time `json:"create_date"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, UserName: u.UserName, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{ID: p.ID, OwnerID: p.OwnerID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
}

func toCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{ID: c.ID, PostID: c.PostID, UserID: c.UserID, Content: c.Content, CreateDate: c.CreatedAt}
}
