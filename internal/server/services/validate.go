package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/blogmirror/internal/common"
)

const (
	maxUserNameLen    = 50
	maxPostTitleLen   = 200
	maxCommentRuneLen = 10000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrValidationFailed, msg)
}

func validateUserName(userName string) error {
	if strings.TrimSpace(userName) == "" {
		return invalid("username is required")
	}
	if utf8.RuneCountInString(userName) > maxUserNameLen {
		return invalid(fmt.Sprintf("username must be at most %d characters", maxUserNameLen))
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return invalid("email is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return invalid("password is required")
	}
	return nil
}

func validateRegistration(userName, email, password string) error {
	if err := validateUserName(userName); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	return validatePassword(password)
}

func validatePost(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxPostTitleLen {
		return invalid(fmt.Sprintf("title must be at most %d characters", maxPostTitleLen))
	}
	if strings.TrimSpace(content) == "" {
		return invalid("content is required")
	}
	return nil
}

func validateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalid("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentRuneLen {
		return invalid(fmt.Sprintf("content must be at most %d characters", maxCommentRuneLen))
	}
	return nil
}
