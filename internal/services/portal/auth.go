package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/xelth-com/eckmobile/internal/models"
)

// LoginResult is returned by Login on success
type LoginResult struct {
	OK       bool   `json:"ok"`
	SID      string `json:"sid"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Login checks credentials with the framework's session login
func (s *Service) Login(ctx context.Context, usr, pwd string) (*LoginResult, error) {
	usr = strings.TrimSpace(usr)
	if usr == "" || pwd == "" {
		return nil, authFailure("Email and password are required", nil)
	}

	session, err := s.auth.Login(ctx, usr, pwd)
	if errors.Is(err, models.ErrInvalidCredentials) {
		s.log.WithField("usr", usr).Info("login rejected")
		return nil, authFailure("Invalid login credentials", err)
	}
	if err != nil {
		return nil, unexpected(err)
	}

	return &LoginResult{
		OK:       true,
		SID:      session.SID,
		Email:    session.Email,
		FullName: session.FullName,
	}, nil
}
