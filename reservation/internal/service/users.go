package service

import (
	"context"

	"github.com/Astemirdum/room-reservation/pkg/auth"
	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, req model.CreateUser) (model.User, error) {
	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	})
}

// GetUser returns the account behind an access token.
func (s *Service) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// ObtainToken exchanges credentials for an access and refresh token pair.
func (s *Service) ObtainToken(ctx context.Context, username, password string) (auth.TokenPair, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return auth.TokenPair{}, errs.ErrInvalidCredentials
		}
		return auth.TokenPair{}, err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return auth.TokenPair{}, errs.ErrInvalidCredentials
	}
	return s.tokens.Issue(auth.Profile{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	})
}

func (s *Service) RefreshToken(_ context.Context, refresh string) (string, error) {
	access, err := s.tokens.Access(refresh)
	if err != nil {
		return "", errs.ErrInvalidCredentials
	}
	return access, nil
}

// InitAdmin creates the superuser when the user table is empty and reports whether it did.
func (s *Service) InitAdmin(ctx context.Context, username, email, password string) (bool, error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.log.Info("admin accounts can only be initialized if no accounts exist")
		return false, nil
	}
	if _, err := s.CreateUser(ctx, model.CreateUser{
		Username: username,
		Email:    email,
		Password: password,
		IsAdmin:  true,
	}); err != nil {
		return false, err
	}
	s.log.Info("admin created", zap.String("username", username))
	return true, nil
}
