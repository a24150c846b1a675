package auth

import (
	"context"

	"github.com/pkg/errors"
)

type contextKey int

const profileKey contextKey = iota + 1

var ErrNoProfile = errors.New("no authenticated user")

// Profile is the identity the request layer attaches to every authenticated request.
type Profile struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func SetAuthContext(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

func GetProfile(ctx context.Context) (Profile, error) {
	p, ok := ctx.Value(profileKey).(Profile)
	if !ok || p.UserID == 0 {
		return Profile{}, ErrNoProfile
	}
	return p, nil
}

func GetUserID(ctx context.Context) (int64, error) {
	p, err := GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	return p.UserID, nil
}

func IsAdmin(ctx context.Context) bool {
	p, err := GetProfile(ctx)
	return err == nil && p.IsAdmin
}
