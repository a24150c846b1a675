package repository

import (
	"context"
	"strings"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	sq "github.com/Masterminds/squirrel"
)

func (r *repository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("username", "email", "password_hash", "is_admin").
		Values(u.Username, u.Email, u.PasswordHash, u.IsAdmin).
		Suffix("returning " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, q, args)
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	q, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, q, args)
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	q, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, q, args)
}

func (r *repository) CountUsers(ctx context.Context) (int, error) {
	q, args, err := qb.Select("count(*)").From(usersTableName).ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRow(ctx, q, args...).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}
