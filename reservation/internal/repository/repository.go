package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
	RoomRepository
	ReservationRepository
	UserRepository
	// InTx runs fn inside a single transaction; nested calls reuse it.
	InTx(ctx context.Context, fn func(repo Repository) error) error
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, room model.Room) (model.Room, error)
	GetRoom(ctx context.Context, number int) (model.Room, error)
	GetRoomForUpdate(ctx context.Context, number int) (model.Room, error)
	ListRooms(ctx context.Context, filter model.RoomFilter) ([]model.Room, error)
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	ListUserReservations(ctx context.Context, userID int64) ([]model.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status model.Status) (model.Reservation, error)
	FindOverlapping(ctx context.Context, q model.OverlapQuery) ([]model.Reservation, error)
	CompleteFinished(ctx context.Context, today time.Time) ([]model.Reservation, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db   querier
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil pool")
	}
	return &repository{
		db:   db,
		pool: db,
		log:  log.Named("repo"),
	}, nil
}

const (
	roomTableName        = `room`
	reservationTableName = `room_reservation`
	usersTableName       = `users`
)

var (
	roomColumns        = []string{"number", "price", "capacity"}
	reservationColumns = []string{"id", "room_number", "user_id", "date_begin", "date_end", "full_price", "status"}
	userColumns        = []string{"id", "username", "email", "password_hash", "is_admin", "created_at"}
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) InTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&repository{db: tx, log: r.log}); err != nil {
		return err
	}
	return errors.Wrap(mapError(tx.Commit(ctx)), "commit")
}

func collectOne[T any](ctx context.Context, db querier, query string, args []any) (T, error) {
	var zero T
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, mapError(err)
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, mapError(err)
	}
	return item, nil
}

func collectAll[T any](ctx context.Context, db querier, query string, args []any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(mapError(err), "pgx.CollectRows")
	}
	return items, nil
}
