package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

func (r *repository) CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Insert(reservationTableName).
		Columns("room_number", "user_id", "date_begin", "date_end", "full_price", "status").
		Values(rsv.RoomNumber, rsv.UserID, rsv.DateBegin, rsv.DateEnd, rsv.FullPrice, rsv.Status).
		Suffix("returning " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	res, err := collectOne[model.Reservation](ctx, r.db, q, args)
	if err != nil {
		r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args), zap.Error(err))
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *repository) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return collectOne[model.Reservation](ctx, r.db, q, args)
}

func (r *repository) ListUserReservations(ctx context.Context, userID int64) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date_begin desc", "date_end desc", "id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Reservation](ctx, r.db, q, args)
}

func (r *repository) UpdateReservationStatus(ctx context.Context, id int64, status model.Status) (model.Reservation, error) {
	q, args, err := qb.Update(reservationTableName).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return collectOne[model.Reservation](ctx, r.db, q, args)
}

func (r *repository) FindOverlapping(ctx context.Context, oq model.OverlapQuery) ([]model.Reservation, error) {
	if err := oq.Validate(); err != nil {
		return nil, err
	}
	q, args, err := overlappingQuery(oq).ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("FindOverlapping", zap.String("query", q), zap.Any("args", args))
	return collectAll[model.Reservation](ctx, r.db, q, args)
}

func (r *repository) CompleteFinished(ctx context.Context, today time.Time) ([]model.Reservation, error) {
	q, args, err := qb.Update(reservationTableName).
		Set("status", model.StatusCompleted).
		Where(sq.Eq{"status": model.StatusOrdered}).
		Where(sq.LtOrEq{"date_end": today}).
		Suffix("returning " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.Reservation](ctx, r.db, q, args)
}

func overlappingQuery(oq model.OverlapQuery) sq.SelectBuilder {
	q := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(overlapCond(oq)).
		Where(sq.Eq{"status": oq.Status})
	if oq.RoomNumber != nil {
		q = q.Where(sq.Eq{"room_number": *oq.RoomNumber})
	}
	if oq.ExcludeID != 0 {
		q = q.Where(sq.NotEq{"id": oq.ExcludeID})
	}
	return q
}

// overlapCond renders model.OverlapQuery.Match as SQL over [date_begin, date_end).
func overlapCond(oq model.OverlapQuery) sq.Sqlizer {
	switch {
	case oq.Inverted():
		return sq.And{
			sq.Lt{"date_begin": *oq.Begin},
			sq.Gt{"date_end": *oq.End},
		}
	case oq.Begin != nil && oq.End != nil:
		return sq.And{
			sq.Lt{"date_begin": *oq.End},
			sq.Gt{"date_end": *oq.Begin},
		}
	case oq.Begin != nil:
		return sq.Or{
			sq.GtOrEq{"date_begin": *oq.Begin},
			sq.Gt{"date_end": *oq.Begin},
		}
	default:
		return sq.Or{
			sq.Lt{"date_begin": *oq.End},
			sq.LtOrEq{"date_end": *oq.End},
		}
	}
}
