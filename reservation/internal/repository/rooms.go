package repository

import (
	"context"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

func (r *repository) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	q, args, err := qb.Insert(roomTableName).
		Columns(roomColumns...).
		Values(room.Number, room.Price, room.Capacity).
		Suffix("returning number, price, capacity").
		ToSql()
	if err != nil {
		return model.Room{}, err
	}
	return collectOne[model.Room](ctx, r.db, q, args)
}

func (r *repository) GetRoom(ctx context.Context, number int) (model.Room, error) {
	q, args, err := qb.Select(roomColumns...).
		From(roomTableName).
		Where(sq.Eq{"number": number}).
		ToSql()
	if err != nil {
		return model.Room{}, err
	}
	return collectOne[model.Room](ctx, r.db, q, args)
}

// GetRoomForUpdate locks the room row until the surrounding transaction ends,
// serializing concurrent bookings of the same room.
func (r *repository) GetRoomForUpdate(ctx context.Context, number int) (model.Room, error) {
	q, args, err := qb.Select(roomColumns...).
		From(roomTableName).
		Where(sq.Eq{"number": number}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Room{}, err
	}
	return collectOne[model.Room](ctx, r.db, q, args)
}

func (r *repository) ListRooms(ctx context.Context, filter model.RoomFilter) ([]model.Room, error) {
	q, args, err := listRoomsQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListRooms", zap.String("query", q), zap.Any("args", args))
	return collectAll[model.Room](ctx, r.db, q, args)
}

func listRoomsQuery(filter model.RoomFilter) sq.SelectBuilder {
	q := qb.Select(roomColumns...).From(roomTableName)
	q = whereNumber(q, "price", filter.Price)
	q = whereNumber(q, "capacity", filter.Capacity)

	for _, o := range filter.Ordering {
		if o.Desc {
			q = q.OrderBy(o.Field + " desc")
		} else {
			q = q.OrderBy(o.Field + " asc")
		}
	}
	return q.OrderBy("number asc")
}

func whereNumber(q sq.SelectBuilder, column string, f model.NumberFilter) sq.SelectBuilder {
	if f.Exact != nil {
		q = q.Where(sq.Eq{column: *f.Exact})
	}
	if f.Gt != nil {
		q = q.Where(sq.Gt{column: *f.Gt})
	}
	if f.Gte != nil {
		q = q.Where(sq.GtOrEq{column: *f.Gte})
	}
	if f.Lt != nil {
		q = q.Where(sq.Lt{column: *f.Lt})
	}
	if f.Lte != nil {
		q = q.Where(sq.LtOrEq{column: *f.Lte})
	}
	return q
}
