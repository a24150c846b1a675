package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/Astemirdum/room-reservation/reservation/internal/repository"
)

// memRepo is an in-memory repository.Repository; InTx serializes whole transactions.
type memRepo struct {
	tx sync.Mutex
	mu sync.Mutex

	rooms        map[int]model.Room
	reservations map[int64]model.Reservation
	users        map[int64]model.User
	seq          int64
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo(rooms ...model.Room) *memRepo {
	r := &memRepo{
		rooms:        make(map[int]model.Room),
		reservations: make(map[int64]model.Reservation),
		users:        make(map[int64]model.User),
	}
	for _, room := range rooms {
		r.rooms[room.Number] = room
	}
	return r
}

func (r *memRepo) InTx(_ context.Context, fn func(repo repository.Repository) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()
	return fn(r)
}

func (r *memRepo) CreateRoom(_ context.Context, room model.Room) (model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.Number]; ok {
		return model.Room{}, errs.NewValidationError(errs.MsgRoomExists, "number")
	}
	r.rooms[room.Number] = room
	return room, nil
}

func (r *memRepo) GetRoom(_ context.Context, number int) (model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[number]
	if !ok {
		return model.Room{}, errs.ErrNotFound
	}
	return room, nil
}

func (r *memRepo) GetRoomForUpdate(ctx context.Context, number int) (model.Room, error) {
	return r.GetRoom(ctx, number)
}

func (r *memRepo) ListRooms(_ context.Context, filter model.RoomFilter) ([]model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if match(filter.Price, room.Price) && match(filter.Capacity, float64(room.Capacity)) {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func match(f model.NumberFilter, v float64) bool {
	switch {
	case f.Exact != nil && v != *f.Exact,
		f.Gt != nil && v <= *f.Gt,
		f.Gte != nil && v < *f.Gte,
		f.Lt != nil && v >= *f.Lt,
		f.Lte != nil && v > *f.Lte:
		return false
	}
	return true
}

func (r *memRepo) CreateReservation(_ context.Context, rsv model.Reservation) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rsv.ID = r.seq
	r.reservations[rsv.ID] = rsv
	return rsv, nil
}

func (r *memRepo) GetReservation(_ context.Context, id int64) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rsv, ok := r.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return rsv, nil
}

func (r *memRepo) ListUserReservations(_ context.Context, userID int64) ([]model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Reservation
	for _, rsv := range r.reservations {
		if rsv.UserID == userID {
			out = append(out, rsv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateBegin.Equal(out[j].DateBegin) {
			return out[i].DateBegin.After(out[j].DateBegin)
		}
		return out[i].DateEnd.After(out[j].DateEnd)
	})
	return out, nil
}

func (r *memRepo) UpdateReservationStatus(_ context.Context, id int64, status model.Status) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rsv, ok := r.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	rsv.Status = status
	r.reservations[id] = rsv
	return rsv, nil
}

func (r *memRepo) FindOverlapping(_ context.Context, q model.OverlapQuery) ([]model.Reservation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Reservation
	for _, rsv := range r.reservations {
		if q.Match(rsv) {
			out = append(out, rsv)
		}
	}
	return out, nil
}

func (r *memRepo) CompleteFinished(_ context.Context, today time.Time) ([]model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Reservation
	for id, rsv := range r.reservations {
		if rsv.Status == model.StatusOrdered && !rsv.DateEnd.After(today) {
			rsv.Status = model.StatusCompleted
			r.reservations[id] = rsv
			out = append(out, rsv)
		}
	}
	return out, nil
}

func (r *memRepo) CreateUser(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return model.User{}, errs.NewValidationError(errs.MsgUserExists, "username")
		}
	}
	r.seq++
	u.ID = r.seq
	r.users[u.ID] = u
	return u, nil
}

func (r *memRepo) GetUser(_ context.Context, id int64) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *memRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (r *memRepo) CountUsers(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.EventType
}

func (p *recordingPublisher) Publish(_ context.Context, typ kafka.EventType, _ model.Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, typ)
	return nil
}

func (p *recordingPublisher) Events() []kafka.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.EventType(nil), p.events...)
}

// mapCache stores listings under "<version>:<key>" like the Redis cache does.
// beforeSet runs once, ahead of the next Set.
type mapCache struct {
	mu          sync.Mutex
	version     int
	data        map[string][]model.Room
	invalidated int
	beforeSet   func()
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]model.Room)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]model.Room, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stamp := fmt.Sprintf("%d:%s", c.version, key)
	rooms, ok := c.data[stamp]
	return rooms, stamp, ok
}

func (c *mapCache) Set(_ context.Context, stamp string, rooms []model.Room) {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[stamp] = rooms
}

func (c *mapCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.invalidated++
}
