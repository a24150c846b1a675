package service

import (
	"context"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"golang.org/x/sync/errgroup"
)

func (s *Service) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	if err := validate(room); err != nil {
		return model.Room{}, err
	}
	created, err := s.repo.CreateRoom(ctx, room)
	if err != nil {
		return model.Room{}, err
	}
	s.cache.Invalidate(ctx)
	return created, nil
}

func (s *Service) GetRoom(ctx context.Context, number int) (model.Room, error) {
	return s.repo.GetRoom(ctx, number)
}

// ListAvailableRooms lists rooms matching filter. With a date window it drops every
// room holding an ORDERED reservation that overlaps the window.
func (s *Service) ListAvailableRooms(ctx context.Context, filter model.RoomFilter) ([]model.Room, error) {
	cached, stamp, ok := s.cache.Get(ctx, filter.Key())
	if ok {
		return cached, nil
	}

	rooms, err := s.availableRooms(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, stamp, rooms)
	return rooms, nil
}

func (s *Service) availableRooms(ctx context.Context, filter model.RoomFilter) ([]model.Room, error) {
	if !filter.HasWindow() {
		return s.repo.ListRooms(ctx, filter)
	}

	var (
		rooms       []model.Room
		overlapping []model.Reservation
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rooms, err = s.repo.ListRooms(gCtx, filter)
		return err
	})
	g.Go(func() (err error) {
		overlapping, err = s.repo.FindOverlapping(gCtx, model.OverlapQuery{
			Begin:  filter.Begin,
			End:    filter.End,
			Status: model.StatusOrdered,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	booked := make(map[int]struct{}, len(overlapping))
	for _, rsv := range overlapping {
		booked[rsv.RoomNumber] = struct{}{}
	}
	available := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := booked[room.Number]; !ok {
			available = append(available, room)
		}
	}
	return available, nil
}
