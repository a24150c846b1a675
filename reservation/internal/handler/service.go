package handler

import (
	"context"

	"github.com/Astemirdum/room-reservation/pkg/auth"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/Astemirdum/room-reservation/reservation/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.CreateReservation) (model.Reservation, error)
	CancelReservation(ctx context.Context, userID, id int64) (model.Reservation, error)
	GetReservation(ctx context.Context, userID, id int64) (model.Reservation, error)
	ListReservations(ctx context.Context, userID int64) ([]model.Reservation, error)
	ListAvailableRooms(ctx context.Context, filter model.RoomFilter) ([]model.Room, error)
	GetRoom(ctx context.Context, number int) (model.Room, error)
	CreateRoom(ctx context.Context, room model.Room) (model.Room, error)
	CreateUser(ctx context.Context, req model.CreateUser) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	ObtainToken(ctx context.Context, username, password string) (auth.TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (string, error)
}

var _ ReservationService = (*service.Service)(nil)
