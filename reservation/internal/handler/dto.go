package handler

import (
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
)

type reservationRequest struct {
	Room      int    `json:"room" validate:"required,gt=0"`
	DateBegin string `json:"date_begin" validate:"required"`
	DateEnd   string `json:"date_end" validate:"required"`
}

type reservationResponse struct {
	ID          int64   `json:"id"`
	Room        int     `json:"room"`
	DateBegin   string  `json:"date_begin"`
	DateEnd     string  `json:"date_end"`
	FullPrice   float64 `json:"full_price"`
	Status      string  `json:"status"`
	StatusLabel string  `json:"status_label"`
}

func (h *Handler) reservationResponse(r model.Reservation) reservationResponse {
	return reservationResponse{
		ID:          r.ID,
		Room:        r.RoomNumber,
		DateBegin:   r.DateBegin.Format(h.dateLayout),
		DateEnd:     r.DateEnd.Format(h.dateLayout),
		FullPrice:   r.FullPrice,
		Status:      string(r.Status),
		StatusLabel: r.Status.Label(),
	}
}

type roomRequest struct {
	Number   int      `json:"number" validate:"required,gt=0"`
	Price    *float64 `json:"price" validate:"required"`
	Capacity int      `json:"capacity" validate:"required,gt=0"`
}

type userRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type accessResponse struct {
	Access string `json:"access"`
}
