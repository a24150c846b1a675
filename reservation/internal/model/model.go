package model

import (
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
)

// Validatable is implemented by every entity checked before it reaches the store.
type Validatable interface {
	Validate() error
}

type Room struct {
	Number   int     `json:"number" db:"number"`
	Price    float64 `json:"price" db:"price"`
	Capacity int     `json:"capacity" db:"capacity"`
}

func (r Room) Validate() error {
	fields := make(map[string]string)
	if r.Number <= 0 {
		fields["number"] = "Ensure this value is greater than 0."
	}
	if r.Price < 0 {
		fields["price"] = errs.MsgNegative
	}
	if r.Capacity <= 0 {
		fields["capacity"] = "Ensure this value is greater than 0."
	}
	if len(fields) > 0 {
		return &errs.ValidationError{Message: "validation error", Fields: fields}
	}
	return nil
}

type Reservation struct {
	ID         int64     `db:"id"`
	RoomNumber int       `db:"room_number"`
	UserID     int64     `db:"user_id"`
	DateBegin  time.Time `db:"date_begin"`
	DateEnd    time.Time `db:"date_end"`
	FullPrice  float64   `db:"full_price"`
	Status     Status    `db:"status"`
}

// NewReservation prices rng against room and returns an ORDERED reservation.
func NewReservation(room Room, userID int64, rng DateRange) Reservation {
	return Reservation{
		RoomNumber: room.Number,
		UserID:     userID,
		DateBegin:  rng.Begin,
		DateEnd:    rng.End,
		FullPrice:  room.Price * float64(rng.Days()),
		Status:     StatusOrdered,
	}
}

func (r Reservation) Range() DateRange {
	return DateRange{Begin: r.DateBegin, End: r.DateEnd}
}

func (r Reservation) Validate() error {
	if err := r.Range().Validate(); err != nil {
		return err
	}
	if r.FullPrice < 0 {
		return errs.NewValidationError(errs.MsgNegative, "full_price")
	}
	if !r.Status.Valid() {
		return errs.NewValidationError("Invalid status.", "status")
	}
	return nil
}

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

type CreateReservation struct {
	RoomNumber int
	UserID     int64
	DateBegin  time.Time
	DateEnd    time.Time
}

type CreateUser struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}
