package repository

import (
	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// mapError translates driver errors into the domain errors the service and handlers understand.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return errs.NewValidationError(errs.MsgOverlap, "date_begin", "date_end")
	case pgerrcode.ForeignKeyViolation:
		if pgErr.ConstraintName == "room_reservation_room_number_fkey" {
			return errs.NewValidationError(errs.MsgNoSuchRoom, "room")
		}
		return errs.ErrNotFound
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case "users_username_key":
			return errs.NewValidationError(errs.MsgUserExists, "username")
		case "room_pkey":
			return errs.NewValidationError(errs.MsgRoomExists, "number")
		}
	case pgerrcode.CheckViolation:
		switch pgErr.ConstraintName {
		case "room_reservation_dates_check":
			return errs.NewValidationError(errs.MsgDateOrder, "date_begin", "date_end")
		case "room_price_check", "room_reservation_full_price_check":
			return errs.NewValidationError(errs.MsgNegative, "price")
		}
	}
	return err
}
