package service

import (
	"context"

	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/Astemirdum/room-reservation/reservation/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CreateReservation books req.RoomNumber for the nights [DateBegin, DateEnd).
// The room row is locked for the duration of the overlap check and the insert.
func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservation) (model.Reservation, error) {
	rng := model.DateRange{Begin: model.Date(req.DateBegin), End: model.Date(req.DateEnd)}
	if err := rng.Validate(); err != nil {
		return model.Reservation{}, err
	}

	var created model.Reservation
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		room, err := repo.GetRoomForUpdate(ctx, req.RoomNumber)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.NewValidationError(errs.MsgNoSuchRoom, "room")
			}
			return errors.Wrap(err, "get room")
		}

		rsv := model.NewReservation(room, req.UserID, rng)
		if err := validate(rsv); err != nil {
			return err
		}

		overlapping, err := repo.FindOverlapping(ctx, model.OverlapQuery{
			Begin:      &rsv.DateBegin,
			End:        &rsv.DateEnd,
			Status:     model.StatusOrdered,
			RoomNumber: &rsv.RoomNumber,
			ExcludeID:  rsv.ID,
		})
		if err != nil {
			return errors.Wrap(err, "find overlapping")
		}
		if len(overlapping) > 0 {
			return errs.NewValidationError(errs.MsgOverlap, "date_begin", "date_end")
		}

		created, err = repo.CreateReservation(ctx, rsv)
		return err
	})
	if err != nil {
		return model.Reservation{}, err
	}

	s.afterChange(ctx, kafka.EventReservationCreated, created)
	return created, nil
}

// CancelReservation moves an ORDERED reservation to CANCELLED. Cancelling twice is a no-op.
func (s *Service) CancelReservation(ctx context.Context, userID, id int64) (model.Reservation, error) {
	var (
		cancelled model.Reservation
		changed   bool
	)
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		rsv, err := s.owned(ctx, repo, userID, id)
		if err != nil {
			return err
		}
		if rsv.Status == model.StatusCancelled {
			cancelled = rsv
			return nil
		}
		if !rsv.Status.CanTransitionTo(model.StatusCancelled) {
			return errs.NewValidationError("Reservation with status "+rsv.Status.Label()+" cannot be cancelled.", "status")
		}
		cancelled, err = repo.UpdateReservationStatus(ctx, id, model.StatusCancelled)
		changed = err == nil
		return err
	})
	if err != nil {
		return model.Reservation{}, err
	}

	if changed {
		s.afterChange(ctx, kafka.EventReservationCancelled, cancelled)
	}
	return cancelled, nil
}

func (s *Service) GetReservation(ctx context.Context, userID, id int64) (model.Reservation, error) {
	return s.owned(ctx, s.repo, userID, id)
}

// ListReservations returns the user's reservations, latest first.
func (s *Service) ListReservations(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return s.repo.ListUserReservations(ctx, userID)
}

func (s *Service) owned(ctx context.Context, repo repository.ReservationRepository, userID, id int64) (model.Reservation, error) {
	rsv, err := repo.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if rsv.UserID != userID {
		return model.Reservation{}, errs.ErrPermissionDenied
	}
	return rsv, nil
}

func (s *Service) afterChange(ctx context.Context, typ kafka.EventType, rsv model.Reservation) {
	s.cache.Invalidate(ctx)
	if err := s.publisher.Publish(ctx, typ, rsv); err != nil {
		s.log.Warn("publish event",
			zap.String("type", string(typ)),
			zap.Int64("reservation", rsv.ID),
			zap.Error(err))
	}
}

func validate(v model.Validatable) error {
	return v.Validate()
}
