package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateReservation(c echo.Context) error {
	var req reservationRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	uid, err := userID(c)
	if err != nil {
		return err
	}

	fields := make(map[string]string)
	begin, ok := h.parseDate(req.DateBegin)
	if !ok {
		fields["date_begin"] = errs.MsgBadDate
	}
	end, ok := h.parseDate(req.DateEnd)
	if !ok {
		fields["date_end"] = errs.MsgBadDate
	}
	if len(fields) > 0 {
		return validationError(fields)
	}

	ctx := c.Request().Context()
	rsv, err := h.svc.CreateReservation(ctx, model.CreateReservation{
		RoomNumber: req.Room,
		UserID:     uid,
		DateBegin:  begin,
		DateEnd:    end,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, h.reservationResponse(rsv))
}

func (h *Handler) ListReservations(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListReservations(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(err)
	}
	resp := make([]reservationResponse, 0, len(list))
	for _, rsv := range list {
		resp = append(resp, h.reservationResponse(rsv))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetReservation(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := reservationID(c)
	if err != nil {
		return err
	}
	rsv, err := h.svc.GetReservation(c.Request().Context(), uid, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, h.reservationResponse(rsv))
}

// CancelReservation soft-deletes: the reservation is kept with status CANCELLED.
func (h *Handler) CancelReservation(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := reservationID(c)
	if err != nil {
		return err
	}
	rsv, err := h.svc.CancelReservation(c.Request().Context(), uid, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, h.reservationResponse(rsv))
}

func reservationID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(h.dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return model.Date(t), true
}
