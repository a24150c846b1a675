package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/labstack/echo/v4"
)

const msgBadNumber = "Enter a number."

func (h *Handler) ListRooms(c echo.Context) error {
	filter, fields := h.roomFilter(c)
	if len(fields) > 0 {
		return validationError(fields)
	}
	rooms, err := h.svc.ListAvailableRooms(c.Request().Context(), filter)
	if err != nil {
		return h.httpError(err)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *Handler) CreateRoom(c echo.Context) error {
	var req roomRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	room, err := h.svc.CreateRoom(c.Request().Context(), model.Room{
		Number:   req.Number,
		Price:    *req.Price,
		Capacity: req.Capacity,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *Handler) GetRoom(c echo.Context) error {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room number")
	}
	room, err := h.svc.GetRoom(c.Request().Context(), number)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, room)
}

// roomFilter reads price/capacity lookups (price, price__gte, ...), ordering and the begin/end window.
func (h *Handler) roomFilter(c echo.Context) (model.RoomFilter, map[string]string) {
	fields := make(map[string]string)
	filter := model.RoomFilter{
		Price:    numberFilter(c, "price", fields),
		Capacity: numberFilter(c, "capacity", fields),
		Ordering: model.ParseOrdering(c.QueryParam("ordering")),
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"begin", &filter.Begin}, {"end", &filter.End}} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		t, ok := h.parseDate(raw)
		if !ok {
			fields[p.name] = errs.MsgBadDate
			continue
		}
		*p.dst = &t
	}
	return filter, fields
}

func numberFilter(c echo.Context, name string, fields map[string]string) model.NumberFilter {
	var f model.NumberFilter
	for _, lookup := range []struct {
		suffix string
		dst    **float64
	}{
		{"", &f.Exact},
		{"__gt", &f.Gt},
		{"__gte", &f.Gte},
		{"__lt", &f.Lt},
		{"__lte", &f.Lte},
	} {
		key := name + lookup.suffix
		raw := c.QueryParam(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields[key] = msgBadNumber
			continue
		}
		*lookup.dst = &v
	}
	return f
}
