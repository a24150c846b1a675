package handler

import (
	"net/http"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := h.svc.CreateUser(c.Request().Context(), model.CreateUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
}

func (h *Handler) CurrentUser(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.GetUser(c.Request().Context(), uid)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
}

func (h *Handler) ObtainToken(c echo.Context) error {
	var req tokenRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	pair, err := h.svc.ObtainToken(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	access, err := h.svc.RefreshToken(c.Request().Context(), req.Refresh)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, accessResponse{Access: access})
}
