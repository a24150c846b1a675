package handler

import (
	"net/http"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/auth"
	md "github.com/Astemirdum/room-reservation/pkg/middleware"
	"github.com/Astemirdum/room-reservation/pkg/validate"
	"github.com/Astemirdum/room-reservation/reservation/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	svc        ReservationService
	tokens     *auth.TokenManager
	dateLayout string
	log        *zap.Logger
}

func New(svc ReservationService, tokens *auth.TokenManager, dateLayout string, log *zap.Logger) *Handler {
	if dateLayout == "" {
		dateLayout = time.DateOnly
	}
	return &Handler{
		svc:        svc,
		tokens:     tokens,
		dateLayout: dateLayout,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	jwt := md.JwtAuthentication(h.tokens)

	api.POST("/users", h.CreateUser)
	api.GET("/users/me", h.CurrentUser, jwt)
	api.POST("/token", h.ObtainToken)
	api.POST("/token/refresh", h.RefreshToken)

	api.GET("/rooms", h.ListRooms)
	api.POST("/rooms", h.CreateRoom, jwt, md.AdminOnly)
	api.GET("/rooms/:number", h.GetRoom)

	rsv := api.Group("/room_reservations", jwt)
	rsv.GET("", h.ListReservations)
	rsv.POST("", h.CreateReservation)
	rsv.GET("/:id", h.GetReservation)
	rsv.DELETE("/:id", h.CancelReservation)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps service errors onto status codes; field errors keep their field->message body.
func (h *Handler) httpError(err error) error {
	if vErr, ok := errs.IsValidation(err); ok {
		return validationError(vErr.Fields)
	}
	switch {
	case errors.Is(err, errs.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func validationError(fields map[string]string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errs.ValidationErrorResponse{
		Message: "validation error",
		Errors:  fields,
	})
}

// bindValid binds the request body into req and runs struct validation on it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errs.MsgInvalidJSON)
	}
	if err := c.Validate(req); err != nil {
		if fields := validate.FieldErrors(err); fields != nil {
			return validationError(fields)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func userID(c echo.Context) (int64, error) {
	id, err := auth.GetUserID(c.Request().Context())
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return id, nil
}
