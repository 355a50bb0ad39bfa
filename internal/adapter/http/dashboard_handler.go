package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loanhub-backend/internal/adapter/middleware"
	"loanhub-backend/internal/usecase/dashboard"
)

type DashboardHandler struct{ uc *dashboard.Usecase }

func NewDashboardHandler(uc *dashboard.Usecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) Admin(c echo.Context) error {
	stats, err := h.uc.AdminStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load stats"})
	}
	return c.JSON(http.StatusOK, map[string]any{"stats": stats})
}

func (h *DashboardHandler) User(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	stats, err := h.uc.UserStats(c.Request().Context(), sess.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load stats"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user_stats": stats,
		"username":   sess.Username,
	})
}
