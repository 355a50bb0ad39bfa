package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	domainCategory "loanhub-backend/internal/domain/category"
	"loanhub-backend/internal/usecase/category"
)

type CategoryHandler struct{ uc *category.Usecase }

func NewCategoryHandler(uc *category.Usecase) *CategoryHandler { return &CategoryHandler{uc: uc} }

type categoryReq struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not create category"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "category": dto})
}

func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.uc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load categories"})
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": cats})
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domainCategory.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load category"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.Update(c.Request().Context(), id, req.Name, req.Description); err != nil {
		if errors.Is(err, domainCategory.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not update category"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domainCategory.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not delete category"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("category_id"), 10, 64)
}
