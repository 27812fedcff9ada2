package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"myTrekMarket/business/trek"
	"myTrekMarket/domain"
	"myTrekMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TrekService interface {
	ListApprovedTreks(ctx context.Context, filter domain.TrekFilter) (domain.TrekPage, error)
	GetTrek(ctx context.Context, id string) (*domain.Trek, error)
}

type TrekHandler struct {
	trekService TrekService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewTrekHandler(trekService TrekService) *TrekHandler {
	return &TrekHandler{
		trekService: trekService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type ListTreksRequest struct {
	Category   string  `query:"category" validate:"omitempty,max=64"`
	Difficulty string  `query:"difficulty" validate:"omitempty,max=32"`
	MinPrice   float64 `query:"minPrice" validate:"gte=0"`
	MaxPrice   float64 `query:"maxPrice" validate:"gte=0"`
	Location   string  `query:"location" validate:"omitempty,max=128"`
	Sort       string  `query:"sort" validate:"omitempty,oneof=createdAt price rating duration"`
	Order      string  `query:"order" validate:"omitempty,oneof=asc desc"`
	Page       int     `query:"page" validate:"gte=0"`
	Limit      int     `query:"limit" validate:"gte=0,lte=100"`
}

func (h *TrekHandler) ListTreks(c echo.Context) error {
	var req ListTreksRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate list treks request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "minPrice must not exceed maxPrice"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.trekService.ListApprovedTreks(ctx, domain.TrekFilter{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Location:   req.Location,
		Sort:       req.Sort,
		Order:      req.Order,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		logger.Error("Failed to list treks", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to list treks"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page))
}

func (h *TrekHandler) GetTrek(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	t, err := h.trekService.GetTrek(ctx, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, trek.ErrInvalidTrekID):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, trek.ErrTrekNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		default:
			logger.Error("Failed to get trek", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to get trek"})
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(t))
}
