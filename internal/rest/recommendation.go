package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"myTrekMarket/business/recommendation"
	"myTrekMarket/domain"
	"myTrekMarket/internal/middleware"
	"myTrekMarket/pkg/logger"

	jsonres "myTrekMarket/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	msgUserIDRequired = "User ID is required for recommendations"
	msgInvalidType    = "Invalid type"
	msgInvalidLimit   = "limit must be an integer"
	msgInternal       = "Internal Server Error"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		timeout  time.Duration
	}

	RecommendationService interface {
		Query(ctx context.Context, q domain.RecommendationQuery) (domain.RecommendationResult, error)
	}

	RecommendationRequest struct {
		Type   string `query:"type" validate:"omitempty,max=32"`
		UserID string `query:"userId" validate:"omitempty,max=64"`
		Limit  string `query:"limit" validate:"omitempty,number"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  10 * time.Second,
	}
}

// Get serves GET /recommendations?type=&userId=&limit=.
func (h *RecommendationHandler) Get(c echo.Context) error {
	var req RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Fail(err.Error()))
	}

	return h.serve(c, req, req.UserID)
}

// GetMine serves GET /recommendations/me for the authenticated user.
func (h *RecommendationHandler) GetMine(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Fail(err.Error()))
	}

	return h.serve(c, req, userID)
}

func (h *RecommendationHandler) serve(c echo.Context, req RecommendationRequest, userID string) error {
	if err := h.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Limit" {
			return c.JSON(http.StatusBadRequest, jsonres.Fail(msgInvalidLimit))
		}
		return c.JSON(http.StatusBadRequest, jsonres.Fail(err.Error()))
	}

	mode := domain.RecommendationMode(req.Type)
	if mode == "" {
		mode = domain.ModeRecommendations
	}

	limit := 0
	if req.Limit != "" {
		n, err := strconv.Atoi(req.Limit)
		if err != nil {
			return c.JSON(http.StatusBadRequest, jsonres.Fail(msgInvalidLimit))
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.service.Query(ctx, domain.RecommendationQuery{
		Mode:   mode,
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, recommendation.ErrUserIDRequired):
			return c.JSON(http.StatusBadRequest, jsonres.Fail(msgUserIDRequired))
		case errors.Is(err, recommendation.ErrUnknownMode):
			return c.JSON(http.StatusBadRequest, jsonres.Fail(msgInvalidType))
		default:
			logger.Error("Recommendation error",
				"trace_id", logger.TraceIDFromContext(c.Request().Context()),
				err,
			)
			return c.JSON(http.StatusInternalServerError, jsonres.Fail(msgInternal))
		}
	}

	return c.JSON(http.StatusOK, jsonres.Success(result.Data()))
}
