package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotify/middleware"
	"slotify/services/rating"
	"slotify/utils"
)

// RatingHandler is the intake boundary for the rating subsystem.
type RatingHandler struct {
	Aggregator *rating.Aggregator
	Logger     *zap.Logger
}

// NewRatingHandler creates a RatingHandler.
func NewRatingHandler(aggregator *rating.Aggregator, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{Aggregator: aggregator, Logger: logger}
}

type addRatingRequest struct {
	Score int `json:"score" binding:"required"`
}

// AddRating persists a rating row and invalidates the cached average.
func (h *RatingHandler) AddRating(c *gin.Context) {
	var in addRatingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	r, err := h.Aggregator.Add(c.Request.Context(), c.Param("id"), middleware.RequesterID(c), in.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}
