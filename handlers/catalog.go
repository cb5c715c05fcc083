package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotify/middleware"
	"slotify/models"
	"slotify/services/availability"
	"slotify/services/catalog"
	"slotify/utils"
)

// CatalogHandler exposes service and slot CRUD.
type CatalogHandler struct {
	Catalog *catalog.Catalog
	Cache   *availability.Cache
	Logger  *zap.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog, cache *availability.Cache, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: cat, Cache: cache, Logger: logger}
}

// serviceView is a service plus its cached average rating.
type serviceView struct {
	models.Service
	AverageRating float64 `json:"averageRating"`
}

func (h *CatalogHandler) withRating(ctx context.Context, svc models.Service) serviceView {
	avg, err := h.Cache.GetAverageRating(ctx, svc.ID)
	if err != nil {
		// Rating is decoration on a catalog read; never fail the request for it.
		h.Logger.Warn("failed to read average rating", zap.String("serviceID", svc.ID), zap.Error(err))
	}
	return serviceView{Service: svc, AverageRating: avg}
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var in catalog.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	svc, err := h.Catalog.CreateService(c.Request.Context(), middleware.RequesterID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]serviceView, 0, len(services))
	for _, svc := range services {
		views = append(views, h.withRating(c.Request.Context(), svc))
	}
	c.JSON(http.StatusOK, gin.H{"services": views})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.withRating(c.Request.Context(), *svc))
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var in catalog.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	svc, err := h.Catalog.UpdateService(c.Request.Context(), c.Param("id"), middleware.RequesterID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.Catalog.DeleteService(c.Request.Context(), c.Param("id"), middleware.RequesterID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createSlotRequest struct {
	Start    time.Time `json:"start" binding:"required"`
	End      time.Time `json:"end" binding:"required"`
	Capacity int       `json:"capacity"`
}

func (h *CatalogHandler) CreateSlot(c *gin.Context) {
	var in createSlotRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	slot, err := h.Catalog.CreateSlot(c.Request.Context(), c.Param("id"), in.Start, in.End, in.Capacity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (h *CatalogHandler) ListSlots(c *gin.Context) {
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "from must be RFC3339")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "to must be RFC3339")
			return
		}
		to = t
	}

	slots, err := h.Catalog.ListSlots(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
