package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotify/handlers"
	"slotify/middleware"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Catalog      *handlers.CatalogHandler
	Booking      *handlers.BookingHandler
	Availability *handlers.AvailabilityHandler
	Rating       *handlers.RatingHandler
}

// RegisterRoutes wires all endpoints onto the router. Reads are public;
// anything that mutates state requires an authenticated requester.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	{
		// Public catalog reads.
		api.GET("/services", hb.Catalog.ListServices)
		api.GET("/services/:id", hb.Catalog.GetService)
		api.GET("/services/:id/slots", hb.Catalog.ListSlots)
		api.GET("/services/:id/rating", hb.Availability.GetAverageRating)
		api.GET("/slots/:id/availability", hb.Availability.GetAvailability)

		// Mutations require an authenticated requester.
		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		protected.POST("/services", hb.Catalog.CreateService)
		protected.PUT("/services/:id", hb.Catalog.UpdateService)
		protected.DELETE("/services/:id", hb.Catalog.DeleteService)
		protected.POST("/services/:id/slots", hb.Catalog.CreateSlot)
		protected.POST("/services/:id/ratings", hb.Rating.AddRating)
		protected.POST("/slots/:id/reserve", hb.Booking.Reserve)
		protected.POST("/bookings/:id/cancel", hb.Booking.Cancel)
		protected.GET("/bookings", hb.Booking.List)
	}
}
