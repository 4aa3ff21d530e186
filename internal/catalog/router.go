package catalog

import (
	"github.com/gin-gonic/gin"

	"tripvia/internal/shared/middleware"
)

// SetupCatalogRoutes configures trip and travel catalog routes. Reads
// are public; mutations are admin only.
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	trips := rg.Group("/trips")
	{
		trips.GET("", controller.GetAllTrips)
		trips.GET("/:id", controller.GetTrip)
	}

	travels := rg.Group("/travels")
	{
		travels.GET("", controller.GetAllTravels)
		travels.GET("/:id", controller.GetTravel)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/trips", controller.CreateTrip)
		admin.PUT("/trips/:id", controller.UpdateTrip)
		admin.DELETE("/trips/:id", controller.DeleteTrip)

		admin.POST("/travels", controller.CreateTravel)
		admin.PUT("/travels/:id", controller.UpdateTravel)
		admin.DELETE("/travels/:id", controller.DeleteTravel)
	}
}
