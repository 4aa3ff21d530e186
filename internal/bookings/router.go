package bookings

import (
	"github.com/gin-gonic/gin"

	"tripvia/internal/shared/middleware"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		// gin's tree cannot hold the static "payment-proof" segment next
		// to the :catalogId wildcard, so both POST shapes share one route:
		//   POST /bookings/{type}/{catalogId}    -> create booking
		//   POST /bookings/{id}/payment-proof    -> upload proof
		bookings.POST("/:type/:catalogId", func(c *gin.Context) {
			if c.Param("catalogId") == "payment-proof" {
				c.Params = append(c.Params, gin.Param{Key: "id", Value: c.Param("type")})
				controller.UploadPaymentProof(c)
				return
			}
			controller.CreateBooking(c)
		})

		bookings.GET("/:id", controller.GetBooking)
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth())
	{
		users.GET("/bookings", controller.GetUserBookings)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.GetAllBookings)
		admin.PUT("/:id/approve", controller.ApproveBooking)
		admin.PUT("/:id/reject", controller.RejectBooking)
	}
}
