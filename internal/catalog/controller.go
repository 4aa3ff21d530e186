package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tripvia/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Catalog item not found", nil, err.Error())
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ID format", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *Controller) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.RespondValidationError(c, err)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	trip, err := ctrl.service.CreateTrip(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Trip created successfully", trip, nil)
}

func (ctrl *Controller) GetTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	trip, err := ctrl.service.GetTripByID(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip retrieved successfully", trip, nil)
}

func (ctrl *Controller) GetAllTrips(c *gin.Context) {
	var query CatalogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	trips, err := ctrl.service.GetAllTrips(c.Request.Context(), query)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trips retrieved successfully", trips, nil)
}

func (ctrl *Controller) UpdateTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.RespondValidationError(c, err)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	trip, err := ctrl.service.UpdateTrip(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip updated successfully", trip, nil)
}

func (ctrl *Controller) DeleteTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteTrip(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip deleted successfully", nil, nil)
}

func (ctrl *Controller) CreateTravel(c *gin.Context) {
	var req CreateTravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.RespondValidationError(c, err)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	travel, err := ctrl.service.CreateTravel(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Travel created successfully", travel, nil)
}

func (ctrl *Controller) GetTravel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	travel, err := ctrl.service.GetTravelByID(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Travel retrieved successfully", travel, nil)
}

func (ctrl *Controller) GetAllTravels(c *gin.Context) {
	var query CatalogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	travels, err := ctrl.service.GetAllTravels(c.Request.Context(), query)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Travels retrieved successfully", travels, nil)
}

func (ctrl *Controller) UpdateTravel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.RespondValidationError(c, err)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	travel, err := ctrl.service.UpdateTravel(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Travel updated successfully", travel, nil)
}

func (ctrl *Controller) DeleteTravel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteTravel(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Travel deleted successfully", nil, nil)
}
