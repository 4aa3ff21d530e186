package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripvia/internal/shared/utils/response"
	"tripvia/internal/users"
	"tripvia/pkg/storage"
)

type Controller struct {
	service Service
	store   storage.Store
	maxSize int64
}

func NewController(service Service, store storage.Store, maxUploadSize int64) *Controller {
	return &Controller{
		service: service,
		store:   store,
		maxSize: maxUploadSize,
	}
}

// actorFromContext builds the explicit caller identity from the values
// the JWT middleware put into the request context.
func actorFromContext(c *gin.Context) (Actor, bool) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		return Actor{}, false
	}
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return Actor{}, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return Actor{}, false
	}

	role := users.RoleUser
	if roleValue, exists := c.Get("user_role"); exists {
		if roleStr, ok := roleValue.(string); ok && users.IsValidRole(roleStr) {
			role = users.Role(roleStr)
		}
	}

	return Actor{ID: userID, Role: role}, true
}

// respondDomainError maps engine errors onto the HTTP contract
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, ErrCatalogNotFound), errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrInvalidState):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
	}
}

// CreateBooking handles POST /bookings/:type/:catalogId
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	catalogType := CatalogType(c.Param("type"))
	if !catalogType.IsValid() {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Catalog type must be trip or travel", nil, nil)
		return
	}

	catalogID, err := uuid.Parse(c.Param("catalogId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid catalog ID", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	count, ok := req.ParticipantCount()
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil,
			map[string]string{"participants": "required"})
		return
	}

	departureDate, err := req.ParseDepartureDate()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil,
			map[string]string{"tanggal_keberangkatan": "must be a date (YYYY-MM-DD)"})
		return
	}

	input := CreateBookingInput{
		RequesterName:    req.RequesterName,
		Phone:            req.Phone,
		DepartureDate:    departureDate,
		ParticipantCount: count,
		Notes:            req.Notes,
	}

	booking, item, err := ctrl.service.CreateBooking(c.Request.Context(), actor, catalogType, catalogID, input)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := CreateBookingResponse{
		BookingID:  booking.ID.String(),
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		ExpiredAt:  booking.ExpiredAt,
		Catalog:    newCatalogSummary(item),
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", resp, nil)
}

// UploadPaymentProof handles POST /bookings/:id/payment-proof (multipart)
func (ctrl *Controller) UploadPaymentProof(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil,
			map[string]string{"image": "required"})
		return
	}
	if file.Size > ctrl.maxSize {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil,
			map[string]string{"image": "file too large"})
		return
	}

	imageURL, err := ctrl.store.SaveUpload(file, "payment-proofs")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil,
			map[string]string{"image": err.Error()})
		return
	}

	input := PaymentProofInput{
		ImageURL: imageURL,
		BankName: c.PostForm("bank_name"),
	}

	booking, proof, err := ctrl.service.UploadPaymentProof(c.Request.Context(), actor, bookingID, input)
	if err != nil {
		// the stored file has no owner if the transition failed
		_ = ctrl.store.Remove(imageURL)
		respondDomainError(c, err)
		return
	}

	resp := PaymentProofResponse{Booking: booking, PaymentProof: proof}
	response.RespondJSON(c, "success", http.StatusOK, "Payment proof uploaded successfully", resp, nil)
}

// GetBooking handles GET /bookings/:id
func (ctrl *Controller) GetBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /users/bookings
func (ctrl *Controller) GetUserBookings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	result, err := ctrl.service.ListUserBookings(c.Request.Context(), actor, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// GetAllBookings handles GET /admin/bookings
func (ctrl *Controller) GetAllBookings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	result, err := ctrl.service.ListAllBookings(c.Request.Context(), actor, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// ApproveBooking handles PUT /admin/bookings/:id/approve
func (ctrl *Controller) ApproveBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := ctrl.service.ApproveBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment approved", StatusResponse{Status: booking.Status}, nil)
}

// RejectBooking handles PUT /admin/bookings/:id/reject
func (ctrl *Controller) RejectBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.RespondValidationError(c, err)
		return
	}

	booking, err := ctrl.service.RejectBooking(c.Request.Context(), actor, bookingID, req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment rejected", StatusResponse{Status: booking.Status}, nil)
}
