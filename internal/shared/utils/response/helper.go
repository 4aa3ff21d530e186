package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondValidationError maps binding/validator failures to a 422 with
// per-field error details.
func RespondValidationError(c *gin.Context, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil, fields)
		return
	}
	RespondJSON(c, "error", http.StatusUnprocessableEntity, "Validation failed", nil, err.Error())
}
