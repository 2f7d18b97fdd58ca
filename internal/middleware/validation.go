package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models/dto"
)

// BindJSON binds the request body into obj and writes a 400 response listing
// the offending fields when binding or validation fails
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewFailureResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
