package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sethtw/saga-sub000/internal/server/validator"
	"github.com/sethtw/saga-sub000/pkg/api"
)

// Generate runs one object generation request through the pipeline.
func (h *Handler) Generate(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "invalid_request",
			Message: "request body failed validation",
			Fields:  validator.ParseError(err),
		})
		return
	}

	obj, err := h.service.GenerateObject(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, obj)
}
