package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListObjectTypes returns summaries for every registered object type.
func (h *Handler) ListObjectTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.service.ListObjectTypes(),
	})
}

// GetObjectType returns the full definition for one type, including its
// schema, display fields, and permissions.
func (h *Handler) GetObjectType(c *gin.Context) {
	def, err := h.service.GetObjectType(c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, def)
}
