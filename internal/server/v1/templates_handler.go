package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReloadTemplates drops the prompt-template cache. Only useful when the
// server runs against an on-disk template directory; with embedded templates
// the reload is a no-op.
func (h *Handler) ReloadTemplates(c *gin.Context) {
	h.templates.ClearCache()
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
