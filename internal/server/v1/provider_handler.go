package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProviders snapshots every configured provider's status.
func (h *Handler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.gateway.ListProviders(),
	})
}

// TestProviders issues a diagnostic prompt to every live provider and
// reports per-provider results. Always 200; failures are in the body.
func (h *Handler) TestProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.gateway.TestAll(c.Request.Context()),
	})
}

// Usage returns the aggregate stats over the retained metric window.
func (h *Handler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.UsageStats())
}
