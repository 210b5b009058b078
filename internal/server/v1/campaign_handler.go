package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCampaignElements returns a campaign's world elements, for picking the
// context_id of a generation request. An unknown campaign yields an empty
// list, matching the store contract.
func (h *Handler) ListCampaignElements(c *gin.Context) {
	elements, err := h.elements.ListByCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   elements,
	})
}
