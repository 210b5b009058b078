package api

// GenerateRequest is the envelope for a single object-generation call.
type GenerateRequest struct {
	// the registered object type to generate, e.g. "character" or "area"
	ObjectType string `json:"object_type" binding:"required"`

	// free-text instructions from the user, overlaid onto the assembled context
	Prompt string `json:"prompt" binding:"required"`

	// element the new object is generated under; drives ancestor-chain context
	ContextID string `json:"context_id,omitempty"`

	// campaign the object belongs to
	CampaignID string `json:"campaign_id,omitempty"`

	// optional explicit provider; falls back to the configured default
	Provider string `json:"provider,omitempty"`
}
