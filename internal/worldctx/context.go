// Package worldctx assembles the flat generation context from the campaign
// and the spatial element tree.
package worldctx

// Context is the field set prompt templates render against: a fixed set of
// known optional fields plus an open extension bucket for policy-specific
// enrichment. Built fresh per request and never persisted.
type Context struct {
	CampaignName        string
	CampaignDescription string

	// the three outermost ancestor levels, top to bottom
	RegionName        string
	RegionDescription string
	RegionType        string
	CityName          string
	CityDescription   string
	CityType          string
	AreaName          string
	AreaDescription   string
	AreaType          string

	UserPrompt string
	ObjectType string

	Extra map[string]string
}

func New() *Context {
	return &Context{Extra: make(map[string]string)}
}

// Flatten maps the context into template fields. Named fields shadow Extra
// entries of the same key.
func (c *Context) Flatten() map[string]string {
	fields := make(map[string]string, len(c.Extra)+16)
	for k, v := range c.Extra {
		fields[k] = v
	}

	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}

	set("CAMPAIGN_NAME", c.CampaignName)
	set("CAMPAIGN_DESCRIPTION", c.CampaignDescription)
	set("REGION_NAME", c.RegionName)
	set("REGION_DESCRIPTION", c.RegionDescription)
	set("REGION_TYPE", c.RegionType)
	set("CITY_NAME", c.CityName)
	set("CITY_DESCRIPTION", c.CityDescription)
	set("CITY_TYPE", c.CityType)
	set("AREA_NAME", c.AreaName)
	set("AREA_DESCRIPTION", c.AreaDescription)
	set("AREA_TYPE", c.AreaType)
	set("USER_PROMPT", c.UserPrompt)
	set("OBJECT_TYPE", c.ObjectType)

	return fields
}
