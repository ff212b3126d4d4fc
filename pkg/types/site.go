// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ServiceItem is one entry of the `service-{village}` setting. Items with
// children open a sub-list instead of navigating.
type ServiceItem struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Icon        string        `json:"icon,omitempty"`
	Image       string        `json:"image,omitempty"`
	Link        string        `json:"link,omitempty"`
	Order       int           `json:"order,omitempty"`
	Child       []ServiceItem `json:"child,omitempty"`
}

// AppHeader is the `app-{village}` setting shown above the service list.
type AppHeader struct {
	Title    string `json:"title"`
	SubTitle string `json:"subTitle"`
}

// ChatbotSettings identifies the embedded chat widget.
type ChatbotSettings struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SiteInfo is the tenant-level metadata served to the page shell.
type SiteInfo struct {
	VillageID   string          `json:"village_id"`
	AnalyticsID string          `json:"analytics_id"`
	Chatbot     ChatbotSettings `json:"chatbot"`
	LogoURL     string          `json:"logo_url,omitempty"`
	App         AppHeader       `json:"app"`
	Services    []ServiceItem   `json:"services"`
}
