// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InstagramUser is the profile returned by the Graph API `/me` endpoint.
type InstagramUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccountType string `json:"account_type,omitempty"`
	MediaCount  int    `json:"media_count,omitempty"`
}

// InstagramMedia is one post returned by `/me/media`.
type InstagramMedia struct {
	ID           string `json:"id"`
	Caption      string `json:"caption,omitempty"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp,omitempty"`
	Username     string `json:"username,omitempty"`
}

// InstagramFeed is the mirrored profile and latest media.
type InstagramFeed struct {
	User       *InstagramUser   `json:"user"`
	Username   string           `json:"username,omitempty"`
	Media      []InstagramMedia `json:"media"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// InstagramTokenSetting is the `instagram-token-{village}` setting value.
type InstagramTokenSetting struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}
