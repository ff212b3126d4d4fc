// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionKey names a landing-page section.
type SectionKey string

const (
	SectionDynamic    SectionKey = "dynamic_section"
	SectionService    SectionKey = "service"
	SectionNews       SectionKey = "news"
	SectionInstagram  SectionKey = "instagram"
	SectionInfografis SectionKey = "infografis"
	SectionTour       SectionKey = "tour"
)

// SectionConfig is one entry of the ordered section list.
type SectionConfig struct {
	Key     SectionKey `json:"key" yaml:"key"`
	Enabled bool       `json:"enabled" yaml:"enabled"`
	Order   int        `json:"order" yaml:"order"`
}

// RemoteSection is one section entry as stored in the setting. A nil
// Enabled means the CMS left it unset.
type RemoteSection struct {
	Key     SectionKey `json:"key" yaml:"key"`
	Enabled *bool      `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Order   int        `json:"order" yaml:"order"`
}

// FeaturesSetting is the raw value of the `features-{village}` setting.
// Pointer and nil-slice fields distinguish "absent" from "false"/"empty".
type FeaturesSetting struct {
	PressRelease  *bool           `json:"pressRelease,omitempty" yaml:"pressRelease,omitempty"`
	SectionsOrder []RemoteSection `json:"sectionsOrder,omitempty" yaml:"sectionsOrder,omitempty"`
}

// FeatureConfig is the resolved feature configuration consumed by every section.
type FeatureConfig struct {
	PressReleaseEnabled bool            `json:"pressRelease" yaml:"pressRelease"`
	SectionsOrder       []SectionConfig `json:"sectionsOrder" yaml:"sectionsOrder"`
}

// DynamicSectionConfig is one CMS-configured static content block.
type DynamicSectionConfig struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Slug    string `json:"slug" yaml:"slug"`
	Order   int    `json:"order" yaml:"order"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// DynamicSection is a configured section with its resolved HTML content.
type DynamicSection struct {
	Config  DynamicSectionConfig `json:"config" yaml:"config"`
	Content string               `json:"content" yaml:"content"`
}
