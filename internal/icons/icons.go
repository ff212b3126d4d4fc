// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package icons maps the icon names stored in CMS settings onto a closed set.
// Any name outside the set resolves to FaQuestion.
package icons

// Icon is a known icon name.
type Icon string

const (
	FaQuestion     Icon = "FaQuestion"
	FaNewspaper    Icon = "FaNewspaper"
	FaBullhorn     Icon = "FaBullhorn"
	FaHospital     Icon = "FaHospital"
	FaSchool       Icon = "FaSchool"
	FaLandmark     Icon = "FaLandmark"
	FaBuilding     Icon = "FaBuilding"
	FaMapMarkedAlt Icon = "FaMapMarkedAlt"
	FaPhone        Icon = "FaPhone"
	FaFileAlt      Icon = "FaFileAlt"
	FaUsers        Icon = "FaUsers"
	FaInfoCircle   Icon = "FaInfoCircle"
	FaBriefcase    Icon = "FaBriefcase"
	FaMoneyBillAlt Icon = "FaMoneyBillAlt"
	FaLeaf         Icon = "FaLeaf"
	FaCamera       Icon = "FaCamera"
	FaChartBar     Icon = "FaChartBar"
	FaGlobe        Icon = "FaGlobe"
	FaHome         Icon = "FaHome"
	FaIdCard       Icon = "FaIdCard"
)

// glyphs holds the text stand-in for every known icon.
var glyphs = map[Icon]string{
	FaQuestion:     "?",
	FaNewspaper:    "📰",
	FaBullhorn:     "📢",
	FaHospital:     "🏥",
	FaSchool:       "🏫",
	FaLandmark:     "🏛",
	FaBuilding:     "🏢",
	FaMapMarkedAlt: "🗺",
	FaPhone:        "☎",
	FaFileAlt:      "📄",
	FaUsers:        "👥",
	FaInfoCircle:   "ℹ",
	FaBriefcase:    "💼",
	FaMoneyBillAlt: "💵",
	FaLeaf:         "🍃",
	FaCamera:       "📷",
	FaChartBar:     "📊",
	FaGlobe:        "🌐",
	FaHome:         "🏠",
	FaIdCard:       "🪪",
}

// Resolve returns the icon named name, or FaQuestion.
func Resolve(name string) Icon {
	if _, ok := glyphs[Icon(name)]; ok {
		return Icon(name)
	}
	return FaQuestion
}

// Known reports whether name is in the set.
func Known(name string) bool {
	_, ok := glyphs[Icon(name)]
	return ok
}

// Glyph is the text stand-in used by terminal output.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[FaQuestion]
}

func (i Icon) String() string { return string(Resolve(string(i))) }
