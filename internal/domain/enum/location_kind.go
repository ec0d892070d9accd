package enum

import "strings"

// LocationKind classifies a delivery location
type LocationKind string

const (
	LocationKindHome   LocationKind = "home"
	LocationKindOffice LocationKind = "office"
	LocationKindStore  LocationKind = "store"
	LocationKindOther  LocationKind = "other"
)

// ParseLocationKind normalizes user input, defaulting to home
func ParseLocationKind(s string) LocationKind {
	switch k := LocationKind(strings.ToLower(strings.TrimSpace(s))); k {
	case LocationKindHome, LocationKindOffice, LocationKindStore, LocationKindOther:
		return k
	case "":
		return LocationKindHome
	default:
		return LocationKindOther
	}
}
