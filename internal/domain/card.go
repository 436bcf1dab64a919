package domain

// RoleInfo describes the character archetype assigned to one participant.
// Label is the primary (English) label, LocalizedLabel the Korean variant.
type RoleInfo struct {
	Label          string `json:"label"`
	LocalizedLabel string `json:"localizedLabel"`
	Type           string `json:"type,omitempty"`
	Description    string `json:"description"`
}

type ImageInfo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Stats holds the four bipolar spectra. Each value is the strength of the
// right-hand pole in [0,100]; 100-value is the left-hand pole's share.
type Stats struct {
	DayVsNight       int `json:"dayVsNight"`
	SteadyVsBurst    int `json:"steadyVsBurst"`
	IndieVsCrew      int `json:"indieVsCrew"`
	SpecialVsGeneral int `json:"specialVsGeneral"`
}

// Card is the canonical, display-ready representation of one participant.
// ID is non-empty and stable for the lifetime of a result set; the
// presentation layer uses it as the flip/selection key.
type Card struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Role  RoleInfo  `json:"role"`
	Image ImageInfo `json:"image"`
	Stats Stats     `json:"stats"`
}
