package domain

import (
	"regexp"
	"slices"
	"time"
)

var (
	Themes           = []string{"light", "dark", "sunset"}
	FontSizes        = []string{"small", "medium", "large", "xlarge"}
	DashboardLayouts = []string{"grid", "list"}

	accentColorRE = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Preferences are per-identity display settings, created together with the identity.
type Preferences struct {
	IdentityID      string
	Theme           string
	FontSize        string
	DashboardLayout string
	AccentColor     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func DefaultPreferences(identityID string) Preferences {
	return Preferences{
		IdentityID:      identityID,
		Theme:           "light",
		FontSize:        "medium",
		DashboardLayout: "grid",
		AccentColor:     "#4a6baf",
	}
}

func (p Preferences) Validate() error {
	var v ValidationError
	if !slices.Contains(Themes, p.Theme) {
		v.Add("theme", "must be one of light, dark, sunset")
	}
	if !slices.Contains(FontSizes, p.FontSize) {
		v.Add("font_size", "must be one of small, medium, large, xlarge")
	}
	if !slices.Contains(DashboardLayouts, p.DashboardLayout) {
		v.Add("dashboard_layout", "must be grid or list")
	}
	if !accentColorRE.MatchString(p.AccentColor) {
		v.Add("accent_color", "must be a hex colour like #4a6baf")
	}
	return v.Err()
}
