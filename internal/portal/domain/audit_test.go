package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	a, detail := domain.ParseAction("login", "from kiosk")
	require.Equal(t, domain.ActionLogin, a)
	require.Equal(t, "from kiosk", detail)

	a, _ = domain.ParseAction(" Content_Activated ", "")
	require.Equal(t, domain.ActionContentActivated, a)

	a, detail = domain.ParseAction("building_created", "Gym")
	require.Equal(t, domain.ActionOther, a)
	require.Equal(t, "building_created: Gym", detail)

	a, detail = domain.ParseAction("schedule_added", "")
	require.Equal(t, domain.ActionOther, a)
	require.Equal(t, "schedule_added", detail)
}

func TestPreferencesValidate(t *testing.T) {
	p := domain.DefaultPreferences("id-1")
	require.NoError(t, p.Validate())
	require.Equal(t, "light", p.Theme)
	require.Equal(t, "#4a6baf", p.AccentColor)

	p.Theme = "neon"
	p.AccentColor = "blue"
	fields := validationFields(t, p.Validate())
	require.Contains(t, fields, "theme")
	require.Contains(t, fields, "accent_color")
}
