package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Init())

	require.False(t, GetHideTitleMarkup())
	require.True(t, GetHideQuotes())
	require.False(t, GetRevealAtPoint())
	require.Equal(t, "=-~", GetTitleChars())
	require.Equal(t, "python3", GetInterpreter())
	require.Equal(t, "python", GetLanguage())
	require.Equal(t, "212", GetColor("title1"))
	require.Equal(t, "240", GetColor("markup"))
}

func TestTogglesNotifySubscribers(t *testing.T) {
	require.NoError(t, Init())

	notified := 0
	OnChange(func() { notified++ })

	v := ToggleHideQuotes()
	require.False(t, v)
	require.False(t, GetHideQuotes())
	require.Equal(t, 1, notified)

	v = ToggleHideTitleMarkup()
	require.True(t, v)
	require.True(t, GetHideTitleMarkup())
	require.Equal(t, 2, notified)

	HideAllMarkup()
	require.True(t, GetHideQuotes())
	require.True(t, GetHideTitleMarkup())
	require.Equal(t, 3, notified)

	// Restore defaults for any test running after this one.
	SetHideQuotes(true)
	SetHideTitleMarkup(false)
}

func TestSetRevealAtPoint(t *testing.T) {
	require.NoError(t, Init())

	SetRevealAtPoint(true)
	require.True(t, GetRevealAtPoint())
	require.True(t, C.RevealAtPoint)
	SetRevealAtPoint(false)
	require.False(t, GetRevealAtPoint())
}
