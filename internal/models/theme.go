package models

// ThemeMode is the persisted colour scheme preference.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Toggle returns the opposite mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
