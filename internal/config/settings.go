package config

import "strconv"

// SettingsGetter is an interface for retrieving settings from storage
type SettingsGetter interface {
	GetSetting(key string) (string, error)
}

// Loader provides typed access to settings with default values. A nil
// Loader, or one whose store fails, yields the defaults.
type Loader struct {
	db SettingsGetter
}

// NewLoader creates a new settings loader
func NewLoader(db SettingsGetter) *Loader {
	return &Loader{db: db}
}

func (l *Loader) lookup(key string) (string, bool) {
	if l == nil || l.db == nil {
		return "", false
	}
	val, err := l.db.GetSetting(key)
	if err != nil || val == "" {
		return "", false
	}
	return val, true
}

// Int retrieves an integer setting, returning defaultVal if not found or invalid
func (l *Loader) Int(key string, defaultVal int) int {
	if val, ok := l.lookup(key); ok {
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	}
	return defaultVal
}

// Bool retrieves a boolean setting, returning defaultVal if not found.
// Only "true" is true.
func (l *Loader) Bool(key string, defaultVal bool) bool {
	if val, ok := l.lookup(key); ok {
		return val == "true"
	}
	return defaultVal
}

// String retrieves a string setting, returning defaultVal if not found or empty
func (l *Loader) String(key, defaultVal string) string {
	if val, ok := l.lookup(key); ok {
		return val
	}
	return defaultVal
}
