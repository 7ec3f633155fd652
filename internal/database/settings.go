package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Onimbus/proz/internal/logging"
)

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.queryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAllSettings retrieves all settings
func (db *DB) GetAllSettings() (map[string]string, error) {
	rows, err := db.query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// Default settings
var DefaultSettings = map[string]any{
	"log.level":            "info",
	"log.max_size_mb":      logging.DefaultMaxSizeMB,
	"log.max_backups":      logging.DefaultMaxBackups,
	"log.max_age_days":     logging.DefaultMaxAgeDays,
	"log.compress":         logging.DefaultCompress,
	"maintenance.enabled":  true,
	"maintenance.schedule": "@daily",
	"maintenance.vacuum":   false, // VACUUM rewrites the whole file
}

// InitializeDefaults sets default values for settings that don't exist
func (db *DB) InitializeDefaults() error {
	for key, value := range DefaultSettings {
		existing, err := db.GetSetting(key)
		if err != nil {
			return err
		}
		if existing != "" {
			continue
		}
		encoded, err := settingValue(value)
		if err != nil {
			return fmt.Errorf("failed to encode setting %s: %w", key, err)
		}
		if err := db.SetSetting(key, encoded); err != nil {
			return err
		}
	}
	return nil
}

// settingValue stores strings verbatim and everything else as JSON, so
// "true" and "50" read back through config.Loader unchanged.
func settingValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
