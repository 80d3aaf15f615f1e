package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
)

// prefsVersion is the current preferences envelope version. Version 1 is
// the legacy flat Settings shape, which carried no envelope at all.
const prefsVersion = 2

// prefsEnvelope is the versioned wrapper around the persisted preferences
// blob. A blob with no version field is treated as the legacy shape.
type prefsEnvelope struct {
	Prefs   model.Preferences `json:"prefs"`
	Version int               `json:"version"`
}

// Preferences returns the persisted preferences. An absent blob seeds and
// persists the defaults; a legacy-shape blob is migrated once and the
// converted form persisted so the legacy reader path is never exercised
// again. An unreadable or invalid blob degrades to defaults.
func (s *Store) Preferences(ctx context.Context) (model.Preferences, error) {
	if err := validateContext(ctx); err != nil {
		return model.Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPreferences(ctx)
}

func (s *Store) loadPreferences(ctx context.Context) (model.Preferences, error) {
	raw, ok, err := s.kv.Get(ctx, KeyPreferences)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	if !ok {
		prefs := model.DefaultPreferences(s.newID)
		if err := s.persistPreferences(ctx, prefs); err != nil {
			return model.Preferences{}, err
		}
		slog.Info("seeded default preferences")
		return prefs, nil
	}

	var env prefsEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		slog.Warn("preferences blob is unreadable, using defaults", "error", err)
		return model.DefaultPreferences(s.newID), nil
	}

	switch env.Version {
	case prefsVersion:
		if !validPreferences(&env.Prefs) {
			slog.Warn("preferences blob failed validation, using defaults")
			return model.DefaultPreferences(s.newID), nil
		}
		return env.Prefs, nil
	case 0:
		// No envelope: legacy flat Settings shape.
		prefs, ok := s.migrateLegacySettings(raw)
		if !ok {
			slog.Warn("preferences blob matched no known shape, using defaults")
			return model.DefaultPreferences(s.newID), nil
		}
		if err := s.persistPreferences(ctx, prefs); err != nil {
			return model.Preferences{}, err
		}
		slog.Info("migrated legacy settings to current preferences shape")
		return prefs, nil
	default:
		slog.Warn("preferences blob has unknown version, using defaults", "version", env.Version)
		return model.DefaultPreferences(s.newID), nil
	}
}

// SavePreferences validates and persists the preferences singleton,
// stamping LastUpdated.
func (s *Store) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpSavePreferences) {
		return fmt.Errorf("%w: %s", common.ErrRateLimited, OpSavePreferences)
	}
	return s.persistPreferences(ctx, prefs)
}

func (s *Store) persistPreferences(ctx context.Context, prefs model.Preferences) error {
	if !validPreferences(&prefs) {
		return fmt.Errorf("%w: preferences", common.ErrValidation)
	}
	prefs.LastUpdated = s.now()

	raw, err := json.Marshal(prefsEnvelope{Version: prefsVersion, Prefs: prefs})
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.kv.Set(ctx, KeyPreferences, string(raw)); err != nil {
		return fmt.Errorf("failed to persist preferences: %w", err)
	}
	slog.Debug("persisted preferences")
	return nil
}
