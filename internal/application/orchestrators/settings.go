package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"primeportal/internal/domain/setting"
)

// SettingStoreForOrchestrator defines the store interface needed by setting orchestrators.
type SettingStoreForOrchestrator interface {
	Get(ctx context.Context, key string) (setting.Setting, error)
	Upsert(ctx context.Context, v setting.Setting) error
}

// UpdateCalendarIDInput carries input for the calendar setting orchestrator.
type UpdateCalendarIDInput struct {
	CalendarID string
}

// UpdateCalendarIDDeps holds dependencies for UpdateCalendarID.
type UpdateCalendarIDDeps struct {
	SettingStore SettingStoreForOrchestrator
	Now          func() time.Time
}

// ExecuteUpdateCalendarID stores the Google calendar scheduling ID.
// An empty value is allowed and takes the scheduling link offline.
// PRE: none
// POST: Setting row upserted under the calendar key
func ExecuteUpdateCalendarID(ctx context.Context, input UpdateCalendarIDInput, deps UpdateCalendarIDDeps) (setting.Setting, error) {
	v := setting.Setting{
		Key:       setting.KeyGoogleCalendarID,
		Value:     strings.TrimSpace(input.CalendarID),
		UpdatedAt: deps.Now(),
	}
	if err := deps.SettingStore.Upsert(ctx, v); err != nil {
		return setting.Setting{}, err
	}

	slog.Info("setting_event", "event", "calendar_id_updated", "has_value", v.Value != "")
	return v, nil
}

// GetCalendarSetting reads the calendar setting, treating a missing row as
// the placeholder value.
// PRE: none
// POST: Returns the stored setting or the placeholder default
func GetCalendarSetting(ctx context.Context, store SettingStoreForOrchestrator) (setting.Setting, error) {
	v, err := store.Get(ctx, setting.KeyGoogleCalendarID)
	if errors.Is(err, sql.ErrNoRows) {
		return setting.Setting{Key: setting.KeyGoogleCalendarID, Value: setting.PlaceholderCalendarID}, nil
	}
	if err != nil {
		return setting.Setting{}, err
	}
	return v, nil
}
