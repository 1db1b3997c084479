package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"primeportal/internal/domain/account"
	"primeportal/internal/domain/announcement"
	"primeportal/internal/domain/code"
	"primeportal/internal/domain/event"
	"primeportal/internal/domain/setting"
)

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore   AccountStoreForAdminLogin
	AdminUserStore interface {
		IsMember(ctx context.Context, accountID string) (bool, error)
		Add(ctx context.Context, accountID string, createdAt time.Time) error
	}
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSeedAdmin ensures the bootstrap admin account exists and is on the
// admin list. Safe to run on every startup.
// PRE: email and password come from configuration
// POST: Account exists with the given password hash; account is an admin member
func ExecuteSeedAdmin(ctx context.Context, email, password string, deps SeedAdminDeps) error {
	if email == "" || password == "" {
		return errors.New("admin email and password are required for seeding")
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		acct = account.Account{
			ID:        deps.GenerateID(),
			Email:     email,
			CreatedAt: deps.Now(),
		}
		if err := acct.SetPassword(password); err != nil {
			return fmt.Errorf("set admin password: %w", err)
		}
		if err := acct.Validate(); err != nil {
			return err
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return fmt.Errorf("save admin account: %w", err)
		}
		slog.Info("seed_event", "event", "admin_account_created", "email", email)
	} else if err != nil {
		return err
	}

	isMember, err := deps.AdminUserStore.IsMember(ctx, acct.ID)
	if err != nil {
		return err
	}
	if !isMember {
		if err := deps.AdminUserStore.Add(ctx, acct.ID, deps.Now()); err != nil {
			return fmt.Errorf("add admin membership: %w", err)
		}
		slog.Info("seed_event", "event", "admin_membership_added", "account_id", acct.ID)
	}
	return nil
}

// SeedDemoDataDeps holds dependencies for SeedDemoData.
type SeedDemoDataDeps struct {
	CodeStore         CodeStoreForOrchestrator
	AnnouncementStore AnnouncementStoreForOrchestrator
	EventStore        EventStoreForOrchestrator
	SettingStore      SettingStoreForOrchestrator
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteSeedDemoData loads development fixtures. Skips entirely when any
// authorized code already exists, so it never grows a real database.
// PRE: intended for development environments only
// POST: Demo codes, announcements, events and the placeholder setting exist
func ExecuteSeedDemoData(ctx context.Context, deps SeedDemoDataDeps) error {
	if _, err := deps.CodeStore.GetByTCode(ctx, "T10001"); err == nil {
		return nil // already seeded
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	now := deps.Now()

	codes := []code.AuthorizedCode{
		{ID: deps.GenerateID(), TCode: "T10001", CompanyName: "Harbour Freight Ltd", Active: true, CreatedAt: now},
		{ID: deps.GenerateID(), TCode: "T10002", CompanyName: "Southern Logistics", Active: true, CreatedAt: now},
		{ID: deps.GenerateID(), TCode: "T10003", CompanyName: "Retired Account", Active: false, CreatedAt: now},
	}
	for _, c := range codes {
		if err := deps.CodeStore.Save(ctx, c); err != nil {
			return fmt.Errorf("seed code %s: %w", c.TCode, err)
		}
	}

	announcements := []announcement.Announcement{
		{
			ID: deps.GenerateID(), Title: "Welcome to the client portal",
			Content:  "Use the **Feedback** page to reach the operations team directly.",
			Priority: 2, Active: true, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: deps.GenerateID(), Title: "Holiday hours",
			Content:  "The depot closes at *2pm* on public holidays.",
			Priority: 0, Active: true, CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
		},
	}
	for _, a := range announcements {
		if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
			return fmt.Errorf("seed announcement: %w", err)
		}
	}

	events := []event.Event{
		{
			ID: deps.GenerateID(), Title: "Quarterly client briefing", Location: "Main office",
			StartsAt: now.Add(7 * 24 * time.Hour), EndsAt: now.Add(7*24*time.Hour + 2*time.Hour),
			Active: true, CreatedAt: now,
		},
		{
			ID: deps.GenerateID(), Title: "Site safety walkthrough", Location: "Yard 3",
			StartsAt: now.Add(14 * 24 * time.Hour), Active: true, CreatedAt: now,
		},
	}
	for _, e := range events {
		if err := deps.EventStore.Save(ctx, e); err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
	}

	if err := deps.SettingStore.Upsert(ctx, setting.Setting{
		Key:       setting.KeyGoogleCalendarID,
		Value:     setting.PlaceholderCalendarID,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("seed calendar setting: %w", err)
	}

	slog.Info("seed_event", "event", "demo_data_seeded", "codes", len(codes), "announcements", len(announcements), "events", len(events))
	return nil
}
