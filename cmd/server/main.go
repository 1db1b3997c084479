package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "primeportal/internal/adapters/email"
	web "primeportal/internal/adapters/http"
	"primeportal/internal/adapters/storage"
	accountStore "primeportal/internal/adapters/storage/account"
	adminUserStore "primeportal/internal/adapters/storage/adminuser"
	announcementStore "primeportal/internal/adapters/storage/announcement"
	clientSessionStore "primeportal/internal/adapters/storage/clientsession"
	codeStore "primeportal/internal/adapters/storage/code"
	eventStore "primeportal/internal/adapters/storage/event"
	feedbackStore "primeportal/internal/adapters/storage/feedback"
	outboxStorePkg "primeportal/internal/adapters/storage/outbox"
	settingStore "primeportal/internal/adapters/storage/setting"
	"primeportal/internal/application/orchestrators"
	outboxDomain "primeportal/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Local development reads .env; missing file is fine
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("PORTAL_DB", "portal.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	acctStore := accountStore.NewSQLiteStore(db)
	admStore := adminUserStore.NewSQLiteStore(db)
	stores := &web.Stores{
		AccountStore:       acctStore,
		AdminUserStore:     admStore,
		CodeStore:          codeStore.NewSQLiteStore(db),
		ClientSessionStore: clientSessionStore.NewSQLiteStore(db),
		AnnouncementStore:  announcementStore.NewSQLiteStore(db),
		EventStore:         eventStore.NewSQLiteStore(db),
		FeedbackStore:      feedbackStore.NewSQLiteStore(db),
		SettingStore:       settingStore.NewSQLiteStore(db),
		OutboxStore:        outboxStorePkg.NewSQLiteStore(db),
	}

	env := envOrDefault("PORTAL_ENV", "development")

	// Seed the console admin account
	adminEmail := os.Getenv("PORTAL_ADMIN_EMAIL")
	adminPassword := os.Getenv("PORTAL_ADMIN_PASSWORD")
	if env != "production" {
		adminEmail = envOrDefault("PORTAL_ADMIN_EMAIL", "admin@portal.local")
		adminPassword = envOrDefault("PORTAL_ADMIN_PASSWORD", "local-dev-password")
	}
	seedDeps := orchestrators.SeedAdminDeps{
		AccountStore:   acctStore,
		AdminUserStore: admStore,
		GenerateID:     newID,
		Now:            time.Now,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), adminEmail, adminPassword, seedDeps); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed demo codes, announcements and events for development only
	if env != "production" {
		demoDeps := orchestrators.SeedDemoDataDeps{
			CodeStore:         stores.CodeStore,
			AnnouncementStore: stores.AnnouncementStore,
			EventStore:        stores.EventStore,
			SettingStore:      stores.SettingStore,
			GenerateID:        newID,
			Now:               time.Now,
		}
		if err := orchestrators.ExecuteSeedDemoData(context.Background(), demoDeps); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		log.Println("Demo seed data loaded (dev mode)")
	}

	// Configure email sender
	resendKey := os.Getenv("PORTAL_RESEND_KEY")
	emailFrom := envOrDefault("PORTAL_RESEND_FROM", "Client Portal <noreply@portal.local>")
	feedbackTo := envOrDefault("PORTAL_FEEDBACK_TO", "ops@portal.local")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if env == "production" {
			log.Println("WARNING: PORTAL_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set PORTAL_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, feedbackTo)

	// Outbox worker retries feedback notifications that failed inline
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionTypeFeedbackEmail: &orchestrators.FeedbackEmailExecutor{Sender: sender},
	})
	web.SetOutboxProcessor(processor)
	outboxStopCh := make(chan struct{})
	orchestrators.StartBackgroundWorker(processor, 1*time.Minute, outboxStopCh)
	defer close(outboxStopCh)

	mux := web.NewMux("static", stores)

	addr := envOrDefault("PORTAL_ADDR", ":8080")
	log.Printf("Portal %s starting on %s (env=%s)", version, addr, env)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func newID() string {
	return uuid.New().String()
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
