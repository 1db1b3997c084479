package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"primeportal/internal/adapters/email"
	"primeportal/internal/adapters/http/middleware"
	accountStore "primeportal/internal/adapters/storage/account"
	adminUserStore "primeportal/internal/adapters/storage/adminuser"
	announcementStore "primeportal/internal/adapters/storage/announcement"
	clientSessionStore "primeportal/internal/adapters/storage/clientsession"
	codeStore "primeportal/internal/adapters/storage/code"
	eventStore "primeportal/internal/adapters/storage/event"
	feedbackStore "primeportal/internal/adapters/storage/feedback"
	outboxStore "primeportal/internal/adapters/storage/outbox"
	settingStore "primeportal/internal/adapters/storage/setting"
	"primeportal/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore       accountStore.Store
	AdminUserStore     adminUserStore.Store
	CodeStore          codeStore.Store
	ClientSessionStore clientSessionStore.Store
	AnnouncementStore  announcementStore.Store
	EventStore         eventStore.Store
	FeedbackStore      feedbackStore.Store
	SettingStore       settingStore.Store
	OutboxStore        outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from PORTAL_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("PORTAL_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("PORTAL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("PORTAL_ENV") == "production" {
		log.Fatal("PORTAL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set PORTAL_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender = email.NewNoopSender()

// feedbackNotifyTo is the ops inbox for feedback notifications.
var feedbackNotifyTo string

// Global outbox processor for admin retry endpoints (set by SetOutboxProcessor)
var outboxProcessor *orchestrators.OutboxProcessor

// SetEmailSender sets the global email sender and the feedback inbox.
func SetEmailSender(sender email.Sender, notifyTo string) {
	emailSender = sender
	feedbackNotifyTo = notifyTo
}

// SetOutboxProcessor sets the processor used by the admin outbox endpoints.
func SetOutboxProcessor(p *orchestrators.OutboxProcessor) {
	outboxProcessor = p
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("PORTAL_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
