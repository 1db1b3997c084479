package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"primeportal/internal/domain/account"
)

// AccountStoreForAdminLogin defines the store interface needed by AdminLogin.
type AccountStoreForAdminLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// AdminUserStoreForAdminLogin defines the membership interface needed by AdminLogin.
type AdminUserStoreForAdminLogin interface {
	IsMember(ctx context.Context, accountID string) (bool, error)
}

// AdminLoginInput carries input for the admin login orchestrator.
type AdminLoginInput struct {
	Email    string
	Password string
}

// AdminLoginResult carries the result of a successful admin login.
type AdminLoginResult struct {
	AccountID string
	Email     string
}

// AdminLoginDeps holds dependencies for AdminLogin.
type AdminLoginDeps struct {
	AccountStore   AccountStoreForAdminLogin
	AdminUserStore AdminUserStoreForAdminLogin
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrNotAuthorized      = errors.New("account is not authorized for admin access")
)

// ExecuteAdminLogin validates credentials and checks admin membership.
// A valid credential without membership is rejected with a distinct error so
// the console can explain the situation instead of implying a typo.
// PRE: Valid email and password provided
// POST: Returns account info on success, records failed login on bad password
// INVARIANT: No session is created for a non-member even with valid credentials
func ExecuteAdminLogin(ctx context.Context, input AdminLoginInput, deps AdminLoginDeps) (AdminLoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return AdminLoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("admin_auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return AdminLoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked() {
		slog.Info("admin_auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		return AdminLoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin()
		_ = deps.AccountStore.Save(ctx, acct)
		slog.Info("admin_auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return AdminLoginResult{}, ErrInvalidCredentials
	}

	isMember, err := deps.AdminUserStore.IsMember(ctx, acct.ID)
	if err != nil {
		return AdminLoginResult{}, err
	}
	if !isMember {
		slog.Info("admin_auth_event", "event", "login_rejected", "email", input.Email, "reason", "not_admin")
		return AdminLoginResult{}, ErrNotAuthorized
	}

	acct.ResetFailedLogins()
	_ = deps.AccountStore.Save(ctx, acct)

	slog.Info("admin_auth_event", "event", "login_success", "email", input.Email)

	return AdminLoginResult{
		AccountID: acct.ID,
		Email:     acct.Email,
	}, nil
}
