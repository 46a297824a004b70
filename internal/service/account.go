package service

import (
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskward-dev/taskward/internal/config"
	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
	"github.com/taskward-dev/taskward/internal/logger"
)

// AccountService owns every valid account-state transition, ticket issuance
// and validation, and the notifications that accompany transitions.
type AccountService interface {
	Register(creds domain.Credentials, name, surname string) (domain.User, error)
	VerifyEmail(email domain.Email, ticket domain.Ticket) (domain.User, error)
	ToggleActivation(id domain.UserId) (bool, error)
	RequestPasswordReset(email domain.Email) error
	ConfirmResetTicket(email domain.Email, ticket domain.Ticket) error
	CompletePasswordReset(email domain.Email, password, passwordRepeat string) error

	// IsAuthenticatable is the single predicate the authentication gate
	// consumes. Pending tickets don't factor into it.
	IsAuthenticatable(user *domain.User) bool

	User(id domain.UserId) (domain.User, error)
	UpdateProfile(id domain.UserId, upd domain.ProfileUpdate, actor domain.UserId) (domain.User, error)
	Delete(id domain.UserId) error
	Search(filter domain.UserFilter, page, size int) ([]domain.User, error)
}

// AccountStorage is the single-record store behind the lifecycle. UpdateUser
// and UpdateUserById run mutate between a locking read and the write of the
// full record: concurrent lifecycle operations on the same account
// linearize there, and no caller ever observes a half-updated record.
type AccountStorage interface {
	CreateUser(user domain.User) (domain.User, error)
	User(email domain.Email) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	ExistsByEmail(email domain.Email) (bool, error)
	UpdateUser(email domain.Email, mutate func(*domain.User) error) (domain.User, error)
	UpdateUserById(id domain.UserId, mutate func(*domain.User) error) (domain.User, error)
	DeleteUser(id domain.UserId) error
	SearchUsers(filter domain.UserFilter, page, size int) ([]domain.User, error)
}

// TicketGenerator issues fresh unguessable tickets.
type TicketGenerator interface {
	Issue() string
}

// Notifier accepts a message for asynchronous, best-effort delivery. It
// never blocks and never reports delivery outcome back.
type Notifier interface {
	Enqueue(recipient, subject, body string)
}

type Account struct {
	storage  AccountStorage
	tickets  TicketGenerator
	notifier Notifier
	cfg      *config.Public
}

func NewAccount(storage AccountStorage, tickets TicketGenerator, notifier Notifier, cfg *config.Public) *Account {
	return &Account{
		storage:  storage,
		tickets:  tickets,
		notifier: notifier,
		cfg:      cfg,
	}
}

func validateEmail(email domain.Email) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.BadRequest("Invalid email address")
	}
	return nil
}

// Register creates a disabled account holding a fresh verification ticket
// and queues the "verify your email" message. The message is queued only
// after the insert has committed; the unique index on email resolves
// concurrent registrations of the same address.
func (a *Account) Register(creds domain.Credentials, name, surname string) (domain.User, error) {
	email := strings.ToLower(creds.Email)

	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}

	exists, err := a.storage.ExistsByEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, errors.Conflict("The user is registered with this email")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{
		Email:    email,
		Name:     name,
		Surname:  surname,
		PassHash: string(passHash),
		Enabled:  false,
		Role:     domain.RoleUser,
		Pending: domain.PendingAction{
			Kind:   domain.ActionVerifyEmail,
			Ticket: a.tickets.Issue(),
		},
	}

	saved, err := a.storage.CreateUser(user)
	if err != nil {
		return domain.User{}, err
	}
	logger.Log.Info("user registered", "user_id", saved.Id)

	a.notifier.Enqueue(saved.Email, "Please verify your email address", a.verifyEmailBody(&saved))
	return saved, nil
}

// VerifyEmail consumes a verification ticket: the account becomes
// authenticatable and the ticket is cleared in the same write.
func (a *Account) VerifyEmail(email domain.Email, ticket domain.Ticket) (domain.User, error) {
	email = strings.ToLower(email)

	return a.storage.UpdateUser(email, func(u *domain.User) error {
		if !u.Pending.Matches(domain.ActionVerifyEmail, ticket) {
			return errors.Conflict("Ticket mismatch or no pending verification")
		}
		u.Enabled = true
		u.Pending = domain.PendingAction{}
		return nil
	})
}

// ToggleActivation flips an account between active and suspended. Suspending
// issues a reactivation ticket; reactivating clears it. Returns the new
// enabled state.
func (a *Account) ToggleActivation(id domain.UserId) (bool, error) {
	updated, err := a.storage.UpdateUserById(id, func(u *domain.User) error {
		if u.Enabled {
			u.Enabled = false
			u.Pending = domain.PendingAction{
				Kind:   domain.ActionReactivate,
				Ticket: a.tickets.Issue(),
			}
		} else {
			u.Enabled = true
			u.Pending = domain.PendingAction{}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if updated.Enabled {
		logger.Log.Info("user activated", "user_id", updated.Id)
		a.notifier.Enqueue(updated.Email, "You are unblocked", a.unblockedBody(&updated))
	} else {
		logger.Log.Info("user deactivated", "user_id", updated.Id)
		a.notifier.Enqueue(updated.Email, "You are blocked", a.blockedBody(&updated))
	}
	return updated.Enabled, nil
}

// RequestPasswordReset issues a reset ticket and queues the reset message.
// The enabled flag is left at whatever it was.
func (a *Account) RequestPasswordReset(email domain.Email) error {
	email = strings.ToLower(email)

	if err := validateEmail(email); err != nil {
		return err
	}

	updated, err := a.storage.UpdateUser(email, func(u *domain.User) error {
		u.Pending = domain.PendingAction{
			Kind:   domain.ActionResetPassword,
			Ticket: a.tickets.Issue(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.notifier.Enqueue(updated.Email, "Reset your password", a.resetPasswordBody(&updated))
	return nil
}

// ConfirmResetTicket consumes a reset ticket, unlocking CompletePasswordReset.
func (a *Account) ConfirmResetTicket(email domain.Email, ticket domain.Ticket) error {
	email = strings.ToLower(email)

	_, err := a.storage.UpdateUser(email, func(u *domain.User) error {
		if !u.Pending.Matches(domain.ActionResetPassword, ticket) {
			return errors.Conflict("Ticket mismatch or no pending password reset")
		}
		u.Pending = domain.PendingAction{}
		return nil
	})
	return err
}

// CompletePasswordReset rewrites the password hash. The repeat check fails
// before the store is touched.
func (a *Account) CompletePasswordReset(email domain.Email, password, passwordRepeat string) error {
	email = strings.ToLower(email)

	if password != passwordRepeat {
		return errors.Conflict("Passwords do not match")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}

	_, err = a.storage.UpdateUser(email, func(u *domain.User) error {
		u.PassHash = string(passHash)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("password reset completed", "email", email)
	return nil
}

func (a *Account) IsAuthenticatable(user *domain.User) bool {
	return user.Enabled
}

func (a *Account) User(id domain.UserId) (domain.User, error) {
	return a.storage.UserById(id)
}

// UpdateProfile changes name/surname/email/password of the actor's own
// account. Email uniqueness is enforced by the store; the pending action is
// deliberately not touched here.
func (a *Account) UpdateProfile(id domain.UserId, upd domain.ProfileUpdate, actor domain.UserId) (domain.User, error) {
	if id != actor {
		return domain.User{}, errors.Conflict("Can only update your own profile")
	}

	newEmail := strings.ToLower(upd.Email)
	if err := validateEmail(newEmail); err != nil {
		return domain.User{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	updated, err := a.storage.UpdateUserById(id, func(u *domain.User) error {
		u.Name = upd.Name
		u.Surname = upd.Surname
		u.Email = newEmail
		u.PassHash = string(passHash)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	logger.Log.Info("user profile updated", "user_id", id)
	return updated, nil
}

func (a *Account) Delete(id domain.UserId) error {
	if err := a.storage.DeleteUser(id); err != nil {
		return err
	}
	logger.Log.Info("user deleted", "user_id", id)
	return nil
}

// Search runs the multi-field filter query: filters in, ordered paged list
// out. An empty result is a valid result.
func (a *Account) Search(filter domain.UserFilter, page, size int) ([]domain.User, error) {
	if size <= 0 {
		size = a.cfg.SearchPageSize
	}
	page = max(0, page)

	return a.storage.SearchUsers(filter, page, size)
}

func (a *Account) verifyEmailBody(u *domain.User) string {
	return fmt.Sprintf(`Hi %s,

Please verify your email by following this link:

[Verify account](%s/v1/auth/verify?email=%s&ticket=%s)

If you did not request this, please ignore this email.
`, u.Name, a.cfg.SiteURL, u.Email, u.Pending.Ticket)
}

func (a *Account) resetPasswordBody(u *domain.User) string {
	return fmt.Sprintf(`Hi %s,

Confirm your password reset by following this link:

[Reset password](%s/v1/auth/password/confirm?email=%s&ticket=%s)

If you did not request this, please ignore this email.
`, u.Name, a.cfg.SiteURL, u.Email, u.Pending.Ticket)
}

func (a *Account) blockedBody(u *domain.User) string {
	return fmt.Sprintf(`Hi %s,

Your account has been deactivated by an administrator.
`, u.Name)
}

func (a *Account) unblockedBody(u *domain.User) string {
	return fmt.Sprintf(`Hi %s,

You are active again.
`, u.Name)
}
