package domain

import "time"

type (
	UserId = int64
	Email  = string
	Ticket = string
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// PendingActionKind tags the out-of-band action a ticket was issued for.
// A ticket only ever validates against its own kind, so a verification
// ticket cannot be replayed into a password-reset flow and vice versa.
type PendingActionKind string

const (
	ActionVerifyEmail   PendingActionKind = "verify_email"
	ActionReactivate    PendingActionKind = "reactivate"
	ActionResetPassword PendingActionKind = "reset_password"
)

// PendingAction is the single pending out-of-band action on an account.
// The zero value means nothing is pending.
type PendingAction struct {
	Kind   PendingActionKind
	Ticket Ticket
}

func (p PendingAction) IsZero() bool {
	return p == PendingAction{}
}

// Matches reports whether the supplied ticket validates the pending action
// of the given kind.
func (p PendingAction) Matches(kind PendingActionKind, ticket Ticket) bool {
	return !p.IsZero() && p.Kind == kind && p.Ticket == ticket
}

type User struct {
	Id        UserId
	Email     Email
	Name      string
	Surname   string
	PassHash  string
	Enabled   bool
	Role      Role
	Pending   PendingAction
	CreatedAt time.Time
}

func (u *User) Admin() bool {
	return u.Role == RoleAdmin
}

type Credentials struct {
	Email    Email
	Password string
}

// ProfileUpdate carries the mutable profile fields. Email changes go through
// here and nowhere else; lifecycle transitions never touch the email.
type ProfileUpdate struct {
	Name     string
	Surname  string
	Email    Email
	Password string
}

// UserFilter is the input of the multi-field user search. Nil fields are
// ignored.
type UserFilter struct {
	Email   *string
	Name    *string
	Surname *string
	Enabled *bool
	Role    *Role
}
