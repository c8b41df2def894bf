package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// Withdrawal is a soft terminal state: the document persists with
// IsWithdrawn set and identity fields overwritten. Hard deletion removes the
// document together with everything the user owns.
type User struct {
	ID               string    `firestore:"-"`
	Email            string    `firestore:"email"`
	Password         string    `firestore:"passwordHash"`
	Name             string    `firestore:"name"`
	AvatarURL        string    `firestore:"avatarUrl"`
	Role             string    `firestore:"role"` // "user" or "admin"
	IsWithdrawn      bool      `firestore:"isWithdrawn"`
	WithdrawnAt      time.Time `firestore:"withdrawnAt,omitempty"`
	WithdrawReason   string    `firestore:"withdrawReason,omitempty"`
	WithdrawFeedback string    `firestore:"withdrawFeedback,omitempty"`
	CreatedAt        time.Time `firestore:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Placeholder values written over identity-bearing denormalized fields when
// a user withdraws.
const (
	AnonymousName   = "Withdrawn user"
	AnonymousAvatar = ""
)

// Bounds for the free-text fields collected on withdrawal.
const (
	MaxWithdrawReasonLen   = 200
	MaxWithdrawFeedbackLen = 1000
)
