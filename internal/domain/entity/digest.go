package entity

import (
	"time"
)

// Digest is a shareable, independently-owned newsletter-style resource. It
// is the one entity that is referenced by dependents (subscriptions) rather
// than owning them, so deletion is gated on live subscribers.
type Digest struct {
	ID          string    `firestore:"-"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description,omitempty"`
	IsActive    bool      `firestore:"isActive"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

// DigestSubscription links a user to a digest. Unsubscribing flips IsActive
// rather than deleting, so resubscription keeps history.
type DigestSubscription struct {
	ID        string    `firestore:"-"`
	UserID    string    `firestore:"userId"`
	DigestID  string    `firestore:"digestId"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// ActivityLog is an auxiliary, time-boxed audit record; a periodic job
// removes entries older than the retention window.
type ActivityLog struct {
	ID        string    `firestore:"-"`
	UserID    string    `firestore:"userId,omitempty"`
	Action    string    `firestore:"action"`
	IP        string    `firestore:"ip,omitempty"`
	UserAgent string    `firestore:"userAgent,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
}
