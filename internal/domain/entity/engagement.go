package entity

import (
	"time"
)

// Comment is public feedback on a project. Author display fields are
// denormalized from the user document.
type Comment struct {
	ID              string    `firestore:"-"`
	ProjectID       string    `firestore:"projectId"`
	AuthorID        string    `firestore:"authorId"`
	AuthorName      string    `firestore:"authorName"`
	AuthorAvatarURL string    `firestore:"authorAvatarUrl"`
	Body            string    `firestore:"body"`
	CreatedAt       time.Time `firestore:"createdAt"`
}

// Like is a (user, project) pair with no identity of its own; the document
// id is the deterministic "userId_projectId" so the pair is unique without a
// store-level constraint.
type Like struct {
	ID        string    `firestore:"-"`
	UserID    string    `firestore:"userId"`
	ProjectID string    `firestore:"projectId"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Whisper is private feedback on a project, visible only to the project's
// author. SenderName is denormalized from the sender's profile.
type Whisper struct {
	ID         string    `firestore:"-"`
	ProjectID  string    `firestore:"projectId"`
	SenderID   string    `firestore:"senderId"`
	SenderName string    `firestore:"senderName"`
	Body       string    `firestore:"body"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

// Reaction is a lightweight emoji response on a project.
type Reaction struct {
	ID        string    `firestore:"-"`
	ProjectID string    `firestore:"projectId"`
	UserID    string    `firestore:"userId"`
	Emoji     string    `firestore:"emoji"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// LikeID builds the deterministic document id for a Like pair.
func LikeID(userID, projectID string) string {
	return userID + "_" + projectID
}
