package entity

import (
	"time"
)

// Project is a published personal project. AuthorName and AuthorAvatarURL
// are denormalized copies of the owner's profile for read efficiency; they
// are maintained by the withdrawal flow, not by the store.
type Project struct {
	ID              string    `firestore:"-"`
	AuthorID        string    `firestore:"authorId"`
	AuthorName      string    `firestore:"authorName"`
	AuthorAvatarURL string    `firestore:"authorAvatarUrl"`
	Title           string    `firestore:"title"`
	Summary         string    `firestore:"summary"`
	Body            string    `firestore:"body"`
	RepoURL         string    `firestore:"repoUrl,omitempty"`
	DemoURL         string    `firestore:"demoUrl,omitempty"`
	ScreenshotURL   string    `firestore:"screenshotUrl,omitempty"`
	Tags            []string  `firestore:"tags,omitempty"`
	LikeCount       int64     `firestore:"likeCount"`
	CreatedAt       time.Time `firestore:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}
