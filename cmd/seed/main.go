package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/sideshelf/sideshelf/config"
	"github.com/sideshelf/sideshelf/internal/domain/entity"
	fsinfra "github.com/sideshelf/sideshelf/internal/infrastructure/firestore"
	"github.com/sideshelf/sideshelf/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	client, err := fsinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredsPath)
	if err != nil {
		log.Fatalf("failed to connect to firestore: %v", err)
	}
	defer func() { _ = client.Close() }()

	users := fsinfra.NewUserRepository(client)
	projects := fsinfra.NewProjectRepository(client)
	digests := fsinfra.NewDigestRepository(client)

	email := "demo@sideshelf.dev"
	password := "password123"

	admin, err := users.GetByEmail(ctx, email)
	if err != nil || admin == nil {
		hash, hErr := helpers.HashPassword(password)
		if hErr != nil {
			log.Fatalf("failed to hash password: %v", hErr)
		}
		admin = &entity.User{
			Email:    email,
			Password: hash,
			Name:     "demoUser",
			Role:     entity.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s role=%s\n", admin.ID, admin.Email, password, admin.Role)

	p := &entity.Project{
		AuthorID:   admin.ID,
		AuthorName: admin.Name,
		Title:      "Tiny Pomodoro",
		Summary:    "A terminal pomodoro timer with desktop notifications.",
		Body:       "Built over a weekend. Feedback welcome!",
		RepoURL:    "https://github.com/example/tiny-pomodoro",
		Tags:       []string{"cli", "productivity"},
	}
	if err := projects.Create(ctx, p); err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}
	fmt.Printf("seeded project: id=%s title=%q\n", p.ID, p.Title)

	d := &entity.Digest{
		Title:       "Weekly Picks",
		Description: "Hand-picked side projects delivered weekly.",
		IsActive:    true,
	}
	if err := digests.Create(ctx, d); err != nil {
		log.Fatalf("failed to seed digest: %v", err)
	}
	fmt.Printf("seeded digest: id=%s title=%q\n", d.ID, d.Title)
}
