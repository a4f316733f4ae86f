// Package seed populates a fresh database with the accounts, categories
// and sample events used for local development.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"warriorhub/internal/domain"
)

const seedPassword = "changeme"

var seedCategories = []domain.Category{
	{Name: "Academic", Description: "Lectures, study groups and academic workshops"},
	{Name: "Career", Description: "Job fairs, networking and professional development"},
	{Name: "Food", Description: "Events with free or discounted food"},
	{Name: "Free", Description: "No admission charge"},
	{Name: "Recreation", Description: "Clubs, games and outdoor activities"},
	{Name: "Sports", Description: "Games, meets and intramurals"},
}

type seedAccount struct {
	email        string
	role         domain.Role
	organization string
}

var seedAccounts = []seedAccount{
	{email: "admin@foo.com", role: domain.RoleAdmin},
	{email: "org@foo.com", role: domain.RoleOrganizer, organization: "Campus Center Board"},
	{email: "john@foo.com", role: domain.RoleUser},
}

// Run inserts seed data, skipping anything already present. It is safe
// to call on every start.
func Run(ctx context.Context, db *sql.DB, hasher domain.PasswordHasher, logger *slog.Logger) error {
	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, acct := range seedAccounts {
		var org sql.NullString
		if acct.organization != "" {
			org = sql.NullString{String: acct.organization, Valid: true}
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (email, password_hash, role, organization, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (email) DO NOTHING`,
			acct.email, hash, string(acct.role), org)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", acct.email, err)
		}
	}

	for _, c := range seedCategories {
		_, err := db.ExecContext(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Description)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}

	if err := seedSampleEvents(ctx, db); err != nil {
		return err
	}

	logger.Info("seed data applied")
	return nil
}

func seedSampleEvents(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if count > 0 {
		return nil
	}

	var organizerID int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = $1`, "org@foo.com").Scan(&organizerID)
	if err != nil {
		return fmt.Errorf("look up seed organizer: %w", err)
	}

	type sampleEvent struct {
		name        string
		description string
		location    string
		daysAhead   int
		categories  []string
	}
	samples := []sampleEvent{
		{
			name:        "Welcome Back Bash",
			description: "Live music, games and free shave ice on the great lawn.",
			location:    "Campus Center Courtyard",
			daysAhead:   7,
			categories:  []string{"Recreation", "Food", "Free"},
		},
		{
			name:        "Fall Career Fair",
			description: "Meet recruiters from over 60 local and national employers.",
			location:    "Stan Sheriff Center",
			daysAhead:   21,
			categories:  []string{"Career", "Free"},
		},
		{
			name:        "Intramural Volleyball Kickoff",
			description: "Open play and team sign-ups for the fall season.",
			location:    "Gym 2",
			daysAhead:   10,
			categories:  []string{"Sports", "Recreation"},
		},
	}

	for _, s := range samples {
		id := uuid.NewString()
		dateTime := time.Now().UTC().AddDate(0, 0, s.daysAhead).Truncate(time.Hour)
		_, err := db.ExecContext(ctx, `
			INSERT INTO events (id, name, description, location, date_time, image_url, created_by_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
			id, s.name, s.description, s.location, dateTime, domain.DefaultEventImage, organizerID)
		if err != nil {
			return fmt.Errorf("seed event %s: %w", s.name, err)
		}
		for _, categoryName := range s.categories {
			_, err := db.ExecContext(ctx, `
				INSERT INTO event_categories (event_id, category_id)
				SELECT $1, id FROM categories WHERE name = $2
				ON CONFLICT (event_id, category_id) DO NOTHING`,
				id, categoryName)
			if err != nil {
				return fmt.Errorf("seed event category %s/%s: %w", s.name, categoryName, err)
			}
		}
	}
	return nil
}
