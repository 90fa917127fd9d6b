// Command seed fills a running backend with bulk demo data through the
// public API, so pagination and the calendar have something to show.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/marketops/console/internal/app"
	"github.com/marketops/console/internal/campaigns"
	"github.com/marketops/console/internal/content"
	"github.com/marketops/console/internal/publications"
	"github.com/marketops/console/internal/shared"
	"github.com/marketops/console/internal/tokenstore"
	"github.com/marketops/console/internal/users"
)

func main() {
	ctx := context.Background()
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.LogFormat, cfg.LogLevel)
	console, err := app.NewConsole(ctx, cfg, logger, app.ConsoleParams{Tokens: tokenstore.NewMemoryStore()})
	if err != nil {
		log.Fatalf("build console: %v", err)
	}
	defer console.Close()

	email := getenv("SEED_ADMIN_EMAIL", "admin@marketops.local")
	password := getenv("SEED_ADMIN_PASSWORD", "admin1234")
	if res := console.Session.Login(ctx, email, password); !res.OK {
		log.Fatalf("login %s: %s", email, res.Message)
	}
	n := getenvInt("SEED_COUNT", 25)

	fmt.Println("→ Seeding users...")
	if err := seedUsers(ctx, console, n); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	fmt.Println("→ Seeding campaigns...")
	campaignIDs, err := seedCampaigns(ctx, console, n)
	if err != nil {
		log.Fatalf("seed campaigns: %v", err)
	}
	fmt.Println("→ Seeding content...")
	contentIDs, err := seedContent(ctx, console, campaignIDs)
	if err != nil {
		log.Fatalf("seed content: %v", err)
	}
	fmt.Println("→ Scheduling publications...")
	if err := seedPublications(ctx, console, contentIDs); err != nil {
		log.Fatalf("seed publications: %v", err)
	}
	fmt.Println("✓ Seed complete")
}

func seedUsers(ctx context.Context, c *app.Console, n int) error {
	for i := 1; i <= n; i++ {
		role := users.Roles[i%len(users.Roles)]
		_, err := c.Users.Create(ctx, users.Draft{
			Name:     fmt.Sprintf("Usuario demo %02d", i),
			Email:    fmt.Sprintf("demo%02d@marketops.local", i),
			Password: "demo-pass-123",
			Role:     role,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedCampaigns(ctx context.Context, c *app.Console, n int) ([]int64, error) {
	objectives := []string{"alcance", "trafico", "conversion", "engagement", "leads"}
	today := time.Now()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		start := today.AddDate(0, 0, i*3-30)
		camp, err := c.Campaigns.Create(ctx, campaigns.Draft{
			Name:      fmt.Sprintf("Campaña demo %02d", i+1),
			Objective: objectives[i%len(objectives)],
			Budget:    float64(500 + i*250),
			StartDate: start.Format(campaigns.DateLayout),
			EndDate:   start.AddDate(0, 1, 0).Format(campaigns.DateLayout),
			Channels:  []string{"instagram", "facebook"},
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, camp.ID)
	}
	return ids, nil
}

// seedContent creates two items per campaign and approves the first one
// so it can be scheduled.
func seedContent(ctx context.Context, c *app.Console, campaignIDs []int64) ([]int64, error) {
	var approved []int64
	for i, campaignID := range campaignIDs {
		id := campaignID
		for j, kind := range []string{content.TypePost, content.TypeEmail} {
			item, err := c.Content.Create(ctx, content.Draft{
				Title:           fmt.Sprintf("Pieza %02d-%d", i+1, j+1),
				Type:            kind,
				CampaignID:      &id,
				SubmitForReview: j == 0,
			})
			if err != nil {
				return nil, err
			}
			if j == 0 {
				if _, err := c.Content.ChangeState(ctx, item.ID, shared.StateChange{State: content.StateApproved}); err != nil {
					return nil, err
				}
				approved = append(approved, item.ID)
			}
		}
	}
	return approved, nil
}

func seedPublications(ctx context.Context, c *app.Console, contentIDs []int64) error {
	now := time.Now()
	for i, id := range contentIDs {
		_, err := c.Publications.Create(ctx, publications.Draft{
			ContentID:   id,
			Network:     publications.Networks[i%len(publications.Networks)],
			ScheduledAt: now.Add(time.Duration(i+1) * 20 * time.Hour),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
