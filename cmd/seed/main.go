// Command seed creates a demo campaign with a four-level spatial chain, for
// local development against a fresh database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sethtw/saga-sub000/internal/platform/logger"
	"github.com/sethtw/saga-sub000/internal/store/model"
	"github.com/sethtw/saga-sub000/internal/store/sqlite"
)

func main() {
	dsn := flag.String("dsn", "saga.db", "sqlite database path")
	flag.Parse()

	logger.Initialize(logger.Config{Level: "warn", Format: "console"})
	repo, err := sqlite.New(*dsn, logger.Get())
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()
	now := time.Now()

	campaignID := uuid.New().String()
	campaign := &model.Campaign{
		ID:          campaignID,
		Name:        "The Shattered Vale",
		Description: "A frontier valley recovering from a magical cataclysm, where rival factions scavenge the ruins.",
		CreatedAt:   now,
	}
	if err := repo.Campaigns().Create(ctx, campaign); err != nil {
		log.Fatalf("campaign: %v", err)
	}
	fmt.Printf("Campaign: %s (%s)\n", campaign.Name, campaignID)

	// region -> city -> district -> tavern
	chain := []struct {
		name, elemType, description string
	}{
		{"The Ashreach", "region", "A windswept highland region scarred by the cataclysm."},
		{"Emberhold", "city", "The last walled city of the vale, built into a dormant caldera."},
		{"The Cinder Quarter", "district", "A soot-stained district of smiths and salvagers."},
		{"The Molten Tankard", "tavern", "A raucous tavern favored by salvage crews and sellswords."},
	}

	parentID := ""
	for _, e := range chain {
		element := &model.Element{
			ID:          uuid.New().String(),
			CampaignID:  campaignID,
			Name:        e.name,
			Type:        e.elemType,
			Description: e.description,
			CreatedAt:   now,
		}
		if parentID != "" {
			element.ParentID = sql.NullString{String: parentID, Valid: true}
		}
		if err := repo.Elements().Create(ctx, element); err != nil {
			log.Fatalf("element %s: %v", e.name, err)
		}
		fmt.Printf("  %-8s %s (%s)\n", e.elemType, e.name, element.ID)
		parentID = element.ID
	}

	fmt.Println("\nSeeded. Point context_id at the tavern to exercise the full ancestor chain.")
}
