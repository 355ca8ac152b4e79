package cli

import (
	"context"
	"fmt"

	"github.com/voyago/tripsync/internal/models"
)

func (c *Cli) runTrip(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tripsync trip <add|list|show|edit|delete> [id]")
	}

	switch args[0] {
	case "add":
		return c.tripAdd(ctx)
	case "list":
		return c.tripList(ctx)
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync trip show <id>")
		}
		return c.tripShow(ctx, args[1])
	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync trip edit <id>")
		}
		return c.tripEdit(ctx, args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync trip delete <id>")
		}
		return c.tripDelete(ctx, args[1])
	default:
		return fmt.Errorf("unknown trip subcommand: %s", args[0])
	}
}

func (c *Cli) tripAdd(ctx context.Context) error {
	c.io.Println("=== New Trip ===")
	c.io.Println()

	payload, err := c.promptTrip(&models.TripPayload{})
	if err != nil {
		return err
	}
	if payload.Title == "" {
		return fmt.Errorf("title is required")
	}

	id, err := c.data.CreateTrip(ctx, payload)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("Trip created: %s\n", id)
	c.io.Println("It will reach your travel companions on the next sync.")
	return nil
}

func (c *Cli) tripList(ctx context.Context) error {
	trips, err := c.data.ListTrips(ctx)
	if err != nil {
		return err
	}
	return c.render(tripListTemplate, trips)
}

func (c *Cli) tripShow(ctx context.Context, id string) error {
	trip, err := c.data.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	if err := c.render(tripDetailTemplate, trip); err != nil {
		return err
	}

	items, err := c.data.ListItinerary(ctx, id)
	if err != nil {
		return err
	}
	return c.render(itineraryListTemplate, items)
}

func (c *Cli) tripEdit(ctx context.Context, id string) error {
	trip, err := c.data.GetTrip(ctx, id)
	if err != nil {
		return err
	}

	c.io.Println("=== Edit Trip (empty input keeps the current value) ===")
	c.io.Println()

	payload, err := c.promptTrip(&trip.TripPayload)
	if err != nil {
		return err
	}

	if err := c.data.UpdateTrip(ctx, id, payload); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Trip updated.")
	return nil
}

func (c *Cli) tripDelete(ctx context.Context, id string) error {
	trip, err := c.data.GetTrip(ctx, id)
	if err != nil {
		return err
	}

	answer, err := c.io.ReadInput(fmt.Sprintf("Delete trip %q? [y/N]: ", trip.Title))
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		c.io.Println("Aborted.")
		return nil
	}

	if err := c.data.DeleteTrip(ctx, id); err != nil {
		return err
	}

	c.io.Println("Trip deleted. The deletion syncs to every device.")
	return nil
}

// promptTrip fills a trip payload from interactive input, keeping current
// values on empty answers.
func (c *Cli) promptTrip(current *models.TripPayload) (*models.TripPayload, error) {
	payload := *current

	if err := c.promptField("Title", &payload.Title); err != nil {
		return nil, err
	}
	if err := c.promptField("Destination", &payload.Destination); err != nil {
		return nil, err
	}
	if err := c.promptField("Start date (YYYY-MM-DD)", &payload.StartDate); err != nil {
		return nil, err
	}
	if err := c.promptField("End date (YYYY-MM-DD)", &payload.EndDate); err != nil {
		return nil, err
	}
	if err := c.promptField("Description", &payload.Description); err != nil {
		return nil, err
	}

	return &payload, nil
}
