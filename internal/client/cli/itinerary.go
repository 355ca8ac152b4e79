package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/voyago/tripsync/internal/models"
)

func (c *Cli) runItinerary(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tripsync itinerary <add|list|edit|delete> <trip-id|item-id>")
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync itinerary add <trip-id>")
		}
		return c.itineraryAdd(ctx, args[1])
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync itinerary list <trip-id>")
		}
		items, err := c.data.ListItinerary(ctx, args[1])
		if err != nil {
			return err
		}
		return c.render(itineraryListTemplate, items)
	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync itinerary edit <item-id>")
		}
		return c.itineraryEdit(ctx, args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync itinerary delete <item-id>")
		}
		if err := c.data.DeleteItineraryItem(ctx, args[1]); err != nil {
			return err
		}
		c.io.Println("Itinerary item deleted.")
		return nil
	default:
		return fmt.Errorf("unknown itinerary subcommand: %s", args[0])
	}
}

func (c *Cli) itineraryAdd(ctx context.Context, tripID string) error {
	c.io.Println("=== New Itinerary Item ===")
	c.io.Println()

	payload, err := c.promptItineraryItem(&models.ItineraryItemPayload{TripID: tripID})
	if err != nil {
		return err
	}
	if payload.Title == "" {
		return fmt.Errorf("title is required")
	}

	id, err := c.data.AddItineraryItem(ctx, payload)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("Itinerary item added: %s\n", id)
	return nil
}

func (c *Cli) itineraryEdit(ctx context.Context, itemID string) error {
	// Items are listed per trip; finding the item needs only its id since
	// the payload carries the trip reference.
	c.io.Println("=== Edit Itinerary Item (empty input keeps the current value) ===")
	c.io.Println()

	current, err := c.itineraryItem(ctx, itemID)
	if err != nil {
		return err
	}

	payload, err := c.promptItineraryItem(current)
	if err != nil {
		return err
	}

	if err := c.data.UpdateItineraryItem(ctx, itemID, payload); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Itinerary item updated.")
	return nil
}

func (c *Cli) itineraryItem(ctx context.Context, itemID string) (*models.ItineraryItemPayload, error) {
	trips, err := c.data.ListTrips(ctx)
	if err != nil {
		return nil, err
	}

	for _, trip := range trips {
		items, err := c.data.ListItinerary(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.ID == itemID {
				return &item.ItineraryItemPayload, nil
			}
		}
	}

	return nil, fmt.Errorf("itinerary item %s not found", itemID)
}

func (c *Cli) promptItineraryItem(current *models.ItineraryItemPayload) (*models.ItineraryItemPayload, error) {
	payload := *current

	if err := c.promptField("Title", &payload.Title); err != nil {
		return nil, err
	}
	if err := c.promptField("Location", &payload.Location); err != nil {
		return nil, err
	}
	if err := c.promptField("Starts at (RFC 3339)", &payload.StartsAt); err != nil {
		return nil, err
	}
	if err := c.promptField("Ends at (RFC 3339)", &payload.EndsAt); err != nil {
		return nil, err
	}
	if err := c.promptField("Notes", &payload.Notes); err != nil {
		return nil, err
	}

	position := ""
	if payload.Position != 0 {
		position = strconv.Itoa(payload.Position)
	}
	if err := c.promptField("Position", &position); err != nil {
		return nil, err
	}
	if position != "" {
		parsed, err := strconv.Atoi(position)
		if err != nil {
			return nil, fmt.Errorf("position must be a number: %w", err)
		}
		payload.Position = parsed
	}

	return &payload, nil
}
