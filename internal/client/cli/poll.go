package cli

import (
	"context"
	"fmt"

	"github.com/voyago/tripsync/internal/models"
)

func (c *Cli) runPoll(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tripsync poll <create|list|option|vote|results|close> ...")
	}

	switch args[0] {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync poll create <trip-id>")
		}
		return c.pollCreate(ctx, args[1])
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync poll list <trip-id>")
		}
		polls, err := c.data.ListPolls(ctx, args[1])
		if err != nil {
			return err
		}
		return c.render(pollListTemplate, polls)
	case "option":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync poll option <poll-id>")
		}
		return c.pollOption(ctx, args[1])
	case "vote":
		if len(args) < 3 {
			return fmt.Errorf("usage: tripsync poll vote <poll-id> <option-id>")
		}
		return c.pollVote(ctx, args[1], args[2])
	case "results":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync poll results <poll-id>")
		}
		results, err := c.data.PollResults(ctx, args[1])
		if err != nil {
			return err
		}
		return c.render(pollResultsTemplate, results)
	case "close":
		if len(args) < 2 {
			return fmt.Errorf("usage: tripsync poll close <poll-id>")
		}
		if err := c.data.ClosePoll(ctx, args[1]); err != nil {
			return err
		}
		c.io.Println("Poll closed. No further votes are accepted.")
		return nil
	default:
		return fmt.Errorf("unknown poll subcommand: %s", args[0])
	}
}

func (c *Cli) pollCreate(ctx context.Context, tripID string) error {
	c.io.Println("=== New Poll ===")
	c.io.Println()

	payload := models.PollPayload{TripID: tripID}
	if err := c.promptField("Question", &payload.Question); err != nil {
		return err
	}
	if payload.Question == "" {
		return fmt.Errorf("question is required")
	}
	if err := c.promptField("Closes at (RFC 3339, optional)", &payload.ClosesAt); err != nil {
		return err
	}

	id, err := c.data.CreatePoll(ctx, &payload)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("Poll created: %s\n", id)
	c.io.Println("Add answers with 'tripsync poll option' before sharing.")
	return nil
}

func (c *Cli) pollOption(ctx context.Context, pollID string) error {
	payload := models.PollOptionPayload{PollID: pollID}
	if err := c.promptField("Option text", &payload.Text); err != nil {
		return err
	}
	if payload.Text == "" {
		return fmt.Errorf("option text is required")
	}

	id, err := c.data.AddPollOption(ctx, &payload)
	if err != nil {
		return err
	}

	c.io.Printf("Option added: %s\n", id)
	return nil
}

func (c *Cli) pollVote(ctx context.Context, pollID, optionID string) error {
	auth, err := c.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := c.data.Vote(ctx, pollID, optionID, auth.UserID); err != nil {
		return err
	}

	c.io.Println("Vote recorded. Voting again for this poll replaces it.")
	return nil
}
