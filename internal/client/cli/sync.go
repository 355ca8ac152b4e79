package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (c *Cli) runSync(ctx context.Context) error {
	pending, err := c.engine.GetPendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending mutations: %w", err)
	}

	c.io.Printf("Syncing (%d pending change(s))...\n", pending)

	if err := c.engine.SyncOnce(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	conflicts, err := c.engine.GetConflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	c.io.Println("Sync complete.")
	if len(conflicts) > 0 {
		c.io.Printf("%d conflict(s) need a decision. Run 'tripsync conflicts list'.\n", len(conflicts))
	}

	return nil
}

func (c *Cli) runConflicts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		conflicts, err := c.engine.GetConflicts(ctx)
		if err != nil {
			return err
		}
		return c.render(conflictListTemplate, conflicts)
	case "resolve":
		if len(args) < 3 {
			return fmt.Errorf("usage: tripsync conflicts resolve <queue-id> <mine|theirs>")
		}
		return c.conflictResolve(ctx, args[1], args[2])
	default:
		return fmt.Errorf("unknown conflicts subcommand: %s", args[0])
	}
}

func (c *Cli) conflictResolve(ctx context.Context, rawID, choice string) error {
	queueID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("queue id must be a number: %w", err)
	}

	conflicts, err := c.engine.GetConflicts(ctx)
	if err != nil {
		return err
	}

	switch choice {
	case "theirs":
		// nil payload accepts the server version
		if err := c.engine.ResolveConflict(ctx, queueID, nil); err != nil {
			return err
		}
		c.io.Println("Server version applied.")
	case "mine":
		var found bool
		for _, record := range conflicts {
			if record.QueueID == queueID {
				if err := c.engine.ResolveConflict(ctx, queueID, record.ClientPayload); err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no conflict with queue id %d", queueID)
		}
		c.io.Println("Your version will be pushed and supersedes the server's.")
	default:
		return fmt.Errorf("choice must be 'mine' or 'theirs', got %q", choice)
	}

	return nil
}
