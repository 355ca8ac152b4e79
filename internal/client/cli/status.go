package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	isAuth, err := c.session.IsAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if !isAuth {
		c.io.Println("Not signed in. Run 'tripsync login' to authenticate.")
		return nil
	}

	auth, err := c.session.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	expiresAt := time.Unix(auth.ExpiresAt, 0)

	c.io.Printf("Signed in as:  %s\n", auth.Username)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	c.io.Printf("Sync state:    %s\n", c.engine.State())
	if err := c.engine.LastError(); err != nil {
		c.io.Printf("Last error:    %v\n", err)
	}

	pending, err := c.engine.GetPendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending mutations: %w", err)
	}

	c.io.Println()
	if pending > 0 {
		c.io.Printf("%d change(s) waiting to sync. Run 'tripsync sync' to push now.\n", pending)
	} else {
		c.io.Println("All local changes are synchronized.")
	}

	conflicts, err := c.engine.GetConflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		c.io.Printf("%d conflict(s) need a decision. Run 'tripsync conflicts list'.\n", len(conflicts))
	}

	return nil
}
