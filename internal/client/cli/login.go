package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	auth, err := c.session.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Login successful.")
	c.io.Printf("Username: %s\n", auth.Username)

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.Logout(ctx); err != nil {
		return err
	}

	c.io.Println("Logged out. Local trip data is kept; sync resumes on next login.")
	return nil
}
