package cli

import (
	"context"
	"fmt"
)

// Run dispatches a single command invocation.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "trip":
		return c.runTrip(ctx, args)
	case "itinerary":
		return c.runItinerary(ctx, args)
	case "poll":
		return c.runPoll(ctx, args)
	case "chat":
		return c.runChat(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "conflicts":
		return c.runConflicts(ctx, args)
	case "help", "":
		c.PrintUsage()
		return nil
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// PrintUsage prints the command reference.
func (c *Cli) PrintUsage() {
	c.io.Println(usageText)
}
