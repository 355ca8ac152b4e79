package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/voyago/tripsync/internal/models"
)

func (c *Cli) runChat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tripsync chat <trip-id>")
	}
	tripID := args[0]

	auth, err := c.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	trip, err := c.data.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}

	history, err := c.data.ListMessages(ctx, tripID)
	if err != nil {
		return err
	}

	c.io.Printf("=== Chat: %s ===\n", trip.Title)
	c.io.Println()
	for _, message := range history {
		c.printMessage(message.SenderID, message.Content, message.SentAt, auth.UserID)
	}

	chatCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.chat.Connect(chatCtx, tripID, auth.UserID); err != nil {
		c.io.Printf("Live connection unavailable (%v); messages are queued for sync.\n", err)
	}
	defer c.chat.Disconnect()

	go c.printIncoming(chatCtx, auth.UserID)

	c.io.Println()
	c.io.Println("Type a message and press enter. '/edit <message-id> <text>' edits, '/quit' leaves.")

	for {
		line, err := c.io.ReadInput("> ")
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case strings.HasPrefix(line, "/edit "):
			if err := c.editMessage(chatCtx, line, auth.UserID); err != nil {
				c.io.Printf("Edit failed: %v\n", err)
			}
			continue
		}

		c.chat.SendTyping()
		if _, err := c.chat.SendMessage(chatCtx, line); err != nil {
			c.io.Printf("Send failed: %v\n", err)
		}
	}
}

func (c *Cli) editMessage(ctx context.Context, line, userID string) error {
	rest := strings.TrimPrefix(line, "/edit ")
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return fmt.Errorf("usage: /edit <message-id> <new text>")
	}

	if err := c.data.EditMessage(ctx, parts[0], userID, parts[1]); err != nil {
		return err
	}

	c.io.Println("Message edited; the change syncs to everyone.")
	return nil
}

// printIncoming drains the coordinator's ordered message stream. The
// local user's own messages come back too; they confirm delivery.
func (c *Cli) printIncoming(ctx context.Context, selfID string) {
	messages := c.chat.ObserveMessages()
	typing := c.chat.ObserveTyping()

	for {
		select {
		case <-ctx.Done():
			return
		case entity, ok := <-messages:
			if !ok {
				return
			}
			var payload models.ChatMessagePayload
			if err := json.Unmarshal(entity.Payload, &payload); err != nil {
				continue
			}
			if payload.SenderID == selfID {
				continue
			}
			content := payload.Content
			if payload.Edited {
				content += " (edited)"
			}
			c.printMessage(payload.SenderID, content, payload.SentAt, selfID)
		case indicator, ok := <-typing:
			if !ok {
				return
			}
			c.io.Printf("... %s is typing\n", indicator.UserID)
		}
	}
}

func (c *Cli) printMessage(senderID, content string, sentAt int64, selfID string) {
	sender := senderID
	if senderID == selfID {
		sender = "you"
	}
	stamp := time.UnixMilli(sentAt).Format("15:04")
	c.io.Printf("[%s] %s: %s\n", stamp, sender, content)
}
