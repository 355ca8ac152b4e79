package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// UsernamePattern is the allowed username format: latin letters, digits
// and underscores, 3-32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen is the minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length
	MaxUsernameLen = 32

	// MaxTitleLen is the maximum trip or itinerary item title length
	MaxTitleLen = 200

	// MaxChatMessageLen is the maximum chat message length
	MaxChatMessageLen = 4000

	minPasswordLen = 8
)

// ValidateUsername checks that username matches the allowed format.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword checks minimum password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	return nil
}

// ValidateTitle checks a trip or itinerary item title.
func ValidateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}

	return nil
}

// ValidateChatMessage checks a chat message body.
func ValidateChatMessage(content string) error {
	if content == "" {
		return fmt.Errorf("message cannot be empty")
	}

	if utf8.RuneCountInString(content) > MaxChatMessageLen {
		return fmt.Errorf("message must not exceed %d characters", MaxChatMessageLen)
	}

	return nil
}
