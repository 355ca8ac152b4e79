package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid simple", username: "alice", wantErr: false},
		{name: "valid with underscore and digits", username: "trip_planner_42", wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 33), wantErr: true},
		{name: "invalid characters", username: "alice!", wantErr: true},
		{name: "spaces", username: "alice smith", wantErr: true},
		{name: "cyrillic", username: "алиса", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("longenough"))
}

func TestValidateTitle(t *testing.T) {
	assert.Error(t, ValidateTitle(""))
	assert.NoError(t, ValidateTitle("Summer in Lisbon"))
	assert.Error(t, ValidateTitle(strings.Repeat("x", MaxTitleLen+1)))
	// rune count, not byte count
	assert.NoError(t, ValidateTitle(strings.Repeat("ü", MaxTitleLen)))
}

func TestValidateChatMessage(t *testing.T) {
	assert.Error(t, ValidateChatMessage(""))
	assert.NoError(t, ValidateChatMessage("see you at the airport"))
	assert.Error(t, ValidateChatMessage(strings.Repeat("x", MaxChatMessageLen+1)))
}
