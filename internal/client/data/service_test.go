package data

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/client/storage/boltdb"
	"github.com/voyago/tripsync/internal/clock"
	"github.com/voyago/tripsync/internal/models"
)

func newTestService(t *testing.T) (*Service, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return NewService(store, store, clock.NewWithDeviceID("device-a")), store
}

func createTrip(t *testing.T, svc *Service, title string) string {
	t.Helper()

	id, err := svc.CreateTrip(context.Background(), &models.TripPayload{
		Title:       title,
		Destination: "Lisbon",
	})
	require.NoError(t, err)
	return id
}

func TestService_CreateAndGetTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateTrip(ctx, &models.TripPayload{
		Title:       "Summer in Portugal",
		Destination: "Lisbon",
		StartDate:   "2026-07-01",
		EndDate:     "2026-07-14",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	trip, err := svc.GetTrip(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Summer in Portugal", trip.Title)
	assert.Equal(t, "Lisbon", trip.Destination)

	// The create must be queued for sync.
	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.EntityTypeTrip, pending[0].EntityType)
	assert.Equal(t, models.ActionCreate, pending[0].Action)
	assert.Equal(t, id, pending[0].EntityID)
	assert.Equal(t, "device-a", pending[0].DeviceID)
	assert.Positive(t, pending[0].ClientTimestamp)
}

func TestService_UpdateTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrip(t, svc, "Draft")

	err := svc.UpdateTrip(ctx, id, &models.TripPayload{Title: "Final", Destination: "Porto"})
	require.NoError(t, err)

	trip, err := svc.GetTrip(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Final", trip.Title)
	assert.Equal(t, "Porto", trip.Destination)
}

func TestService_UpdateMissingTrip(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateTrip(context.Background(), "no-such-trip", &models.TripPayload{Title: "x"})
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestService_DeleteTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrip(t, svc, "Doomed")
	require.NoError(t, svc.DeleteTrip(ctx, id))

	_, err := svc.GetTrip(ctx, id)
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	trips, err := svc.ListTrips(ctx)
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestService_ListTripsSorted(t *testing.T) {
	svc, _ := newTestService(t)

	createTrip(t, svc, "Winter")
	createTrip(t, svc, "Autumn")
	createTrip(t, svc, "Spring")

	trips, err := svc.ListTrips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, "Autumn", trips[0].Title)
	assert.Equal(t, "Spring", trips[1].Title)
	assert.Equal(t, "Winter", trips[2].Title)
}

func TestService_ItineraryOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tripID := createTrip(t, svc, "City break")

	_, err := svc.AddItineraryItem(ctx, &models.ItineraryItemPayload{
		TripID: tripID, Title: "Dinner", Position: 2,
	})
	require.NoError(t, err)
	_, err = svc.AddItineraryItem(ctx, &models.ItineraryItemPayload{
		TripID: tripID, Title: "Museum", Position: 1, StartsAt: "2026-07-02T10:00:00Z",
	})
	require.NoError(t, err)
	_, err = svc.AddItineraryItem(ctx, &models.ItineraryItemPayload{
		TripID: tripID, Title: "Breakfast", Position: 1, StartsAt: "2026-07-02T08:00:00Z",
	})
	require.NoError(t, err)

	items, err := svc.ListItinerary(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Breakfast", items[0].Title)
	assert.Equal(t, "Museum", items[1].Title)
	assert.Equal(t, "Dinner", items[2].Title)
}

func TestService_ItineraryRequiresTrip(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItineraryItem(context.Background(), &models.ItineraryItemPayload{
		TripID: "missing", Title: "Dinner",
	})
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestService_ItineraryScopedToTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tripA := createTrip(t, svc, "A")
	tripB := createTrip(t, svc, "B")

	_, err := svc.AddItineraryItem(ctx, &models.ItineraryItemPayload{TripID: tripA, Title: "Only in A"})
	require.NoError(t, err)

	items, err := svc.ListItinerary(ctx, tripB)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_PollVotingAndResults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tripID := createTrip(t, svc, "Group trip")

	pollID, err := svc.CreatePoll(ctx, &models.PollPayload{
		TripID:   tripID,
		Question: "Which restaurant?",
	})
	require.NoError(t, err)

	optA, err := svc.AddPollOption(ctx, &models.PollOptionPayload{PollID: pollID, Text: "Tapas"})
	require.NoError(t, err)
	optB, err := svc.AddPollOption(ctx, &models.PollOptionPayload{PollID: pollID, Text: "Ramen"})
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, pollID, optA, "alice"))
	require.NoError(t, svc.Vote(ctx, pollID, optA, "bob"))
	require.NoError(t, svc.Vote(ctx, pollID, optB, "carol"))

	results, err := svc.PollResults(ctx, pollID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Tapas", results[0].Text)
	assert.Equal(t, 2, results[0].Votes)
	assert.Equal(t, "Ramen", results[1].Text)
	assert.Equal(t, 1, results[1].Votes)
}

func TestService_RevoteReplacesVote(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tripID := createTrip(t, svc, "Group trip")
	pollID, err := svc.CreatePoll(ctx, &models.PollPayload{TripID: tripID, Question: "Day trip?"})
	require.NoError(t, err)

	optA, err := svc.AddPollOption(ctx, &models.PollOptionPayload{PollID: pollID, Text: "Sintra"})
	require.NoError(t, err)
	optB, err := svc.AddPollOption(ctx, &models.PollOptionPayload{PollID: pollID, Text: "Cascais"})
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, pollID, optA, "alice"))
	require.NoError(t, svc.Vote(ctx, pollID, optB, "alice"))

	results, err := svc.PollResults(ctx, pollID)
	require.NoError(t, err)
	total := 0
	for _, option := range results {
		total += option.Votes
		if option.ID == optB {
			assert.Equal(t, 1, option.Votes, "the replacement vote counts")
		}
	}
	assert.Equal(t, 1, total, "revoting must not add a second ballot")
}

func TestService_EditMessage(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	payload, err := json.Marshal(models.ChatMessagePayload{
		RoomID:   "trip-1",
		SenderID: "alice",
		Content:  "see you at 9",
		SentAt:   1000,
	})
	require.NoError(t, err)
	require.NoError(t, store.SaveEntity(ctx, &models.Entity{
		ID:         "msg-1",
		EntityType: models.EntityTypeChatMessage,
		DeviceID:   "device-a",
		Payload:    payload,
	}))

	err = svc.EditMessage(ctx, "msg-1", "bob", "see you at 10")
	assert.ErrorContains(t, err, "someone else")

	require.NoError(t, svc.EditMessage(ctx, "msg-1", "alice", "see you at 10"))

	messages, err := svc.ListMessages(ctx, "trip-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "see you at 10", messages[0].Content)
	assert.True(t, messages[0].Edited)
	assert.Equal(t, int64(1000), messages[0].SentAt, "edits keep the original send time")
}

func TestService_ClosedPollRejectsVotes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tripID := createTrip(t, svc, "Group trip")
	pollID, err := svc.CreatePoll(ctx, &models.PollPayload{TripID: tripID, Question: "Hotel?"})
	require.NoError(t, err)

	optA, err := svc.AddPollOption(ctx, &models.PollOptionPayload{PollID: pollID, Text: "Hostel"})
	require.NoError(t, err)

	require.NoError(t, svc.ClosePoll(ctx, pollID))

	err = svc.Vote(ctx, pollID, optA, "alice")
	assert.ErrorContains(t, err, "closed")

	_, err = svc.AddPollOption(ctx, &models.PollOptionPayload{PollID: pollID, Text: "Late idea"})
	assert.ErrorContains(t, err, "closed")
}
