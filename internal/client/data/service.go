// Package data is the typed facade over the local entity cache and the
// mutation queue. Every write goes through QueueStorage.Enqueue so the
// optimistic local effect and the pending mutation land in one
// transaction; the sync engine picks the mutation up later.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/clock"
	"github.com/voyago/tripsync/internal/models"
)

// Trip is a trip entity decoded for display.
type Trip struct {
	ID string
	models.TripPayload
	VersionTimestamp int64
}

// ItineraryItem is an itinerary entry decoded for display.
type ItineraryItem struct {
	ID string
	models.ItineraryItemPayload
	VersionTimestamp int64
}

// Poll is a poll decoded for display.
type Poll struct {
	ID string
	models.PollPayload
	VersionTimestamp int64
}

// PollOption is a selectable poll answer decoded for display.
type PollOption struct {
	ID string
	models.PollOptionPayload
	Votes int
}

// ChatMessage is a stored chat message decoded for display.
type ChatMessage struct {
	ID string
	models.ChatMessagePayload
}

// Service exposes trip, itinerary and poll operations on local storage.
type Service struct {
	entities storage.EntityStorage
	queue    storage.QueueStorage
	clock    *clock.DeviceClock
}

// NewService creates a data service over the given local store.
func NewService(entities storage.EntityStorage, queue storage.QueueStorage, clk *clock.DeviceClock) *Service {
	return &Service{
		entities: entities,
		queue:    queue,
		clock:    clk,
	}
}

// CreateTrip stores a new trip locally and queues it for sync. Returns
// the generated trip id.
func (s *Service) CreateTrip(ctx context.Context, payload *models.TripPayload) (string, error) {
	id := uuid.New().String()
	if err := s.enqueue(ctx, models.EntityTypeTrip, id, models.ActionCreate, payload); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateTrip replaces a trip's payload.
func (s *Service) UpdateTrip(ctx context.Context, id string, payload *models.TripPayload) error {
	if _, err := s.live(ctx, models.EntityTypeTrip, id); err != nil {
		return err
	}
	return s.enqueue(ctx, models.EntityTypeTrip, id, models.ActionUpdate, payload)
}

// DeleteTrip tombstones a trip. Itinerary items and polls under it stay
// untouched; listings filter them out through the missing parent.
func (s *Service) DeleteTrip(ctx context.Context, id string) error {
	return s.enqueue(ctx, models.EntityTypeTrip, id, models.ActionDelete, nil)
}

// GetTrip retrieves one trip by id.
func (s *Service) GetTrip(ctx context.Context, id string) (*Trip, error) {
	entity, err := s.live(ctx, models.EntityTypeTrip, id)
	if err != nil {
		return nil, err
	}
	return decodeTrip(entity)
}

// ListTrips returns all local trips sorted by title.
func (s *Service) ListTrips(ctx context.Context) ([]*Trip, error) {
	entities, err := s.entities.ListEntities(ctx, models.EntityTypeTrip)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}

	trips := make([]*Trip, 0, len(entities))
	for _, entity := range entities {
		trip, err := decodeTrip(entity)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	sort.Slice(trips, func(i, j int) bool { return trips[i].Title < trips[j].Title })
	return trips, nil
}

// AddItineraryItem appends an activity to a trip's itinerary. Returns the
// generated item id.
func (s *Service) AddItineraryItem(ctx context.Context, payload *models.ItineraryItemPayload) (string, error) {
	if _, err := s.live(ctx, models.EntityTypeTrip, payload.TripID); err != nil {
		return "", fmt.Errorf("trip %s: %w", payload.TripID, err)
	}

	id := uuid.New().String()
	if err := s.enqueue(ctx, models.EntityTypeItineraryItem, id, models.ActionCreate, payload); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateItineraryItem replaces an itinerary item's payload.
func (s *Service) UpdateItineraryItem(ctx context.Context, id string, payload *models.ItineraryItemPayload) error {
	if _, err := s.live(ctx, models.EntityTypeItineraryItem, id); err != nil {
		return err
	}
	return s.enqueue(ctx, models.EntityTypeItineraryItem, id, models.ActionUpdate, payload)
}

// DeleteItineraryItem tombstones an itinerary item.
func (s *Service) DeleteItineraryItem(ctx context.Context, id string) error {
	return s.enqueue(ctx, models.EntityTypeItineraryItem, id, models.ActionDelete, nil)
}

// ListItinerary returns a trip's itinerary ordered by position, then
// start time.
func (s *Service) ListItinerary(ctx context.Context, tripID string) ([]*ItineraryItem, error) {
	entities, err := s.entities.ListEntities(ctx, models.EntityTypeItineraryItem)
	if err != nil {
		return nil, fmt.Errorf("list itinerary: %w", err)
	}

	items := make([]*ItineraryItem, 0, len(entities))
	for _, entity := range entities {
		var payload models.ItineraryItemPayload
		if err := json.Unmarshal(entity.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode itinerary item %s: %w", entity.ID, err)
		}
		if payload.TripID != tripID {
			continue
		}
		items = append(items, &ItineraryItem{
			ID:                   entity.ID,
			ItineraryItemPayload: payload,
			VersionTimestamp:     entity.VersionTimestamp,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].StartsAt < items[j].StartsAt
	})
	return items, nil
}

// CreatePoll opens a group decision poll on a trip. Returns the generated
// poll id.
func (s *Service) CreatePoll(ctx context.Context, payload *models.PollPayload) (string, error) {
	if _, err := s.live(ctx, models.EntityTypeTrip, payload.TripID); err != nil {
		return "", fmt.Errorf("trip %s: %w", payload.TripID, err)
	}

	id := uuid.New().String()
	if err := s.enqueue(ctx, models.EntityTypePoll, id, models.ActionCreate, payload); err != nil {
		return "", err
	}
	return id, nil
}

// ClosePoll marks a poll closed. Votes arriving afterwards still sync but
// the closed flag tells every device to stop offering the ballot.
func (s *Service) ClosePoll(ctx context.Context, id string) error {
	entity, err := s.live(ctx, models.EntityTypePoll, id)
	if err != nil {
		return err
	}

	var payload models.PollPayload
	if err := json.Unmarshal(entity.Payload, &payload); err != nil {
		return fmt.Errorf("decode poll %s: %w", id, err)
	}
	payload.Closed = true

	return s.enqueue(ctx, models.EntityTypePoll, id, models.ActionUpdate, &payload)
}

// AddPollOption adds a selectable answer to an open poll.
func (s *Service) AddPollOption(ctx context.Context, payload *models.PollOptionPayload) (string, error) {
	poll, err := s.getPoll(ctx, payload.PollID)
	if err != nil {
		return "", err
	}
	if poll.Closed {
		return "", fmt.Errorf("poll %s is closed", payload.PollID)
	}

	id := uuid.New().String()
	if err := s.enqueue(ctx, models.EntityTypePollOption, id, models.ActionCreate, payload); err != nil {
		return "", err
	}
	return id, nil
}

// Vote records the voter's choice. The vote entity id is derived from the
// poll and the voter, so changing one's mind updates the same entity and
// last-write-wins keeps exactly one vote per voter per poll on every
// device.
func (s *Service) Vote(ctx context.Context, pollID, optionID, voterID string) error {
	poll, err := s.getPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.Closed {
		return fmt.Errorf("poll %s is closed", pollID)
	}
	if _, err := s.live(ctx, models.EntityTypePollOption, optionID); err != nil {
		return fmt.Errorf("option %s: %w", optionID, err)
	}

	payload := &models.PollVotePayload{
		PollID:   pollID,
		OptionID: optionID,
		VoterID:  voterID,
	}

	id := voteID(pollID, voterID)
	action := models.ActionUpdate
	if _, err := s.entities.GetEntity(ctx, models.EntityTypePollVote, id); err != nil {
		if !errors.Is(err, storage.ErrEntityNotFound) {
			return fmt.Errorf("get vote: %w", err)
		}
		action = models.ActionCreate
	}

	return s.enqueue(ctx, models.EntityTypePollVote, id, action, payload)
}

// ListPolls returns a trip's polls sorted by question.
func (s *Service) ListPolls(ctx context.Context, tripID string) ([]*Poll, error) {
	entities, err := s.entities.ListEntities(ctx, models.EntityTypePoll)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}

	polls := make([]*Poll, 0, len(entities))
	for _, entity := range entities {
		var payload models.PollPayload
		if err := json.Unmarshal(entity.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode poll %s: %w", entity.ID, err)
		}
		if payload.TripID != tripID {
			continue
		}
		polls = append(polls, &Poll{
			ID:               entity.ID,
			PollPayload:      payload,
			VersionTimestamp: entity.VersionTimestamp,
		})
	}

	sort.Slice(polls, func(i, j int) bool { return polls[i].Question < polls[j].Question })
	return polls, nil
}

// PollResults returns a poll's options with their current local vote
// counts, sorted by votes descending then text.
func (s *Service) PollResults(ctx context.Context, pollID string) ([]*PollOption, error) {
	if _, err := s.getPoll(ctx, pollID); err != nil {
		return nil, err
	}

	optionEntities, err := s.entities.ListEntities(ctx, models.EntityTypePollOption)
	if err != nil {
		return nil, fmt.Errorf("list poll options: %w", err)
	}

	options := make([]*PollOption, 0, len(optionEntities))
	byID := make(map[string]*PollOption)
	for _, entity := range optionEntities {
		var payload models.PollOptionPayload
		if err := json.Unmarshal(entity.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode poll option %s: %w", entity.ID, err)
		}
		if payload.PollID != pollID {
			continue
		}
		option := &PollOption{ID: entity.ID, PollOptionPayload: payload}
		options = append(options, option)
		byID[entity.ID] = option
	}

	voteEntities, err := s.entities.ListEntities(ctx, models.EntityTypePollVote)
	if err != nil {
		return nil, fmt.Errorf("list poll votes: %w", err)
	}
	for _, entity := range voteEntities {
		var payload models.PollVotePayload
		if err := json.Unmarshal(entity.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode poll vote %s: %w", entity.ID, err)
		}
		if payload.PollID != pollID {
			continue
		}
		if option, ok := byID[payload.OptionID]; ok {
			option.Votes++
		}
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].Votes != options[j].Votes {
			return options[i].Votes > options[j].Votes
		}
		return options[i].Text < options[j].Text
	})
	return options, nil
}

// EditMessage replaces a sent message's content. Only the original sender
// may edit; the edited flag travels with the payload so other devices can
// mark it. Edits are conflict-sensitive: concurrent edits of the same
// message park as a manual conflict instead of silently losing one.
func (s *Service) EditMessage(ctx context.Context, messageID, editorID, content string) error {
	entity, err := s.live(ctx, models.EntityTypeChatMessage, messageID)
	if err != nil {
		return err
	}

	var payload models.ChatMessagePayload
	if err := json.Unmarshal(entity.Payload, &payload); err != nil {
		return fmt.Errorf("decode chat message %s: %w", messageID, err)
	}
	if payload.SenderID != editorID {
		return fmt.Errorf("message %s was sent by someone else", messageID)
	}

	payload.Content = content
	payload.Edited = true

	return s.enqueue(ctx, models.EntityTypeChatMessage, messageID, models.ActionUpdate, &payload)
}

// ListMessages returns the locally stored chat history of a room ordered
// by send time. The room id is the trip id.
func (s *Service) ListMessages(ctx context.Context, roomID string) ([]*ChatMessage, error) {
	entities, err := s.entities.ListEntities(ctx, models.EntityTypeChatMessage)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	messages := make([]*ChatMessage, 0, len(entities))
	for _, entity := range entities {
		var payload models.ChatMessagePayload
		if err := json.Unmarshal(entity.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode chat message %s: %w", entity.ID, err)
		}
		if payload.RoomID != roomID {
			continue
		}
		messages = append(messages, &ChatMessage{ID: entity.ID, ChatMessagePayload: payload})
	}

	sort.Slice(messages, func(i, j int) bool { return messages[i].SentAt < messages[j].SentAt })
	return messages, nil
}

func (s *Service) getPoll(ctx context.Context, pollID string) (*models.PollPayload, error) {
	entity, err := s.live(ctx, models.EntityTypePoll, pollID)
	if err != nil {
		return nil, fmt.Errorf("poll %s: %w", pollID, err)
	}

	var payload models.PollPayload
	if err := json.Unmarshal(entity.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode poll %s: %w", pollID, err)
	}
	return &payload, nil
}

// live returns the entity or ErrEntityNotFound when it is absent or
// tombstoned.
func (s *Service) live(ctx context.Context, entityType, id string) (*models.Entity, error) {
	entity, err := s.entities.GetEntity(ctx, entityType, id)
	if err != nil {
		return nil, err
	}
	if entity.Deleted {
		return nil, storage.ErrEntityNotFound
	}
	return entity, nil
}

func (s *Service) enqueue(ctx context.Context, entityType, id, action string, payload any) error {
	var snapshot json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", entityType, err)
		}
		snapshot = data
	}

	entry := &models.QueueEntry{
		EntityType:      entityType,
		EntityID:        id,
		Action:          action,
		DeviceID:        s.clock.DeviceID(),
		PayloadSnapshot: snapshot,
		ClientTimestamp: s.clock.Now(),
	}

	optimistic := &models.Entity{
		ID:         id,
		EntityType: entityType,
		DeviceID:   s.clock.DeviceID(),
		Payload:    snapshot,
	}

	if _, err := s.queue.Enqueue(ctx, entry, optimistic); err != nil {
		return fmt.Errorf("enqueue %s %s: %w", action, entityType, err)
	}
	return nil
}

func decodeTrip(entity *models.Entity) (*Trip, error) {
	var payload models.TripPayload
	if err := json.Unmarshal(entity.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode trip %s: %w", entity.ID, err)
	}
	return &Trip{
		ID:               entity.ID,
		TripPayload:      payload,
		VersionTimestamp: entity.VersionTimestamp,
	}, nil
}

// voteID derives a stable vote entity id from the poll and the voter so
// every device that records a vote for the same pair converges on one
// entity.
func voteID(pollID, voterID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("poll-vote/"+pollID+"/"+voterID)).String()
}
