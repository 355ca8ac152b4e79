package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/internal/server/storage"
	"github.com/voyago/tripsync/pkg/api"
)

type contextKey string

const (
	// UserIDKey is the context key carrying the authenticated user id
	UserIDKey contextKey = "user_id"
	// UsernameKey is the context key carrying the authenticated username
	UsernameKey contextKey = "username"
)

// GetUserID extracts the user id set by the auth middleware
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsername extracts the username set by the auth middleware
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// maxPayloadSize bounds a single entity payload.
const maxPayloadSize = 256 * 1024

// ChatPublisher commits a chat message to its room log and fans it out to
// connected members. Implemented by the websocket hub; used here so
// messages queued offline reach the room the moment they are pushed.
type ChatPublisher interface {
	Publish(ctx context.Context, roomID, messageID, senderID string, payload json.RawMessage) (int64, error)
	PublishEdit(ctx context.Context, roomID, messageID, senderID string, payload json.RawMessage) (int64, error)
}

// SyncHandler serves the delta sync protocol: batched mutation pushes and
// watermark pulls.
type SyncHandler struct {
	logger   *slog.Logger
	entities storage.EntityStorage
	chat     ChatPublisher
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(logger *slog.Logger, entities storage.EntityStorage, chat ChatPublisher) *SyncHandler {
	return &SyncHandler{
		logger:   logger,
		entities: entities,
		chat:     chat,
	}
}

// Push handles POST /api/v1/sync/push
// Mutations are judged one by one in request order; the response carries a
// verdict per mutation so one bad entry never fails the batch.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("user id not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode push request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !isKnownEntityType(req.EntityType) {
		h.sendError(w, fmt.Sprintf("unknown entity type %q", req.EntityType), http.StatusBadRequest)
		return
	}

	h.logger.InfoContext(ctx, "push batch",
		slog.String("user_id", userID),
		slog.String("entity_type", req.EntityType),
		slog.Int("count", len(req.Mutations)))

	resp := api.PushResponse{
		Results: make([]api.PushResult, 0, len(req.Mutations)),
	}

	for i := range req.Mutations {
		result, err := h.processMutation(ctx, userID, req.EntityType, &req.Mutations[i])
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to process mutation",
				slog.String("entity_id", req.Mutations[i].ID),
				slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp.Results = append(resp.Results, *result)
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Pull handles GET /api/v1/sync/pull?type=trip&since=1712000000000
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("user id not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entityType := r.URL.Query().Get("type")
	if !isKnownEntityType(entityType) {
		h.sendError(w, fmt.Sprintf("unknown entity type %q", entityType), http.StatusBadRequest)
		return
	}

	var since int64
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		var err error
		since, err = strconv.ParseInt(sinceStr, 10, 64)
		if err != nil {
			h.sendError(w, "invalid since parameter", http.StatusBadRequest)
			return
		}
	}

	delta, err := h.entities.ListEntitiesSince(ctx, entityType, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list entities",
			slog.String("entity_type", entityType),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.PullResponse{
		Items:        make([]api.Entity, 0, len(delta.Items)),
		Tombstones:   delta.TombstoneIDs,
		ServerCutoff: delta.Cutoff,
	}

	for _, entity := range delta.Items {
		resp.Items = append(resp.Items, entityToAPI(entity))
	}

	h.logger.DebugContext(ctx, "pull delta",
		slog.String("user_id", userID),
		slog.String("entity_type", entityType),
		slog.Int64("since", since),
		slog.Int("items", len(resp.Items)),
		slog.Int("tombstones", len(resp.Tombstones)))

	h.sendJSON(w, resp, http.StatusOK)
}

// processMutation applies last-write-wins to one pushed mutation. Never
// returns an error for a losing or malformed mutation; those come back as
// conflict or rejected verdicts. The error return is for storage failures
// only.
func (h *SyncHandler) processMutation(ctx context.Context, userID, entityType string, m *api.Mutation) (*api.PushResult, error) {
	if m.EntityType != entityType {
		return rejected(m.ID, "mutation type does not match batch type"), nil
	}

	if m.DeviceID == "" {
		return rejected(m.ID, "device_id is required"), nil
	}

	if len(m.Payload) > maxPayloadSize {
		return rejected(m.ID, "payload too large"), nil
	}

	switch m.Action {
	case models.ActionCreate, models.ActionUpdate, models.ActionDelete:
	default:
		return rejected(m.ID, fmt.Sprintf("unknown action %q", m.Action)), nil
	}

	stored, err := h.entities.GetEntity(ctx, m.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrEntityNotFound) {
			return nil, fmt.Errorf("get entity: %w", err)
		}
		stored = nil
	}

	// Tombstones never lose. A deleted entity stays deleted no matter
	// what timestamp the mutation carries; the client resolves by
	// applying the tombstone.
	if stored != nil && stored.Deleted {
		return conflict(m.ID, stored), nil
	}

	if stored != nil && !mutationWins(m, stored) {
		return conflict(m.ID, stored), nil
	}

	entity, err := h.acceptMutation(ctx, userID, m, stored)
	if err != nil {
		return nil, err
	}

	return &api.PushResult{
		ID:            m.ID,
		Status:        api.StatusAccepted,
		ServerVersion: apiEntityPtr(entity),
	}, nil
}

// mutationWins compares a mutation against the stored row under
// last-write-wins: client timestamp first, device id breaks ties.
func mutationWins(m *api.Mutation, stored *models.Entity) bool {
	if m.ClientTimestamp != stored.VersionTimestamp {
		return m.ClientTimestamp > stored.VersionTimestamp
	}
	return m.DeviceID > stored.DeviceID
}

func (h *SyncHandler) acceptMutation(ctx context.Context, userID string, m *api.Mutation, stored *models.Entity) (*models.Entity, error) {
	now := time.Now().UTC()

	entity := &models.Entity{
		ID:               m.ID,
		EntityType:       m.EntityType,
		DeviceID:         m.DeviceID,
		Payload:          m.Payload,
		VersionTimestamp: assignVersion(stored),
		Deleted:          m.Action == models.ActionDelete,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if stored != nil {
		entity.CreatedAt = stored.CreatedAt
	}

	if entity.Deleted {
		entity.Payload = nil
	}

	if err := h.entities.UpsertEntity(ctx, entity); err != nil {
		return nil, fmt.Errorf("upsert entity: %w", err)
	}

	// Chat messages pushed from the offline queue also enter the room
	// log so connected members see them immediately with a proper
	// sequence. Creates go through Publish, which is idempotent by
	// message id; edits rewrite the committed payload in place and are
	// relayed to the room under the original sequence.
	if m.EntityType == models.EntityTypeChatMessage && !entity.Deleted && h.chat != nil {
		var payload api.ChatMessagePayload
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			h.logger.WarnContext(ctx, "chat mutation with malformed payload", slog.String("entity_id", m.ID))
			return entity, nil
		}

		if err := h.relayChat(ctx, userID, payload.RoomID, m); err != nil {
			return nil, err
		}
	}

	return entity, nil
}

func (h *SyncHandler) relayChat(ctx context.Context, userID, roomID string, m *api.Mutation) error {
	if m.Action == models.ActionUpdate {
		_, err := h.chat.PublishEdit(ctx, roomID, m.ID, userID, m.Payload)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrMessageNotFound) {
			return fmt.Errorf("publish chat edit: %w", err)
		}
		// edit of a message that never reached the log: commit it fresh
	}

	if _, err := h.chat.Publish(ctx, roomID, m.ID, userID, m.Payload); err != nil {
		return fmt.Errorf("publish chat message: %w", err)
	}

	return nil
}

// assignVersion produces the authoritative version timestamp for an
// accepted mutation: server wall clock millis, bumped past the stored
// version when the clock lags.
func assignVersion(stored *models.Entity) int64 {
	version := time.Now().UnixMilli()
	if stored != nil && stored.VersionTimestamp >= version {
		version = stored.VersionTimestamp + 1
	}
	return version
}

func isKnownEntityType(entityType string) bool {
	for _, known := range models.EntityTypes() {
		if entityType == known {
			return true
		}
	}
	return false
}

func rejected(id, reason string) *api.PushResult {
	return &api.PushResult{
		ID:     id,
		Status: api.StatusRejected,
		Error:  reason,
	}
}

func conflict(id string, stored *models.Entity) *api.PushResult {
	return &api.PushResult{
		ID:            id,
		Status:        api.StatusConflict,
		ServerVersion: apiEntityPtr(stored),
	}
}

func entityToAPI(entity *models.Entity) api.Entity {
	return api.Entity{
		ID:               entity.ID,
		EntityType:       entity.EntityType,
		DeviceID:         entity.DeviceID,
		Payload:          entity.Payload,
		VersionTimestamp: entity.VersionTimestamp,
		Deleted:          entity.Deleted,
	}
}

func apiEntityPtr(entity *models.Entity) *api.Entity {
	wire := entityToAPI(entity)
	return &wire
}

func (h *SyncHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func (h *SyncHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
