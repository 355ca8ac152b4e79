package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"

	httpClient "github.com/voyago/tripsync/internal/client/api"
	"github.com/voyago/tripsync/internal/client/resolver"
	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/pkg/api"
)

// pushCycle drains the pending queue to the server, one batch per entity
// type. Queue collapse guarantees at most one active entry per entity, so
// a batch never carries two mutations for the same id.
func (e *Engine) pushCycle(ctx context.Context) error {
	pending, err := e.queue.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	token, err := e.tokens.GetAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	byType := make(map[string][]*models.QueueEntry)
	for _, entry := range pending {
		byType[entry.EntityType] = append(byType[entry.EntityType], entry)
	}

	// parents before children: trips sync before their items, votes, chat
	for _, entityType := range models.EntityTypes() {
		entries := byType[entityType]
		if len(entries) == 0 {
			continue
		}

		if err := e.pushBatch(ctx, token, entityType, entries); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) pushBatch(ctx context.Context, token, entityType string, entries []*models.QueueEntry) error {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ClientTimestamp != entries[j].ClientTimestamp {
			return entries[i].ClientTimestamp < entries[j].ClientTimestamp
		}
		return entries[i].QueueID < entries[j].QueueID
	})

	ids := make([]uint64, 0, len(entries))
	mutations := make([]api.Mutation, 0, len(entries))
	byEntityID := make(map[string]*models.QueueEntry, len(entries))

	for _, entry := range entries {
		ids = append(ids, entry.QueueID)
		byEntityID[entry.EntityID] = entry
		mutations = append(mutations, api.Mutation{
			ID:              entry.EntityID,
			EntityType:      entry.EntityType,
			Action:          entry.Action,
			DeviceID:        entry.DeviceID,
			Payload:         entry.PayloadSnapshot,
			ClientTimestamp: entry.ClientTimestamp,
		})
	}

	if err := e.queue.MarkInFlight(ctx, ids); err != nil {
		return fmt.Errorf("mark in flight: %w", err)
	}

	resp, err := e.apiClient.PushBatch(ctx, token, api.PushRequest{
		EntityType: entityType,
		Mutations:  mutations,
	})
	if err != nil {
		if requeueErr := e.queue.RequeueInFlight(ctx, ids, err.Error()); requeueErr != nil {
			e.logger.Error("requeue after failed push", "error", requeueErr)
		}

		if errors.Is(err, httpClient.ErrAuthExpired) {
			e.tokens.InvalidateAccess()
		}

		return fmt.Errorf("push %s batch: %w", entityType, err)
	}

	e.logger.Debug("pushed batch",
		"entity_type", entityType,
		"count", len(mutations),
	)

	for i := range resp.Results {
		result := &resp.Results[i]

		entry, ok := byEntityID[result.ID]
		if !ok {
			e.logger.Warn("push result for unknown entity", "entity_id", result.ID)
			continue
		}

		if err := e.handlePushResult(ctx, entry, result); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) handlePushResult(ctx context.Context, entry *models.QueueEntry, result *api.PushResult) error {
	switch result.Status {
	case api.StatusAccepted:
		if result.ServerVersion != nil {
			e.clock.Observe(result.ServerVersion.VersionTimestamp)

			if err := e.applyServerVersion(ctx, entityFromAPI(result.ServerVersion)); err != nil {
				return err
			}
		}

		if err := e.queue.MarkSynced(ctx, entry.QueueID); err != nil {
			return fmt.Errorf("mark synced: %w", err)
		}

		return nil

	case api.StatusConflict:
		if result.ServerVersion == nil {
			return e.queue.MarkFailed(ctx, entry.QueueID, "conflict without server version")
		}

		return e.handleConflict(ctx, entry, entityFromAPI(result.ServerVersion))

	case api.StatusRejected:
		e.logger.Warn("mutation rejected",
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", result.Error,
		)

		return e.queue.MarkFailed(ctx, entry.QueueID, result.Error)

	default:
		return e.queue.MarkFailed(ctx, entry.QueueID, fmt.Sprintf("unknown push status %q", result.Status))
	}
}

func (e *Engine) handleConflict(ctx context.Context, entry *models.QueueEntry, server *models.Entity) error {
	e.clock.Observe(server.VersionTimestamp)

	decision := e.resolver.Resolve(entry, server)
	record := resolver.Record(entry, server, decision)

	e.logger.Info("push conflict",
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"decision", decision.String(),
	)

	if err := e.conflicts.SaveConflict(ctx, record); err != nil {
		return fmt.Errorf("save conflict record: %w", err)
	}

	switch decision {
	case resolver.DecisionAccept:
		if err := e.applyServerVersion(ctx, server); err != nil {
			return err
		}

		return e.queue.MarkSynced(ctx, entry.QueueID)

	case resolver.DecisionKeep:
		if err := e.queue.MarkSynced(ctx, entry.QueueID); err != nil {
			return fmt.Errorf("drop losing entry: %w", err)
		}

		return e.enqueueSupersede(ctx, entry, entry.PayloadSnapshot)

	default:
		return e.queue.MarkConflict(ctx, entry.QueueID)
	}
}

func (e *Engine) applyServerVersion(ctx context.Context, server *models.Entity) error {
	if server.Deleted {
		if err := e.entities.Tombstone(ctx, server.EntityType, server.ID, server.VersionTimestamp); err != nil {
			return fmt.Errorf("apply server tombstone: %w", err)
		}

		return nil
	}

	if err := e.entities.SaveEntity(ctx, server); err != nil {
		return fmt.Errorf("apply server version: %w", err)
	}

	return nil
}
