package sync

import (
	"context"
	"errors"
	"fmt"

	httpClient "github.com/voyago/tripsync/internal/client/api"
	"github.com/voyago/tripsync/internal/client/resolver"
	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/pkg/api"
)

// pullCycle fetches deltas for every entity type since the watermark and
// applies them. The watermark only advances after every type applied
// cleanly, so a failed pull is re-fetched in full; applying is idempotent.
func (e *Engine) pullCycle(ctx context.Context) error {
	since, err := e.metadata.GetLastPullTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("get pull watermark: %w", err)
	}

	token, err := e.tokens.GetAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	var cutoff int64

	for _, entityType := range models.EntityTypes() {
		resp, err := e.apiClient.PullDelta(ctx, token, entityType, since)
		if err != nil {
			if errors.Is(err, httpClient.ErrAuthExpired) {
				e.tokens.InvalidateAccess()
			}

			return fmt.Errorf("pull %s delta: %w", entityType, err)
		}

		for i := range resp.Items {
			if err := e.applyPulled(ctx, &resp.Items[i]); err != nil {
				return err
			}
		}

		for _, id := range resp.Tombstones {
			if err := e.applyPulledTombstone(ctx, entityType, id, resp.ServerCutoff); err != nil {
				return err
			}
		}

		// the watermark never runs ahead of the slowest cutoff
		if resp.ServerCutoff > 0 && (cutoff == 0 || resp.ServerCutoff < cutoff) {
			cutoff = resp.ServerCutoff
		}
	}

	if cutoff > since {
		if err := e.metadata.SaveLastPullTimestamp(ctx, cutoff); err != nil {
			return fmt.Errorf("save pull watermark: %w", err)
		}
	}

	return nil
}

func (e *Engine) applyPulled(ctx context.Context, item *api.Entity) error {
	e.clock.Observe(item.VersionTimestamp)

	server := entityFromAPI(item)

	pending, err := e.queue.PendingForEntity(ctx, item.EntityType, item.ID)
	if err != nil {
		return fmt.Errorf("check pending for entity: %w", err)
	}

	if len(pending) > 0 {
		return e.reconcilePulled(ctx, pending[len(pending)-1], server)
	}

	existing, err := e.entities.GetEntity(ctx, item.EntityType, item.ID)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return e.applyServerVersion(ctx, server)
		}

		return fmt.Errorf("get local entity: %w", err)
	}

	if server.IsNewerThan(existing) {
		return e.applyServerVersion(ctx, server)
	}

	return nil
}

// reconcilePulled handles a pulled entity that a local unsynced mutation
// also touched.
func (e *Engine) reconcilePulled(ctx context.Context, entry *models.QueueEntry, server *models.Entity) error {
	decision := e.resolver.Resolve(entry, server)
	record := resolver.Record(entry, server, decision)

	e.logger.Info("pull conflict",
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
		// local mutation wins; the next push carries it
		return nil

	default:
		return e.queue.MarkConflict(ctx, entry.QueueID)
	}
}

func (e *Engine) applyPulledTombstone(ctx context.Context, entityType, id string, serverTimestamp int64) error {
	pending, err := e.queue.PendingForEntity(ctx, entityType, id)
	if err != nil {
		return fmt.Errorf("check pending for entity: %w", err)
	}

	// remote deletion trumps any unsynced local edit
	for _, entry := range pending {
		record := resolver.Record(entry, &models.Entity{
			ID:               id,
			EntityType:       entityType,
			VersionTimestamp: serverTimestamp,
			Deleted:          true,
		}, resolver.DecisionAccept)

		if err := e.conflicts.SaveConflict(ctx, record); err != nil {
			return fmt.Errorf("save conflict record: %w", err)
		}

		if err := e.queue.MarkSynced(ctx, entry.QueueID); err != nil {
			return fmt.Errorf("drop entry for deleted entity: %w", err)
		}
	}

	if err := e.entities.Tombstone(ctx, entityType, id, serverTimestamp); err != nil {
		return fmt.Errorf("apply pulled tombstone: %w", err)
	}

	return nil
}
