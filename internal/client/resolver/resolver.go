package resolver

import (
	"time"

	"github.com/voyago/tripsync/internal/models"
)

// Decision is the resolver's verdict on a divergent mutation.
type Decision int

const (
	// DecisionAccept - apply the server version, drop the local mutation
	DecisionAccept Decision = iota
	// DecisionKeep - resend the local mutation, overwriting the server
	DecisionKeep
	// DecisionManual - persist a conflict record and wait for the user
	DecisionManual
)

func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionKeep:
		return "keep"
	case DecisionManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Resolver decides between a pending local mutation and the authoritative
// server version of the same entity. It is a pure decision function: no
// storage, no I/O, so replaying the same inputs always yields the same
// verdict on every device.
type Resolver struct {
	sensitive map[string]bool
}

// New creates a resolver that routes the given entity types to manual
// resolution on update/update divergence.
func New(sensitiveTypes ...string) *Resolver {
	sensitive := make(map[string]bool, len(sensitiveTypes))
	for _, entityType := range sensitiveTypes {
		sensitive[entityType] = true
	}
	return &Resolver{sensitive: sensitive}
}

// Default returns a resolver with the standard conflict-sensitive set:
// free-text chat edits and poll votes are surfaced to the user, everything
// else resolves by last-write-wins.
func Default() *Resolver {
	return New(models.EntityTypeChatMessage, models.EntityTypePollVote)
}

// Resolve applies, in order:
//
//  1. tombstone precedence: a delete on either side wins over a concurrent
//     update, regardless of timestamps, so deleted data never resurrects
//  2. manual routing for conflict-sensitive entity types
//  3. last-write-wins on (timestamp, device id): the device id comparison
//     only breaks exact timestamp ties and is never user-facing
func (r *Resolver) Resolve(entry *models.QueueEntry, server *models.Entity) Decision {
	if server.Deleted {
		return DecisionAccept
	}
	if entry.Action == models.ActionDelete {
		return DecisionKeep
	}

	if r.sensitive[entry.EntityType] {
		return DecisionManual
	}

	if server.VersionTimestamp != entry.ClientTimestamp {
		if server.VersionTimestamp > entry.ClientTimestamp {
			return DecisionAccept
		}
		return DecisionKeep
	}

	// same-millisecond writes: deterministic tie-break
	if server.DeviceID > entry.DeviceID {
		return DecisionAccept
	}
	return DecisionKeep
}

// Record builds the conflict record persisted for a divergence, carrying
// both payloads so the user (or a later automatic pass) can choose.
func Record(entry *models.QueueEntry, server *models.Entity, decision Decision) *models.ConflictRecord {
	strategy := models.ResolutionManual
	switch decision {
	case DecisionAccept:
		strategy = models.ResolutionServerWins
	case DecisionKeep:
		strategy = models.ResolutionClientWins
	}

	return &models.ConflictRecord{
		QueueID:         entry.QueueID,
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Strategy:        strategy,
		ClientPayload:   entry.PayloadSnapshot,
		ServerPayload:   server.Payload,
		ClientTimestamp: entry.ClientTimestamp,
		ServerTimestamp: server.VersionTimestamp,
		Resolved:        decision != DecisionManual,
		DetectedAt:      time.Now(),
	}
}
