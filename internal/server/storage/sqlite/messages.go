package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/voyago/tripsync/internal/server/storage"
)

// AppendMessage commits a message to the room log. Redelivery of a message
// id already in the log returns the original sequence with created=false.
// The seq read and the insert run in one transaction so the pair holds
// the connection; UNIQUE(room_id, seq) backstops the assignment.
func (s *Storage) AppendMessage(
	ctx context.Context,
	roomID, messageID, senderID string,
	payload json.RawMessage,
) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT seq FROM chat_messages WHERE message_id = ?`, messageID,
	).Scan(&existing)

	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("failed to check message: %w", err)
	}

	var seq int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM chat_messages WHERE room_id = ?`, roomID,
	).Scan(&seq)
	if err != nil {
		return 0, false, fmt.Errorf("failed to assign sequence: %w", err)
	}

	query := `
		INSERT INTO chat_messages (message_id, room_id, sender_id, payload, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		messageID,
		roomID,
		senderID,
		[]byte(payload),
		seq,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit message: %w", err)
	}

	return seq, true, nil
}

// UpdateMessagePayload rewrites the payload of a committed message in
// place. The sequence slot never changes: an edit is not a new message.
func (s *Storage) UpdateMessagePayload(ctx context.Context, messageID string, payload json.RawMessage) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE chat_messages SET payload = ? WHERE message_id = ? RETURNING seq`,
		[]byte(payload), messageID,
	).Scan(&seq)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, storage.ErrMessageNotFound
	case err != nil:
		return 0, fmt.Errorf("failed to update message: %w", err)
	}

	return seq, nil
}

// ListMessagesSince returns room messages with seq greater than since,
// oldest first
func (s *Storage) ListMessagesSince(ctx context.Context, roomID string, since int64) ([]*storage.Message, error) {
	query := `
		SELECT message_id, room_id, sender_id, payload, seq, created_at
		FROM chat_messages
		WHERE room_id = ? AND seq > ?
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, roomID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*storage.Message

	for rows.Next() {
		msg := &storage.Message{}
		var payload []byte

		err := rows.Scan(
			&msg.MessageID,
			&msg.RoomID,
			&msg.SenderID,
			&payload,
			&msg.Seq,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Payload = payload
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
