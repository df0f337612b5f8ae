package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/card-insights/internal/model"
)

// itemFlags holds the presentation fields of a dialog item.
type itemFlags struct {
	Deeplink           string                  `json:"deeplink,omitempty"`
	QuestionTitle      string                  `json:"questionTitle,omitempty"`
	RecommendQuestions []model.QuestionSuggest `json:"recommendQuestions,omitempty"`
	FeedbackOptions    []model.FeedbackOption  `json:"feedbackOptions,omitempty"`
	IsIntroduction     bool                    `json:"isIntroduction,omitempty"`
	ShowGoToAction     bool                    `json:"showGoToAction,omitempty"`
	WithFeedback       bool                    `json:"withFeedback,omitempty"`
}

// SessionSummary describes one persisted conversation.
type SessionSummary struct {
	StartedAt time.Time
	LastAt    time.Time
	ID        string
	Items     int
}

// AppendDialogItems appends items to a session's history. Items carrying a card
// have their record saved in the same transaction, keyed by the item ID.
func (s *SQLiteStorage) AppendDialogItems(ctx context.Context, sessionID string, items []model.DialogItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if err := validateDialogItems(items); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM dialog_items WHERE session_id = ?`,
			sessionID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}

		for i, item := range items {
			var recordID sql.NullString
			if item.Consumption != nil {
				if err := saveRecordTx(ctx, tx, item.ID, item.ModuleType, *item.Consumption); err != nil {
					return err
				}
				recordID = sql.NullString{String: item.ID, Valid: true}
			}

			flags, err := json.Marshal(itemFlags{
				Deeplink:           item.Deeplink,
				QuestionTitle:      item.QuestionTitle,
				RecommendQuestions: item.RecommendQuestions,
				FeedbackOptions:    item.FeedbackOptions,
				IsIntroduction:     item.IsIntroduction,
				ShowGoToAction:     item.ShowGoToAction,
				WithFeedback:       item.WithFeedback,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal item flags: %w", err)
			}

			createdAt := item.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO dialog_items (
					id, session_id, position, type, text, question_id, request_id,
					module_type, record_id, flags, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				item.ID, sessionID, next+i, string(item.Type), item.Text, item.QuestionID, item.RequestID,
				string(item.ModuleType), recordID, string(flags), createdAt.UTC())
			if err != nil {
				return fmt.Errorf("failed to save dialog item %s: %w", item.ID, err)
			}
		}
		return nil
	})
}

// GetDialogHistory returns a session's items in the order they were appended.
// An unknown session yields an empty history.
func (s *SQLiteStorage) GetDialogHistory(ctx context.Context, sessionID string) ([]model.DialogItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, text, question_id, request_id, module_type, record_id, flags, created_at
		FROM dialog_items WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dialog history: %w", err)
	}

	var (
		items     []model.DialogItem
		recordIDs []sql.NullString
	)
	for rows.Next() {
		var (
			item       model.DialogItem
			itemType   string
			moduleType string
			recordID   sql.NullString
			flagsJSON  string
		)
		if err := rows.Scan(&item.ID, &itemType, &item.Text, &item.QuestionID, &item.RequestID,
			&moduleType, &recordID, &flagsJSON, &item.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan dialog item: %w", err)
		}
		item.Type = model.MessageType(itemType)
		item.ModuleType = model.ModuleType(moduleType)

		var flags itemFlags
		if err := json.Unmarshal([]byte(flagsJSON), &flags); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to decode flags of item %s: %w", item.ID, err)
		}
		item.Deeplink = flags.Deeplink
		item.QuestionTitle = flags.QuestionTitle
		item.RecommendQuestions = flags.RecommendQuestions
		item.FeedbackOptions = flags.FeedbackOptions
		item.IsIntroduction = flags.IsIntroduction
		item.ShowGoToAction = flags.ShowGoToAction
		item.WithFeedback = flags.WithFeedback

		items = append(items, item)
		recordIDs = append(recordIDs, recordID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating dialog items: %w", err)
	}
	// The single connection must be released before loading records.
	_ = rows.Close()

	for i, id := range recordIDs {
		if !id.Valid {
			continue
		}
		stored, err := getRecord(ctx, s.db, id.String)
		if err != nil {
			return nil, err
		}
		items[i].Consumption = &stored.Record
	}
	return items, nil
}

// ListSessions lists persisted conversations, most recently active first.
func (s *SQLiteStorage) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		FROM dialog_items
		GROUP BY session_id
		ORDER BY MAX(created_at) DESC, session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SessionSummary
	for rows.Next() {
		var (
			summary       SessionSummary
			started, last string
		)
		if err := rows.Scan(&summary.ID, &summary.Items, &started, &last); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		summary.StartedAt = parseTimestamp(started)
		summary.LastAt = parseTimestamp(last)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Aggregates lose the column type, so go-sqlite3 hands them back as text.
var timestampFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
