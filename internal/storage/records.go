package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/google/uuid"
)

// StoredRecord is a consumption record as saved in the database.
type StoredRecord struct {
	CreatedAt  time.Time
	ID         string
	ModuleType model.ModuleType
	Record     model.ConsumptionRecord
}

// recordFlags holds the record fields that are not worth their own column.
type recordFlags struct {
	MultipleStores *bool             `json:"multipleStores,omitempty"`
	TwoStoresInfo  []model.StoreInfo `json:"twoStoresInfo,omitempty"`
	HasChart       bool              `json:"hasChart,omitempty"`
	IsCategory     bool              `json:"isCategory,omitempty"`
	IsHighest      bool              `json:"isHighest,omitempty"`
	NoData         bool              `json:"noData,omitempty"`
	HasNegativePie bool              `json:"hasNegativePie,omitempty"`
}

// SaveRecord stores a record and returns its ID. An empty id gets a generated one;
// an existing id is replaced.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, id string, moduleType model.ModuleType, record model.ConsumptionRecord) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateModuleType(moduleType); err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return saveRecordTx(ctx, tx, id, moduleType, record)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func saveRecordTx(ctx context.Context, tx *sql.Tx, id string, moduleType model.ModuleType, record model.ConsumptionRecord) error {
	flags, err := json.Marshal(recordFlags{
		MultipleStores: record.MultipleStores,
		TwoStoresInfo:  record.TwoStoresInfo,
		HasChart:       record.HasChart,
		IsCategory:     record.IsCategory,
		IsHighest:      record.IsHighest,
		NoData:         record.NoData,
		HasNegativePie: record.HasNegativePie,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal record flags: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM record_details WHERE record_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear record details: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (
			id, module_type, period, store_name, special_store, highest_date,
			times, amount, highest_amount, flags, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			module_type = excluded.module_type,
			period = excluded.period,
			store_name = excluded.store_name,
			special_store = excluded.special_store,
			highest_date = excluded.highest_date,
			times = excluded.times,
			amount = excluded.amount,
			highest_amount = excluded.highest_amount,
			flags = excluded.flags`,
		id, string(moduleType), record.Period, record.StoreName, record.SpecialStore, record.HighestDate,
		record.Times, record.Amount, record.HighestAmount, string(flags), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO record_details (
			record_id, position, date, amount, store, card_last_four, category, hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, d := range record.Details {
		if _, err := stmt.ExecContext(ctx, id, i, d.Date, d.Amount, d.Store, d.CardLastFour, d.Category, d.Hash()); err != nil {
			return fmt.Errorf("failed to save detail %d: %w", i, err)
		}
	}
	return nil
}

// GetRecord loads a record with its details in their original order.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id string) (*StoredRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getRecord(ctx, s.db, id)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getRecord(ctx context.Context, q querier, id string) (*StoredRecord, error) {
	var (
		stored     StoredRecord
		moduleType string
		flagsJSON  string
		createdAt  sql.NullTime
	)
	r := &stored.Record
	err := q.QueryRowContext(ctx, `
		SELECT id, module_type, period, store_name, special_store, highest_date,
			times, amount, highest_amount, flags, created_at
		FROM records WHERE id = ?`, id).Scan(
		&stored.ID, &moduleType, &r.Period, &r.StoreName, &r.SpecialStore, &r.HighestDate,
		&r.Times, &r.Amount, &r.HighestAmount, &flagsJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	stored.ModuleType = model.ModuleType(moduleType)
	stored.CreatedAt = createdAt.Time

	var flags recordFlags
	if err := json.Unmarshal([]byte(flagsJSON), &flags); err != nil {
		return nil, fmt.Errorf("%w: record %s flags: %v", common.ErrDatabaseCorrupted, id, err)
	}
	r.MultipleStores = flags.MultipleStores
	r.TwoStoresInfo = flags.TwoStoresInfo
	r.HasChart = flags.HasChart
	r.IsCategory = flags.IsCategory
	r.IsHighest = flags.IsHighest
	r.NoData = flags.NoData
	r.HasNegativePie = flags.HasNegativePie

	rows, err := q.QueryContext(ctx, `
		SELECT date, amount, store, card_last_four, category
		FROM record_details WHERE record_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query record details: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var d model.DetailRecord
		if err := rows.Scan(&d.Date, &d.Amount, &d.Store, &d.CardLastFour, &d.Category); err != nil {
			return nil, fmt.Errorf("failed to scan record detail: %w", err)
		}
		r.Details = append(r.Details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record details: %w", err)
	}
	return &stored, nil
}

// RecordSummary is one row of ListRecords.
type RecordSummary struct {
	CreatedAt  time.Time
	ID         string
	ModuleType model.ModuleType
	Period     string
	Details    int
	Amount     int64
}

// ListRecords lists stored records, newest first.
func (s *SQLiteStorage) ListRecords(ctx context.Context) ([]RecordSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.module_type, r.period, r.amount, r.created_at,
			(SELECT COUNT(*) FROM record_details d WHERE d.record_id = r.id)
		FROM records r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RecordSummary
	for rows.Next() {
		var (
			rs         RecordSummary
			moduleType string
			createdAt  sql.NullTime
		)
		if err := rows.Scan(&rs.ID, &moduleType, &rs.Period, &rs.Amount, &createdAt, &rs.Details); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rs.ModuleType = model.ModuleType(moduleType)
		rs.CreatedAt = createdAt.Time
		out = append(out, rs)
	}
	return out, rows.Err()
}
