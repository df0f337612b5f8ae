package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/card-insights/internal/model"
)

// TransactionFilter selects imported card transactions. Zero values match everything.
type TransactionFilter struct {
	From      time.Time
	To        time.Time
	MinAmount *int64
	Store     string
	Category  string
	Limit     int
}

func (f TransactionFilter) validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return fmt.Errorf("%w: %s after %s", ErrInvalidDateRange,
			f.From.Format(model.DetailDateLayout), f.To.Format(model.DetailDateLayout))
	}
	return nil
}

// where builds the WHERE clause. Dates are zero-padded text so they compare lexically.
func (f TransactionFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !f.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, f.From.Format(model.DetailDateLayout))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, f.To.Format(model.DetailDateLayout))
	}
	if f.Store != "" {
		conds = append(conds, "store LIKE '%' || ? || '%'")
		args = append(args, f.Store)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.MinAmount != nil {
		conds = append(conds, "amount >= ?")
		args = append(args, *f.MinAmount)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SaveCardTransactions stores imported lines, skipping ones already imported.
// It returns how many were new.
func (s *SQLiteStorage) SaveCardTransactions(ctx context.Context, source string, details []model.DetailRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateDetails(details); err != nil {
		return 0, err
	}

	var inserted int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO card_transactions (
				hash, date, amount, store, card_last_four, category, source
			) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, d := range details {
			result, err := stmt.ExecContext(ctx, d.Hash(), d.Date, d.Amount, d.Store, d.CardLastFour, d.Category, source)
			if err != nil {
				return fmt.Errorf("failed to save transaction %s: %w", d.Hash(), err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// QueryCardTransactions returns matching transactions, newest first.
func (s *SQLiteStorage) QueryCardTransactions(ctx context.Context, filter TransactionFilter) ([]model.DetailRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := filter.validate(); err != nil {
		return nil, err
	}

	where, args := filter.where()
	query := `SELECT date, amount, store, card_last_four, category FROM card_transactions` +
		where + ` ORDER BY date DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.DetailRecord
	for rows.Next() {
		var d model.DetailRecord
		if err := rows.Scan(&d.Date, &d.Amount, &d.Store, &d.CardLastFour, &d.Category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// BuildRecord aggregates matching transactions into a card and picks its layout.
func (s *SQLiteStorage) BuildRecord(ctx context.Context, filter TransactionFilter) (model.ModuleType, model.ConsumptionRecord, error) {
	details, err := s.QueryCardTransactions(ctx, filter)
	if err != nil {
		return "", model.ConsumptionRecord{}, err
	}
	record := aggregate(details, filter)

	switch {
	case record.NoData:
		return model.ModuleNoData, record, nil
	case record.IsCategory:
		return model.ModuleCategory, record, nil
	case record.IsSingleStore():
		return model.ModuleDate, record, nil
	default:
		return model.ModuleAmountCount, record, nil
	}
}

func aggregate(details []model.DetailRecord, filter TransactionFilter) model.ConsumptionRecord {
	if len(details) == 0 {
		return model.ConsumptionRecord{
			Period:    period(filter, "", ""),
			StoreName: filter.Store,
			NoData:    true,
		}
	}

	record := model.ConsumptionRecord{
		Details: details,
		Times:   len(details),
	}
	stores := make(map[string]struct{})
	categories := make(map[string]struct{})
	first, last := details[0].Date, details[0].Date
	highest := details[0]

	for _, d := range details {
		record.Amount += d.Amount
		stores[d.Store] = struct{}{}
		categories[d.Category] = struct{}{}
		if d.Amount > highest.Amount {
			highest = d
		}
		if d.Date < first {
			first = d.Date
		}
		if d.Date > last {
			last = d.Date
		}
	}

	record.HighestAmount = highest.Amount
	record.HighestDate = highest.Date
	record.Period = period(filter, first, last)
	record.IsCategory = filter.Category == "" && len(categories) > 1

	if len(stores) == 1 {
		record.StoreName = details[0].Store
		record.MultipleStores = model.Bool(false)
	} else {
		record.StoreName = filter.Store
		record.MultipleStores = model.Bool(true)
	}
	return record
}

// period prefers the filter bounds and falls back to the dates actually seen.
func period(filter TransactionFilter, first, last string) string {
	from, to := first, last
	if !filter.From.IsZero() {
		from = filter.From.Format(model.DetailDateLayout)
	}
	if !filter.To.IsZero() {
		to = filter.To.Format(model.DetailDateLayout)
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == to:
		return from
	case from == "":
		return "until " + to
	case to == "":
		return "since " + from
	default:
		return from + " - " + to
	}
}
