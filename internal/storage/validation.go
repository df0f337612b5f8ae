package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/card-insights/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrEmptySlice        = errors.New("slice cannot be empty")
	ErrInvalidDateRange  = errors.New("start date must be before end date")
	ErrInvalidModuleType = errors.New("invalid module type")
	ErrInvalidDetail     = errors.New("invalid detail record")
	ErrInvalidDialogItem = errors.New("invalid dialog item")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateModuleType(t model.ModuleType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidModuleType, t)
	}
	return nil
}

// validateDetail requires a parseable date and a store.
func validateDetail(d model.DetailRecord) error {
	if _, err := time.Parse(model.DetailDateLayout, d.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY/MM/DD", ErrInvalidDetail, d.Date)
	}
	if strings.TrimSpace(d.Store) == "" {
		return fmt.Errorf("%w: missing store", ErrInvalidDetail)
	}
	return nil
}

func validateDetails(details []model.DetailRecord) error {
	if len(details) == 0 {
		return fmt.Errorf("%w: details", ErrEmptySlice)
	}
	for i, d := range details {
		if err := validateDetail(d); err != nil {
			return fmt.Errorf("detail at index %d: %w", i, err)
		}
	}
	return nil
}

func validateDialogItems(items []model.DialogItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items", ErrEmptySlice)
	}
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item at index %d: %w: missing ID", i, ErrInvalidDialogItem)
		}
		if item.Type != model.MessageUser && item.Type != model.MessageSystem {
			return fmt.Errorf("item at index %d: %w: type %q", i, ErrInvalidDialogItem, item.Type)
		}
		if item.Consumption != nil {
			if err := validateModuleType(item.ModuleType); err != nil {
				return fmt.Errorf("item at index %d: %w", i, err)
			}
		}
	}
	return nil
}
