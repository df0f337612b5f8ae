package model

import (
	"crypto/sha256"
	"fmt"
)

// DetailDateLayout is the display layout of DetailRecord.Date.
const DetailDateLayout = "2006/01/02"

// DetailRecord is one card transaction line shown in a detail list.
type DetailRecord struct {
	Date         string `json:"date"         yaml:"date"`
	Store        string `json:"store"        yaml:"store"`
	CardLastFour string `json:"cardLastFour" yaml:"cardLastFour"`
	Category     string `json:"category"     yaml:"category"`
	Amount       int64  `json:"amount"       yaml:"amount"`
}

// Hash creates a stable key for duplicate detection.
func (d DetailRecord) Hash() string {
	data := fmt.Sprintf("%s:%d:%s:%s",
		d.Date,
		d.Amount,
		d.Store,
		d.CardLastFour)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsRefund reports whether the line credits the card.
func (d DetailRecord) IsRefund() bool {
	return d.Amount < 0
}
