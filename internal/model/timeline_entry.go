package model

import (
	"github.com/shopspring/decimal"
)

// Direction classifies a transaction's effect on the observed address's
// balance.
type Direction string

const (
	DirectionIn    Direction = "in"
	DirectionOut   Direction = "out"
	DirectionSelf  Direction = "self"
	DirectionOther Direction = "other"
)

// TimelineEntry is one row of the reconstructed balance series. Delta is
// fully determined by Direction and the three decimal fields; Balance is
// stamped by the reconstructor only, once global ordering is known.
type TimelineEntry struct {
	Hash      string          `json:"hash"`
	Block     int64           `json:"block"`
	Timestamp int64           `json:"timestamp"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	Tips      decimal.Decimal `json:"tips"`
	Type      string          `json:"type"`
	Delta     decimal.Decimal `json:"delta"`
	Balance   decimal.Decimal `json:"balance"`
}
