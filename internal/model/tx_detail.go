package model

import (
	"github.com/shopspring/decimal"

	"balanceScope/internal/scalar"
)

// TxDetail is the fully resolved transaction record for one hash, as
// opposed to the bare reference returned by the paged feed.
type TxDetail struct {
	Hash        string
	BlockHeight int64
	Timestamp   int64
	Type        string
	From        string
	To          string
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Tips        decimal.Decimal
}

// ParseTxDetail extracts a TxDetail from a raw detail object. Field
// lookup is case-insensitive with multi-alias probing; malformed
// scalars degrade to zero values rather than failing.
func ParseTxDetail(hash string, obj map[string]interface{}) TxDetail {
	return TxDetail{
		Hash:        hash,
		BlockHeight: scalar.ToInt(scalar.Pick(obj, "blockHeight"), 0),
		Timestamp:   scalar.ToEpochSeconds(scalar.Pick(obj, "timestamp")),
		Type:        scalar.PickString(obj, "type"),
		From:        scalar.PickString(obj, "from"),
		To:          scalar.PickString(obj, "to"),
		Amount:      scalar.ToDecimal(scalar.Pick(obj, "amount", "value")),
		Fee:         scalar.ToDecimal(scalar.Pick(obj, "fee")),
		Tips:        scalar.ToDecimal(scalar.Pick(obj, "tips")),
	}
}

// Usable reports whether the detail carries a positive block height.
// Details without one cannot be placed on the timeline and are dropped.
func (d TxDetail) Usable() bool {
	return d.BlockHeight > 0
}
