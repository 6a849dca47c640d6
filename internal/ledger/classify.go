package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"balanceScope/internal/model"
)

// Classify derives the directional balance effect of one resolved
// transaction on the subject address. Fee and tips are charged to the
// sender regardless of recipient; self-transfers and unrelated rows
// are balance-neutral. Returns false for details that cannot be placed
// on the timeline (no hash, no positive block height).
func Classify(address string, detail model.TxDetail) (model.TimelineEntry, bool) {
	if detail.Hash == "" || !detail.Usable() {
		return model.TimelineEntry{}, false
	}

	my := strings.ToLower(address)
	from := strings.ToLower(detail.From)
	to := strings.ToLower(detail.To)

	var direction model.Direction
	var delta decimal.Decimal
	switch {
	case from == my && to != my:
		direction = model.DirectionOut
		delta = detail.Amount.Add(detail.Fee).Add(detail.Tips).Neg()
	case to == my && from != my:
		direction = model.DirectionIn
		delta = detail.Amount
	case to == my && from == my:
		direction = model.DirectionSelf
		delta = decimal.Zero
	default:
		direction = model.DirectionOther
		delta = decimal.Zero
	}

	return model.TimelineEntry{
		Hash:      detail.Hash,
		Block:     detail.BlockHeight,
		Timestamp: detail.Timestamp,
		Direction: direction,
		Amount:    detail.Amount,
		Fee:       detail.Fee,
		Tips:      detail.Tips,
		Type:      detail.Type,
		Delta:     delta,
	}, true
}
