package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"balanceScope/internal/model"
)

const subject = "0xAddrA"

func detail(from, to string) model.TxDetail {
	return model.TxDetail{
		Hash:        "h1",
		BlockHeight: 100,
		Timestamp:   1700000000,
		From:        from,
		To:          to,
		Amount:      decimal.RequireFromString("5"),
		Fee:         decimal.RequireFromString("0.01"),
		Tips:        decimal.RequireFromString("0.002"),
	}
}

func TestClassifyDirections(t *testing.T) {
	cases := []struct {
		name      string
		from, to  string
		direction model.Direction
		delta     string
	}{
		{"out", "0xaddra", "0xaddrb", model.DirectionOut, "-5.012"},
		{"in", "0xaddrb", "0xaddra", model.DirectionIn, "5"},
		{"self", "0xADDRA", "0xaddra", model.DirectionSelf, "0"},
		{"other", "0xaddrb", "0xaddrc", model.DirectionOther, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := Classify(subject, detail(tc.from, tc.to))
			if !ok {
				t.Fatalf("expected usable entry")
			}
			if entry.Direction != tc.direction {
				t.Fatalf("direction = %s, want %s", entry.Direction, tc.direction)
			}
			if !entry.Delta.Equal(decimal.RequireFromString(tc.delta)) {
				t.Fatalf("delta = %s, want %s", entry.Delta, tc.delta)
			}
		})
	}
}

func TestClassifyDeltaSignMatchesDirection(t *testing.T) {
	pairs := []struct{ from, to string }{
		{"0xaddra", "0xaddrb"},
		{"0xaddrb", "0xaddra"},
		{"0xaddra", "0xaddra"},
		{"0xaddrb", "0xaddrc"},
	}
	for _, p := range pairs {
		entry, ok := Classify(subject, detail(p.from, p.to))
		if !ok {
			t.Fatalf("expected usable entry for %v", p)
		}
		switch entry.Direction {
		case model.DirectionOut:
			if entry.Delta.IsPositive() {
				t.Errorf("out delta must be <= 0, got %s", entry.Delta)
			}
		case model.DirectionIn:
			if entry.Delta.IsNegative() {
				t.Errorf("in delta must be >= 0, got %s", entry.Delta)
			}
		default:
			if !entry.Delta.IsZero() {
				t.Errorf("%s delta must be 0, got %s", entry.Direction, entry.Delta)
			}
		}
	}
}

func TestClassifyCaseInsensitiveAddress(t *testing.T) {
	entry, ok := Classify("0XADDRA", detail("0xAddRa", "0xaddrb"))
	if !ok {
		t.Fatalf("expected usable entry")
	}
	if entry.Direction != model.DirectionOut {
		t.Fatalf("direction = %s, want out", entry.Direction)
	}
}

func TestClassifySkipsUnusable(t *testing.T) {
	d := detail("0xaddra", "0xaddrb")
	d.BlockHeight = 0
	if _, ok := Classify(subject, d); ok {
		t.Fatalf("zero block height must be skipped")
	}

	d = detail("0xaddra", "0xaddrb")
	d.BlockHeight = -5
	if _, ok := Classify(subject, d); ok {
		t.Fatalf("negative block height must be skipped")
	}

	d = detail("0xaddra", "0xaddrb")
	d.Hash = ""
	if _, ok := Classify(subject, d); ok {
		t.Fatalf("missing hash must be skipped")
	}
}

func TestClassifyLeavesBalanceUnset(t *testing.T) {
	entry, ok := Classify(subject, detail("0xaddrb", "0xaddra"))
	if !ok {
		t.Fatalf("expected usable entry")
	}
	if !entry.Balance.IsZero() {
		t.Fatalf("balance must be unset at classification, got %s", entry.Balance)
	}
}
