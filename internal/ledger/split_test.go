package ledger

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/money"
)

func TestShares(t *testing.T) {
	tests := []struct {
		name         string
		total        money.Money
		participants []string
		want         []money.Money
		wantErr      error
	}{
		{
			name:         "even split",
			total:        money.FromUnits(9000),
			participants: []string{"alice", "bob", "carol"},
			want:         []money.Money{3000, 3000, 3000},
		},
		{
			name:         "remainder goes to earliest participants",
			total:        money.FromUnits(10000),
			participants: []string{"alice", "bob", "carol"},
			want:         []money.Money{3334, 3333, 3333},
		},
		{
			name:         "two extra units",
			total:        money.FromUnits(1001),
			participants: []string{"a", "b", "c"},
			want:         []money.Money{334, 334, 333},
		},
		{
			name:         "single participant takes everything",
			total:        money.FromUnits(777),
			participants: []string{"alice"},
			want:         []money.Money{777},
		},
		{
			name:         "amount smaller than group size",
			total:        money.FromUnits(2),
			participants: []string{"a", "b", "c"},
			want:         []money.Money{1, 1, 0},
		},
		{
			name:         "no participants",
			total:        money.FromUnits(100),
			participants: nil,
			wantErr:      ErrInvalidParticipants,
		},
		{
			name:         "duplicate participant",
			total:        money.FromUnits(100),
			participants: []string{"alice", "bob", "alice"},
			wantErr:      ErrInvalidParticipants,
		},
		{
			name:         "zero amount",
			total:        money.FromUnits(0),
			participants: []string{"alice", "bob"},
			wantErr:      money.ErrInvalidAmount,
		},
		{
			name:         "negative amount",
			total:        money.FromUnits(-500),
			participants: []string{"alice", "bob"},
			wantErr:      money.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Shares(tt.total, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Shares() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Shares() unexpected error: %v", err)
			}
			if len(shares) != len(tt.want) {
				t.Fatalf("Shares() returned %d shares, want %d", len(shares), len(tt.want))
			}
			for i, s := range shares {
				if s.Member != tt.participants[i] {
					t.Errorf("share %d member = %s, want %s", i, s.Member, tt.participants[i])
				}
				if s.Amount != tt.want[i] {
					t.Errorf("share %d amount = %d, want %d", i, s.Amount, tt.want[i])
				}
			}
		})
	}
}

// Shares must reconstruct the total exactly for any amount and group
// size, never losing or inventing a minor unit.
func TestSharesSumToTotal(t *testing.T) {
	participants := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"}
	for n := 1; n <= len(participants); n++ {
		for _, units := range []int64{1, 7, 99, 100, 101, 12345, 1000003} {
			shares, err := Shares(money.FromUnits(units), participants[:n])
			if err != nil {
				t.Fatalf("Shares(%d, n=%d) error: %v", units, n, err)
			}
			var sum money.Money
			for _, s := range shares {
				sum += s.Amount
			}
			if sum.Units() != units {
				t.Errorf("Shares(%d, n=%d) sum = %d, want %d", units, n, sum.Units(), units)
			}
			// No share differs from another by more than one unit.
			min, max := shares[0].Amount, shares[0].Amount
			for _, s := range shares {
				if s.Amount < min {
					min = s.Amount
				}
				if s.Amount > max {
					max = s.Amount
				}
			}
			if max-min > 1 {
				t.Errorf("Shares(%d, n=%d) spread = %d, want <= 1", units, n, max-min)
			}
		}
	}
}

func TestSharesDeterministic(t *testing.T) {
	participants := []string{"carol", "alice", "bob"}
	first, err := Shares(money.FromUnits(100), participants)
	if err != nil {
		t.Fatalf("Shares() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Shares(money.FromUnits(100), participants)
		if err != nil {
			t.Fatalf("Shares() error: %v", err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("share %d changed between calls: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}
