package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LedgerSnapshot is the durable state of the equity ledger. It is written
// after every mutation and read once at startup.
type LedgerSnapshot struct {
	// StartingBalance is the balance the challenge started from.
	StartingBalance float64 `yaml:"starting_balance" json:"starting_balance"`

	// CurrentBalance is the compounding balance after all recorded trades.
	CurrentBalance float64 `yaml:"current_balance" json:"current_balance"`

	// StartedAt is when the ledger was first created.
	StartedAt time.Time `yaml:"started_at" json:"started_at"`

	// Trades is the ordered trade history, oldest first.
	Trades []TradeRecord `yaml:"trades" json:"trades"`
}

// WriteLedgerSnapshot writes a ledger snapshot to a YAML file.
func WriteLedgerSnapshot(path string, snapshot LedgerSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger snapshot to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger snapshot to file: %w", err)
	}

	return nil
}

// ReadLedgerSnapshot reads a ledger snapshot from a YAML file.
func ReadLedgerSnapshot(path string) (LedgerSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LedgerSnapshot{}, fmt.Errorf("failed to read ledger snapshot file: %w", err)
	}

	var snapshot LedgerSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return LedgerSnapshot{}, fmt.Errorf("failed to unmarshal ledger snapshot: %w", err)
	}

	return snapshot, nil
}

// NewLedgerSnapshot creates a fresh snapshot with the given starting balance.
func NewLedgerSnapshot(startingBalance float64) LedgerSnapshot {
	return LedgerSnapshot{
		StartingBalance: startingBalance,
		CurrentBalance:  startingBalance,
		StartedAt:       time.Now().UTC(),
		Trades:          []TradeRecord{},
	}
}
