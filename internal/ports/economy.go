package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for paying out match rewards.
type EconomyPort interface {
	// UpdateBalances applies multiple wallet changes.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
