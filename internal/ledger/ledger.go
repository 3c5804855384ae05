package ledger

import (
	"fmt"
	"sync"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/jonboulle/clockwork"
)

// Ledger owns every user's token balance. Balances never go negative.
type Ledger struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	balances map[string]int                 // key: userID -> value: current balance
	history  map[string][]model.LedgerEntry // key: userID -> value: entries, oldest first
}

// New creates an empty ledger
func New(clock clockwork.Clock) *Ledger {
	return &Ledger{
		clock:    clock,
		balances: make(map[string]int),
		history:  make(map[string][]model.LedgerEntry),
	}
}

// Open creates an account for userID with an opening balance
func (l *Ledger) Open(userID string, opening int) error {
	if opening < 0 {
		return fmt.Errorf("ledger: %w - negative opening balance %d", auctionerrors.ErrInvalidAmount, opening)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.balances[userID]; exists {
		return fmt.Errorf("ledger: %w - account %s already open", auctionerrors.ErrInvalidState, userID)
	}
	l.balances[userID] = 0
	l.record(userID, opening, model.ReasonOpeningBalance, "")
	return nil
}

// Balance returns the user's current balance
func (l *Ledger) Balance(userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[userID]
	if !ok {
		return 0, fmt.Errorf("ledger: balance for %s: %w", userID, auctionerrors.ErrNotFound)
	}
	return balance, nil
}

// Debit takes amount tokens from the user. Nothing changes when the balance is short.
func (l *Ledger) Debit(userID string, amount int, reason model.LedgerReason, reference string) error {
	return l.Spend(userID, amount, reason, reference, nil)
}

// Spend checks that the user can afford amount, runs apply, and debits only if
// apply succeeds. The ledger stays locked while apply runs, so apply must not
// call back into the ledger.
func (l *Ledger) Spend(userID string, amount int, reason model.LedgerReason, reference string, apply func() error) error {
	if amount < 0 {
		return fmt.Errorf("ledger: %w - negative debit %d", auctionerrors.ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[userID]
	if !ok {
		return fmt.Errorf("ledger: debit %s: %w", userID, auctionerrors.ErrNotFound)
	}
	if balance < amount {
		return fmt.Errorf("ledger: %w - %s has %d tokens, needs %d", auctionerrors.ErrInsufficientTokens, userID, balance, amount)
	}

	if apply != nil {
		if err := apply(); err != nil {
			return err
		}
	}

	if amount > 0 {
		l.record(userID, -amount, reason, reference)
		utils.Debug("ledger: tokens debited", map[string]any{
			"user_id": userID,
			"amount":  amount,
			"reason":  reason,
			"balance": l.balances[userID],
		})
	}
	return nil
}

// Credit adds amount tokens to the user and returns the new balance
func (l *Ledger) Credit(userID string, amount int, reason model.LedgerReason, reference string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("ledger: %w - credit must be positive, got %d", auctionerrors.ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[userID]; !ok {
		return 0, fmt.Errorf("ledger: credit %s: %w", userID, auctionerrors.ErrNotFound)
	}
	l.record(userID, amount, reason, reference)
	return l.balances[userID], nil
}

// History returns the user's ledger entries, oldest first
func (l *Ledger) History(userID string) ([]model.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[userID]; !ok {
		return nil, fmt.Errorf("ledger: history for %s: %w", userID, auctionerrors.ErrNotFound)
	}
	return append([]model.LedgerEntry(nil), l.history[userID]...), nil
}

// record applies delta and appends an entry. Caller holds l.mu.
func (l *Ledger) record(userID string, delta int, reason model.LedgerReason, reference string) {
	l.balances[userID] += delta
	l.history[userID] = append(l.history[userID], model.LedgerEntry{
		EntryID:   utils.GenerateID(),
		UserID:    userID,
		Delta:     delta,
		Balance:   l.balances[userID],
		Reason:    reason,
		Reference: reference,
		CreatedAt: l.clock.Now().UTC(),
	})
}
