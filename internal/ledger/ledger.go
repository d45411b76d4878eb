package ledger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

const replayPageSize = 500

// ExpenseLog is the append-only expense persistence the ledger depends
// on. The store assigns each appended expense a strictly increasing
// per-group sequence number; ListExpenses returns expenses in that
// order.
type ExpenseLog interface {
	AppendExpense(ctx context.Context, e *models.Expense) error
	ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error)
	LastSeq(ctx context.Context, groupID string) (int64, error)
}

// Directory is the membership lookup the ledger consumes. Membership
// itself is owned by the group-management layer; the ledger only reads
// it when validating an incoming expense.
type Directory interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	Members(ctx context.Context, groupID string) ([]string, error)
}

// MemberTotals tracks one member's aggregate position within a group.
type MemberTotals struct {
	Paid money.Money // total paid across all expenses
	Owed money.Money // total of this member's shares
	Net  money.Money // Paid - Owed; positive means the group owes them
}

// MemberBalance is one row of a group's balance summary.
type MemberBalance struct {
	MemberID   string
	TotalPaid  money.Money
	TotalOwed  money.Money
	NetBalance money.Money
}

// RecordInput carries the fields of an expense to record.
type RecordInput struct {
	GroupID string
	PayerID string
	Amount  money.Money

	// Participants is the ordered set of members sharing the expense.
	// Empty means all current group members, in join order.
	Participants []string

	Description string
	Category    string
}

// Ledger turns a group's append-only expense log into authoritative
// per-member balances and, on demand, a minimal settlement plan.
//
// Mutations for one group are serialized by a per-group lock held
// across validate, append and cache update. Balances are kept in a
// version-stamped cache keyed by the last applied sequence number;
// a stale cache falls back to a full recomputation of the log, so the
// incremental path can never diverge from the pure fold.
type Ledger struct {
	log ExpenseLog
	dir Directory

	mu     sync.Mutex // guards groups
	groups map[string]*groupState
}

type groupState struct {
	mu    sync.RWMutex
	cache *balanceCache // nil until first computed or after invalidation
}

// balanceCache holds totals for every member that has appeared in the
// group's history, stamped with the last applied sequence number.
type balanceCache struct {
	seq    int64
	totals map[string]MemberTotals
}

// New creates a Ledger over the given expense log and membership
// directory.
func New(log ExpenseLog, dir Directory) *Ledger {
	return &Ledger{
		log:    log,
		dir:    dir,
		groups: make(map[string]*groupState),
	}
}

func (l *Ledger) group(groupID string) *groupState {
	l.mu.Lock()
	defer l.mu.Unlock()
	gs, ok := l.groups[groupID]
	if !ok {
		gs = &groupState{}
		l.groups[groupID] = gs
	}
	return gs
}

// Record validates and appends one expense, then applies its deltas to
// the group's balance cache. All validation happens before anything is
// written: a rejected expense leaves both the log and the balances
// untouched.
//
// Membership checks and share computation run before the group lock is
// taken. Membership only grows (there is no remove-member operation),
// so a payer or participant validated here cannot stop being a member
// before the append; only the append and cache update need the lock.
func (l *Ledger) Record(ctx context.Context, in RecordInput) (*models.Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount %s in group %s must be positive",
			money.ErrInvalidAmount, in.Amount, in.GroupID)
	}

	members, err := l.dir.Members(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	memberSet := make(map[string]struct{}, len(members))
	for _, m := range members {
		memberSet[m] = struct{}{}
	}

	if _, ok := memberSet[in.PayerID]; !ok {
		return nil, fmt.Errorf("%w: payer %s is not in group %s", ErrNotAGroupMember, in.PayerID, in.GroupID)
	}

	participants := in.Participants
	if len(participants) == 0 {
		participants = members
	}
	for _, p := range participants {
		if _, ok := memberSet[p]; !ok {
			return nil, fmt.Errorf("%w: participant %s is not in group %s", ErrNotAGroupMember, p, in.GroupID)
		}
	}

	shares, err := Shares(in.Amount, participants)
	if err != nil {
		return nil, err
	}

	gs := l.group(in.GroupID)
	gs.mu.Lock()
	defer gs.mu.Unlock()

	expense := &models.Expense{
		ID:           uuid.New().String(),
		GroupID:      in.GroupID,
		PayerID:      in.PayerID,
		Amount:       in.Amount,
		Participants: slices.Clone(participants),
		Description:  in.Description,
		Category:     in.Category,
		CreatedAt:    time.Now().Unix(),
	}
	if err := l.log.AppendExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("append expense: %w", err)
	}

	if err := gs.apply(expense, shares); err != nil {
		// The expense is durably appended; only the cache is suspect.
		gs.cache = nil
		return nil, err
	}

	metrics.ExpensesRecorded.Inc()
	return expense, nil
}

// apply folds one expense into the cache if the cache is exactly one
// sequence number behind; otherwise the cache is invalidated and the
// next read recomputes from the log.
func (gs *groupState) apply(e *models.Expense, shares []Share) error {
	if gs.cache == nil || gs.cache.seq != e.Seq-1 {
		gs.cache = nil
		return nil
	}
	if err := fold(gs.cache.totals, e, shares); err != nil {
		return err
	}
	gs.cache.seq = e.Seq
	return verifyZeroSum(gs.cache.totals)
}

// fold applies one expense's deltas to a totals map: the payer is
// credited the full amount, each participant debited its share.
func fold(totals map[string]MemberTotals, e *models.Expense, shares []Share) error {
	payer := totals[e.PayerID]
	paid, err := payer.Paid.Add(e.Amount)
	if err != nil {
		return fmt.Errorf("apply expense %s: %w", e.ID, err)
	}
	payer.Paid = paid
	if payer.Net, err = payer.Net.Add(e.Amount); err != nil {
		return fmt.Errorf("apply expense %s: %w", e.ID, err)
	}
	totals[e.PayerID] = payer

	for _, s := range shares {
		t := totals[s.Member]
		if t.Owed, err = t.Owed.Add(s.Amount); err != nil {
			return fmt.Errorf("apply expense %s: %w", e.ID, err)
		}
		if t.Net, err = t.Net.Sub(s.Amount); err != nil {
			return fmt.Errorf("apply expense %s: %w", e.ID, err)
		}
		totals[s.Member] = t
	}
	return nil
}

// verifyZeroSum checks the ledger invariant: net balances across the
// group sum to exactly zero. The remainder allocation in Shares is
// exact, so the check is exact too — any violation is a hard error.
func verifyZeroSum(totals map[string]MemberTotals) error {
	sum := money.Money(0)
	for _, t := range totals {
		var err error
		if sum, err = sum.Add(t.Net); err != nil {
			return fmt.Errorf("%w: %v", ErrUnbalancedLedger, err)
		}
	}
	if !sum.IsZero() {
		return fmt.Errorf("%w: net balances sum to %s", ErrUnbalancedLedger, sum)
	}
	return nil
}

// recompute replays the group's entire expense history through the
// same fold the incremental path uses. The result is correct by
// construction; the cache is purely an optimization of this function.
func (l *Ledger) recompute(ctx context.Context, groupID string) (*balanceCache, error) {
	cache := &balanceCache{totals: make(map[string]MemberTotals)}
	for offset := 0; ; offset += replayPageSize {
		page, err := l.log.ListExpenses(ctx, groupID, replayPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("replay history: %w", err)
		}
		for _, e := range page {
			shares, err := Shares(e.Amount, e.Participants)
			if err != nil {
				return nil, fmt.Errorf("replay expense %s: %w", e.ID, err)
			}
			if err := fold(cache.totals, e, shares); err != nil {
				return nil, err
			}
			cache.seq = e.Seq
		}
		if len(page) < replayPageSize {
			break
		}
	}
	if err := verifyZeroSum(cache.totals); err != nil {
		return nil, err
	}
	return cache, nil
}

// snapshot returns a consistent copy of the group's totals. A cache
// stamped with the store's current sequence number is served as-is;
// anything else triggers a full recomputation, which also self-heals a
// cache that missed an update.
func (l *Ledger) snapshot(ctx context.Context, groupID string) (map[string]MemberTotals, error) {
	last, err := l.log.LastSeq(ctx, groupID)
	if err != nil {
		return nil, err
	}

	gs := l.group(groupID)
	gs.mu.RLock()
	if c := gs.cache; c != nil && c.seq == last {
		totals := copyTotals(c.totals)
		gs.mu.RUnlock()
		metrics.BalanceCacheHits.Inc()
		return totals, nil
	}
	gs.mu.RUnlock()

	gs.mu.Lock()
	defer gs.mu.Unlock()
	if c := gs.cache; c != nil && c.seq == last {
		return copyTotals(c.totals), nil
	}
	cache, err := l.recompute(ctx, groupID)
	if err != nil {
		return nil, err
	}
	gs.cache = cache
	metrics.BalanceRecomputes.Inc()
	return copyTotals(cache.totals), nil
}

func copyTotals(totals map[string]MemberTotals) map[string]MemberTotals {
	out := make(map[string]MemberTotals, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// Balances returns the net balance of every current group member, plus
// any past member with a nonzero position. Positive means the group
// owes the member; negative means the member owes the group.
func (l *Ledger) Balances(ctx context.Context, groupID string) (map[string]money.Money, error) {
	members, err := l.dir.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	totals, err := l.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]money.Money, len(members))
	for _, m := range members {
		balances[m] = totals[m].Net
	}
	for member, t := range totals {
		if _, ok := balances[member]; !ok {
			balances[member] = t.Net
		}
	}
	return balances, nil
}

// BalanceSummary returns each member's paid/owed/net position, current
// members first in join order, then past members with history sorted by
// ID.
func (l *Ledger) BalanceSummary(ctx context.Context, groupID string) ([]MemberBalance, error) {
	members, err := l.dir.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	totals, err := l.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := make([]MemberBalance, 0, len(totals))
	listed := make(map[string]struct{}, len(members))
	for _, m := range members {
		t := totals[m]
		summary = append(summary, MemberBalance{
			MemberID:   m,
			TotalPaid:  t.Paid,
			TotalOwed:  t.Owed,
			NetBalance: t.Net,
		})
		listed[m] = struct{}{}
	}

	var past []string
	for member := range totals {
		if _, ok := listed[member]; !ok {
			past = append(past, member)
		}
	}
	sort.Strings(past)
	for _, m := range past {
		t := totals[m]
		summary = append(summary, MemberBalance{
			MemberID:   m,
			TotalPaid:  t.Paid,
			TotalOwed:  t.Owed,
			NetBalance: t.Net,
		})
	}
	return summary, nil
}

// History returns a page of the group's expenses in insertion order.
// limit <= 0 selects the default page size.
func (l *Ledger) History(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error) {
	const (
		defaultPageSize = 50
		maxPageSize     = 500
	)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return l.log.ListExpenses(ctx, groupID, limit, offset)
}

// SettlementPlan computes a minimal set of transfers that would zero
// every balance in the group, based on a consistent snapshot. The plan
// is advisory output; nothing is recorded.
func (l *Ledger) SettlementPlan(ctx context.Context, groupID string) ([]Transfer, error) {
	balances, err := l.Balances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	plan, err := PlanSettlement(balances)
	if err != nil {
		return nil, err
	}
	metrics.SettlementPlans.Inc()
	return plan, nil
}
