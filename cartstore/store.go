// Package cartstore keeps a client-side snapshot of one cart in step with the
// authoritative cart held by the backend.
//
// Mutations are applied to the snapshot optimistically and then reconciled by
// a full replace with a freshly fetched cart. Every fetch carries a sequence
// number; only the response to the most recently issued request is applied.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"toy-store/giftwrap"
	"toy-store/models"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrNoCart          = errors.New("no cart")
	ErrLineNotFound    = errors.New("line item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	errInFlight      = errors.New("removal in flight")
	errStaleResponse = errors.New("stale response")
)

type State int

const (
	StateClean State = iota
	StateOptimisticallyMutated
	StateReconciling
	StateReconciled
	StateError
)

func (s State) String() string {
	switch s {
	case StateOptimisticallyMutated:
		return "optimistically_mutated"
	case StateReconciling:
		return "reconciling"
	case StateReconciled:
		return "reconciled"
	case StateError:
		return "error"
	default:
		return "clean"
	}
}

// Backend is the authoritative cart API.
type Backend interface {
	// FetchCart returns nil without error when the cart does not exist.
	FetchCart(ctx context.Context, cartID string) (*models.Cart, error)
	DeleteLineItem(ctx context.Context, cartID, lineID string) error
	// AddLineItem creates the cart first when cartID is empty.
	AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*models.Cart, error)
}

type Options struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

type removedLine struct {
	index int
	item  models.LineItem
}

// removal is an in-flight mark. Only a mark held by a RemoveLineItem call
// survives a reconcile; the call clears it when the backend answers.
type removal struct {
	lines   []removedLine
	backend bool
}

type Store struct {
	mu       sync.Mutex
	backend  Backend
	cartID   string
	snapshot *models.Cart
	lastGood *models.Cart
	inFlight map[string]*removal
	seq      uint64
	state    State
	timeout  time.Duration
	logger   *zap.Logger
}

func New(backend Backend, cartID string, opts Options) *Store {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		backend:  backend,
		cartID:   cartID,
		inFlight: make(map[string]*removal),
		state:    StateClean,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
}

// SetFromServer replaces the whole snapshot with cart and records it as the
// last known-good state. Fetches issued before the call become stale.
func (s *Store) SetFromServer(cart *models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.setLocked(cart)
}

func (s *Store) setLocked(cart *models.Cart) {
	s.dropDetachedLocked()
	if cart == nil {
		s.snapshot = nil
		s.lastGood = nil
		s.cartID = ""
		s.state = StateReconciled
		return
	}

	next := cart.Clone()
	kept, orphans := giftwrap.DropOrphans(next.Items)
	if len(orphans) > 0 {
		for _, o := range orphans {
			s.logger.Warn("dropping orphaned gift-wrap line",
				zap.String("cart_id", next.ID),
				zap.String("line_id", o.ID))
		}
		next.Items = kept
		next.Recalculate()
	}

	s.snapshot = next
	s.lastGood = next.Clone()
	s.cartID = next.ID
	s.state = StateReconciled
}

// dropDetachedLocked forgets optimistic removals no backend call is waiting
// on, so the lines they hid can be removed again.
func (s *Store) dropDetachedLocked() {
	for id, r := range s.inFlight {
		if !r.backend {
			delete(s.inFlight, id)
		}
	}
}

// OptimisticRemove drops the line and its gift-wrap lines from the snapshot
// and marks the line in flight until the next reconcile or rollback. It
// reports false when nothing was removed, including a repeat call while the
// first removal is in flight.
func (s *Store) OptimisticRemove(lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.optimisticRemoveLocked(lineID, false)
	return err == nil
}

func (s *Store) optimisticRemoveLocked(lineID string, backend bool) ([]removedLine, error) {
	if _, busy := s.inFlight[lineID]; busy {
		return nil, errInFlight
	}
	if s.snapshot == nil {
		return nil, ErrNoCart
	}

	var removed []removedLine
	kept := make([]models.LineItem, 0, len(s.snapshot.Items))
	for i, item := range s.snapshot.Items {
		parent, isWrap := giftwrap.ParentID(item)
		if item.ID == lineID || (isWrap && parent == lineID) {
			removed = append(removed, removedLine{index: i, item: item})
			continue
		}
		kept = append(kept, item)
	}
	if len(removed) == 0 {
		return nil, ErrLineNotFound
	}

	s.snapshot.Items = kept
	s.snapshot.Recalculate()
	s.inFlight[lineID] = &removal{lines: removed, backend: backend}
	s.seq++
	s.state = StateOptimisticallyMutated
	return removed, nil
}

// RemoveLineItem removes a line optimistically, deletes it on the backend and
// reconciles. A failed delete puts the removed lines back where they were.
// Calling it again for a line already being removed does nothing.
func (s *Store) RemoveLineItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	cartID := s.cartID
	_, err := s.optimisticRemoveLocked(lineID, true)
	s.mu.Unlock()
	if errors.Is(err, errInFlight) {
		return nil
	}
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.backend.DeleteLineItem(callCtx, cartID, lineID)
	cancel()

	if err != nil {
		s.mu.Lock()
		s.restoreLocked(lineID)
		s.state = StateError
		s.mu.Unlock()
		s.logger.Warn("line item removal failed",
			zap.String("cart_id", cartID),
			zap.String("line_id", lineID),
			zap.Error(err))
		return fmt.Errorf("remove line item: %w", err)
	}

	s.mu.Lock()
	delete(s.inFlight, lineID)
	s.mu.Unlock()

	return s.ReloadFromServer(ctx)
}

// restoreLocked puts the lines removed for lineID back at their original
// positions, skipping any the snapshot already holds again.
func (s *Store) restoreLocked(lineID string) {
	r := s.inFlight[lineID]
	delete(s.inFlight, lineID)
	if s.snapshot == nil || r == nil || len(r.lines) == 0 {
		return
	}

	removed := r.lines

	sort.Slice(removed, func(i, j int) bool { return removed[i].index < removed[j].index })
	items := s.snapshot.Items
	for _, r := range removed {
		if idx, _ := s.snapshot.FindItem(r.item.ID); idx >= 0 {
			continue
		}
		pos := r.index
		if pos > len(items) {
			pos = len(items)
		}
		items = append(items, models.LineItem{})
		copy(items[pos+1:], items[pos:])
		items[pos] = r.item
		s.snapshot.Items = items
	}
	s.snapshot.Recalculate()
}

// ReloadFromServer fetches the cart and replaces the snapshot, unless a newer
// request was issued meanwhile. On failure the current snapshot is kept.
func (s *Store) ReloadFromServer(ctx context.Context) error {
	s.mu.Lock()
	if s.cartID == "" {
		s.mu.Unlock()
		return ErrNoCart
	}
	s.seq++
	seq := s.seq
	cartID := s.cartID
	s.state = StateReconciling
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	cart, err := s.backend.FetchCart(callCtx, cartID)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("discarding stale cart response",
			zap.String("cart_id", cartID),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.seq),
			zap.NamedError("reason", errStaleResponse))
		return nil
	}
	if err != nil {
		s.state = StateError
		return fmt.Errorf("reload cart: %w", err)
	}
	s.setLocked(cart)
	return nil
}

// AddItem adds a variant through the backend, adopting the cart id when the
// backend had to create the cart, then reconciles.
func (s *Store) AddItem(ctx context.Context, variantID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	cartID := s.cartID
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	cart, err := s.backend.AddLineItem(callCtx, cartID, variantID, quantity)
	cancel()
	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.mu.Unlock()
		return fmt.Errorf("add line item: %w", err)
	}

	if cart != nil && cart.ID != "" {
		s.mu.Lock()
		s.cartID = cart.ID
		s.mu.Unlock()
	}
	return s.ReloadFromServer(ctx)
}

func (s *Store) IsRemoving(lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[lineID]
	return ok
}

// ClearCart forgets the cart after order completion. Responses to requests
// issued earlier are discarded.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.lastGood = nil
	s.cartID = ""
	s.inFlight = make(map[string]*removal)
	s.seq++
	s.state = StateClean
}

// RollBack restores the last known-good snapshot. Removals waiting on the
// backend keep their marks until their call returns.
func (s *Store) RollBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastGood == nil {
		return false
	}
	s.snapshot = s.lastGood.Clone()
	s.state = StateReconciled
	s.dropDetachedLocked()
	return true
}

// Snapshot returns a deep copy of the current cart, or nil.
func (s *Store) Snapshot() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) CartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID
}
