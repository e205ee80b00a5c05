package store

import (
	"fmt"
	"sync"

	"go-atm/models"
)

// DefaultCapacity is the maximum number of customers the ledger accepts
const DefaultCapacity = 100

// Ledger holds customer records in memory, keyed by customer ID.
// The map is guarded by mutex; each record carries its own lock so that
// balance updates on different customers never contend.
type Ledger struct {
	records  map[string]*record
	capacity int
	mutex    sync.RWMutex
}

type record struct {
	mu       sync.Mutex
	customer models.Customer
}

// NewLedger creates an empty ledger holding at most capacity customers
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		records:  make(map[string]*record),
		capacity: capacity,
	}
}

// Insert adds a customer to the ledger
func (l *Ledger) Insert(customer models.Customer) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if len(l.records) >= l.capacity {
		return fmt.Errorf("insert %s: %w", customer.ID, models.ErrCapacityExceeded)
	}
	if _, exists := l.records[customer.ID]; exists {
		return fmt.Errorf("insert %s: %w", customer.ID, models.ErrDuplicateID)
	}
	l.records[customer.ID] = &record{customer: customer}
	return nil
}

func (l *Ledger) lookup(id string) (*record, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	rec, exists := l.records[id]
	return rec, exists
}

// Find retrieves a copy of a customer by ID
func (l *Ledger) Find(id string) (models.Customer, bool) {
	rec, exists := l.lookup(id)
	if !exists {
		return models.Customer{}, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.customer, true
}

// ValidateCredentials reports whether id exists and its password matches exactly
func (l *Ledger) ValidateCredentials(id, password string) bool {
	customer, exists := l.Find(id)
	return exists && customer.Password == password
}

// ChangePassword sets a new password and clears the first-login flag
func (l *Ledger) ChangePassword(id, newPassword string) bool {
	err := l.Update(id, func(c *models.Customer) error {
		c.Password = newPassword
		c.FirstLogin = false
		return nil
	})
	return err == nil
}

// Update applies fn to a working copy of one record while holding its lock.
// The copy replaces the stored record only when fn returns nil.
func (l *Ledger) Update(id string, fn func(c *models.Customer) error) error {
	rec, exists := l.lookup(id)
	if !exists {
		return fmt.Errorf("%s: %w", id, models.ErrNotFound)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	working := rec.customer
	if err := fn(&working); err != nil {
		return err
	}
	working.ID = rec.customer.ID
	rec.customer = working
	return nil
}

// UpdatePair is Update for two records. Locks are taken in customer-ID order.
// When both IDs name the same customer, fn receives the same working copy twice.
func (l *Ledger) UpdatePair(aID, bID string, fn func(a, b *models.Customer) error) error {
	a, okA := l.lookup(aID)
	b, okB := l.lookup(bID)
	switch {
	case !okA && !okB:
		return fmt.Errorf("%s, %s: %w", aID, bID, models.ErrNotFound)
	case !okA:
		return fmt.Errorf("%s: %w", aID, models.ErrNotFound)
	case !okB:
		return fmt.Errorf("%s: %w", bID, models.ErrNotFound)
	}

	if a == b {
		a.mu.Lock()
		defer a.mu.Unlock()
		working := a.customer
		if err := fn(&working, &working); err != nil {
			return err
		}
		working.ID = a.customer.ID
		a.customer = working
		return nil
	}

	first, second := a, b
	if bID < aID {
		first, second = b, a
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	wa, wb := a.customer, b.customer
	if err := fn(&wa, &wb); err != nil {
		return err
	}
	wa.ID, wb.ID = a.customer.ID, b.customer.ID
	a.customer, b.customer = wa, wb
	return nil
}

// Len reports how many customers are stored
func (l *Ledger) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.records)
}

// Capacity reports the maximum number of customers
func (l *Ledger) Capacity() int {
	return l.capacity
}
