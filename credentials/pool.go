// Package credentials issues the default login pairs given to new registrants.
package credentials

import (
	"fmt"
	"sync"

	"go-atm/models"
)

// DefaultPoolSize is the number of pairs seeded at startup
const DefaultPoolSize = 10

// Pool is a fixed stack of credential pairs. The last pair seeded is the
// first one issued, and an issued pair never comes back.
type Pool struct {
	mu    sync.Mutex
	stack []models.Credential
}

// NewPool seeds a pool with the given pairs in listed order
func NewPool(seed []models.Credential) *Pool {
	stack := make([]models.Credential, len(seed))
	copy(stack, seed)
	return &Pool{stack: stack}
}

// DefaultSeed lists CUST001/PASS001 through CUSTnnn/PASSnnn
func DefaultSeed(n int) []models.Credential {
	seed := make([]models.Credential, 0, n)
	for i := 1; i <= n; i++ {
		seed = append(seed, models.Credential{
			CustomerID: fmt.Sprintf("CUST%03d", i),
			Password:   fmt.Sprintf("PASS%03d", i),
		})
	}
	return seed
}

// IssueNext pops the most recently seeded pair still in the pool
func (p *Pool) IssueNext() (models.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.stack) == 0 {
		return models.Credential{}, models.ErrPoolExhausted
	}
	top := len(p.stack) - 1
	cred := p.stack[top]
	p.stack = p.stack[:top]
	return cred, nil
}

// Remaining reports how many pairs are left
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stack)
}
