package atm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"go-atm/credentials"
	"go-atm/gate"
	"go-atm/models"
	"go-atm/store"
	"go-atm/telemetry"
)

// Session is what a successful login returns.
type Session struct {
	CustomerID string `json:"customerId"`
	FirstLogin bool   `json:"firstLogin"`
	Position   int    `json:"position"`
}

// Status is a point-in-time view of the service's shared resources.
type Status struct {
	CredentialsRemaining int      `json:"credentialsRemaining"`
	Customers            int      `json:"customers"`
	Capacity             int      `json:"capacity"`
	Queue                []string `json:"queue"`
}

// Options carries the service's optional collaborators.
type Options struct {
	// Opening is what a new customer's accounts start with. Nil means
	// DefaultOpening.
	Opening *models.Balances
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
}

// Service is the entry point used by the drivers. It registers customers
// from the credential pool, admits sessions through the gate and runs money
// operations for the session at the head of the queue.
type Service struct {
	pool    *credentials.Pool
	ledger  *store.Ledger
	gate    *gate.Gate
	engine  *Engine
	opening models.Balances
	metrics *telemetry.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// DefaultOpening returns the balances a new customer starts with unless
// Options says otherwise.
func DefaultOpening() models.Balances {
	return models.Balances{Savings: decimal.NewFromInt(10000), Current: decimal.NewFromInt(25000)}
}

// NewService wires the components together.
func NewService(pool *credentials.Pool, ledger *store.Ledger, g *gate.Gate, engine *Engine, opts Options) *Service {
	opening := DefaultOpening()
	if opts.Opening != nil {
		opening = *opts.Opening
	}
	if opts.Logger == nil {
		opts.Logger = telemetry.Discard()
	}
	s := &Service{
		pool:    pool,
		ledger:  ledger,
		gate:    g,
		engine:  engine,
		opening: opening,
		metrics: opts.Metrics,
		log:     opts.Logger,
		now:     time.Now,
	}
	s.publish()
	return s
}

// Register creates a customer under the next default credential pair.
// The ledger is checked for room first so a full bank never burns a pair.
func (s *Service) Register(ctx context.Context, profile models.Profile) (cred models.Credential, err error) {
	defer s.observe("register", time.Now(), &err)

	if s.ledger.Len() >= s.ledger.Capacity() {
		return models.Credential{}, fmt.Errorf("register: %w", models.ErrCapacityExceeded)
	}
	cred, err = s.pool.IssueNext()
	if err != nil {
		return models.Credential{}, fmt.Errorf("register: %w", err)
	}

	customer := models.Customer{
		ID:             cred.CustomerID,
		Password:       cred.Password,
		Name:           profile.Name,
		Email:          profile.Email,
		Address:        profile.Address,
		Phone:          profile.Phone,
		SavingsBalance: s.opening.Savings,
		CurrentBalance: s.opening.Current,
		FirstLogin:     true,
		CreatedAt:      s.now().UTC(),
	}
	if err = s.ledger.Insert(customer); err != nil {
		s.log.ErrorContext(ctx, "credential issued but customer not stored",
			"customer", cred.CustomerID, "error", err)
		return models.Credential{}, fmt.Errorf("register: %w", err)
	}

	s.log.InfoContext(ctx, "customer registered", "customer", cred.CustomerID)
	return cred, nil
}

// Login validates credentials and queues the session at the gate.
func (s *Service) Login(ctx context.Context, id, password string) (sess Session, err error) {
	defer s.observe("login", time.Now(), &err)

	if !s.ledger.ValidateCredentials(id, password) {
		s.log.WarnContext(ctx, "login rejected", "customer", id)
		return Session{}, fmt.Errorf("login %s: %w", id, models.ErrInvalidCredentials)
	}
	s.gate.Enqueue(id)

	customer, _ := s.ledger.Find(id)
	sess = Session{
		CustomerID: id,
		FirstLogin: customer.FirstLogin,
		Position:   s.gate.Position(id),
	}
	s.log.InfoContext(ctx, "session queued", "customer", id, "position", sess.Position)
	return sess, nil
}

// Logout removes id's session from the gate.
func (s *Service) Logout(ctx context.Context, id string) (err error) {
	defer s.observe("logout", time.Now(), &err)

	if !s.gate.Leave(id) {
		return fmt.Errorf("logout %s: %w", id, models.ErrNoSession)
	}
	s.log.InfoContext(ctx, "session closed", "customer", id)
	return nil
}

// ChangePassword replaces id's password and clears the first-login flag.
// id must have a queued session and current must be its present password.
func (s *Service) ChangePassword(ctx context.Context, id, current, newPassword string) (err error) {
	defer s.observe("change_password", time.Now(), &err)

	if s.gate.Position(id) < 0 {
		return fmt.Errorf("change password %s: %w", id, models.ErrNoSession)
	}
	if !s.ledger.ValidateCredentials(id, current) {
		s.log.WarnContext(ctx, "password change rejected", "customer", id)
		return fmt.Errorf("change password %s: %w", id, models.ErrInvalidCredentials)
	}
	if !s.ledger.ChangePassword(id, newPassword) {
		return fmt.Errorf("change password %s: %w", id, models.ErrNotFound)
	}
	s.log.InfoContext(ctx, "password changed", "customer", id)
	return nil
}

// IsMyTurn reports whether id is at the head of the gate
func (s *Service) IsMyTurn(id string) bool {
	return s.gate.IsFront(id)
}

// Inquire returns id's balances. id must hold the turn.
func (s *Service) Inquire(ctx context.Context, id string) (b models.Balances, err error) {
	defer s.observe("inquire", time.Now(), &err)

	err = s.withTurn(ctx, id, func() error {
		b, err = s.engine.Inquire(ctx, id)
		return err
	})
	return b, err
}

// Withdraw debits one of id's accounts. id must hold the turn.
func (s *Service) Withdraw(ctx context.Context, id string, account models.AccountType, amount decimal.Decimal) (r models.Receipt, err error) {
	defer s.observe("withdraw", time.Now(), &err)

	err = s.withTurn(ctx, id, func() error {
		r, err = s.engine.Withdraw(ctx, id, account, amount)
		return err
	})
	if err != nil {
		return models.Receipt{}, err
	}
	s.record(ctx, r)
	return r, nil
}

// Transfer moves money out of fromID's account. fromID must hold the turn;
// toID may be any customer, including fromID itself.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, fromAccount, toAccount models.AccountType, amount decimal.Decimal) (r models.Receipt, err error) {
	defer s.observe("transfer", time.Now(), &err)

	err = s.withTurn(ctx, fromID, func() error {
		r, err = s.engine.Transfer(ctx, fromID, toID, fromAccount, toAccount, amount)
		return err
	})
	if err != nil {
		return models.Receipt{}, err
	}
	s.record(ctx, r)
	return r, nil
}

// Customer returns id's profile with the password blanked
func (s *Service) Customer(_ context.Context, id string) (models.Customer, error) {
	customer, ok := s.ledger.Find(id)
	if !ok {
		return models.Customer{}, fmt.Errorf("customer %s: %w", id, models.ErrNotFound)
	}
	customer.Password = ""
	return customer, nil
}

// Status reports pool, ledger and queue occupancy
func (s *Service) Status() Status {
	return Status{
		CredentialsRemaining: s.pool.Remaining(),
		Customers:            s.ledger.Len(),
		Capacity:             s.ledger.Capacity(),
		Queue:                s.gate.Snapshot(),
	}
}

// Rules returns the minimum-balance rules in force
func (s *Service) Rules() Rules {
	return s.engine.Rules()
}

// withTurn runs fn while id holds the gate, refusing sessions that still
// owe a first-login password change and requests whose context is done.
func (s *Service) withTurn(ctx context.Context, id string, fn func() error) error {
	return s.gate.WithTurn(id, func() error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if customer, ok := s.ledger.Find(id); ok && customer.FirstLogin {
			return fmt.Errorf("%s: %w", id, models.ErrPasswordChangeRequired)
		}
		return fn()
	})
}

func (s *Service) record(ctx context.Context, r models.Receipt) {
	attrs := []any{
		"receipt", r.ID,
		"type", r.Type,
		"customer", r.CustomerID,
		"account", r.AccountType,
		"amount", r.Amount.StringFixed(2),
	}
	if r.Type == models.TxTransfer {
		attrs = append(attrs, "to_customer", r.ToCustomerID, "to_account", r.ToAccountType)
	}
	if r.PenaltyApplied {
		attrs = append(attrs, "penalty", r.Penalty.StringFixed(2))
		s.metrics.Penalty(string(r.AccountType))
	}
	s.log.InfoContext(ctx, "transaction completed", attrs...)
}

func (s *Service) observe(op string, started time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	if err != nil {
		s.log.Debug("operation failed", "op", op, "kind", models.KindOf(err), "error", err)
	}
	s.metrics.Observe(op, started, err)
	s.publish()
}

func (s *Service) publish() {
	s.metrics.SetQueueDepth(s.gate.Len())
	s.metrics.SetCustomers(s.ledger.Len())
	s.metrics.SetPoolRemaining(s.pool.Remaining())
}
