package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// GateState is what a protected view renders.
type GateState string

const (
	GateLoading         GateState = "LOADING"
	GateUnauthenticated GateState = "UNAUTHENTICATED"
	GateAuthenticated   GateState = "AUTHENTICATED"
)

// LoginRoute is where unauthenticated visitors are sent.
const LoginRoute = "/login"

// Decision is the outcome of resolving the gate.
type Decision struct {
	State    GateState
	Redirect string
	User     *models.User
}

// GateTransition records a LOADING exit for one validation cycle.
type GateTransition struct {
	Cycle uint64
	To    GateState
}

type sessionSource interface {
	Snapshot() models.Session
	EnsureValidated(ctx context.Context) error
	Subscribe(fn func(models.Session)) func()
}

// AuthGate decides whether a protected view may render.
type AuthGate struct {
	session sessionSource
	logger  *zap.Logger

	mu          sync.Mutex
	transitions []GateTransition
	recorded    bool
	lastCycle   uint64
	unsubscribe func()
}

// NewAuthGate constructs a gate observing session.
func NewAuthGate(session sessionSource, logger *zap.Logger) *AuthGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &AuthGate{session: session, logger: logger}
	g.unsubscribe = session.Subscribe(g.observe)
	g.observe(session.Snapshot())
	return g
}

// Close stops observing the session.
func (g *AuthGate) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
}

func stateOf(s models.Session) GateState {
	switch {
	case s.Loading:
		return GateLoading
	case s.User == nil:
		return GateUnauthenticated
	default:
		return GateAuthenticated
	}
}

func (g *AuthGate) observe(s models.Session) {
	if s.Loading {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recorded && g.lastCycle == s.Cycle {
		return
	}
	g.recorded = true
	g.lastCycle = s.Cycle
	to := stateOf(s)
	g.transitions = append(g.transitions, GateTransition{Cycle: s.Cycle, To: to})
	g.logger.Debug("auth gate settled", zap.Uint64("cycle", s.Cycle), zap.String("state", string(to)))
}

// State returns the current gate state.
func (g *AuthGate) State() GateState {
	return stateOf(g.session.Snapshot())
}

// Transitions returns the LOADING exits seen so far, one per validation cycle.
func (g *AuthGate) Transitions() []GateTransition {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GateTransition, len(g.transitions))
	copy(out, g.transitions)
	return out
}

// Resolve validates the session if needed and decides what to render.
// Unauthenticated visitors are redirected to the login route; the attempted
// location is not kept.
func (g *AuthGate) Resolve(ctx context.Context) Decision {
	if err := g.session.EnsureValidated(ctx); err != nil {
		g.logger.Warn("session check failed", zap.Error(err))
	}
	snap := g.session.Snapshot()
	d := Decision{State: stateOf(snap)}
	switch d.State {
	case GateUnauthenticated:
		d.Redirect = LoginRoute
	case GateAuthenticated:
		d.User = snap.User
	}
	return d
}

// Guard runs fn with the current user only when the session is authenticated.
func (g *AuthGate) Guard(ctx context.Context, fn func(user models.User) error) error {
	d := g.Resolve(ctx)
	if d.State != GateAuthenticated {
		err := appErrors.Clone(appErrors.ErrUnauthenticated, "please log in first")
		if cause := g.session.Snapshot().Err; cause != nil {
			err.Err = cause
		}
		return err
	}
	return fn(*d.User)
}
