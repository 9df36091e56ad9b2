package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/logging"
)

var (
	// ErrNotAuthenticated is returned by Token while no credential is held.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	// ErrInvalidSession is returned by Establish for an empty credential or a nil principal.
	ErrInvalidSession = errors.New("session: credential and principal are required")
)

// Store owns the session. It is safe for concurrent use.
//
// Writers (Restore, Establish, Clear) are serialized so the durable copy and
// the in-memory state never diverge; readers only take the state lock and are
// never blocked on storage I/O.
type Store struct {
	storage Storage
	logger  logging.Logger

	writeMu sync.Mutex

	mu    sync.RWMutex
	state State

	subsMu sync.Mutex
	subs   map[int]chan State
	nextID int
}

// NewStore returns an unauthenticated store backed by storage.
func NewStore(storage Storage, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		storage: storage,
		logger:  logger,
		subs:    make(map[int]chan State),
	}
}

// Restore loads the durable session. When both credential and principal are
// present the store becomes Authenticated without contacting anyone; a stale
// credential is discovered by the first request that gets a 401.
// Anything else (partial or undecodable data) leaves the store Unauthenticated.
func (s *Store) Restore(ctx context.Context) (State, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	credential, principal, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "discarding stored session", "error", err)
		s.set(Unauthenticated)
		return Unauthenticated, fmt.Errorf("restore session: %w", err)
	}

	if credential == "" || principal == nil {
		s.set(Unauthenticated)
		return Unauthenticated, nil
	}

	st := authenticated(credential, principal)
	s.set(st)
	s.logger.Debug(ctx, "session restored", "user", principal.DisplayName())
	return st, nil
}

// Establish persists credential and principal together and then makes them
// current. A previous credential is replaced. On a storage failure the
// in-memory state is left untouched.
func (s *Store) Establish(ctx context.Context, credential string, principal *models.Principal) error {
	if credential == "" || principal == nil {
		return ErrInvalidSession
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.storage.Save(ctx, credential, principal); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.set(authenticated(credential, principal))
	return nil
}

// Clear drops the session and evicts the durable copy. It is idempotent and
// may be called concurrently. Memory is cleared first so requests sent after
// Clear starts no longer carry the credential. It reports whether the store
// was authenticated before the call.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.clearLocked(ctx)
}

// ClearIfCurrent is Clear for a rejection of a request that carried
// credential. When the store has since been established with a different
// credential the session is kept and superseded is true.
func (s *Store) ClearIfCurrent(ctx context.Context, credential string) (was, superseded bool, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if st := s.Snapshot(); st.Authenticated && st.Credential != credential {
		return true, true, nil
	}
	was, err = s.clearLocked(ctx)
	return was, false, err
}

func (s *Store) clearLocked(ctx context.Context) (bool, error) {
	was := s.Snapshot().Authenticated
	if was {
		s.set(Unauthenticated)
	}

	if err := s.storage.Evict(ctx); err != nil {
		return was, fmt.Errorf("evict session: %w", err)
	}
	return was, nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated is a shorthand for Snapshot().Authenticated.
func (s *Store) Authenticated() bool {
	return s.Snapshot().Authenticated
}

// Principal returns a copy of the current principal or nil.
func (s *Store) Principal() *models.Principal {
	st := s.Snapshot()
	if st.Principal == nil {
		return nil
	}
	p := *st.Principal
	return &p
}

// Token implements oauth2.TokenSource. The credential is read at call time,
// so a transport calling Token per request always sees the live session.
func (s *Store) Token() (*oauth2.Token, error) {
	st := s.Snapshot()
	if !st.Authenticated {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: st.Credential, TokenType: "Bearer"}, nil
}

// Subscribe registers for state changes. The returned channel holds at most
// one pending state; a slow reader only ever sees the latest one. Calling
// the returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) set(st State) {
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()

	if prev.Authenticated == st.Authenticated && prev.Credential == st.Credential {
		return
	}
	s.publish(st)
}

func (s *Store) publish(st State) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- st:
			continue
		default:
		}
		// drop the stale pending value
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

var _ oauth2.TokenSource = (*Store)(nil)
