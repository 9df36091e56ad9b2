package session

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/common"

	_ "modernc.org/sqlite"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func storedKeys(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()
	rows, err := db.Query(`SELECT key, value FROM metadata`)
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k string
		var v []byte
		require.NoError(t, rows.Scan(&k, &v))
		out[k] = string(v)
	}
	require.NoError(t, rows.Err())
	return out
}

var testUser = &models.Principal{ID: "u1", Name: "Test User", Email: "user@test.com"}

func TestStore_StartsUnauthenticated(t *testing.T) {
	s := NewStore(&MemoryStorage{}, nil)
	st := s.Snapshot()
	require.False(t, st.Authenticated)
	require.True(t, st.Valid())

	_, err := s.Token()
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestStore_Restore_BothPresent(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, NewSQLStorage(db).Save(context.Background(), "T1", testUser))

	s := NewStore(NewSQLStorage(db), nil)
	st, err := s.Restore(context.Background())
	require.NoError(t, err)

	require.True(t, st.Authenticated)
	require.Equal(t, "T1", st.Credential)
	if diff := cmp.Diff(testUser, st.Principal); diff != "" {
		t.Fatalf("principal mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, st, s.Snapshot())
}

func TestStore_Restore_PartialDataIsUnauthenticated(t *testing.T) {
	tests := []struct {
		name string
		rows map[string]string
	}{
		{"empty", nil},
		{"token only", map[string]string{common.CredentialStorageKey: "T1"}},
		{"user only", map[string]string{common.PrincipalStorageKey: `{"id":"u1","name":"x"}`}},
		{"empty token", map[string]string{common.CredentialStorageKey: "", common.PrincipalStorageKey: `{"id":"u1"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			for k, v := range tt.rows {
				_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES(?, ?)`, k, []byte(v))
				require.NoError(t, err)
			}

			s := NewStore(NewSQLStorage(db), nil)
			st, err := s.Restore(context.Background())
			require.NoError(t, err)
			require.False(t, st.Authenticated)
			require.True(t, st.Valid())
		})
	}
}

func TestStore_Restore_CorruptPrincipal(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES('token', 'T1'), ('user', '{not json')`)
	require.NoError(t, err)

	s := NewStore(NewSQLStorage(db), nil)
	st, err := s.Restore(context.Background())
	require.Error(t, err)
	require.False(t, st.Authenticated)
}

func TestStore_EstablishPersistsBothKeys(t *testing.T) {
	db := setupDB(t)
	s := NewStore(NewSQLStorage(db), nil)

	require.NoError(t, s.Establish(context.Background(), "tok-abc", testUser))

	keys := storedKeys(t, db)
	require.Equal(t, "tok-abc", keys[common.CredentialStorageKey])
	require.JSONEq(t, `{"id":"u1","name":"Test User","email":"user@test.com"}`, keys[common.PrincipalStorageKey])

	tok, err := s.Token()
	require.NoError(t, err)
	require.Equal(t, "tok-abc", tok.AccessToken)
	require.Equal(t, "Bearer", tok.Type())
}

func TestStore_EstablishRejectsIncompleteSession(t *testing.T) {
	s := NewStore(&MemoryStorage{}, nil)
	require.ErrorIs(t, s.Establish(context.Background(), "", testUser), ErrInvalidSession)
	require.ErrorIs(t, s.Establish(context.Background(), "T1", nil), ErrInvalidSession)
	require.False(t, s.Authenticated())
}

type failingStorage struct {
	MemoryStorage
	saveErr  error
	evictErr error
}

func (f *failingStorage) Save(ctx context.Context, c string, p *models.Principal) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStorage.Save(ctx, c, p)
}

func (f *failingStorage) Evict(ctx context.Context) error {
	if f.evictErr != nil {
		return f.evictErr
	}
	return f.MemoryStorage.Evict(ctx)
}

func TestStore_EstablishStorageFailureKeepsState(t *testing.T) {
	boom := errors.New("disk full")
	s := NewStore(&failingStorage{saveErr: boom}, nil)

	err := s.Establish(context.Background(), "T1", testUser)
	require.ErrorIs(t, err, boom)
	require.False(t, s.Authenticated())
}

func TestStore_ClearEvictionFailureStillClearsMemory(t *testing.T) {
	fs := &failingStorage{}
	s := NewStore(fs, nil)
	require.NoError(t, s.Establish(context.Background(), "T1", testUser))

	fs.evictErr = errors.New("locked")
	was, err := s.Clear(context.Background())
	require.Error(t, err)
	require.True(t, was)
	require.False(t, s.Authenticated())
}

func TestStore_ClearTwiceIsIdempotent(t *testing.T) {
	db := setupDB(t)
	s := NewStore(NewSQLStorage(db), nil)
	ctx := context.Background()
	require.NoError(t, s.Establish(ctx, "T1", testUser))

	was, err := s.Clear(ctx)
	require.NoError(t, err)
	require.True(t, was)
	require.False(t, s.Authenticated())
	require.Empty(t, storedKeys(t, db))

	was, err = s.Clear(ctx)
	require.NoError(t, err)
	require.False(t, was)
	require.False(t, s.Authenticated())
	require.Empty(t, storedKeys(t, db))
}

func TestStore_ClearIfCurrentKeepsNewerCredential(t *testing.T) {
	mem := &MemoryStorage{}
	s := NewStore(mem, nil)
	ctx := context.Background()
	require.NoError(t, s.Establish(ctx, "T2", testUser))

	was, superseded, err := s.ClearIfCurrent(ctx, "T1")
	require.NoError(t, err)
	require.True(t, was)
	require.True(t, superseded)
	require.Equal(t, "T2", s.Snapshot().Credential)
	require.False(t, mem.Empty())

	was, superseded, err = s.ClearIfCurrent(ctx, "T2")
	require.NoError(t, err)
	require.True(t, was)
	require.False(t, superseded)
	require.False(t, s.Authenticated())
	require.True(t, mem.Empty())

	was, superseded, err = s.ClearIfCurrent(ctx, "T2")
	require.NoError(t, err)
	require.False(t, was)
	require.False(t, superseded)
}

func TestStore_EstablishReplacesCredential(t *testing.T) {
	mem := &MemoryStorage{}
	s := NewStore(mem, nil)
	ctx := context.Background()

	require.NoError(t, s.Establish(ctx, "T1", testUser))
	other := &models.Principal{ID: "u2", Name: "Other"}
	require.NoError(t, s.Establish(ctx, "T2", other))

	st := s.Snapshot()
	require.Equal(t, "T2", st.Credential)
	require.Equal(t, models.ID("u2"), st.Principal.ID)
	require.Equal(t, 2, mem.Saves)
}

func TestStore_InvariantHoldsAcrossSequences(t *testing.T) {
	s := NewStore(&MemoryStorage{}, nil)
	ctx := context.Background()

	ops := []func(){
		func() { _ = s.Establish(ctx, "T1", testUser) },
		func() { _, _ = s.Clear(ctx) },
		func() { _ = s.Establish(ctx, "", testUser) },
		func() { _, _ = s.Restore(ctx) },
		func() { _ = s.Establish(ctx, "T2", testUser) },
		func() { _ = s.Establish(ctx, "T3", nil) },
		func() { _, _ = s.Restore(ctx) },
		func() { _, _ = s.Clear(ctx) },
		func() { _, _ = s.Clear(ctx) },
	}
	for i, op := range ops {
		op()
		st := s.Snapshot()
		require.Truef(t, st.Valid(), "invariant broken after op %d: %+v", i, st)
	}
}

func TestStore_ConcurrentClearAndRead(t *testing.T) {
	db := setupDB(t)
	s := NewStore(NewSQLStorage(db), nil)
	ctx := context.Background()
	require.NoError(t, s.Establish(ctx, "T1", testUser))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		cleared int
	)
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			was, err := s.Clear(ctx)
			assert.NoError(t, err)
			if was {
				mu.Lock()
				cleared++
				mu.Unlock()
			}
		}()
		go func() {
			defer wg.Done()
			assert.True(t, s.Snapshot().Valid())
			_, _ = s.Token()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, cleared)
	require.False(t, s.Authenticated())
	require.Empty(t, storedKeys(t, db))
}

func TestStore_SubscribeReceivesChanges(t *testing.T) {
	s := NewStore(&MemoryStorage{}, nil)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	require.NoError(t, s.Establish(context.Background(), "T1", testUser))
	select {
	case st := <-ch:
		require.True(t, st.Authenticated)
		require.Equal(t, "T1", st.Credential)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}

	_, err := s.Clear(context.Background())
	require.NoError(t, err)
	select {
	case st := <-ch:
		require.False(t, st.Authenticated)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
}

func TestStore_SlowSubscriberSeesLatest(t *testing.T) {
	s := NewStore(&MemoryStorage{}, nil)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()
	ctx := context.Background()

	require.NoError(t, s.Establish(ctx, "T1", testUser))
	require.NoError(t, s.Establish(ctx, "T2", testUser))
	_, err := s.Clear(ctx)
	require.NoError(t, err)

	st := <-ch
	require.False(t, st.Authenticated)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra state %+v", extra)
	default:
	}
}

func TestStore_UnsubscribeClosesChannel(t *testing.T) {
	s := NewStore(&MemoryStorage{}, nil)
	ch, unsubscribe := s.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
		}
	}()

	require.NoError(t, s.Establish(context.Background(), "T1", testUser))
	unsubscribe()
	unsubscribe()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscriber goroutine did not exit")
	}
}
