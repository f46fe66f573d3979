package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeAccountStore struct {
	mu sync.Mutex

	byID    map[string]domain.Account
	byEmail map[string]domain.Account
	seq     int

	// injected errors (if set, method returns error)
	findErr   error
	createErr error

	// skipLookup makes FindByEmail always miss, simulating a lost race
	// between the pre-check and the insert
	skipLookup bool
	block      chan struct{}

	findCalls   int
	createCalls int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		byID:    map[string]domain.Account{},
		byEmail: map[string]domain.Account{},
	}
}

func (f *fakeAccountStore) put(a domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = a
	f.byEmail[a.Email] = a
}

func (f *fakeAccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return domain.Account{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++

	if f.findErr != nil {
		return domain.Account{}, f.findErr
	}
	a, ok := f.byEmail[email]
	if !ok || f.skipLookup {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeAccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeAccountStore) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if f.createErr != nil {
		return domain.Account{}, f.createErr
	}
	if _, exists := f.byEmail[a.Email]; exists {
		return domain.Account{}, domain.ErrEmailAlreadyExists()
	}
	f.seq++
	a.ID = fmt.Sprintf("acc-%d", f.seq)
	a.CreatedAt = time.Unix(1700000000, 0).UTC()
	f.byID[a.ID] = a
	f.byEmail[a.Email] = a
	return a, nil
}

type fakeHasher struct {
	mu sync.Mutex

	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error

	hashed   []string
	compared []string // hashes compared against
}

func (h *fakeHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	h.hashed = append(h.hashed, password)
	h.mu.Unlock()

	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	h.mu.Lock()
	h.compared = append(h.compared, hash)
	h.mu.Unlock()

	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeIssuer struct {
	issueFn  func(c Claims) (string, error)
	verifyFn func(token string) (Claims, error)

	issued []Claims
}

func (s *fakeIssuer) Issue(c Claims) (string, error) {
	s.issued = append(s.issued, c)
	if s.issueFn != nil {
		return s.issueFn(c)
	}
	return fmt.Sprintf("jwt(%s,%s,%s)", c.AccountID, c.Email, c.Role), nil
}

func (s *fakeIssuer) Verify(token string) (Claims, error) {
	if s.verifyFn != nil {
		return s.verifyFn(token)
	}
	return Claims{}, domain.ErrTokenInvalid()
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []AccountRegisteredEvent
}

func (p *fakePublisher) PublishAccountRegistered(ctx context.Context, evt AccountRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type auditEntry struct {
	action string
	fields map[string]string
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditRecorder) record(_ context.Context, action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditRecorder) last() auditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return auditEntry{}
	}
	return a.entries[len(a.entries)-1]
}

type testDeps struct {
	store  *fakeAccountStore
	hasher *fakeHasher
	issuer *fakeIssuer
	pub    *fakePublisher
	audit  *auditRecorder
}

func newSvcForTest(t *testing.T, cfg Config) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		store:  newFakeAccountStore(),
		hasher: &fakeHasher{},
		issuer: &fakeIssuer{},
		pub:    &fakePublisher{},
		audit:  &auditRecorder{},
	}
	svc := NewService(d.store, d.hasher, d.issuer, d.pub, cfg).WithAudit(d.audit.record)
	return svc, d
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func boolPtr(b bool) *bool { return &b }
