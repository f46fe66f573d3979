package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

func seedAccount(d testDeps, active bool) domain.Account {
	a := domain.Account{
		ID:           "acc-1",
		Name:         "Ann",
		Email:        "a@x.com",
		PasswordHash: "hash:secret1",
		Role:         "user",
		IsActive:     active,
	}
	d.store.put(a)
	return a
}

func TestLogin_Success_IssuesMinimalClaims(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	seedAccount(d, true)

	res, err := svc.Login(context.Background(), LoginInput{Email: " A@x.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	want := Claims{AccountID: "acc-1", Email: "a@x.com", Role: "user"}
	if res.Claims != want {
		t.Fatalf("unexpected claims: %+v", res.Claims)
	}
	if len(d.issuer.issued) != 1 || d.issuer.issued[0] != want {
		t.Fatalf("issuer got unexpected claims: %+v", d.issuer.issued)
	}
	if strings.Contains(res.Token, "hash:") {
		t.Fatalf("token must not carry the password hash")
	}
	if got := d.audit.last().action; got != "login_success" {
		t.Fatalf("expected login_success audit, got %q", got)
	}
}

func TestLogin_TokenTTL_SetsExpiry(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{TokenTTL: time.Hour})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	seedAccount(d, true)

	res, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if !res.Claims.ExpiresAt.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", res.Claims.ExpiresAt)
	}
}

func TestLogin_UnknownEmail_NonEnumerating(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "missing@x.com", Password: "secret1"})
	requireErrCode(t, err, domain.CodeInvalidCredentials)

	if len(d.hasher.compared) != 1 {
		t.Fatalf("expected a dummy comparison for unknown email, got %d", len(d.hasher.compared))
	}
	if e := d.audit.last(); e.fields["reason"] != domain.CodeAccountNotFound {
		t.Fatalf("audit must record the internal reason, got %+v", e)
	}
}

func TestLogin_WrongPassword_SameErrorAsUnknownEmail(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	seedAccount(d, true)

	_, wrongPw := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "wrong"})
	_, unknown := svc.Login(context.Background(), LoginInput{Email: "b@x.com", Password: "wrong"})

	requireErrCode(t, wrongPw, domain.CodeInvalidCredentials)
	requireErrCode(t, unknown, domain.CodeInvalidCredentials)
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", wrongPw, unknown)
	}
	if len(d.issuer.issued) != 0 {
		t.Fatalf("no token must be issued")
	}
}

func TestLogin_InactiveAccount_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	seedAccount(d, false)

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "secret1"})
	requireErrCode(t, err, domain.CodeInvalidCredentials)

	if e := d.audit.last(); e.fields["reason"] != "account_inactive" {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
}

func TestLogin_ValidationError(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "not-an-email", Password: "x"})
	requireErrCode(t, err, domain.CodeValidationFailed)
	if d.store.findCalls != 0 {
		t.Fatalf("store must not be touched")
	}
}

func TestLogin_StoreUnavailable(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	d.store.findErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "secret1"})
	requireErrCode(t, err, domain.CodeDBUnavailable)
}

func TestLogin_CompareTimeout_ReturnsUnavailable(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{HashTimeout: 20 * time.Millisecond})
	seedAccount(d, true)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	d.hasher.compareFn = func(string, string) error {
		<-release
		return nil
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "secret1"})
	requireErrCode(t, err, domain.CodeUnavailable)
}

func TestLogin_IssuerFailure_TokenSignFailed(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	seedAccount(d, true)
	d.issuer.issueFn = func(Claims) (string, error) { return "", errors.New("no key") }

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "secret1"})
	requireErrCode(t, err, domain.CodeTokenSignFailed)
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	want := Claims{AccountID: "acc-1", Email: "a@x.com", Role: "user"}
	d.issuer.verifyFn = func(token string) (Claims, error) {
		if token == "good" {
			return want, nil
		}
		return Claims{}, errors.New("bad signature")
	}

	got, err := svc.VerifyToken(" good ")
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v / %v", want, got, err)
	}

	_, err = svc.VerifyToken("")
	requireErrCode(t, err, domain.CodeTokenMissing)

	_, err = svc.VerifyToken("forged")
	requireErrCode(t, err, domain.CodeTokenInvalid)
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	svc, d := newSvcForTest(t, Config{})
	seedAccount(d, true)

	a, err := svc.GetAccount(context.Background(), "acc-1")
	if err != nil || a.Name != "Ann" {
		t.Fatalf("unexpected result: %+v / %v", a, err)
	}

	_, err = svc.GetAccount(context.Background(), "missing")
	requireErrCode(t, err, domain.CodeAccountNotFound)

	_, err = svc.GetAccount(context.Background(), " ")
	requireErrCode(t, err, domain.CodeTokenInvalid)
}
