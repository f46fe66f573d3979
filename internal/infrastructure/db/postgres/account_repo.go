package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// AccountRepo stores accounts in the accounts table. Email uniqueness is
// enforced by the table's UNIQUE (email) constraint, never in Go.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, name, email, password_hash, role, is_active, created_at`

// ---------- helpers ----------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountRow(row rowScanner) (accountRow, error) {
	var ar accountRow
	err := row.Scan(
		&ar.ID,
		&ar.Name,
		&ar.Email,
		&ar.PasswordHash,
		&ar.Role,
		&ar.IsActive,
		&ar.CreatedAt,
	)
	return ar, err
}

func toDomainAccount(ar accountRow) domain.Account {
	return domain.Account{
		ID:           ar.ID,
		Name:         ar.Name,
		Email:        ar.Email,
		PasswordHash: ar.PasswordHash,
		Role:         ar.Role,
		IsActive:     ar.IsActive,
		CreatedAt:    ar.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *AccountRepo) findOne(ctx context.Context, q string, arg string) (domain.Account, error) {
	ar, err := scanAccountRow(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return toDomainAccount(ar), nil
}

// ---------- auth.AccountStore ----------

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Account{}, domain.ErrAccountNotFound()
	}

	const q = `
SELECT ` + accountColumns + `
FROM accounts
WHERE email = $1
LIMIT 1;
`
	return r.findOne(ctx, q, email)
}

func (r *AccountRepo) FindByID(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		// ids are uuids; anything else cannot exist
		return domain.Account{}, domain.ErrAccountNotFound()
	}

	const q = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
LIMIT 1;
`
	return r.findOne(ctx, q, id)
}

func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)
	if a.Role == "" {
		a.Role = string(domain.RoleUser)
	}

	const q = `
INSERT INTO accounts (id, name, email, password_hash, role, is_active)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + accountColumns + `;
`
	ar, err := scanAccountRow(r.db.QueryRowContext(ctx, q,
		uuid.NewString(), a.Name, a.Email, a.PasswordHash, a.Role, a.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrEmailAlreadyExists()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return toDomainAccount(ar), nil
}
