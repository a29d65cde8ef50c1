package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/member-portal/internal/domain"
)

// MemberFilter captures admin console search parameters. Status is derived at
// read time and therefore filtered in the service, not here.
type MemberFilter struct {
	Search *string
	Branch *string
}

// MemberRepository defines persistence access for members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	Update(ctx context.Context, member *domain.Member) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetVerified(ctx context.Context, email string) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	ListWithFilter(ctx context.Context, filter MemberFilter) ([]domain.Member, error)
	DistinctBranches(ctx context.Context) ([]string, error)
	HardDelete(ctx context.Context, email string) error
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The unique indexes are the authoritative duplicate-identity
// signal; check-then-insert alone would race.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const memberColumns = `id, member_id, first_name, last_name, email, phone, password_hash,
               gender, birthdate, branch, position, is_verified, is_deleted,
               last_login_at, deleted_at, created_at, updated_at`

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (member_id, first_name, last_name, email, phone, password_hash,
                             gender, birthdate, branch, position)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, is_verified, is_deleted, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.MemberID,
		member.FirstName,
		member.LastName,
		member.Email,
		member.Phone,
		member.PasswordHash,
		member.Gender,
		member.Birthdate,
		member.Branch,
		member.Position,
	).Scan(&member.ID, &member.IsVerified, &member.IsDeleted, &member.CreatedAt, &member.UpdatedAt)
}

// Update persists mutable fields. Gender and birthdate are deliberately not
// part of the statement; they are fixed at registration.
func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	const query = `
        UPDATE members SET first_name=$1, last_name=$2, phone=$3, branch=$4, position=$5,
            is_verified=$6, is_deleted=$7, last_login_at=$8, deleted_at=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		member.FirstName,
		member.LastName,
		member.Phone,
		member.Branch,
		member.Position,
		member.IsVerified,
		member.IsDeleted,
		member.LastLoginAt,
		member.DeletedAt,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE members SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE members SET last_login_at=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *memberRepository) SetVerified(ctx context.Context, email string) error {
	const query = `UPDATE members SET is_verified=TRUE, updated_at=NOW() WHERE email=$1`
	cmd, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE id=$1`, memberColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE email=$1`, memberColumns)
	return r.fetchSingle(ctx, query, email)
}

func (r *memberRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Member, error) {
	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.MemberID,
		&member.FirstName,
		&member.LastName,
		&member.Email,
		&member.Phone,
		&member.PasswordHash,
		&member.Gender,
		&member.Birthdate,
		&member.Branch,
		&member.Position,
		&member.IsVerified,
		&member.IsDeleted,
		&member.LastLoginAt,
		&member.DeletedAt,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ListWithFilter(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	base := fmt.Sprintf(`SELECT %s FROM members`, memberColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Branch != nil && strings.TrimSpace(*filter.Branch) != "" {
		args = append(args, *filter.Branch)
		clauses = append(clauses, fmt.Sprintf("branch=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		term := strings.TrimSpace(*filter.Search)
		// A search for the synthetic member ID arrives with the display
		// prefix; the suffix is derived from the row's own UUID.
		idTerm := strings.TrimPrefix(strings.ToUpper(term), "FW-")
		args = append(args, "%"+strings.ToLower(term)+"%")
		likeArg := len(args)
		args = append(args, "%"+idTerm+"%")
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(first_name || ' ' || last_name) LIKE $%d OR LOWER(email) LIKE $%d
              OR UPPER(COALESCE(NULLIF(member_id, ''), RIGHT(REPLACE(id::text, '-', ''), 6))) LIKE $%d)`,
			likeArg, likeArg, len(args)))
	}

	query := base + " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(
			&member.ID,
			&member.MemberID,
			&member.FirstName,
			&member.LastName,
			&member.Email,
			&member.Phone,
			&member.PasswordHash,
			&member.Gender,
			&member.Birthdate,
			&member.Branch,
			&member.Position,
			&member.IsVerified,
			&member.IsDeleted,
			&member.LastLoginAt,
			&member.DeletedAt,
			&member.CreatedAt,
			&member.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *memberRepository) DistinctBranches(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT branch FROM members WHERE branch <> '' ORDER BY branch`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := []string{}
	for rows.Next() {
		var branch string
		if err := rows.Scan(&branch); err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}

func (r *memberRepository) HardDelete(ctx context.Context, email string) error {
	const query = `DELETE FROM members WHERE email=$1`
	cmd, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
