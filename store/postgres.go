package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"uprate/backend/models"
)

const uniqueViolation = "23505"

// Postgres is the pgx-backed Store. Slug and email uniqueness come from
// UNIQUE constraints, so concurrent writers cannot both pass the check.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const businessCols = `id, unique_id, name, slug, lat, lng, type, COALESCE(google_link,''), COALESCE(review_page_link,''), questions::text, color_scheme, created_at, updated_at`

func scanBusiness(row pgx.Row) (*models.Business, error) {
	var b models.Business
	var questions, scheme string
	err := row.Scan(&b.ID, &b.UniqueID, &b.Name, &b.Slug, &b.Location.Lat, &b.Location.Lng, &b.Type,
		&b.GoogleLink, &b.ReviewPageLink, &questions, &scheme, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	b.ColorScheme = models.ColorScheme(scheme)
	if err := json.Unmarshal([]byte(questions), &b.Questions); err != nil {
		return nil, fmt.Errorf("decoding questions for %s: %w", b.ID, err)
	}
	if b.Type == nil {
		b.Type = []string{}
	}
	return &b, nil
}

func (p *Postgres) CreateBusiness(ctx context.Context, b *models.Business) (*models.Business, error) {
	qb, err := json.Marshal(questionsOrEmpty(b.Questions))
	if err != nil {
		return nil, err
	}
	now := nowMillis()
	row := p.pool.QueryRow(ctx, `
        INSERT INTO businesses(id, unique_id, name, slug, lat, lng, type, google_link, review_page_link, questions, color_scheme, created_at, updated_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),NULLIF($9,''),$10::jsonb,$11,$12,$12)
        RETURNING `+businessCols,
		uuid.NewString(), newUniqueID(), b.Name, b.Slug, b.Location.Lat, b.Location.Lng, typesOrEmpty(b.Type),
		b.GoogleLink, b.ReviewPageLink, string(qb), string(b.ColorScheme), now)
	return scanBusiness(row)
}

func (p *Postgres) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	return scanBusiness(p.pool.QueryRow(ctx, `SELECT `+businessCols+` FROM businesses WHERE id=$1`, id))
}

func (p *Postgres) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	return scanBusiness(p.pool.QueryRow(ctx, `SELECT `+businessCols+` FROM businesses WHERE slug=$1`, slug))
}

func (p *Postgres) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+businessCols+` FROM businesses ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateBusiness locks the row, applies the patch in Go and writes the
// whole record back inside one transaction.
func (p *Postgres) UpdateBusiness(ctx context.Context, id string, upd models.BusinessUpdate) (*models.Business, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	b, err := scanBusiness(tx.QueryRow(ctx, `SELECT `+businessCols+` FROM businesses WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	upd.Apply(b)
	qb, err := json.Marshal(questionsOrEmpty(b.Questions))
	if err != nil {
		return nil, err
	}
	out, err := scanBusiness(tx.QueryRow(ctx, `
        UPDATE businesses SET name=$2, slug=$3, lat=$4, lng=$5, type=$6, google_link=NULLIF($7,''), review_page_link=NULLIF($8,''),
            questions=$9::jsonb, color_scheme=$10, updated_at=$11
        WHERE id=$1
        RETURNING `+businessCols,
		id, b.Name, b.Slug, b.Location.Lat, b.Location.Lng, typesOrEmpty(b.Type), b.GoogleLink, b.ReviewPageLink,
		string(qb), string(b.ColorScheme), nowMillis()))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (p *Postgres) DeleteBusiness(ctx context.Context, id string) error {
	res, err := p.pool.Exec(ctx, `DELETE FROM businesses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const userCols = `id, name, email, password_hash, active, created_at, updated_at, password_changed_at, delete_at`

func scanUser(row pgx.Row) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.PasswordChangedAt, &u.DeleteAt); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.AdminUser) (*models.AdminUser, error) {
	now := nowMillis()
	return scanUser(p.pool.QueryRow(ctx, `
        INSERT INTO admin_users(id, name, email, password_hash, active, created_at, updated_at)
        VALUES($1,$2,$3,$4,$5,$6,$6)
        RETURNING `+userCols,
		uuid.NewString(), u.Name, u.Email, u.PasswordHash, u.Active, now))
}

func (p *Postgres) GetUser(ctx context.Context, id string) (*models.AdminUser, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userCols+` FROM admin_users WHERE id=$1`, id))
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userCols+` FROM admin_users WHERE email=$1`, email))
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userCols+` FROM admin_users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.AdminUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.AdminUser, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userCols+` FROM admin_users WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	applyUserUpdate(u, upd, nowMillis())
	out, err := scanUser(tx.QueryRow(ctx, `
        UPDATE admin_users SET name=$2, email=$3, password_hash=$4, active=$5, updated_at=$6, password_changed_at=$7, delete_at=$8
        WHERE id=$1
        RETURNING `+userCols,
		id, u.Name, u.Email, u.PasswordHash, u.Active, u.UpdatedAt, u.PasswordChangedAt, u.DeleteAt))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (p *Postgres) DeleteUser(ctx context.Context, id string) error {
	res, err := p.pool.Exec(ctx, `DELETE FROM admin_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

func typesOrEmpty(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

func questionsOrEmpty(q []models.Question) []models.Question {
	if q == nil {
		return []models.Question{}
	}
	return q
}
