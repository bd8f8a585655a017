package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/token-launcher/backend/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrTokenNotFound   = errors.New("token not found")
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `user_id, username, wallet_address, key_iv, key_content, points, is_in_group, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.UserID, &a.Username, &a.WalletAddress, &a.PrivateKey.IV, &a.PrivateKey.Content,
		&a.Points, &a.IsInGroup, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) Get(ctx context.Context, userID int64) (*models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE user_id = $1`, userID))
}

// UpsertWallet stores a freshly generated wallet. Points and deployed tokens
// survive a wallet re-creation; only the key material and username change.
func (r *AccountRepo) UpsertWallet(ctx context.Context, userID int64, username, address string, key models.EncryptedKey) (*models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, username, wallet_address, key_iv, key_content, is_in_group)
		VALUES ($1, $2, $3, $4, $5, true)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			wallet_address = EXCLUDED.wallet_address,
			key_iv = EXCLUDED.key_iv,
			key_content = EXCLUDED.key_content,
			updated_at = now()
		RETURNING `+accountColumns,
		userID, username, address, key.IV, key.Content))
}

// SetGroupMembership records a join (creating the row if needed) or a leave.
func (r *AccountRepo) SetGroupMembership(ctx context.Context, userID int64, inGroup bool) error {
	if !inGroup {
		_, err := r.pool.Exec(ctx, `UPDATE users SET is_in_group = false, updated_at = now() WHERE user_id = $1`, userID)
		return err
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (user_id, is_in_group) VALUES ($1, true)
		ON CONFLICT (user_id) DO UPDATE SET is_in_group = true, updated_at = now()
	`, userID)
	return err
}

// RecordDeployment appends the token snapshot and credits the deployment points
// in one transaction. rec.ID and rec.CreatedAt are filled in.
func (r *AccountRepo) RecordDeployment(ctx context.Context, rec *models.TokenRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE users SET points = points + $2, updated_at = now() WHERE user_id = $1`,
		rec.UserID, models.PointsPerDeployment)
	if err != nil {
		return fmt.Errorf("credit points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO tokens (user_id, variant, chain, name, symbol, supply, baseuri, website, telegram, twitter,
		                    description, contract_address, contract_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, rec.UserID, rec.Variant, rec.Chain, rec.Name, rec.Symbol, rec.Supply, rec.BaseURI, rec.Website,
		rec.Telegram, rec.Twitter, rec.Description, rec.ContractAddress, rec.ContractSource,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	return tx.Commit(ctx)
}

const tokenColumns = `id, user_id, variant, chain, name, symbol, supply, baseuri, website, telegram, twitter,
	description, contract_address, contract_source, created_at`

func scanToken(row pgx.Row) (*models.TokenRecord, error) {
	var t models.TokenRecord
	err := row.Scan(&t.ID, &t.UserID, &t.Variant, &t.Chain, &t.Name, &t.Symbol, &t.Supply, &t.BaseURI,
		&t.Website, &t.Telegram, &t.Twitter, &t.Description, &t.ContractAddress, &t.ContractSource, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTokens returns the user's deployments, oldest first.
func (r *AccountRepo) ListTokens(ctx context.Context, userID int64) ([]models.TokenRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []models.TokenRecord
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}

func (r *AccountRepo) GetToken(ctx context.Context, userID, tokenID int64) (*models.TokenRecord, error) {
	t, err := scanToken(r.pool.QueryRow(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE user_id = $1 AND id = $2`, userID, tokenID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	return t, err
}
