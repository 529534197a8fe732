package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/cooleo273/ecommerce-platform/internal/utils"
	"github.com/google/uuid"
)

type AddressRepository interface {
	CreateAddress(ctx context.Context, address *models.Address) error
	GetAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListAddressesByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	UpdateAddress(ctx context.Context, address *models.Address) error
	DeleteAddress(ctx context.Context, id, userID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, id, userID uuid.UUID) error
}

type addressRepository struct {
	DB *sql.DB
}

func NewAddressRepo(db *sql.DB) AddressRepository {
	return &addressRepository{DB: db}
}

const addressColumns = `id, user_id, street, city, state, zip_code, country, phone, is_default, created_at, updated_at`

func (r *addressRepository) CreateAddress(ctx context.Context, address *models.Address) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, address.UserID).Scan(&count); err != nil {
		return fmt.Errorf("failed to count addresses: %w", err)
	}

	// First address always becomes the default.
	if count == 0 {
		address.IsDefault = true
	}

	if address.IsDefault {
		if _, err := tx.ExecContext(dbCtx,
			`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, address.UserID); err != nil {
			return fmt.Errorf("failed to unset default address: %w", err)
		}
	}

	query := `
		INSERT INTO addresses (id, user_id, street, city, state, zip_code, country, phone, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, query,
		address.ID, address.UserID, address.Street, address.City, address.State,
		address.ZipCode, address.Country, address.Phone, address.IsDefault).
		Scan(&address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit address transaction: %w", err)
	}

	return nil
}

func (r *addressRepository) GetAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	address := &models.Address{}

	err := r.DB.QueryRowContext(dbCtx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id).
		Scan(&address.ID, &address.UserID, &address.Street, &address.City, &address.State,
			&address.ZipCode, &address.Country, &address.Phone, &address.IsDefault,
			&address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return address, nil
}

func (r *addressRepository) ListAddressesByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	defer rows.Close()

	var addresses []models.Address

	for rows.Next() {

		var address models.Address

		if err := rows.Scan(&address.ID, &address.UserID, &address.Street, &address.City, &address.State,
			&address.ZipCode, &address.Country, &address.Phone, &address.IsDefault,
			&address.CreatedAt, &address.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}

		addresses = append(addresses, address)
	}

	return addresses, rows.Err()
}

func (r *addressRepository) UpdateAddress(ctx context.Context, address *models.Address) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if address.IsDefault {
		if _, err := tx.ExecContext(dbCtx,
			`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default AND id <> $2`,
			address.UserID, address.ID); err != nil {
			return fmt.Errorf("failed to unset default address: %w", err)
		}
	}

	query := `
		UPDATE addresses
		SET street = $1, city = $2, state = $3, zip_code = $4, country = $5, phone = $6, is_default = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := tx.ExecContext(dbCtx, query,
		address.Street, address.City, address.State, address.ZipCode, address.Country,
		address.Phone, address.IsDefault, time.Now(), address.ID, address.UserID)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit address transaction: %w", err)
	}

	return nil
}

func (r *addressRepository) DeleteAddress(ctx context.Context, id, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *addressRepository) SetDefaultAddress(ctx context.Context, id, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(dbCtx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, userID); err != nil {
		return fmt.Errorf("failed to unset default address: %w", err)
	}

	result, err := tx.ExecContext(dbCtx,
		`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit address transaction: %w", err)
	}

	return nil
}
