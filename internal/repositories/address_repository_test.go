package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAddressRepoTest(t *testing.T) (repository.AddressRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewAddressRepo(db), mock
}

func testAddress(userID uuid.UUID) *models.Address {
	return &models.Address{
		ID:      uuid.New(),
		UserID:  userID,
		Street:  "Bole Road 12",
		City:    "Addis Ababa",
		State:   "AA",
		ZipCode: "1000",
		Country: "ET",
		Phone:   "+251911000000",
	}
}

func TestCreateAddress_FirstAddressBecomesDefault(t *testing.T) {
	repo, mock := setupAddressRepoTest(t)

	userID := uuid.New()
	address := testAddress(userID)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM addresses WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE addresses SET is_default = FALSE`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO addresses`).
		WithArgs(address.ID, userID, address.Street, address.City, address.State,
			address.ZipCode, address.Country, address.Phone, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	err := repo.CreateAddress(context.Background(), address)

	require.NoError(t, err)
	assert.True(t, address.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAddress_NonDefaultSkipsUnset(t *testing.T) {
	repo, mock := setupAddressRepoTest(t)

	userID := uuid.New()
	address := testAddress(userID)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM addresses WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO addresses`).
		WithArgs(address.ID, userID, address.Street, address.City, address.State,
			address.ZipCode, address.Country, address.Phone, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	err := repo.CreateAddress(context.Background(), address)

	require.NoError(t, err)
	assert.False(t, address.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDefaultAddress_SwapsDefaultInOneTransaction(t *testing.T) {
	repo, mock := setupAddressRepoTest(t)

	userID := uuid.New()
	addressID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE addresses SET is_default = FALSE`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE addresses SET is_default = TRUE`).
		WithArgs(addressID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetDefaultAddress(context.Background(), addressID, userID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDefaultAddress_UnknownAddressRollsBack(t *testing.T) {
	repo, mock := setupAddressRepoTest(t)

	userID := uuid.New()
	addressID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE addresses SET is_default = FALSE`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE addresses SET is_default = TRUE`).
		WithArgs(addressID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetDefaultAddress(context.Background(), addressID, userID)

	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAddress_ScopedToOwner(t *testing.T) {
	repo, mock := setupAddressRepoTest(t)

	userID := uuid.New()
	addressID := uuid.New()

	mock.ExpectExec(`DELETE FROM addresses WHERE id = \$1 AND user_id = \$2`).
		WithArgs(addressID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteAddress(context.Background(), addressID, userID)

	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAddressesByUser_DefaultFirst(t *testing.T) {
	repo, mock := setupAddressRepoTest(t)

	userID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "street", "city", "state", "zip_code", "country", "phone", "is_default", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), userID, "Bole Road 12", "Addis Ababa", "AA", "1000", "ET", "+251911000000", true, now, now).
		AddRow(uuid.New(), userID, "Piassa 4", "Addis Ababa", "AA", "1001", "ET", "+251911000001", false, now, now)

	mock.ExpectQuery(`SELECT .+ FROM addresses WHERE user_id = \$1 ORDER BY is_default DESC, created_at DESC`).
		WithArgs(userID).
		WillReturnRows(rows)

	addresses, err := repo.ListAddressesByUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.True(t, addresses[0].IsDefault)
	assert.False(t, addresses[1].IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}
