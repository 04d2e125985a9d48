package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resellerhub/resellerhub/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Storage{DB: db}, mock
}

func TestConfirmPayment_Commit(t *testing.T) {
	storage, mock := newMockStorage(t)
	expiresAt := time.Now().UTC().AddDate(0, 0, 30)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").
		WithArgs("confirmed", "admin-1", "p-1", "pending", "waiting_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs("pro", expiresAt, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := storage.ConfirmPayment(context.Background(), "p-1", "u-1", "pro", "admin-1", expiresAt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Если обновление тарифа владельца не прошло, запись о подтверждении
// платежа тоже не должна сохраниться.
func TestConfirmPayment_RollbackOnPlanUpdateFailure(t *testing.T) {
	storage, mock := newMockStorage(t)
	expiresAt := time.Now().UTC().AddDate(0, 0, 30)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").
		WithArgs("confirmed", "admin-1", "p-1", "pending", "waiting_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs("pro", expiresAt, "u-1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := storage.ConfirmPayment(context.Background(), "p-1", "u-1", "pro", "admin-1", expiresAt)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPayment_MissingOwnerRollsBack(t *testing.T) {
	storage, mock := newMockStorage(t)
	expiresAt := time.Now().UTC().AddDate(0, 0, 30)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").
		WithArgs("confirmed", "admin-1", "p-1", "pending", "waiting_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users").
		WithArgs("pro", expiresAt, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := storage.ConfirmPayment(context.Background(), "p-1", "ghost", "pro", "admin-1", expiresAt)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Условие по статусу в самом UPDATE защищает от повторного подтверждения
// даже при гонке двух администраторов.
func TestConfirmPayment_AlreadyTerminal(t *testing.T) {
	storage, mock := newMockStorage(t)
	expiresAt := time.Now().UTC().AddDate(0, 0, 30)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments").
		WithArgs("confirmed", "admin-1", "p-1", "pending", "waiting_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := storage.ConfirmPayment(context.Background(), "p-1", "u-1", "pro", "admin-1", expiresAt)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachProof_StatusGuard(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE payments").
		WithArgs("https://cdn.example.com/proof.jpg", "waiting_confirmation",
			"p-1", "pending", "waiting_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.AttachProof(context.Background(), "p-1", "https://cdn.example.com/proof.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectPayment_DoesNotTouchUsers(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE payments").
		WithArgs("rejected", "p-1", "pending", "waiting_confirmation").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.RejectPayment(context.Background(), "p-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_CancelledContext(t *testing.T) {
	storage, _ := newMockStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := storage.CreatePayment(ctx, models.Payment{ID: "p-1", UserID: "u-1", PlanID: "pro"})
	assert.ErrorIs(t, err, context.Canceled)
}
