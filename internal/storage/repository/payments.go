package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/resellerhub/resellerhub/internal/models"
)

// CreatePayment сохраняет новую заявку на оплату со статусом pending.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) error {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (id, user_id, plan_id, amount, bank_name, status)
			  VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := s.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.PlanID, p.Amount, p.BankName, p.Status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPayment возвращает платёж по его ID.
func (s *Storage) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, amount, bank_name, proof_url,
			      status, confirmed_by, confirmed_at, created_at
			  FROM payments
			  WHERE id = $1`
	p := &models.Payment{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var proofURL, confirmedBy sql.NullString
	var confirmedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.BankName,
		&proofURL, &p.Status, &confirmedBy, &confirmedAt, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if proofURL.Valid {
		p.ProofURL = &proofURL.String
	}
	if confirmedBy.Valid {
		p.ConfirmedBy = &confirmedBy.String
	}
	if confirmedAt.Valid {
		p.ConfirmedAt = &confirmedAt.Time
	}
	return p, nil
}

// AttachProof сохраняет ссылку на чек перевода и переводит платёж
// в статус waiting_confirmation. Срабатывает только из статусов
// pending и waiting_confirmation.
func (s *Storage) AttachProof(ctx context.Context, paymentID, proofURL string) error {
	const op = "storage.AttachProof"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET proof_url = $1,
			      status = $2
			  WHERE id = $3 AND status IN ($4, $5)`
	res, err := s.DB.ExecContext(ctx, query, proofURL,
		models.PaymentStatusWaitingConfirmation, paymentID,
		models.PaymentStatusPending, models.PaymentStatusWaitingConfirmation)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ConfirmPayment подтверждает платёж и повышает тариф владельца одной
// транзакцией: если запись статуса или обновление тарифа не прошло,
// откатываются оба изменения. Условие по статусу одновременно защищает
// от повторного подтверждения.
func (s *Storage) ConfirmPayment(ctx context.Context, paymentID, userID, planID, confirmerID string, expiresAt time.Time) error {
	const op = "storage.ConfirmPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE payments
		 SET status = $1,
		     confirmed_by = $2,
		     confirmed_at = NOW()
		 WHERE id = $3 AND status IN ($4, $5)`,
		models.PaymentStatusConfirmed, confirmerID, paymentID,
		models.PaymentStatusPending, models.PaymentStatusWaitingConfirmation)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE users
		 SET plan = $1,
		     plan_expires_at = $2
		 WHERE id = $3`,
		planID, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: owner missing: %w", op, ErrNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RejectPayment переводит платёж в терминальный статус rejected.
// Тариф владельца не меняется.
func (s *Storage) RejectPayment(ctx context.Context, paymentID string) error {
	const op = "storage.RejectPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1
			  WHERE id = $2 AND status IN ($3, $4)`
	res, err := s.DB.ExecContext(ctx, query,
		models.PaymentStatusRejected, paymentID,
		models.PaymentStatusPending, models.PaymentStatusWaitingConfirmation)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListPaymentsByUser возвращает платежи пользователя, новые первыми,
// с названием тарифа для отображения.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.user_id, p.plan_id, pl.name, p.amount, p.bank_name,
			      p.proof_url, p.status, p.confirmed_by, p.confirmed_at, p.created_at
			  FROM payments p
			  JOIN plans pl ON p.plan_id = pl.id
			  WHERE p.user_id = $1
			  ORDER BY p.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var proofURL, confirmedBy sql.NullString
		var confirmedAt sql.NullTime
		if err = rows.Scan(&p.ID, &p.UserID, &p.PlanID, &p.PlanName, &p.Amount,
			&p.BankName, &proofURL, &p.Status, &confirmedBy, &confirmedAt,
			&p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if proofURL.Valid {
			p.ProofURL = &proofURL.String
		}
		if confirmedBy.Valid {
			p.ConfirmedBy = &confirmedBy.String
		}
		if confirmedAt.Valid {
			p.ConfirmedAt = &confirmedAt.Time
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
