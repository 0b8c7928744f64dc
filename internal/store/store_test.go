package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodjournal/internal/models"
	"moodjournal/internal/sentiment"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return New(sqlx.NewDb(mockDB, "sqlmock")), mock
}

var paymentColumns = []string{
	"id", "user_id", "reference", "amount", "currency", "status", "plan_type",
	"paystack_reference", "verified_at", "created_at", "updated_at",
}

func pendingPaymentRow(plan string) *sqlmock.Rows {
	created := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(paymentColumns).
		AddRow(7, 42, "moodjournal_ref1", int64(2999900), "NGN", models.PaymentPending, plan,
			nil, nil, created, created)
}

func TestApplyPaymentSuccessUpgradesUser(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM payments WHERE reference=\$1 AND user_id=\$2`).
		WithArgs("moodjournal_ref1", 42).
		WillReturnRows(pendingPaymentRow(models.PlanYearly))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).
		WithArgs(now, int64(2999900), "PS_REF_1", "moodjournal_ref1", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET is_premium=true`).
		WithArgs(now, now.Add(365*24*time.Hour), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO subscriptions`).
		WithArgs(42, models.PlanYearly, now, now.Add(365*24*time.Hour)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	payment, until, err := s.ApplyPaymentSuccess(context.Background(), "moodjournal_ref1", 42, 2999900, "PS_REF_1", now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, payment.Status)
	assert.Equal(t, now.Add(365*24*time.Hour), until)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentSuccessIsIdempotent(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	verified := now.Add(-time.Hour)
	existingUntil := verified.Add(365 * 24 * time.Hour)

	rows := sqlmock.NewRows(paymentColumns).
		AddRow(7, 42, "moodjournal_ref1", int64(2999900), "NGN", models.PaymentSuccess, models.PlanYearly,
			"PS_REF_1", verified, verified, verified)
	mock.ExpectQuery(`SELECT (.+) FROM payments WHERE reference=\$1 AND user_id=\$2`).
		WithArgs("moodjournal_ref1", 42).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT premium_until FROM users WHERE id=\$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"premium_until"}).AddRow(existingUntil))

	payment, until, err := s.ApplyPaymentSuccess(context.Background(), "moodjournal_ref1", 42, 2999900, "PS_REF_1", now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, payment.Status)
	// premium_until keeps the expiry computed at first verification.
	assert.Equal(t, existingUntil, until)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentSuccessRejectsWrongUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM payments WHERE reference=\$1 AND user_id=\$2`).
		WithArgs("moodjournal_ref1", 99).
		WillReturnError(sql.ErrNoRows)

	_, _, err := s.ApplyPaymentSuccess(context.Background(), "moodjournal_ref1", 99, 2999900, "PS_REF_1", time.Now())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	// No transaction, no writes.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentSuccessMonthlyExpiry(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM payments`).
		WithArgs("moodjournal_ref1", 42).
		WillReturnRows(pendingPaymentRow(models.PlanMonthly))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO subscriptions`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, until, err := s.ApplyPaymentSuccess(context.Background(), "moodjournal_ref1", 42, 299900, "PS_REF_1", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*24*time.Hour), until)
}

func TestCreateUserDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dup", "dup@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateUser(context.Background(), "dup", "dup@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.UserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntriesWithMoodConversion(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)

	cols := []string{
		"id", "title", "content", "created_at", "updated_at",
		"happiness_score", "sadness_score", "anger_score", "fear_score",
		"surprise_score", "disgust_score", "overall_sentiment", "confidence_score", "analyzed_at",
	}
	rows := sqlmock.NewRows(cols).
		AddRow(1, "good day", "feeling great today", created, created,
			0.8, 0.1, 0.02, 0.02, 0.05, 0.01, "positive", 0.8, created).
		AddRow(2, "untitled", "classifier was down", created, created,
			nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT je.id, je.title`).
		WithArgs(42, 30).
		WillReturnRows(rows)

	entries, err := s.EntriesWithMood(context.Background(), 42, 30)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	analyzed := entries[0].Mood()
	require.NotNil(t, analyzed.Vector)
	assert.Equal(t, 0.8, analyzed.Vector.Happiness)
	assert.Equal(t, sentiment.SentimentPositive, analyzed.OverallSentiment)

	bare := entries[1].Mood()
	assert.Nil(t, bare.Vector)
	assert.Empty(t, bare.OverallSentiment)
}
