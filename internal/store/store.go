package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
	"moodjournal/internal/sentiment"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrPaymentNotFound = errors.New("payment not found")
)

const uniqueViolation = "23505"

// Store is the persistence gateway. It owns every query the service runs and
// is handed to handlers by the composition root, never reached through a
// global.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, trial_start_date, is_premium, premium_since, premium_until`

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, email, password_hash, trial_start_date)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING `+userColumns,
		username, email, passwordHash).StructScan(&u)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("user by email: %w", err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("user by id: %w", err)
	}
	return u, nil
}

func (s *Store) CreateEntry(ctx context.Context, userID int, title, content string) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO journal_entries (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, title, content, created_at, updated_at`,
		userID, title, content).StructScan(&e)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("create entry: %w", err)
	}
	return e, nil
}

// SaveMoodAnalysis records the classification for an entry. Written once,
// right after entry creation; never updated.
func (s *Store) SaveMoodAnalysis(ctx context.Context, entryID int, v sentiment.EmotionVector) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mood_analysis
		 (entry_id, happiness_score, sadness_score, anger_score, fear_score, surprise_score, disgust_score, overall_sentiment, confidence_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entryID, v.Happiness, v.Sadness, v.Anger, v.Fear, v.Surprise, v.Disgust, v.OverallSentiment, v.Confidence)
	if err != nil {
		return fmt.Errorf("save mood analysis: %w", err)
	}
	return nil
}

// EntryWithMood is a journal entry joined with its analysis. Mood columns are
// pointers because the join is a LEFT JOIN: entries written while the
// classifier row failed to persist have no analysis.
type EntryWithMood struct {
	ID               int        `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Content          string     `db:"content" json:"content"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	HappinessScore   *float64   `db:"happiness_score" json:"happiness_score,omitempty"`
	SadnessScore     *float64   `db:"sadness_score" json:"sadness_score,omitempty"`
	AngerScore       *float64   `db:"anger_score" json:"anger_score,omitempty"`
	FearScore        *float64   `db:"fear_score" json:"fear_score,omitempty"`
	SurpriseScore    *float64   `db:"surprise_score" json:"surprise_score,omitempty"`
	DisgustScore     *float64   `db:"disgust_score" json:"disgust_score,omitempty"`
	OverallSentiment *string    `db:"overall_sentiment" json:"overall_sentiment,omitempty"`
	ConfidenceScore  *float64   `db:"confidence_score" json:"confidence_score,omitempty"`
	AnalyzedAt       *time.Time `db:"analyzed_at" json:"analyzed_at,omitempty"`
}

// Mood converts the joined row into the shape the aggregator consumes.
func (e EntryWithMood) Mood() sentiment.EntryMood {
	if e.OverallSentiment == nil {
		return sentiment.EntryMood{}
	}
	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return sentiment.EntryMood{
		Vector: &sentiment.EmotionVector{
			Happiness:        deref(e.HappinessScore),
			Sadness:          deref(e.SadnessScore),
			Anger:            deref(e.AngerScore),
			Fear:             deref(e.FearScore),
			Surprise:         deref(e.SurpriseScore),
			Disgust:          deref(e.DisgustScore),
			OverallSentiment: *e.OverallSentiment,
			Confidence:       deref(e.ConfidenceScore),
		},
		OverallSentiment: *e.OverallSentiment,
	}
}

// EntriesWithMood returns the user's most recent entries, newest first.
func (s *Store) EntriesWithMood(ctx context.Context, userID, limit int) ([]EntryWithMood, error) {
	var out []EntryWithMood
	err := s.db.SelectContext(ctx, &out,
		`SELECT je.id, je.title, je.content, je.created_at, je.updated_at,
		        ma.happiness_score, ma.sadness_score, ma.anger_score, ma.fear_score,
		        ma.surprise_score, ma.disgust_score, ma.overall_sentiment, ma.confidence_score, ma.analyzed_at
		 FROM journal_entries je
		 LEFT JOIN mood_analysis ma ON ma.entry_id = je.id
		 WHERE je.user_id = $1
		 ORDER BY je.created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("entries with mood: %w", err)
	}
	return out, nil
}

func (s *Store) CreatePayment(ctx context.Context, userID int, reference string, amount int64, currency, planType string) (models.Payment, error) {
	var p models.Payment
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO payments (user_id, reference, amount, currency, status, plan_type)
		 VALUES ($1, $2, $3, $4, 'pending', $5)
		 RETURNING id, user_id, reference, amount, currency, status, plan_type, paystack_reference, verified_at, created_at, updated_at`,
		userID, reference, amount, currency, planType).StructScan(&p)
	if err != nil {
		return models.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return p, nil
}

// PaymentByReference is filtered by both reference and user so one user's
// reference can never be read on behalf of another.
func (s *Store) PaymentByReference(ctx context.Context, reference string, userID int) (models.Payment, error) {
	var p models.Payment
	err := s.db.GetContext(ctx, &p,
		`SELECT id, user_id, reference, amount, currency, status, plan_type, paystack_reference, verified_at, created_at, updated_at
		 FROM payments WHERE reference=$1 AND user_id=$2`,
		reference, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, ErrPaymentNotFound
		}
		return models.Payment{}, fmt.Errorf("payment by reference: %w", err)
	}
	return p, nil
}

// ApplyPaymentSuccess marks a payment verified and upgrades its owner to
// premium in one transaction. The premium expiry is recomputed from now by
// plan, never extended, and an already-verified reference is a no-op that
// returns the existing state, so re-verification cannot double-extend access.
func (s *Store) ApplyPaymentSuccess(ctx context.Context, reference string, userID int, gatewayAmount int64, gatewayRef string, now time.Time) (models.Payment, time.Time, error) {
	payment, err := s.PaymentByReference(ctx, reference, userID)
	if err != nil {
		return models.Payment{}, time.Time{}, err
	}

	if payment.Status == models.PaymentSuccess {
		var until sql.NullTime
		if err := s.db.GetContext(ctx, &until, `SELECT premium_until FROM users WHERE id=$1`, userID); err != nil {
			return models.Payment{}, time.Time{}, fmt.Errorf("premium until: %w", err)
		}
		return payment, until.Time, nil
	}

	expiresAt := now.Add(models.PlanDuration(payment.PlanType))

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Payment{}, time.Time{}, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE payments
		 SET status='success', verified_at=$1, amount=$2, paystack_reference=$3, updated_at=$1
		 WHERE reference=$4 AND user_id=$5`,
		now, gatewayAmount, gatewayRef, reference, userID); err != nil {
		return models.Payment{}, time.Time{}, fmt.Errorf("mark payment success: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET is_premium=true, premium_since=$1, premium_until=$2 WHERE id=$3`,
		now, expiresAt, userID); err != nil {
		return models.Payment{}, time.Time{}, fmt.Errorf("upgrade user: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan_type, status, start_date, end_date, is_active)
		 VALUES ($1, $2, 'active', $3, $4, true)
		 ON CONFLICT (user_id)
		 DO UPDATE SET plan_type=EXCLUDED.plan_type, status='active',
		               start_date=EXCLUDED.start_date, end_date=EXCLUDED.end_date,
		               is_active=true, updated_at=NOW()`,
		userID, payment.PlanType, now, expiresAt); err != nil {
		return models.Payment{}, time.Time{}, fmt.Errorf("upsert subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Payment{}, time.Time{}, fmt.Errorf("commit payment tx: %w", err)
	}

	payment.Status = models.PaymentSuccess
	payment.Amount = gatewayAmount
	payment.PaystackReference = &gatewayRef
	payment.VerifiedAt = &now
	return payment, expiresAt, nil
}
