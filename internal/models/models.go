package models

import "time"

// TrialDays is the length of the free trial window after registration.
const TrialDays = 14

type User struct {
	ID             int        `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	TrialStartDate time.Time  `db:"trial_start_date" json:"trial_start_date"`
	IsPremium      bool       `db:"is_premium" json:"is_premium"`
	PremiumSince   *time.Time `db:"premium_since" json:"premium_since,omitempty"`
	PremiumUntil   *time.Time `db:"premium_until" json:"premium_until,omitempty"`
}

// DaysSinceTrialStart counts whole elapsed days since registration.
func (u *User) DaysSinceTrialStart(now time.Time) int {
	d := now.Sub(u.TrialStartDate)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// TrialActive is the access gate for every user-owned resource. A user is in
// while the trial window holds, or while a premium subscription is current.
// A premium flag with no premium_until (manually granted) never lapses.
func (u *User) TrialActive(now time.Time) bool {
	if u.IsPremium && (u.PremiumUntil == nil || !now.After(*u.PremiumUntil)) {
		return true
	}
	return u.DaysSinceTrialStart(now) <= TrialDays
}

func (u *User) TrialDaysRemaining(now time.Time) int {
	remaining := TrialDays - u.DaysSinceTrialStart(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

type JournalEntry struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type MoodAnalysis struct {
	ID               int       `db:"id" json:"id"`
	EntryID          int       `db:"entry_id" json:"entry_id"`
	HappinessScore   float64   `db:"happiness_score" json:"happiness_score"`
	SadnessScore     float64   `db:"sadness_score" json:"sadness_score"`
	AngerScore       float64   `db:"anger_score" json:"anger_score"`
	FearScore        float64   `db:"fear_score" json:"fear_score"`
	SurpriseScore    float64   `db:"surprise_score" json:"surprise_score"`
	DisgustScore     float64   `db:"disgust_score" json:"disgust_score"`
	OverallSentiment string    `db:"overall_sentiment" json:"overall_sentiment"`
	ConfidenceScore  float64   `db:"confidence_score" json:"confidence_score"`
	AnalyzedAt       time.Time `db:"analyzed_at" json:"analyzed_at"`
}

// Payment statuses. A payment never leaves success once it gets there.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

type Payment struct {
	ID                int        `db:"id" json:"id"`
	UserID            int        `db:"user_id" json:"user_id"`
	Reference         string     `db:"reference" json:"reference"`
	Amount            int64      `db:"amount" json:"amount"`
	Currency          string     `db:"currency" json:"currency"`
	Status            string     `db:"status" json:"status"`
	PlanType          string     `db:"plan_type" json:"plan_type"`
	PaystackReference *string    `db:"paystack_reference" json:"paystack_reference,omitempty"`
	VerifiedAt        *time.Time `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

type Subscription struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	PlanType  string    `db:"plan_type" json:"plan_type"`
	Status    string    `db:"status" json:"status"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlanDuration is how long a verified payment extends premium access for.
// Expiry is recomputed from the verification time rather than added to an
// existing expiry, which is what keeps re-verification idempotent.
func PlanDuration(planType string) time.Duration {
	if planType == PlanYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}
