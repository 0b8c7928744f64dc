package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodjournal/internal/config"
	"moodjournal/internal/models"
	"moodjournal/internal/paystack"
	"moodjournal/internal/store"
)

type PaymentHandler struct {
	store   *store.Store
	gateway *paystack.Client
	cfg     config.Config
	logger  *zap.Logger
}

func NewPaymentHandler(s *store.Store, gateway *paystack.Client, cfg config.Config, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{store: s, gateway: gateway, cfg: cfg, logger: logger}
}

type initializeRequest struct {
	PlanType    string `json:"plan_type"`
	CallbackURL string `json:"callback_url"`
}

func (h *PaymentHandler) planAmount(planType string) (string, int64) {
	if planType == models.PlanYearly {
		return models.PlanYearly, h.cfg.YearlyPriceKobo
	}
	return models.PlanMonthly, h.cfg.MonthlyPriceKobo
}

// newReference generates the idempotency key for one payment attempt.
func newReference() string {
	return "moodjournal_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Initialize persists a pending payment keyed by a fresh reference, then asks
// the gateway for a hosted-payment URL. Not trial-gated: expired users are
// exactly who this is for.
func (h *PaymentHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	user, err := h.store.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("payment init lookup failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to initialize payment")
		return
	}

	planType, amount := h.planAmount(req.PlanType)
	reference := newReference()

	if _, err := h.store.CreatePayment(r.Context(), userID, reference, amount, h.cfg.Currency, planType); err != nil {
		h.logger.Error("create payment failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to initialize payment")
		return
	}

	data, err := h.gateway.InitializeTransaction(r.Context(), paystack.InitializeRequest{
		Email:       user.Email,
		Amount:      amount,
		Reference:   reference,
		CallbackURL: req.CallbackURL,
		Metadata: map[string]any{
			"user_id":   userID,
			"plan_type": planType,
		},
	})
	if err != nil {
		h.logger.Error("gateway initialize failed",
			zap.Int("user_id", userID),
			zap.String("reference", reference),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "failed to initialize payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Payment initialized",
		"data": map[string]any{
			"authorization_url": data.AuthorizationURL,
			"access_code":       data.AccessCode,
			"reference":         reference,
		},
	})
}

type verifyRequest struct {
	Reference string `json:"reference"`
}

// Verify confirms a payment with the gateway and, on success, upgrades the
// caller to premium atomically. Verifying someone else's reference fails
// without touching their payment row.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		writeError(w, http.StatusBadRequest, "reference is required")
		return
	}

	data, err := h.gateway.VerifyTransaction(r.Context(), req.Reference)
	if err != nil {
		h.logger.Error("gateway verify failed", zap.String("reference", req.Reference), zap.Error(err))
		writeError(w, http.StatusBadGateway, "payment verification failed")
		return
	}

	if data.Status != "success" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  false,
			"message": "Payment verification failed",
		})
		return
	}

	_, premiumUntil, err := h.store.ApplyPaymentSuccess(
		r.Context(), req.Reference, userID, data.Amount, data.Reference, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrPaymentNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"status":  false,
				"message": "Payment verification failed",
			})
			return
		}
		h.logger.Error("apply payment success failed",
			zap.Int("user_id", userID),
			zap.String("reference", req.Reference),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "payment verification failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        true,
		"message":       "Payment verified successfully",
		"is_premium":    true,
		"premium_until": premiumUntil.Format(time.RFC3339),
	})
}

// Config is the public pricing surface the frontend reads before checkout.
func (h *PaymentHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"public_key":    h.cfg.PaystackPublicKey,
		"monthly_price": h.cfg.MonthlyPriceKobo,
		"yearly_price":  h.cfg.YearlyPriceKobo,
		"currency":      h.cfg.Currency,
	})
}

func (h *PaymentHandler) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	user, err := h.store.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("subscription status lookup failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get subscription status")
		return
	}

	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":        user.ID,
		"is_premium":     user.IsPremium,
		"premium_until":  user.PremiumUntil,
		"on_trial":       user.TrialActive(now),
		"trial_expired":  user.DaysSinceTrialStart(now) > models.TrialDays,
		"days_remaining": user.TrialDaysRemaining(now),
		"created_at":     user.CreatedAt,
	})
}
