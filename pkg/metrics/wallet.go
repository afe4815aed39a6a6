package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WalletMetrics records commission crediting and withdrawal activity.
type WalletMetrics struct {
	commissionCredits  *prometheus.CounterVec
	commissionKobo     *prometheus.CounterVec
	duplicateCredits   prometheus.Counter
	withheldReleases   *prometheus.CounterVec
	withdrawalDecided  *prometheus.CounterVec
	withdrawalRequests prometheus.Counter
}

// NewWalletMetrics registers the wallet metrics on the provided registerer.
func NewWalletMetrics(reg prometheus.Registerer) *WalletMetrics {
	if reg == nil {
		return &WalletMetrics{}
	}
	commissionCredits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_commission_credits_total",
		Help: "Commission credits applied, by transaction type.",
	}, []string{"transaction_type"})
	commissionKobo := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_commission_kobo_total",
		Help: "Commission amounts credited in kobo, by transaction type.",
	}, []string{"transaction_type"})
	duplicateCredits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallet_commission_duplicates_total",
		Help: "Commission credit attempts skipped by the idempotency guard.",
	})
	withheldReleases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_withheld_decisions_total",
		Help: "Withheld balance decisions, by outcome.",
	}, []string{"outcome"})
	withdrawalDecided := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_withdrawal_decisions_total",
		Help: "Withdrawal request decisions, by outcome.",
	}, []string{"outcome"})
	withdrawalRequests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallet_withdrawal_requests_total",
		Help: "Withdrawal requests accepted.",
	})
	reg.MustRegister(commissionCredits, commissionKobo, duplicateCredits, withheldReleases, withdrawalDecided, withdrawalRequests)
	return &WalletMetrics{
		commissionCredits:  commissionCredits,
		commissionKobo:     commissionKobo,
		duplicateCredits:   duplicateCredits,
		withheldReleases:   withheldReleases,
		withdrawalDecided:  withdrawalDecided,
		withdrawalRequests: withdrawalRequests,
	}
}

// IncCommissionCredit records one applied credit and its amount.
func (w *WalletMetrics) IncCommissionCredit(transactionType string, amountKobo int64) {
	if w == nil || w.commissionCredits == nil {
		return
	}
	label := normalizeLabel(transactionType)
	w.commissionCredits.WithLabelValues(label).Inc()
	w.commissionKobo.WithLabelValues(label).Add(float64(amountKobo))
}

// IncDuplicateCredit records a credit attempt absorbed by the unique ledger index.
func (w *WalletMetrics) IncDuplicateCredit() {
	if w == nil || w.duplicateCredits == nil {
		return
	}
	w.duplicateCredits.Inc()
}

// IncWithheldDecision records a withheld release or rejection.
func (w *WalletMetrics) IncWithheldDecision(outcome string) {
	if w == nil || w.withheldReleases == nil {
		return
	}
	w.withheldReleases.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncWithdrawalRequest records an accepted withdrawal request.
func (w *WalletMetrics) IncWithdrawalRequest() {
	if w == nil || w.withdrawalRequests == nil {
		return
	}
	w.withdrawalRequests.Inc()
}

// IncWithdrawalDecision records an approve or reject on a withdrawal request.
func (w *WalletMetrics) IncWithdrawalDecision(outcome string) {
	if w == nil || w.withdrawalDecided == nil {
		return
	}
	w.withdrawalDecided.WithLabelValues(normalizeLabel(outcome)).Inc()
}
