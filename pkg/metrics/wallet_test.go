package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestWalletMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewWalletMetrics(reg)

	metrics.IncCommissionCredit("marketer_commission", 20000)
	metrics.IncCommissionCredit("marketer_commission", 20000)
	metrics.IncDuplicateCredit()
	metrics.IncWithheldDecision("released")
	metrics.IncWithdrawalRequest()
	metrics.IncWithdrawalDecision("rejected")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "wallet_commission_credits_total", "transaction_type", "marketer_commission"); err != nil {
		t.Fatalf("fetch credits: %v", err)
	} else if got != 2 {
		t.Fatalf("expected credits=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "wallet_commission_kobo_total", "transaction_type", "marketer_commission"); err != nil {
		t.Fatalf("fetch kobo: %v", err)
	} else if got != 40000 {
		t.Fatalf("expected kobo=40000, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "wallet_withheld_decisions_total", "outcome", "released"); err != nil {
		t.Fatalf("fetch withheld: %v", err)
	} else if got != 1 {
		t.Fatalf("expected withheld=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "wallet_withdrawal_decisions_total", "outcome", "rejected"); err != nil {
		t.Fatalf("fetch withdrawal decisions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected decisions=1, got %f", got)
	}
}

func TestWalletMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewWalletMetrics(nil)
	metrics.IncCommissionCredit("admin_commission", 4000)
	metrics.IncDuplicateCredit()
	metrics.IncWithheldDecision("rejected")
	metrics.IncWithdrawalRequest()
	metrics.IncWithdrawalDecision("approved")
}
