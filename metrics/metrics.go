package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicantRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empowerment_applicant_registrations_total",
			Help: "Applicant registrations, by whether a sheha was assigned",
		},
		[]string{"assigned"},
	)

	BankChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empowerment_bank_checks_total",
			Help: "Bank eligibility checks by outcome",
		},
		[]string{"outcome"},
	)

	EmailsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empowerment_emails_processed_total",
			Help: "Outbound email delivery attempts by result",
		},
		[]string{"result"},
	)

	LoanDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empowerment_loan_decisions_total",
			Help: "Loan application decisions",
		},
		[]string{"decision"},
	)

	BankLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "empowerment_bank_lookup_duration_seconds",
			Help:    "Latency of active-loan lookups against the bank ledger",
			Buckets: prometheus.DefBuckets,
		},
	)
)
