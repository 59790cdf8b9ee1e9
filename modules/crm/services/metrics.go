package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authzDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_authz_denials_total",
		Help: "Capability checks that resolved to no access.",
	})
	auditEntriesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_audit_entries_total",
		Help: "Edit history entries written.",
	})
	commissionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_commission_conflicts_total",
		Help: "Bonus submissions rejected by the one-active-request-per-job guarantee.",
	})
	lienIntegrityWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_lien_integrity_warnings_total",
		Help: "Completed jobs encountered without a completion date.",
	})
)
