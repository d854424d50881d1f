package service

import (
	"outfit-server/shared/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workflowTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylist_workflow_turns_total",
		Help: "Total number of processed guided look turns by action and resulting status.",
	}, []string{"action", "status"})

	workflowGenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylist_workflow_generations_total",
		Help: "Total number of confirm_generate outcomes.",
	}, []string{"outcome"})

	creditsDebitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stylist_credits_debited_total",
		Help: "Total number of credits debited for generations.",
	})

	closetSaveTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylist_closet_save_tasks_total",
		Help: "Total number of closet save tasks published to the queue.",
	}, []string{"status"})
)

// generationOutcome возвращает метку исхода подтверждения генерации.
func generationOutcome(prior, next models.WorkflowStatus, code models.WorkflowErrorCode) string {
	switch {
	case code != "":
		return string(code)
	case prior == models.WorkflowStatusGenerated:
		return "duplicate"
	case next == models.WorkflowStatusGenerated:
		return "generated"
	default:
		return "noop"
	}
}
