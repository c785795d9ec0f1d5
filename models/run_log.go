package models

import (
	"time"
)

// Статусы запуска задания классификации.
// Состояние Idle отдельной записью не хранится: ему соответствует
// отсутствие записи со статусом "running".
const (
	RunStatusRunning   = "running"
	RunStatusCommitted = "committed"
	RunStatusFailed    = "failed"
)

// ClassificationRunLog представляет запись о запуске задания классификации
type ClassificationRunLog struct {
	ID                   int       `json:"id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "running", "committed", "failed"
	CustomersClassified  int       `json:"customers_classified"`
	PurchasesScanned     int       `json:"purchases_scanned"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// RunLogRepository представляет репозиторий журнала запусков классификации.
// Записи журнала ведутся вне транзакции классификации, поэтому запись
// со статусом "failed" сохраняется и после отката самой классификации.
type RunLogRepository interface {
	// CreateRunEntry создает запись о начале запуска со статусом "running"
	CreateRunEntry(startTime time.Time) (int, error)

	// MarkRunCommitted переводит запись в статус "committed"
	MarkRunCommitted(id int, endTime time.Time, customersClassified, purchasesScanned int) error

	// MarkRunFailed переводит запись в статус "failed"
	MarkRunFailed(id int, endTime time.Time, errorMessage string) error

	// GetLastCommittedRun получает информацию о последнем успешном запуске
	GetLastCommittedRun() (*ClassificationRunLog, error)

	// GetRunStats получает записи о запусках за последние N дней
	GetRunStats(days int) ([]ClassificationRunLog, error)
}

// RunStateMonitor предоставляет сводку состояния задания классификации
type RunStateMonitor struct {
	LastCommittedRun         *ClassificationRunLog `json:"last_committed_run"`
	LastFailedRun            *ClassificationRunLog `json:"last_failed_run,omitempty"`
	CurrentRun               *ClassificationRunLog `json:"current_run,omitempty"`
	TotalCommittedRuns       int                   `json:"total_committed_runs"`
	TotalFailedRuns          int                   `json:"total_failed_runs"`
	AvgExecutionTimeSeconds  float64               `json:"avg_execution_time_seconds"`
	TotalCustomersClassified int                   `json:"total_customers_classified"`
}
