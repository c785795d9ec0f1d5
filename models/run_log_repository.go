package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLRunLogRepository реализация RunLogRepository для MySQL
type MySQLRunLogRepository struct {
	db *sql.DB
}

// NewMySQLRunLogRepository создает новый экземпляр MySQLRunLogRepository
func NewMySQLRunLogRepository(db *sql.DB) *MySQLRunLogRepository {
	return &MySQLRunLogRepository{
		db: db,
	}
}

// CreateRunLogTable создает таблицу журнала запусков, если она не существует
func (r *MySQLRunLogRepository) CreateRunLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS classification_run_log (
		id INT AUTO_INCREMENT PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('running', 'committed', 'failed') NOT NULL DEFAULT 'running',
		customers_classified INT DEFAULT 0,
		purchases_scanned INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT,
		INDEX idx_run_log_status (status, start_time)
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы classification_run_log: %w", err)
	}

	return nil
}

// CreateRunEntry создает новую запись о запуске классификации
func (r *MySQLRunLogRepository) CreateRunEntry(startTime time.Time) (int, error) {
	query := `
	INSERT INTO classification_run_log (start_time, status)
	VALUES (?, 'running')
	`

	result, err := r.db.Exec(query, startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске классификации: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}

	return int(id), nil
}

// MarkRunCommitted обновляет запись при успешной фиксации запуска
func (r *MySQLRunLogRepository) MarkRunCommitted(id int, endTime time.Time, customersClassified, purchasesScanned int) error {
	executionTime, err := r.executionSeconds(id, endTime)
	if err != nil {
		return err
	}

	query := `
	UPDATE classification_run_log
	SET
		end_time = ?,
		status = 'committed',
		customers_classified = ?,
		purchases_scanned = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(query, endTime, customersClassified, purchasesScanned, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске классификации: %w", err)
	}

	return nil
}

// MarkRunFailed обновляет запись при неудачном завершении запуска
func (r *MySQLRunLogRepository) MarkRunFailed(id int, endTime time.Time, errorMessage string) error {
	executionTime, err := r.executionSeconds(id, endTime)
	if err != nil {
		return err
	}

	query := `
	UPDATE classification_run_log
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(query, endTime, errorMessage, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске классификации: %w", err)
	}

	return nil
}

// executionSeconds рассчитывает длительность запуска по сохраненному времени начала
func (r *MySQLRunLogRepository) executionSeconds(id int, endTime time.Time) (float64, error) {
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM classification_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении времени начала запуска: %w", err)
	}

	return endTime.Sub(startTime).Seconds(), nil
}

// GetLastCommittedRun получает информацию о последнем успешном запуске
func (r *MySQLRunLogRepository) GetLastCommittedRun() (*ClassificationRunLog, error) {
	query := `
	SELECT
		id, start_time, end_time, status,
		customers_classified, purchases_scanned,
		IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)
	FROM classification_run_log
	WHERE status = 'committed'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var runLog ClassificationRunLog
	err := r.db.QueryRow(query).Scan(
		&runLog.ID, &runLog.StartTime, &runLog.EndTime, &runLog.Status,
		&runLog.CustomersClassified, &runLog.PurchasesScanned,
		&runLog.ErrorMessage, &runLog.ExecutionTimeSeconds,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Успешных запусков еще не было
		}
		return nil, fmt.Errorf("ошибка при получении информации о последнем успешном запуске: %w", err)
	}

	return &runLog, nil
}

// GetRunStats получает записи о запусках за последние N дней
func (r *MySQLRunLogRepository) GetRunStats(days int) ([]ClassificationRunLog, error) {
	query := `
	SELECT
		id, start_time, IFNULL(end_time, NOW()), status,
		customers_classified, purchases_scanned,
		IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)
	FROM classification_run_log
	WHERE start_time >= DATE_SUB(NOW(), INTERVAL ? DAY)
	ORDER BY start_time DESC
	`

	rows, err := r.db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики запусков классификации: %w", err)
	}
	defer rows.Close()

	var logs []ClassificationRunLog
	for rows.Next() {
		var runLog ClassificationRunLog
		err := rows.Scan(
			&runLog.ID, &runLog.StartTime, &runLog.EndTime, &runLog.Status,
			&runLog.CustomersClassified, &runLog.PurchasesScanned,
			&runLog.ErrorMessage, &runLog.ExecutionTimeSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании записи о запуске классификации: %w", err)
		}
		logs = append(logs, runLog)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по записям о запусках классификации: %w", err)
	}

	return logs, nil
}

// GetRunStateMonitor получает сводку состояния задания классификации
func (r *MySQLRunLogRepository) GetRunStateMonitor() (*RunStateMonitor, error) {
	lastCommitted, err := r.GetLastCommittedRun()
	if err != nil {
		return nil, err
	}

	lastFailed, err := r.lastRunWithStatus(RunStatusFailed)
	if err != nil {
		return nil, err
	}

	currentRun, err := r.lastRunWithStatus(RunStatusRunning)
	if err != nil {
		return nil, err
	}

	var totalCommitted, totalFailed int
	var avgExecutionTime float64
	var totalCustomers int

	err = r.db.QueryRow(`
		SELECT
			IFNULL(SUM(CASE WHEN status = 'committed' THEN 1 ELSE 0 END), 0),
			IFNULL(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			IFNULL(AVG(CASE WHEN status = 'committed' THEN execution_time_seconds ELSE NULL END), 0),
			IFNULL(SUM(CASE WHEN status = 'committed' THEN customers_classified ELSE 0 END), 0)
		FROM classification_run_log
	`).Scan(&totalCommitted, &totalFailed, &avgExecutionTime, &totalCustomers)

	if err != nil {
		return nil, fmt.Errorf("ошибка при получении сводной статистики запусков: %w", err)
	}

	return &RunStateMonitor{
		LastCommittedRun:         lastCommitted,
		LastFailedRun:            lastFailed,
		CurrentRun:               currentRun,
		TotalCommittedRuns:       totalCommitted,
		TotalFailedRuns:          totalFailed,
		AvgExecutionTimeSeconds:  avgExecutionTime,
		TotalCustomersClassified: totalCustomers,
	}, nil
}

// lastRunWithStatus получает последний запуск с указанным статусом
func (r *MySQLRunLogRepository) lastRunWithStatus(status string) (*ClassificationRunLog, error) {
	query := `
	SELECT
		id, start_time, IFNULL(end_time, NOW()), status,
		customers_classified, purchases_scanned,
		IFNULL(error_message, ''),
		IFNULL(execution_time_seconds, TIMESTAMPDIFF(SECOND, start_time, NOW()))
	FROM classification_run_log
	WHERE status = ?
	ORDER BY start_time DESC
	LIMIT 1
	`

	var runLog ClassificationRunLog
	err := r.db.QueryRow(query, status).Scan(
		&runLog.ID, &runLog.StartTime, &runLog.EndTime, &runLog.Status,
		&runLog.CustomersClassified, &runLog.PurchasesScanned,
		&runLog.ErrorMessage, &runLog.ExecutionTimeSeconds,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении последнего запуска со статусом %q: %w", status, err)
	}

	return &runLog, nil
}
