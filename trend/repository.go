package trend

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLForecastRepository реализация ForecastRepository для MySQL
type MySQLForecastRepository struct {
	db *sql.DB
}

// NewMySQLForecastRepository создает новый репозиторий прогнозов спроса
func NewMySQLForecastRepository(db *sql.DB) *MySQLForecastRepository {
	return &MySQLForecastRepository{db: db}
}

// EnsureTableExists проверяет наличие таблицы и создает ее при необходимости
func (r *MySQLForecastRepository) EnsureTableExists() error {
	query := `
	CREATE TABLE IF NOT EXISTS demand_trend_predictions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		slope DOUBLE NOT NULL,
		intercept DOUBLE NOT NULL,
		r DOUBLE NOT NULL,
		r2 DOUBLE NOT NULL,
		forecast_date DATE NOT NULL,
		forecast_value DOUBLE NOT NULL,
		ci_lower DOUBLE NOT NULL,
		ci_upper DOUBLE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_forecast_date (forecast_date),
		INDEX idx_period (period_start, period_end)
	);`

	_, err := r.db.Exec(query)
	return err
}

// SaveForecasts сохраняет прогнозы вместе с коэффициентами модели
// в одной транзакции
func (r *MySQLForecastRepository) SaveForecasts(model *TrendModel, forecasts []ForecastPoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	query := `
	INSERT INTO demand_trend_predictions
		(period_start, period_end, slope, intercept, r, r2, forecast_date, forecast_value, ci_lower, ci_upper)
	VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("не удалось подготовить запрос: %w", err)
	}
	defer stmt.Close()

	for _, forecast := range forecasts {
		_, err := stmt.Exec(
			model.PeriodStart,
			model.PeriodEnd,
			model.Slope,
			model.Intercept,
			model.R,
			model.R2,
			forecast.Date,
			forecast.ForecastValue,
			forecast.CILower,
			forecast.CIUpper,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("не удалось сохранить прогноз на %v: %w", forecast.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}

	return nil
}

// GetForecasts получает прогнозы для указанного периода
func (r *MySQLForecastRepository) GetForecasts(startDate, endDate time.Time) ([]ForecastPoint, error) {
	query := `
	SELECT forecast_date, forecast_value, ci_lower, ci_upper
	FROM demand_trend_predictions
	WHERE forecast_date BETWEEN ? AND ?
	ORDER BY forecast_date;`

	rows, err := r.db.Query(query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var forecasts []ForecastPoint
	for rows.Next() {
		var f ForecastPoint
		if err := rows.Scan(&f.Date, &f.ForecastValue, &f.CILower, &f.CIUpper); err != nil {
			return nil, fmt.Errorf("ошибка при чтении данных: %w", err)
		}
		forecasts = append(forecasts, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по результатам: %w", err)
	}

	return forecasts, nil
}

// GetLastTrendModel получает коэффициенты последней построенной модели
func (r *MySQLForecastRepository) GetLastTrendModel() (*TrendModel, error) {
	query := `
	SELECT slope, intercept, r, r2, period_start, period_end
	FROM demand_trend_predictions
	ORDER BY created_at DESC, id DESC
	LIMIT 1;`

	var model TrendModel
	err := r.db.QueryRow(query).Scan(
		&model.Slope,
		&model.Intercept,
		&model.R,
		&model.R2,
		&model.PeriodStart,
		&model.PeriodEnd,
	)

	if err == sql.ErrNoRows {
		return nil, nil // модель еще не строилась
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении последней модели тренда: %w", err)
	}

	return &model, nil
}

// DeleteOldForecasts удаляет устаревшие прогнозы
func (r *MySQLForecastRepository) DeleteOldForecasts(olderThan time.Time) error {
	query := `
	DELETE FROM demand_trend_predictions
	WHERE created_at < ?;`

	if _, err := r.db.Exec(query, olderThan); err != nil {
		return fmt.Errorf("ошибка при удалении устаревших прогнозов: %w", err)
	}

	return nil
}
