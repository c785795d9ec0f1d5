package trend

import (
	"database/sql"
	"fmt"
)

// DataService получает ряды дневного спроса из таблицы фактов
type DataService struct {
	db *sql.DB
}

// NewDataService создает новый сервис для работы с данными
func NewDataService(db *sql.DB) *DataService {
	return &DataService{db: db}
}

// GetDailyPurchaseData получает число покупок по дням за указанный
// период относительно последней даты в таблице фактов
func (s *DataService) GetDailyPurchaseData(daysBack int) ([]DataPoint, error) {
	// Сначала определим последнюю доступную дату покупки
	var lastDate sql.NullTime
	err := s.db.QueryRow(`SELECT MAX(data_compra) FROM fato_compra`).Scan(&lastDate)
	if err != nil {
		return nil, fmt.Errorf("ошибка при определении последней даты покупки: %w", err)
	}
	if !lastDate.Valid {
		return nil, fmt.Errorf("таблица фактов пуста, анализ тренда невозможен")
	}

	query := `
		SELECT data_compra, COUNT(*) AS total_compras
		FROM fato_compra
		WHERE data_compra >= DATE_SUB(?, INTERVAL ? DAY)
			AND data_compra <= ?
		GROUP BY data_compra
		ORDER BY data_compra
	`

	rows, err := s.db.Query(query, lastDate.Time, daysBack, lastDate.Time)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса к таблице фактов: %w", err)
	}
	defer rows.Close()

	var (
		dataPoints []DataPoint
		firstPoint = true
		baseDate   = lastDate.Time
	)

	for rows.Next() {
		var point DataPoint
		var purchases int

		if err := rows.Scan(&point.Date, &purchases); err != nil {
			return nil, fmt.Errorf("ошибка при чтении данных: %w", err)
		}

		if firstPoint {
			baseDate = point.Date
			firstPoint = false
		}

		// X считается в днях от начала периода
		point.X = point.Date.Sub(baseDate).Hours() / 24
		point.Y = float64(purchases)
		dataPoints = append(dataPoints, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по результатам: %w", err)
	}

	if len(dataPoints) == 0 {
		return nil, fmt.Errorf("не найдены покупки за последние %d дней от %v", daysBack, lastDate.Time.Format("2006-01-02"))
	}

	return dataPoints, nil
}
