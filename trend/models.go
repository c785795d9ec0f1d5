package trend

import (
	"time"
)

// DataPoint представляет дневной спрос на билеты
type DataPoint struct {
	X    float64   // Порядковый номер дня (относительно начала периода)
	Y    float64   // Количество покупок в день
	Date time.Time // Фактическая дата
}

// ForecastPoint представляет прогноз спроса на один день
type ForecastPoint struct {
	Date          time.Time // Дата прогноза
	ForecastValue float64   // Прогнозируемое число покупок
	CILower       float64   // Нижняя граница доверительного интервала
	CIUpper       float64   // Верхняя граница доверительного интервала
}

// ForecastRepository интерфейс для работы с хранилищем прогнозов спроса
type ForecastRepository interface {
	// EnsureTableExists проверяет наличие таблицы и создает ее при необходимости
	EnsureTableExists() error

	// SaveForecasts сохраняет прогнозы вместе с коэффициентами модели
	SaveForecasts(model *TrendModel, forecasts []ForecastPoint) error

	// GetForecasts получает прогнозы для указанного периода
	GetForecasts(startDate, endDate time.Time) ([]ForecastPoint, error)

	// GetLastTrendModel получает коэффициенты последней построенной модели
	GetLastTrendModel() (*TrendModel, error)

	// DeleteOldForecasts удаляет устаревшие прогнозы
	DeleteOldForecasts(olderThan time.Time) error
}
