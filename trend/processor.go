package trend

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// Прогнозы старше этого срока удаляются при каждом запуске
const forecastRetentionDays = 90

// Config конфигурация анализа тренда спроса
type Config struct {
	// Количество дней для анализа
	AnalysisPeriodDays int
	// Количество дней для прогноза
	ForecastDays int
	// Уровень доверия (0.90, 0.95, 0.99)
	ConfidenceLevel float64
	// Минимальное значение r² для признания модели значимой
	MinR2Threshold float64
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		AnalysisPeriodDays: 30,
		ForecastDays:       14,
		ConfidenceLevel:    0.95,
		MinR2Threshold:     0.30, // 30% объясненной вариации
	}
}

// Processor строит тренд дневного спроса на билеты и сохраняет прогнозы
type Processor struct {
	dataService *DataService
	repository  ForecastRepository
	logger      *utils.JobLogger
	config      Config
}

// NewProcessor создает новый экземпляр Processor
func NewProcessor(dataService *DataService, repository ForecastRepository, logger *utils.JobLogger, config Config) *Processor {
	return &Processor{
		dataService: dataService,
		repository:  repository,
		logger:      logger,
		config:      config,
	}
}

// Process выполняет анализ тренда: получение ряда дневного спроса,
// построение модели и сохранение прогнозов
func (p *Processor) Process() error {
	startTime := time.Now()
	p.logger.Info("Запуск анализа тренда спроса на билеты")

	// 1. Убеждаемся, что таблица прогнозов существует
	if err := p.repository.EnsureTableExists(); err != nil {
		return fmt.Errorf("ошибка при проверке/создании таблицы прогнозов: %w", err)
	}

	// 2. Получаем ряд дневного спроса
	p.logger.Info("Получение числа покупок по дням за последние %d дней", p.config.AnalysisPeriodDays)
	dataPoints, err := p.dataService.GetDailyPurchaseData(p.config.AnalysisPeriodDays)
	if err != nil {
		return fmt.Errorf("ошибка при получении данных о спросе: %w", err)
	}
	p.logger.Info("Получено %d точек данных для анализа", len(dataPoints))

	// 3. Строим модель тренда
	model, err := FitTrend(dataPoints)
	if err != nil {
		return fmt.Errorf("ошибка при построении модели тренда: %w", err)
	}

	// 4. Оцениваем качество модели
	p.logger.Info("Модель тренда: наклон=%.3f покупок/день, сдвиг=%.3f, R=%.3f, R²=%.3f",
		model.Slope, model.Intercept, model.R, model.R2)
	p.logger.Info("Период анализа: с %v по %v",
		model.PeriodStart.Format("2006-01-02"),
		model.PeriodEnd.Format("2006-01-02"))

	if model.R2 < p.config.MinR2Threshold {
		p.logger.Warn("Низкое качество модели (R²=%.3f < %.3f), прогноз все равно будет сохранен",
			model.R2, p.config.MinR2Threshold)
	}

	// 5. Генерируем прогнозы
	p.logger.Info("Генерация прогнозов спроса на %d дней вперед от %v",
		p.config.ForecastDays, model.PeriodEnd.Format("2006-01-02"))
	forecasts := model.Forecast(p.config.ForecastDays, p.config.ConfidenceLevel)

	// 6. Сохраняем прогнозы
	if err := p.repository.SaveForecasts(model, forecasts); err != nil {
		return fmt.Errorf("ошибка при сохранении прогнозов: %w", err)
	}
	p.logger.Info("Сохранено %d прогнозов", len(forecasts))

	// 7. Удаляем устаревшие прогнозы, ошибка некритична
	deleteOlderThan := time.Now().AddDate(0, 0, -forecastRetentionDays)
	if err := p.repository.DeleteOldForecasts(deleteOlderThan); err != nil {
		p.logger.Warn("Не удалось удалить устаревшие прогнозы: %v", err)
	}

	p.logger.Info("Анализ тренда спроса завершен за %v", time.Since(startTime))
	return nil
}

// Run запускает анализ тренда с конфигурацией по умолчанию
func Run(db *sql.DB, logger *utils.JobLogger) error {
	return RunWithConfig(db, logger, DefaultConfig())
}

// RunWithConfig запускает анализ тренда с пользовательской конфигурацией
func RunWithConfig(db *sql.DB, logger *utils.JobLogger, config Config) error {
	dataService := NewDataService(db)
	repository := NewMySQLForecastRepository(db)
	processor := NewProcessor(dataService, repository, logger, config)
	return processor.Process()
}
