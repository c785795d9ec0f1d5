// main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Felipe-Otto/ClickBusPredictions/classification"
	"github.com/Felipe-Otto/ClickBusPredictions/config"
	"github.com/Felipe-Otto/ClickBusPredictions/enrichment"
	"github.com/Felipe-Otto/ClickBusPredictions/models"
	"github.com/Felipe-Otto/ClickBusPredictions/reporting"
	"github.com/Felipe-Otto/ClickBusPredictions/schema"
	"github.com/Felipe-Otto/ClickBusPredictions/trend"
	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// WarehouseRunner связывает конфигурацию, хранилище витрины и процессоры
type WarehouseRunner struct {
	config     *config.Config
	db         *sql.DB
	logger     *utils.JobLogger
	runLogRepo *models.MySQLRunLogRepository
	processor  *classification.Processor
}

// NewWarehouseRunner создает новый экземпляр WarehouseRunner
func NewWarehouseRunner(configPath string) (*WarehouseRunner, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Инициализируем логгер
	logger, err := utils.NewJobLogger(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	logger.Info("Инициализация Warehouse Runner")

	// Подключаемся к базе данных витрины
	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Создаем схему витрины, если она еще не существует
	if err := schema.EnsureWarehouseSchema(db, logger); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ошибка при создании схемы витрины: %w", err)
	}

	// Заполняем справочник категорий клиентов
	if err := schema.SeedCustomerCategories(db, logger); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ошибка при заполнении справочника категорий: %w", err)
	}

	// Инициализируем журнал запусков классификации
	runLogRepo := models.NewMySQLRunLogRepository(db)
	if err := runLogRepo.CreateRunLogTable(); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ошибка при создании таблицы журнала запусков: %w", err)
	}

	// Таблица прогнозов спроса тоже создается на старте
	if err := trend.NewMySQLForecastRepository(db).EnsureTableExists(); err != nil {
		config.CloseDatabase(db)
		return nil, fmt.Errorf("ошибка при создании таблицы прогнозов: %w", err)
	}

	// Создаем процессор классификации
	store := classification.NewMySQLStore(db, cfg.Job.UpdateBatchSize, logger)
	thresholds := classification.Thresholds{
		NewMax:       cfg.Job.NewMax,
		RecurrentMax: cfg.Job.RecurrentMax,
	}
	processor := classification.NewProcessor(store, runLogRepo, logger, thresholds)

	return &WarehouseRunner{
		config:     cfg,
		db:         db,
		logger:     logger,
		runLogRepo: runLogRepo,
		processor:  processor,
	}, nil
}

// Close закрывает соединение с базой данных
func (r *WarehouseRunner) Close() {
	r.logger.Info("Завершение работы Warehouse Runner")
	if err := config.CloseDatabase(r.db); err != nil {
		r.logger.Error("Ошибка закрытия соединения с БД: %v", err)
	}
	r.logger.Sync()
}

// ExecuteClassification выполняет один запуск задания классификации
// и вслед за ним обновляет прогноз тренда спроса
func (r *WarehouseRunner) ExecuteClassification() error {
	if err := r.processor.Run(); err != nil {
		return err
	}

	// Прогноз спроса - некритичный шаг, его ошибка не влияет
	// на результат классификации
	if err := r.runTrendAnalysis(); err != nil {
		r.logger.Error("Ошибка при анализе тренда спроса: %v", err)
	}

	return nil
}

// runTrendAnalysis запускает анализ тренда с настройками из конфигурации
func (r *WarehouseRunner) runTrendAnalysis() error {
	trendConfig := trend.Config{
		AnalysisPeriodDays: r.config.Trend.AnalysisPeriodDays,
		ForecastDays:       r.config.Trend.ForecastDays,
		ConfidenceLevel:    r.config.Trend.ConfidenceLevel,
		MinR2Threshold:     r.config.Trend.MinR2Threshold,
	}
	return trend.RunWithConfig(r.db, r.logger, trendConfig)
}

// StartScheduler запускает планировщик для регулярной классификации.
// Первый запуск выполняется сразу, далее по интервалу.
func (r *WarehouseRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика классификации с интервалом %v", r.config.Job.RunInterval)

	_, err := scheduler.Every(r.config.Job.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск классификации")
		if err := r.ExecuteClassification(); err != nil {
			if errors.Is(err, classification.ErrRunInProgress) {
				r.logger.Warn("Предыдущий запуск еще выполняется, этот тик пропущен")
				return
			}
			r.logger.Error("Ошибка при выполнении запланированной классификации: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик классификации остановлен")
}

// RunOnce выполняет классификацию один раз
func RunOnce(configPath string) {
	runner, err := NewWarehouseRunner(configPath)
	if err != nil {
		log.Fatalf("Ошибка при создании Warehouse Runner: %v", err)
	}
	defer runner.Close()

	if err := runner.ExecuteClassification(); err != nil {
		log.Fatalf("Ошибка при выполнении классификации: %v", err)
	}
}

// RunScheduled запускает классификацию по расписанию
func RunScheduled(configPath string) {
	// Создаем контекст, который будет отменен при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем Warehouse Runner...")
		cancel()
	}()

	runner, err := NewWarehouseRunner(configPath)
	if err != nil {
		log.Fatalf("Ошибка при создании Warehouse Runner: %v", err)
	}
	defer runner.Close()

	// Запускаем планировщик
	runner.StartScheduler(ctx)
}

// RunEnrichment заполняет синтетические атрибуты измерений
func RunEnrichment(configPath string) {
	runner, err := NewWarehouseRunner(configPath)
	if err != nil {
		log.Fatalf("Ошибка при создании Warehouse Runner: %v", err)
	}
	defer runner.Close()

	repo := enrichment.NewMySQLRepository(runner.db)
	generator := enrichment.NewGenerator(time.Now().UnixNano())
	processor := enrichment.NewProcessor(repo, generator, runner.logger)

	if err := processor.Run(); err != nil {
		log.Fatalf("Ошибка при обогащении измерений: %v", err)
	}
}

// RunTrend запускает только анализ тренда спроса с пользовательскими параметрами
func RunTrend(configPath string, days, forecast int, confidence, minR2 float64) {
	runner, err := NewWarehouseRunner(configPath)
	if err != nil {
		log.Fatalf("Ошибка при создании Warehouse Runner: %v", err)
	}
	defer runner.Close()

	trendConfig := trend.Config{
		AnalysisPeriodDays: days,
		ForecastDays:       forecast,
		ConfidenceLevel:    confidence,
		MinR2Threshold:     minR2,
	}
	runner.logger.Info("Запуск анализа тренда с параметрами: дней=%d, прогноз=%d дней, доверие=%.2f, минR²=%.2f",
		days, forecast, confidence, minR2)

	if err := trend.RunWithConfig(runner.db, runner.logger, trendConfig); err != nil {
		log.Fatalf("Ошибка при анализе тренда спроса: %v", err)
	}
}

// customerRow представление клиента в выводе отчета
type customerRow struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Category   int    `json:"category,omitempty"`
}

func toCustomerRows(customers []models.Customer) []customerRow {
	rows := make([]customerRow, 0, len(customers))
	for _, customer := range customers {
		rows = append(rows, customerRow{
			CustomerID: customer.ID,
			Name:       customer.Name.String,
			Email:      customer.Email.String,
			Category:   int(customer.CategoryID.Int64),
		})
	}
	return rows
}

// purchaseRow представление покупки в выводе отчета
type purchaseRow struct {
	PurchaseID  string  `json:"purchase_id"`
	CustomerID  string  `json:"customer_id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	TotalAmount float64 `json:"total_amount"`
	Tickets     int     `json:"tickets"`
}

func toPurchaseRows(purchases []models.Purchase) []purchaseRow {
	rows := make([]purchaseRow, 0, len(purchases))
	for _, purchase := range purchases {
		rows = append(rows, purchaseRow{
			PurchaseID:  purchase.ID,
			CustomerID:  purchase.CustomerID,
			Date:        purchase.PurchaseDate.Format("2006-01-02"),
			Time:        purchase.PurchaseTime,
			TotalAmount: purchase.TotalAmount,
			Tickets:     purchase.TicketQuantity,
		})
	}
	return rows
}

// RunReport выводит сводные отчеты по витрине. При указании категории
// или маршрута дополнительно выводятся соответствующие выборки.
func RunReport(configPath string, top, category int, route reporting.RouteFilter) {
	runner, err := NewWarehouseRunner(configPath)
	if err != nil {
		log.Fatalf("Ошибка при создании Warehouse Runner: %v", err)
	}
	defer runner.Close()

	repo := reporting.NewMySQLRepository(runner.db)

	customers, err := repo.TopCustomersByPurchases(top)
	if err != nil {
		log.Fatalf("Ошибка при получении отчета по клиентам: %v", err)
	}
	fmt.Printf("Топ %d клиентов по числу покупок:\n", top)
	printJSON(customers)

	breakdown, err := repo.CategoryBreakdown()
	if err != nil {
		log.Fatalf("Ошибка при получении распределения по категориям: %v", err)
	}
	fmt.Println("Распределение клиентов по категориям:")
	printJSON(breakdown)

	if category > 0 {
		byCategory, err := repo.CustomersByCategory(models.CategoryID(category), top)
		if err != nil {
			log.Fatalf("Ошибка при получении клиентов категории %d: %v", category, err)
		}
		fmt.Printf("Клиенты категории %d:\n", category)
		printJSON(toCustomerRows(byCategory))
	}

	if route.OriginID != "" || route.DestinationID != "" {
		purchases, err := repo.PurchasesByRoute(route, top)
		if err != nil {
			log.Fatalf("Ошибка при получении покупок по маршруту: %v", err)
		}
		fmt.Printf("Покупки по маршруту %s -> %s:\n", route.OriginID, route.DestinationID)
		printJSON(toPurchaseRows(purchases))
	}
}

// RunStatus выводит состояние запусков классификации
func RunStatus(configPath string) {
	runner, err := NewWarehouseRunner(configPath)
	if err != nil {
		log.Fatalf("Ошибка при создании Warehouse Runner: %v", err)
	}
	defer runner.Close()

	monitor, err := runner.runLogRepo.GetRunStateMonitor()
	if err != nil {
		log.Fatalf("Ошибка при получении состояния запусков: %v", err)
	}
	fmt.Println("Состояние запусков классификации:")
	printJSON(monitor)
}

// printJSON выводит значение в stdout с отступами
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Ошибка при кодировании JSON: %v", err)
	}
	fmt.Println(string(data))
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "scheduled", "Режим работы: scheduled, once, enrich, trend, report или status")
	configPtr := flag.String("config", "", "Путь к файлу конфигурации YAML")
	daysPtr := flag.Int("days", 30, "Количество дней для анализа (только для режима trend)")
	forecastPtr := flag.Int("forecast", 14, "Количество дней для прогноза (только для режима trend)")
	confidencePtr := flag.Float64("confidence", 0.95, "Уровень доверия (только для режима trend)")
	minR2Ptr := flag.Float64("min-r2", 0.30, "Минимальный порог для R² (только для режима trend)")
	topPtr := flag.Int("top", 10, "Число строк в отчете (только для режима report)")
	categoryPtr := flag.Int("category", 0, "Категория для выборки клиентов (только для режима report)")
	originPtr := flag.String("origin", "", "Ключ localidade отправления (только для режима report)")
	destinationPtr := flag.String("destination", "", "Ключ localidade назначения (только для режима report)")
	carrierPtr := flag.String("carrier", "", "Ключ viacao для фильтра маршрута (только для режима report)")
	legPtr := flag.String("leg", "", "Плечо поездки: ida или retorno (только для режима report)")

	flag.Parse()

	log.Println("Запуск Warehouse Runner в режиме:", *modePtr)

	switch *modePtr {
	case "once":
		RunOnce(*configPtr)
	case "scheduled":
		RunScheduled(*configPtr)
	case "enrich":
		RunEnrichment(*configPtr)
	case "trend":
		RunTrend(*configPtr, *daysPtr, *forecastPtr, *confidencePtr, *minR2Ptr)
	case "report":
		route := reporting.RouteFilter{
			OriginID:      *originPtr,
			DestinationID: *destinationPtr,
			CarrierID:     *carrierPtr,
			Leg:           *legPtr,
		}
		RunReport(*configPtr, *topPtr, *categoryPtr, route)
	case "status":
		RunStatus(*configPtr)
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: scheduled, once, enrich, trend, report, status")
		os.Exit(1)
	}

	log.Println("Warehouse Runner завершил работу")
}
