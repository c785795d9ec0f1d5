package classification

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"github.com/Felipe-Otto/ClickBusPredictions/models"
	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// ErrRunInProgress возвращается при попытке запустить классификацию,
// когда предыдущий запуск еще не завершился. Пересекающиеся запуски
// пропускаются, а не ставятся в очередь.
var ErrRunInProgress = errors.New("запуск классификации уже выполняется")

// Processor выполняет задание классификации клиентов
type Processor struct {
	store      Store
	runLogRepo models.RunLogRepository
	logger     *utils.JobLogger
	thresholds Thresholds
	running    *atomic.Bool
}

// NewProcessor создает новый экземпляр Processor
func NewProcessor(store Store, runLogRepo models.RunLogRepository, logger *utils.JobLogger, thresholds Thresholds) *Processor {
	return &Processor{
		store:      store,
		runLogRepo: runLogRepo,
		logger:     logger,
		thresholds: thresholds,
		running:    atomic.NewBool(false),
	}
}

// Run выполняет один запуск задания классификации: агрегирует покупки
// по клиентам, вычисляет категории и записывает их в dim_cliente.
// Вся работа с хранилищем выполняется в одной транзакции, поэтому
// прерванный запуск не оставляет частично переклассифицированных
// клиентов. Повторный запуск без изменений таблицы фактов дает тот же
// результат.
func (p *Processor) Run() error {
	// Пересекающиеся запуски исключаются: если предыдущий запуск еще
	// выполняется, этот пропускается и ждет следующего тика планировщика
	if !p.running.CAS(false, true) {
		return ErrRunInProgress
	}
	defer p.running.Store(false)

	startTime := time.Now()
	p.logger.LogRunStart()

	// Запись журнала ведется вне транзакции классификации
	runID, err := p.runLogRepo.CreateRunEntry(startTime)
	if err != nil {
		p.logger.Error("Ошибка при создании записи в журнале запусков: %v", err)
		return fmt.Errorf("ошибка при создании записи в журнале запусков: %w", err)
	}

	customersClassified, purchasesScanned, err := p.classifyOnce()
	if err != nil {
		p.logger.Error("Запуск классификации завершился ошибкой: %v", err)
		p.markFailed(runID, err)
		return err
	}

	p.markCommitted(runID, customersClassified, purchasesScanned)
	p.logger.LogRunComplete(startTime, customersClassified, purchasesScanned)
	return nil
}

// classifyOnce выполняет транзакцию классификации и возвращает число
// классифицированных клиентов и учтенных покупок
func (p *Processor) classifyOnce() (customersClassified, purchasesScanned int, err error) {
	tx, err := p.store.Begin()
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// 1. Агрегация: число покупок каждого клиента из таблицы фактов
	counts, err := tx.PurchaseCountsByCustomer()
	if err != nil {
		return 0, 0, err
	}

	for _, count := range counts {
		purchasesScanned += count.Purchases
	}
	p.logger.Info("Агрегация завершена: %d клиентов с покупками, %d покупок", len(counts), purchasesScanned)

	// 2. Вычисление категорий по пороговым значениям
	assignments := BuildAssignments(counts, p.thresholds)

	// 3. Запись категорий. Клиенты без покупок не затрагиваются
	updated, err := tx.ApplyCategories(assignments)
	if err != nil {
		return 0, 0, err
	}

	// 4. Фиксация: либо сохраняются все вычисленные категории, либо ни одной
	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}

	p.logger.Info("Категории записаны: %d клиентов, изменено строк dim_cliente: %d", len(assignments), updated)
	return len(assignments), purchasesScanned, nil
}

// markCommitted переводит запись журнала в статус committed
func (p *Processor) markCommitted(runID, customersClassified, purchasesScanned int) {
	if err := p.runLogRepo.MarkRunCommitted(runID, time.Now(), customersClassified, purchasesScanned); err != nil {
		p.logger.Error("Ошибка при обновлении записи в журнале запусков: %v", err)
	}
}

// markFailed переводит запись журнала в статус failed
func (p *Processor) markFailed(runID int, runErr error) {
	if err := p.runLogRepo.MarkRunFailed(runID, time.Now(), runErr.Error()); err != nil {
		p.logger.Error("Ошибка при обновлении записи в журнале запусков: %v", err)
	}
}
