package classification

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

const defaultUpdateBatchSize = 500

// MySQLStore реализация Store для MySQL
type MySQLStore struct {
	db        *sql.DB
	batchSize int
	logger    *utils.JobLogger
}

// NewMySQLStore создает новый экземпляр MySQLStore.
// batchSize задает количество клиентов в одном батче UPDATE.
func NewMySQLStore(db *sql.DB, batchSize int, logger *utils.JobLogger) *MySQLStore {
	if batchSize <= 0 {
		batchSize = defaultUpdateBatchSize
	}

	return &MySQLStore{
		db:        db,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Begin открывает транзакцию классификации. InnoDB с уровнем изоляции
// REPEATABLE READ дает согласованный снимок таблицы фактов на всю
// длительность транзакции: покупка, вставленная параллельным писателем
// во время запуска, либо целиком учтена, либо целиком не учтена.
func (s *MySQLStore) Begin() (Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании транзакции классификации: %w", err)
	}

	return &mysqlTx{
		tx:        tx,
		batchSize: s.batchSize,
		logger:    s.logger,
	}, nil
}

// mysqlTx транзакция классификации поверх *sql.Tx
type mysqlTx struct {
	tx        *sql.Tx
	batchSize int
	logger    *utils.JobLogger
}

// PurchaseCountsByCustomer агрегирует покупки каждого клиента из таблицы
// фактов. Каждая строка fato_compra учитывается как одна покупка
// независимо от количества билетов в ней. Результат отсортирован по
// ключу клиента для стабильного порядка обновлений.
func (t *mysqlTx) PurchaseCountsByCustomer() ([]PurchaseCount, error) {
	rows, err := t.tx.Query(`
		SELECT id_cliente, COUNT(*) AS total_compras
		FROM fato_compra
		GROUP BY id_cliente
		ORDER BY id_cliente
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при агрегации покупок по клиентам: %w", err)
	}
	defer rows.Close()

	var counts []PurchaseCount
	for rows.Next() {
		var count PurchaseCount
		if err := rows.Scan(&count.CustomerID, &count.Purchases); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании агрегата покупок: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по агрегату покупок: %w", err)
	}

	return counts, nil
}

// ApplyCategories записывает категории клиентов батчами.
// Используется UPDATE, а не INSERT ... ON DUPLICATE KEY UPDATE:
// задание никогда не создает строки в dim_cliente.
func (t *mysqlTx) ApplyCategories(assignments []CategoryAssignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	var updated int64
	for start := 0; start < len(assignments); start += t.batchSize {
		end := start + t.batchSize
		if end > len(assignments) {
			end = len(assignments)
		}

		query, args := buildCategoryUpdate(assignments[start:end])
		result, err := t.tx.Exec(query, args...)
		if err != nil {
			return updated, fmt.Errorf("ошибка при обновлении категорий клиентов: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return updated, fmt.Errorf("ошибка при получении числа обновленных строк: %w", err)
		}
		updated += affected
		t.logger.Debug("Батч категорий записан: клиенты %d-%d, изменено строк: %d", start, end-1, affected)
	}

	return updated, nil
}

// Commit фиксирует транзакцию классификации
func (t *mysqlTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции классификации: %w", err)
	}
	return nil
}

// Rollback откатывает транзакцию классификации
func (t *mysqlTx) Rollback() error {
	return t.tx.Rollback()
}

// buildCategoryUpdate строит батч-запрос обновления категорий вида
// UPDATE dim_cliente SET id_categoria = CASE id_cliente WHEN ... END
// WHERE id_cliente IN (...)
func buildCategoryUpdate(batch []CategoryAssignment) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, len(batch)*3)

	sb.WriteString("UPDATE dim_cliente SET id_categoria = CASE id_cliente")
	for _, assignment := range batch {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, assignment.CustomerID, int(assignment.CategoryID))
	}

	sb.WriteString(" END WHERE id_cliente IN (")
	for i, assignment := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
		args = append(args, assignment.CustomerID)
	}
	sb.WriteString(")")

	return sb.String(), args
}
