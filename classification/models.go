package classification

import (
	"github.com/Felipe-Otto/ClickBusPredictions/models"
)

// PurchaseCount представляет количество покупок одного клиента в таблице фактов
type PurchaseCount struct {
	CustomerID string // ключ клиента в dim_cliente
	Purchases  int    // число строк fato_compra; каждая строка - одна покупка
}

// CategoryAssignment представляет вычисленную категорию клиента
type CategoryAssignment struct {
	CustomerID string
	CategoryID models.CategoryID
}

// Thresholds задает границы категорий по числу покупок
type Thresholds struct {
	NewMax       int // верхняя граница Novo (включительно)
	RecurrentMax int // верхняя граница Recorrente (включительно)
}

// DefaultThresholds возвращает границы категорий по умолчанию
func DefaultThresholds() Thresholds {
	return Thresholds{
		NewMax:       10,
		RecurrentMax: 100,
	}
}

// Store интерфейс хранилища для задания классификации
type Store interface {
	// Begin открывает транзакцию классификации
	Begin() (Tx, error)
}

// Tx представляет одну транзакцию классификации. Агрегация покупок и
// запись категорий выполняются в ее рамках и видят один и тот же
// снимок таблицы фактов.
type Tx interface {
	// PurchaseCountsByCustomer агрегирует покупки по клиентам
	PurchaseCountsByCustomer() ([]PurchaseCount, error)

	// ApplyCategories записывает вычисленные категории в dim_cliente
	// и возвращает число измененных строк
	ApplyCategories(assignments []CategoryAssignment) (int64, error)

	// Commit фиксирует транзакцию
	Commit() error

	// Rollback откатывает транзакцию
	Rollback() error
}
