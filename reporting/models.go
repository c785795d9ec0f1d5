package reporting

import "github.com/Felipe-Otto/ClickBusPredictions/models"

// Направления поездки в таблице фактов
const (
	LegOutbound = "ida"
	LegReturn   = "retorno"
)

// CustomerPurchaseSummary содержит агрегированные покупки одного клиента
type CustomerPurchaseSummary struct {
	CustomerID  string  `json:"customer_id"`
	Name        string  `json:"name"`
	Purchases   int     `json:"purchases"`
	TotalAmount float64 `json:"total_amount"`
}

// RouteFilter задает маршрут для выборки покупок. Происхождение и
// назначение обязательны, перевозчик опционален. Leg выбирает плечо
// поездки: ida или retorno.
type RouteFilter struct {
	OriginID      string
	DestinationID string
	CarrierID     string
	Leg           string
}

// CategorySummary содержит число клиентов одной категории
type CategorySummary struct {
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
	Customers    int    `json:"customers"`
}

// Repository описывает запросы чтения к витрине
type Repository interface {
	// TopCustomersByPurchases возвращает клиентов с наибольшим числом покупок
	TopCustomersByPurchases(limit int) ([]CustomerPurchaseSummary, error)

	// PurchasesByRoute возвращает покупки по заданному маршруту
	PurchasesByRoute(filter RouteFilter, limit int) ([]models.Purchase, error)

	// CustomersByCategory возвращает клиентов заданной категории
	CustomersByCategory(categoryID models.CategoryID, limit int) ([]models.Customer, error)

	// CategoryBreakdown возвращает распределение клиентов по категориям
	CategoryBreakdown() ([]CategorySummary, error)
}
