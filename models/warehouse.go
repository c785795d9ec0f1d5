package models

import (
	"database/sql"
	"time"
)

// CategoryID идентификатор категории клиента в справочнике dim_categoria_cliente
type CategoryID int

// Фиксированный набор категорий клиентов
const (
	CategoryNew       CategoryID = 1 // не более 10 покупок
	CategoryRecurrent CategoryID = 2 // от 11 до 100 покупок
	CategoryVIP       CategoryID = 3 // свыше 100 покупок
)

// CustomerCategory представляет запись справочника dim_categoria_cliente
type CustomerCategory struct {
	ID          CategoryID
	Name        string
	Description string
}

// DefaultCustomerCategories возвращает набор категорий, которым заполняется
// справочник dim_categoria_cliente. Записи обновляются при каждом запуске
// (register-or-update), поэтому имена и описания можно менять здесь.
func DefaultCustomerCategories() []CustomerCategory {
	return []CustomerCategory{
		{ID: CategoryNew, Name: "Novo", Description: "Cliente com até 10 compras"},
		{ID: CategoryRecurrent, Name: "Recorrente", Description: "Cliente com 11 a 100 compras"},
		{ID: CategoryVIP, Name: "VIP", Description: "Cliente com mais de 100 compras"},
	}
}

// Customer представляет запись измерения клиентов dim_cliente.
// Профильные поля до обогащения остаются NULL. Поле id_categoria
// выставляется исключительно заданием классификации.
type Customer struct {
	ID               string
	Name             sql.NullString
	Email            sql.NullString
	BirthDate        sql.NullTime
	Gender           sql.NullString
	RegistrationDate sql.NullTime
	Phone            sql.NullString
	CategoryID       sql.NullInt64
}

// Location представляет запись измерения локаций dim_localidade
type Location struct {
	ID     string
	Name   sql.NullString
	City   sql.NullString
	State  sql.NullString // код штата (UF), две буквы
	Region sql.NullString
}

// Carrier представляет запись измерения перевозчиков dim_viacao
type Carrier struct {
	ID   string
	Name sql.NullString
}

// Purchase представляет строку таблицы фактов fato_compra.
// Строки фактов неизменяемы: задание классификации их только читает.
// Поля обратного рейса могут быть NULL (поездка в одну сторону).
type Purchase struct {
	ID                    string
	CustomerID            string
	OutboundOriginID      string
	OutboundDestinationID string
	OutboundCarrierID     string
	ReturnOriginID        sql.NullString
	ReturnDestinationID   sql.NullString
	ReturnCarrierID       sql.NullString
	PurchaseDate          time.Time
	PurchaseTime          string // TIME хранится строкой "15:04:05"
	TotalAmount           float64
	TicketQuantity        int
}
