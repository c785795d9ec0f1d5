package reporting

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Felipe-Otto/ClickBusPredictions/models"
)

// MySQLRepository реализация Repository для MySQL
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository создает новый экземпляр MySQLRepository
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// TopCustomersByPurchases возвращает клиентов с наибольшим числом
// покупок и суммой потраченных средств
func (r *MySQLRepository) TopCustomersByPurchases(limit int) ([]CustomerPurchaseSummary, error) {
	query := `
		SELECT
			f.id_cliente,
			IFNULL(c.nome_cliente, '') AS nome_cliente,
			COUNT(*) AS total_compras,
			IFNULL(SUM(f.valor_total_passagem), 0) AS valor_total
		FROM fato_compra f
		JOIN dim_cliente c ON c.id_cliente = f.id_cliente
		GROUP BY f.id_cliente, c.nome_cliente
		ORDER BY total_compras DESC, f.id_cliente
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var summaries []CustomerPurchaseSummary
	for rows.Next() {
		var summary CustomerPurchaseSummary
		if err := rows.Scan(&summary.CustomerID, &summary.Name, &summary.Purchases, &summary.TotalAmount); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении результатов: %w", err)
	}
	return summaries, nil
}

// PurchasesByRoute возвращает покупки по заданному маршруту, свежие первыми
func (r *MySQLRepository) PurchasesByRoute(filter RouteFilter, limit int) ([]models.Purchase, error) {
	query, args, err := buildRouteQuery(filter, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var purchase models.Purchase
		err := rows.Scan(
			&purchase.ID,
			&purchase.CustomerID,
			&purchase.OutboundOriginID,
			&purchase.OutboundDestinationID,
			&purchase.OutboundCarrierID,
			&purchase.ReturnOriginID,
			&purchase.ReturnDestinationID,
			&purchase.ReturnCarrierID,
			&purchase.PurchaseDate,
			&purchase.PurchaseTime,
			&purchase.TotalAmount,
			&purchase.TicketQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении результатов: %w", err)
	}
	return purchases, nil
}

// buildRouteQuery строит запрос выборки покупок по маршруту.
// Происхождение и назначение обязательны, перевозчик добавляется в
// условие только если задан. Пустое плечо означает ida.
func buildRouteQuery(filter RouteFilter, limit int) (string, []interface{}, error) {
	if filter.OriginID == "" || filter.DestinationID == "" {
		return "", nil, fmt.Errorf("для маршрута обязательны происхождение и назначение")
	}

	leg := filter.Leg
	if leg == "" {
		leg = LegOutbound
	}

	var originCol, destinationCol, carrierCol string
	switch leg {
	case LegOutbound:
		originCol = "id_localidade_ida_origem"
		destinationCol = "id_localidade_ida_destino"
		carrierCol = "id_viacao_ida"
	case LegReturn:
		originCol = "id_localidade_retorno_origem"
		destinationCol = "id_localidade_retorno_destino"
		carrierCol = "id_viacao_retorno"
	default:
		return "", nil, fmt.Errorf("неизвестное плечо маршрута: %q", leg)
	}

	var sb strings.Builder
	sb.WriteString("SELECT id_compra, id_cliente, id_localidade_ida_origem, id_localidade_ida_destino, id_viacao_ida,")
	sb.WriteString(" id_localidade_retorno_origem, id_localidade_retorno_destino, id_viacao_retorno,")
	sb.WriteString(" data_compra, hora_compra, valor_total_passagem, quantidade_passagens")
	sb.WriteString(" FROM fato_compra")
	sb.WriteString(fmt.Sprintf(" WHERE %s = ? AND %s = ?", originCol, destinationCol))
	args := []interface{}{filter.OriginID, filter.DestinationID}

	if filter.CarrierID != "" {
		sb.WriteString(fmt.Sprintf(" AND %s = ?", carrierCol))
		args = append(args, filter.CarrierID)
	}

	sb.WriteString(" ORDER BY data_compra DESC, id_compra LIMIT ?")
	args = append(args, limit)

	return sb.String(), args, nil
}

// CustomersByCategory возвращает клиентов заданной категории
func (r *MySQLRepository) CustomersByCategory(categoryID models.CategoryID, limit int) ([]models.Customer, error) {
	query := `
		SELECT id_cliente, nome_cliente, email_cliente, data_nascimento, genero, data_cadastro, telefone, id_categoria
		FROM dim_cliente
		WHERE id_categoria = ?
		ORDER BY id_cliente
		LIMIT ?
	`

	rows, err := r.db.Query(query, int(categoryID), limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var customer models.Customer
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.BirthDate,
			&customer.Gender,
			&customer.RegistrationDate,
			&customer.Phone,
			&customer.CategoryID,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении результатов: %w", err)
	}
	return customers, nil
}

// CategoryBreakdown возвращает число клиентов каждой категории.
// Клиенты, еще не прошедшие классификацию, учитываются отдельной
// строкой "Sem categoria".
func (r *MySQLRepository) CategoryBreakdown() ([]CategorySummary, error) {
	query := `
		SELECT cat.id_categoria, cat.nome_categoria, COUNT(cli.id_cliente) AS total_clientes
		FROM dim_categoria_cliente cat
		LEFT JOIN dim_cliente cli ON cli.id_categoria = cat.id_categoria
		GROUP BY cat.id_categoria, cat.nome_categoria
		ORDER BY cat.id_categoria
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var summaries []CategorySummary
	for rows.Next() {
		var summary CategorySummary
		if err := rows.Scan(&summary.CategoryID, &summary.CategoryName, &summary.Customers); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении результатов: %w", err)
	}

	var unclassified int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM dim_cliente WHERE id_categoria IS NULL`).Scan(&unclassified); err != nil {
		return nil, fmt.Errorf("ошибка при подсчете клиентов без категории: %w", err)
	}
	if unclassified > 0 {
		summaries = append(summaries, CategorySummary{CategoryName: "Sem categoria", Customers: unclassified})
	}

	return summaries, nil
}
