package classification

import (
	"github.com/Felipe-Otto/ClickBusPredictions/models"
)

// Classify возвращает категорию клиента по числу покупок.
// Отображение тотально: любое неотрицательное число покупок попадает
// ровно в одну категорию.
func (t Thresholds) Classify(purchases int) models.CategoryID {
	switch {
	case purchases <= t.NewMax:
		return models.CategoryNew
	case purchases <= t.RecurrentMax:
		return models.CategoryRecurrent
	default:
		return models.CategoryVIP
	}
}

// BuildAssignments вычисляет категории для всех клиентов из агрегата
// покупок, сохраняя порядок входного списка. Клиенты без покупок в
// агрегат не попадают и категорий не получают.
func BuildAssignments(counts []PurchaseCount, thresholds Thresholds) []CategoryAssignment {
	assignments := make([]CategoryAssignment, 0, len(counts))
	for _, count := range counts {
		assignments = append(assignments, CategoryAssignment{
			CustomerID: count.CustomerID,
			CategoryID: thresholds.Classify(count.Purchases),
		})
	}
	return assignments
}
