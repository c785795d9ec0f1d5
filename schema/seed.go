package schema

import (
	"database/sql"
	"fmt"

	"github.com/Felipe-Otto/ClickBusPredictions/models"
	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// SeedCustomerCategories заполняет справочник dim_categoria_cliente.
// Повторный запуск обновляет имена и описания существующих записей,
// не создавая дубликатов и не удаляя справочник.
func SeedCustomerCategories(db *sql.DB, logger *utils.JobLogger) error {
	query := `
	INSERT INTO dim_categoria_cliente (id_categoria, nome_categoria, descricao_categoria)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE
	nome_categoria = VALUES(nome_categoria),
	descricao_categoria = VALUES(descricao_categoria)
	`

	stmt, err := db.Prepare(query)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса заполнения категорий: %w", err)
	}
	defer stmt.Close()

	categories := models.DefaultCustomerCategories()
	for _, category := range categories {
		if _, err := stmt.Exec(int(category.ID), category.Name, category.Description); err != nil {
			return fmt.Errorf("ошибка при заполнении категории %q: %w", category.Name, err)
		}
	}

	logger.Info("Справочник категорий клиентов заполнен: %d записей", len(categories))
	return nil
}
