package enrichment

import (
	"database/sql"
	"fmt"
)

// MySQLRepository реализация Repository для MySQL
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository создает новый экземпляр MySQLRepository
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// GetCustomersWithoutProfile возвращает ключи клиентов без имени
func (r *MySQLRepository) GetCustomersWithoutProfile() ([]string, error) {
	return r.selectKeys(`SELECT id_cliente FROM dim_cliente WHERE nome_cliente IS NULL ORDER BY id_cliente`)
}

// GetLocationsWithoutProfile возвращает ключи localidade без названия
func (r *MySQLRepository) GetLocationsWithoutProfile() ([]string, error) {
	return r.selectKeys(`SELECT id_localidade FROM dim_localidade WHERE nome_localidade IS NULL ORDER BY id_localidade`)
}

// GetCarriersWithoutProfile возвращает ключи viacao без названия
func (r *MySQLRepository) GetCarriersWithoutProfile() ([]string, error) {
	return r.selectKeys(`SELECT id_viacao FROM dim_viacao WHERE nome_viacao IS NULL ORDER BY id_viacao`)
}

// selectKeys выполняет запрос, возвращающий один столбец ключей
func (r *MySQLRepository) selectKeys(query string) ([]string, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании ключа: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении результатов: %w", err)
	}
	return keys, nil
}

// UpdateCustomerProfiles записывает профили клиентов.
// Поле id_categoria не затрагивается: его заполняет задание классификации.
func (r *MySQLRepository) UpdateCustomerProfiles(profiles []CustomerProfile) (int, error) {
	if len(profiles) == 0 {
		return 0, nil
	}

	// Используем транзакцию для атомарной записи
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		UPDATE dim_cliente
		SET nome_cliente = ?, email_cliente = ?, data_nascimento = ?, genero = ?, data_cadastro = ?, telefone = ?
		WHERE id_cliente = ?
	`)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, profile := range profiles {
		_, err = stmt.Exec(
			profile.Name,
			profile.Email,
			profile.BirthDate.Format("2006-01-02"),
			profile.Gender,
			profile.RegistrationDate.Format("2006-01-02"),
			profile.Phone,
			profile.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("ошибка при обновлении профиля клиента %s: %w", profile.ID, err)
		}
		updated++
	}

	// Фиксируем транзакцию
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return updated, nil
}

// UpdateLocationProfiles записывает географические атрибуты localidade
func (r *MySQLRepository) UpdateLocationProfiles(profiles []LocationProfile) (int, error) {
	if len(profiles) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		UPDATE dim_localidade
		SET nome_localidade = ?, cidade = ?, estado = ?, regiao = ?
		WHERE id_localidade = ?
	`)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, profile := range profiles {
		_, err = stmt.Exec(profile.Name, profile.City, profile.State, profile.Region, profile.ID)
		if err != nil {
			return 0, fmt.Errorf("ошибка при обновлении localidade %s: %w", profile.ID, err)
		}
		updated++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return updated, nil
}

// UpdateCarrierProfiles записывает названия автобусных компаний
func (r *MySQLRepository) UpdateCarrierProfiles(profiles []CarrierProfile) (int, error) {
	if len(profiles) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`UPDATE dim_viacao SET nome_viacao = ? WHERE id_viacao = ?`)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, profile := range profiles {
		_, err = stmt.Exec(profile.Name, profile.ID)
		if err != nil {
			return 0, fmt.Errorf("ошибка при обновлении viacao %s: %w", profile.ID, err)
		}
		updated++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return updated, nil
}
