package schema

import (
	"database/sql"
	"fmt"

	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// tableDefinition описывает одну таблицу хранилища
type tableDefinition struct {
	name string
	ddl  string
}

// warehouseTables возвращает DDL таблиц хранилища в порядке зависимостей:
// измерения создаются раньше таблицы фактов, которая на них ссылается.
// Индексы и внешние ключи объявляются внутри CREATE TABLE, так как MySQL
// не поддерживает CREATE INDEX IF NOT EXISTS.
func warehouseTables() []tableDefinition {
	return []tableDefinition{
		{
			name: "dim_categoria_cliente",
			ddl: `
			CREATE TABLE IF NOT EXISTS dim_categoria_cliente (
				id_categoria INT PRIMARY KEY,
				nome_categoria VARCHAR(50) NOT NULL,
				descricao_categoria VARCHAR(255) NOT NULL
			);`,
		},
		{
			name: "dim_cliente",
			ddl: `
			CREATE TABLE IF NOT EXISTS dim_cliente (
				id_cliente VARCHAR(64) PRIMARY KEY,
				nome_cliente VARCHAR(100) NULL,
				email_cliente VARCHAR(100) NULL,
				data_nascimento DATE NULL,
				genero VARCHAR(10) NULL,
				data_cadastro DATE NULL,
				telefone VARCHAR(20) NULL,
				id_categoria INT NULL,
				INDEX idx_cliente_categoria (id_categoria),
				CONSTRAINT fk_cliente_categoria FOREIGN KEY (id_categoria)
					REFERENCES dim_categoria_cliente (id_categoria)
			);`,
		},
		{
			name: "dim_localidade",
			ddl: `
			CREATE TABLE IF NOT EXISTS dim_localidade (
				id_localidade VARCHAR(64) PRIMARY KEY,
				nome_localidade VARCHAR(100) NULL,
				cidade VARCHAR(100) NULL,
				estado CHAR(2) NULL,
				regiao VARCHAR(20) NULL
			);`,
		},
		{
			name: "dim_viacao",
			ddl: `
			CREATE TABLE IF NOT EXISTS dim_viacao (
				id_viacao VARCHAR(64) PRIMARY KEY,
				nome_viacao VARCHAR(100) NULL
			);`,
		},
		{
			name: "fato_compra",
			ddl: `
			CREATE TABLE IF NOT EXISTS fato_compra (
				id_compra VARCHAR(64) PRIMARY KEY,
				id_cliente VARCHAR(64) NOT NULL,
				id_localidade_ida_origem VARCHAR(64) NOT NULL,
				id_localidade_ida_destino VARCHAR(64) NOT NULL,
				id_viacao_ida VARCHAR(64) NOT NULL,
				id_localidade_retorno_origem VARCHAR(64) NULL,
				id_localidade_retorno_destino VARCHAR(64) NULL,
				id_viacao_retorno VARCHAR(64) NULL,
				data_compra DATE NOT NULL,
				hora_compra TIME NOT NULL,
				valor_total_passagem DECIMAL(10,2) NOT NULL,
				quantidade_passagens INT NOT NULL,
				INDEX idx_compra_cliente (id_cliente),
				INDEX idx_compra_data (data_compra),
				INDEX idx_rota_ida (id_localidade_ida_origem, id_localidade_ida_destino, id_viacao_ida),
				INDEX idx_rota_retorno (id_localidade_retorno_origem, id_localidade_retorno_destino, id_viacao_retorno),
				CONSTRAINT fk_compra_cliente FOREIGN KEY (id_cliente)
					REFERENCES dim_cliente (id_cliente),
				CONSTRAINT fk_compra_ida_origem FOREIGN KEY (id_localidade_ida_origem)
					REFERENCES dim_localidade (id_localidade),
				CONSTRAINT fk_compra_ida_destino FOREIGN KEY (id_localidade_ida_destino)
					REFERENCES dim_localidade (id_localidade),
				CONSTRAINT fk_compra_viacao_ida FOREIGN KEY (id_viacao_ida)
					REFERENCES dim_viacao (id_viacao),
				CONSTRAINT fk_compra_retorno_origem FOREIGN KEY (id_localidade_retorno_origem)
					REFERENCES dim_localidade (id_localidade),
				CONSTRAINT fk_compra_retorno_destino FOREIGN KEY (id_localidade_retorno_destino)
					REFERENCES dim_localidade (id_localidade),
				CONSTRAINT fk_compra_viacao_retorno FOREIGN KEY (id_viacao_retorno)
					REFERENCES dim_viacao (id_viacao)
			);`,
		},
	}
}

// EnsureWarehouseSchema создает таблицы хранилища, если они еще не существуют.
// Существующие таблицы не изменяются.
func EnsureWarehouseSchema(db *sql.DB, logger *utils.JobLogger) error {
	for _, table := range warehouseTables() {
		if _, err := db.Exec(table.ddl); err != nil {
			return fmt.Errorf("ошибка при создании таблицы %s: %w", table.name, err)
		}
		logger.Debug("Таблица %s проверена", table.name)
	}

	logger.Info("Схема хранилища проверена: %d таблиц", len(warehouseTables()))
	return nil
}
