package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config содержит конфигурацию хранилища и заданий
type Config struct {
	// Настройки подключения к базе данных хранилища
	Database DatabaseConfig `mapstructure:"database"`

	// Настройки задания классификации клиентов
	Job JobConfig `mapstructure:"job"`

	// Настройки прогнозирования спроса
	Trend TrendConfig `mapstructure:"trend"`

	// Настройки логирования
	Logging LoggingConfig `mapstructure:"logging"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// JobConfig содержит настройки задания классификации
type JobConfig struct {
	// Интервал между запусками задания
	RunInterval time.Duration `mapstructure:"run_interval"`

	// Пороговые значения числа покупок.
	// Не более NewMax покупок - Novo, от NewMax+1 до RecurrentMax - Recorrente,
	// свыше RecurrentMax - VIP.
	NewMax       int `mapstructure:"new_max"`
	RecurrentMax int `mapstructure:"recurrent_max"`

	// Количество клиентов в одном батче UPDATE
	UpdateBatchSize int `mapstructure:"update_batch_size"`
}

// TrendConfig содержит настройки прогноза спроса
type TrendConfig struct {
	// Количество дней истории для анализа
	AnalysisPeriodDays int `mapstructure:"analysis_period_days"`

	// Количество дней для прогноза
	ForecastDays int `mapstructure:"forecast_days"`

	// Уровень доверия (0.90, 0.95, 0.99)
	ConfidenceLevel float64 `mapstructure:"confidence_level"`

	// Минимальное значение R² для признания модели значимой
	MinR2Threshold float64 `mapstructure:"min_r2_threshold"`
}

// LoggingConfig содержит настройки логирования
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// setDefaults задает значения конфигурации по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "clickbus_dw")

	v.SetDefault("job.run_interval", 24*time.Hour)
	v.SetDefault("job.new_max", 10)
	v.SetDefault("job.recurrent_max", 100)
	v.SetDefault("job.update_batch_size", 500)

	v.SetDefault("trend.analysis_period_days", 30)
	v.SetDefault("trend.forecast_days", 14)
	v.SetDefault("trend.confidence_level", 0.95)
	v.SetDefault("trend.min_r2_threshold", 0.30)

	v.SetDefault("logging.level", "info")
}

// Load загружает конфигурацию из YAML-файла по указанному пути.
// Отсутствующий файл не считается ошибкой: в этом случае действуют
// значения по умолчанию.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("ошибка при чтении файла конфигурации: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка при разборе конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host не задан")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname не задан")
	}
	if c.Job.RunInterval <= 0 {
		return fmt.Errorf("job.run_interval должен быть положительным")
	}
	if c.Job.NewMax <= 0 {
		return fmt.Errorf("job.new_max должен быть положительным")
	}
	if c.Job.RecurrentMax <= c.Job.NewMax {
		return fmt.Errorf("job.recurrent_max (%d) должен быть больше job.new_max (%d)",
			c.Job.RecurrentMax, c.Job.NewMax)
	}
	if c.Job.UpdateBatchSize <= 0 {
		return fmt.Errorf("job.update_batch_size должен быть положительным")
	}
	if c.Trend.AnalysisPeriodDays < 2 {
		return fmt.Errorf("trend.analysis_period_days должен быть не меньше 2")
	}
	if c.Trend.ForecastDays <= 0 {
		return fmt.Errorf("trend.forecast_days должен быть положительным")
	}
	return nil
}
