package enrichment

import (
	"fmt"

	"github.com/Felipe-Otto/ClickBusPredictions/utils"
)

// Processor заполняет синтетические атрибуты строк измерений, у которых
// внешний загрузчик оставил только ключи
type Processor struct {
	repo      Repository
	generator *Generator
	logger    *utils.JobLogger
}

// NewProcessor создает новый экземпляр Processor
func NewProcessor(repo Repository, generator *Generator, logger *utils.JobLogger) *Processor {
	return &Processor{
		repo:      repo,
		generator: generator,
		logger:    logger,
	}
}

// Run обогащает все три таблицы измерений. Стадии выполняются
// последовательно, ошибка любой из них прерывает обогащение.
func (p *Processor) Run() error {
	p.logger.Info("Запуск обогащения измерений")

	if err := p.enrichCustomers(); err != nil {
		return err
	}
	if err := p.enrichLocations(); err != nil {
		return err
	}
	if err := p.enrichCarriers(); err != nil {
		return err
	}

	p.logger.Info("Обогащение измерений завершено")
	return nil
}

// enrichCustomers заполняет профили клиентов без имени
func (p *Processor) enrichCustomers() error {
	ids, err := p.repo.GetCustomersWithoutProfile()
	if err != nil {
		return fmt.Errorf("ошибка при поиске клиентов без профиля: %w", err)
	}
	if len(ids) == 0 {
		p.logger.Info("Клиенты без профиля не найдены")
		return nil
	}

	profiles := make([]CustomerProfile, 0, len(ids))
	for _, id := range ids {
		name := p.generator.FullName()
		profiles = append(profiles, CustomerProfile{
			ID:               id,
			Name:             name,
			Email:            p.generator.Email(name),
			BirthDate:        p.generator.BirthDate(),
			Gender:           p.generator.Gender(),
			RegistrationDate: p.generator.RegistrationDate(),
			Phone:            p.generator.Phone(),
		})
	}

	updated, err := p.repo.UpdateCustomerProfiles(profiles)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении профилей клиентов: %w", err)
	}
	p.logger.Info("Обогащено клиентов: %d", updated)
	return nil
}

// enrichLocations заполняет географические атрибуты localidade
func (p *Processor) enrichLocations() error {
	ids, err := p.repo.GetLocationsWithoutProfile()
	if err != nil {
		return fmt.Errorf("ошибка при поиске localidade без названия: %w", err)
	}
	if len(ids) == 0 {
		p.logger.Info("Localidade без названия не найдены")
		return nil
	}

	profiles := make([]LocationProfile, 0, len(ids))
	for _, id := range ids {
		city, state := p.generator.Municipality()
		profiles = append(profiles, LocationProfile{
			ID:     id,
			Name:   p.generator.LocationName(),
			City:   city,
			State:  state,
			Region: RegionByState(state),
		})
	}

	updated, err := p.repo.UpdateLocationProfiles(profiles)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении localidade: %w", err)
	}
	p.logger.Info("Обогащено localidade: %d", updated)
	return nil
}

// enrichCarriers заполняет названия автобусных компаний
func (p *Processor) enrichCarriers() error {
	ids, err := p.repo.GetCarriersWithoutProfile()
	if err != nil {
		return fmt.Errorf("ошибка при поиске viacao без названия: %w", err)
	}
	if len(ids) == 0 {
		p.logger.Info("Viacao без названия не найдены")
		return nil
	}

	profiles := make([]CarrierProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, CarrierProfile{
			ID:   id,
			Name: p.generator.CarrierName(),
		})
	}

	updated, err := p.repo.UpdateCarrierProfiles(profiles)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении viacao: %w", err)
	}
	p.logger.Info("Обогащено viacao: %d", updated)
	return nil
}
