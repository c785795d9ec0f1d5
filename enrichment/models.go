package enrichment

import "time"

// CustomerProfile содержит синтетические атрибуты профиля клиента.
// Категория клиента сюда не входит: ее назначает только задание
// классификации.
type CustomerProfile struct {
	ID               string
	Name             string
	Email            string
	BirthDate        time.Time
	Gender           string
	RegistrationDate time.Time
	Phone            string
}

// LocationProfile содержит географические атрибуты localidade
type LocationProfile struct {
	ID     string
	Name   string
	City   string
	State  string
	Region string
}

// CarrierProfile содержит отображаемое название автобусной компании
type CarrierProfile struct {
	ID   string
	Name string
}

// Repository описывает доступ к строкам измерений, ожидающим обогащения.
// Внешний загрузчик создает строки только с ключами, поэтому строки без
// отображаемых атрибутов находятся по NULL в поле названия.
type Repository interface {
	// GetCustomersWithoutProfile возвращает ключи клиентов без имени
	GetCustomersWithoutProfile() ([]string, error)

	// GetLocationsWithoutProfile возвращает ключи localidade без названия
	GetLocationsWithoutProfile() ([]string, error)

	// GetCarriersWithoutProfile возвращает ключи viacao без названия
	GetCarriersWithoutProfile() ([]string, error)

	// UpdateCustomerProfiles записывает профили клиентов и возвращает
	// число обновленных строк
	UpdateCustomerProfiles(profiles []CustomerProfile) (int, error)

	// UpdateLocationProfiles записывает атрибуты localidade
	UpdateLocationProfiles(profiles []LocationProfile) (int, error)

	// UpdateCarrierProfiles записывает названия viacao
	UpdateCarrierProfiles(profiles []CarrierProfile) (int, error)
}
