package enrichment

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"
)

func newFixedGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestEmailBase(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"João Silva", "joosilva"},
		{"Cecília d'Ávila", "cecliadvila"},
		{"ANA", "ana"},
		{"Antônio Araújo", "antnioarajo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := emailBase(tt.name); got != tt.want {
			t.Errorf("emailBase(%q) = %q, ожидалось %q", tt.name, got, tt.want)
		}
	}
}

func TestEmailFormat(t *testing.T) {
	g := newFixedGenerator(1)
	pattern := regexp.MustCompile(`^[a-z]+[0-9]{1,2}@(gmail\.com|hotmail\.com|outlook\.com|yahoo\.com\.br|bol\.com\.br)$`)

	for i := 0; i < 50; i++ {
		email := g.Email(g.FullName())
		if !pattern.MatchString(email) {
			t.Errorf("Email() = %q, не соответствует формату", email)
		}
	}
}

func TestBirthDateRange(t *testing.T) {
	g := newFixedGenerator(2)
	oldest := time.Date(g.now.Year()-80, g.now.Month(), g.now.Day(), 0, 0, 0, 0, time.UTC)
	youngest := time.Date(g.now.Year()-18, g.now.Month(), g.now.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		birth := g.BirthDate()
		if birth.Before(oldest) || birth.After(youngest) {
			t.Errorf("BirthDate() = %v, вне возраста 18..80 лет", birth)
		}
	}
}

func TestRegistrationDateRange(t *testing.T) {
	g := newFixedGenerator(3)
	earliest := time.Date(g.now.Year()-12, g.now.Month(), g.now.Day(), 0, 0, 0, 0, time.UTC)
	latest := time.Date(g.now.Year(), g.now.Month(), g.now.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		registration := g.RegistrationDate()
		if registration.Before(earliest) || registration.After(latest) {
			t.Errorf("RegistrationDate() = %v, вне последних 12 лет", registration)
		}
	}
}

func TestPhoneFormat(t *testing.T) {
	g := newFixedGenerator(4)
	pattern := regexp.MustCompile(`^\(\d{2}\) 9\d{4}-\d{4}$`)

	for i := 0; i < 50; i++ {
		phone := g.Phone()
		if !pattern.MatchString(phone) {
			t.Errorf("Phone() = %q, не соответствует формату", phone)
		}
	}
}

func TestRegionByState(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"AM", "Norte"},
		{"BA", "Nordeste"},
		{"DF", "Centro-Oeste"},
		{"SP", "Sudeste"},
		{"RS", "Sul"},
		{"XX", "Desconhecida"},
		{"", "Desconhecida"},
	}

	for _, tt := range tests {
		if got := RegionByState(tt.state); got != tt.want {
			t.Errorf("RegionByState(%q) = %q, ожидалось %q", tt.state, got, tt.want)
		}
	}
}

func TestMunicipalitiesHaveKnownRegion(t *testing.T) {
	for _, m := range municipalities {
		if region := RegionByState(m.State); region == "Desconhecida" {
			t.Errorf("муниципалитет %s имеет штат %s без региона", m.City, m.State)
		}
	}
}

func TestCarrierName(t *testing.T) {
	g := newFixedGenerator(5)

	for i := 0; i < 50; i++ {
		name := g.CarrierName()
		parts := strings.SplitN(name, " ", 2)
		if len(parts) != 2 {
			t.Fatalf("CarrierName() = %q, ожидалось два слова", name)
		}
		if !containsWord(movementWords, parts[0]) {
			t.Errorf("CarrierName() = %q, первое слово не из словаря движения", name)
		}
		if !containsWord(brazilWords, parts[1]) {
			t.Errorf("CarrierName() = %q, второе слово не из бразильского словаря", name)
		}
	}
}

func TestLocationNamePrefix(t *testing.T) {
	g := newFixedGenerator(6)

	for i := 0; i < 50; i++ {
		name := g.LocationName()
		prefix := strings.SplitN(name, " ", 2)[0]
		if !containsWord(streetTypes, prefix) {
			t.Errorf("LocationName() = %q, не начинается с типа улицы", name)
		}
	}
}

func TestGeneratorDeterminism(t *testing.T) {
	first := newFixedGenerator(42)
	second := newFixedGenerator(42)

	for i := 0; i < 20; i++ {
		name1 := first.FullName()
		name2 := second.FullName()
		if name1 != name2 {
			t.Fatalf("генераторы с одним зерном разошлись: %q и %q", name1, name2)
		}
		if email1, email2 := first.Email(name1), second.Email(name2); email1 != email2 {
			t.Fatalf("генераторы с одним зерном разошлись: %q и %q", email1, email2)
		}
	}
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
