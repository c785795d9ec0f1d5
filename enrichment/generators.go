package enrichment

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Словари для генерации бразильских профилей
var (
	firstNames = []string{
		"Ana", "João", "Maria", "Pedro", "Carla", "Lucas", "Juliana", "Rafael",
		"Fernanda", "Bruno", "Camila", "Diego", "Larissa", "Gustavo", "Beatriz",
		"Thiago", "Amanda", "Felipe", "Patrícia", "Rodrigo", "José", "Cecília",
		"Antônio", "Letícia",
	}

	lastNames = []string{
		"Silva", "Santos", "Oliveira", "Souza", "Pereira", "Costa", "Rodrigues",
		"Almeida", "Nascimento", "Lima", "Araújo", "Fernandes", "Carvalho",
		"Gomes", "Martins", "Rocha", "Ribeiro", "Alves", "Monteiro", "Barbosa",
	}

	emailDomains = []string{"gmail.com", "hotmail.com", "outlook.com", "yahoo.com.br", "bol.com.br"}

	genders = []string{"M", "F", "Outro"}

	phoneAreaCodes = []string{"11", "21", "31", "41", "51", "61", "71", "81", "85", "91", "92"}

	streetTypes = []string{"Rua", "Avenida", "Travessa", "Alameda", "Praça"}

	streetNames = []string{
		"das Flores", "Santos Dumont", "XV de Novembro", "Getúlio Vargas",
		"Tiradentes", "São João", "Dom Pedro II", "Sete de Setembro",
		"das Palmeiras", "Barão do Rio Branco", "Marechal Deodoro", "das Acácias",
	}

	movementWords = []string{"Express", "Rapid", "Fly", "Transit", "Go", "Line", "Track", "Horizon", "Atlas", "Nova"}

	brazilWords = []string{"Brasil", "Rio", "Sol", "Verde", "Azul", "Amazônia", "Tropic", "Samba", "Leste", "Norte"}
)

type municipality struct {
	City  string
	State string
}

var municipalities = []municipality{
	{"Rio Branco", "AC"}, {"Manaus", "AM"}, {"Macapá", "AP"}, {"Belém", "PA"},
	{"Porto Velho", "RO"}, {"Boa Vista", "RR"}, {"Palmas", "TO"},
	{"Maceió", "AL"}, {"Salvador", "BA"}, {"Feira de Santana", "BA"},
	{"Fortaleza", "CE"}, {"São Luís", "MA"}, {"João Pessoa", "PB"},
	{"Recife", "PE"}, {"Teresina", "PI"}, {"Natal", "RN"}, {"Aracaju", "SE"},
	{"Brasília", "DF"}, {"Goiânia", "GO"}, {"Cuiabá", "MT"}, {"Campo Grande", "MS"},
	{"Vitória", "ES"}, {"Belo Horizonte", "MG"}, {"Uberlândia", "MG"},
	{"Rio de Janeiro", "RJ"}, {"Niterói", "RJ"}, {"São Paulo", "SP"},
	{"Campinas", "SP"}, {"Santos", "SP"},
	{"Curitiba", "PR"}, {"Londrina", "PR"}, {"Porto Alegre", "RS"},
	{"Caxias do Sul", "RS"}, {"Florianópolis", "SC"}, {"Joinville", "SC"},
}

// regionsByState сопоставляет коды штатов федеральным регионам Бразилии
var regionsByState = map[string][]string{
	"Norte":        {"AC", "AM", "AP", "PA", "RO", "RR", "TO"},
	"Nordeste":     {"AL", "BA", "CE", "MA", "PB", "PE", "PI", "RN", "SE"},
	"Centro-Oeste": {"DF", "GO", "MT", "MS"},
	"Sudeste":      {"ES", "MG", "RJ", "SP"},
	"Sul":          {"PR", "RS", "SC"},
}

// Generator порождает синтетические атрибуты измерений.
// Зерно фиксирует последовательность, что делает генерацию
// воспроизводимой в тестах.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator создает новый экземпляр Generator с заданным зерном
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now(),
	}
}

// FullName возвращает бразильское имя с фамилией
func (g *Generator) FullName() string {
	return firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))]
}

// Email строит адрес из имени клиента: от имени остаются только буквы
// [a-z], затем добавляются числовой суффикс и один из популярных доменов
func (g *Generator) Email(name string) string {
	domain := emailDomains[g.rng.Intn(len(emailDomains))]
	return fmt.Sprintf("%s%d@%s", emailBase(name), 1+g.rng.Intn(99), domain)
}

// emailBase приводит имя к строчным буквам и отбрасывает все символы
// вне [a-z], включая пробелы и буквы с диакритикой
func emailBase(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// BirthDate возвращает дату рождения клиента в возрасте от 18 до 80 лет
func (g *Generator) BirthDate() time.Time {
	return g.dateBetween(g.now.AddDate(-80, 0, 0), g.now.AddDate(-18, 0, 0))
}

// RegistrationDate возвращает дату регистрации за последние 12 лет
func (g *Generator) RegistrationDate() time.Time {
	return g.dateBetween(g.now.AddDate(-12, 0, 0), g.now)
}

// dateBetween выбирает случайный день в интервале [from, to]
func (g *Generator) dateBetween(from, to time.Time) time.Time {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		days = 0
	}
	picked := from.AddDate(0, 0, g.rng.Intn(days+1))
	return time.Date(picked.Year(), picked.Month(), picked.Day(), 0, 0, 0, 0, time.UTC)
}

// Gender возвращает значение из множества {M, F, Outro}
func (g *Generator) Gender() string {
	return genders[g.rng.Intn(len(genders))]
}

// Phone возвращает мобильный телефон в бразильском формате с кодом города
func (g *Generator) Phone() string {
	area := phoneAreaCodes[g.rng.Intn(len(phoneAreaCodes))]
	return fmt.Sprintf("(%s) 9%04d-%04d", area, g.rng.Intn(10000), g.rng.Intn(10000))
}

// LocationName возвращает название в стиле адреса остановки
func (g *Generator) LocationName() string {
	return streetTypes[g.rng.Intn(len(streetTypes))] + " " + streetNames[g.rng.Intn(len(streetNames))]
}

// Municipality возвращает случайный муниципалитет и код его штата
func (g *Generator) Municipality() (city, state string) {
	m := municipalities[g.rng.Intn(len(municipalities))]
	return m.City, m.State
}

// CarrierName составляет название автобусной компании из слова движения
// и бразильского слова
func (g *Generator) CarrierName() string {
	return movementWords[g.rng.Intn(len(movementWords))] + " " + brazilWords[g.rng.Intn(len(brazilWords))]
}

// RegionByState возвращает федеральный регион по коду штата.
// Для неизвестного кода возвращается "Desconhecida".
func RegionByState(state string) string {
	for region, states := range regionsByState {
		for _, uf := range states {
			if uf == state {
				return region
			}
		}
	}
	return "Desconhecida"
}
