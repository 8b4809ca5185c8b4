package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Airport is one entry of the airport tables.
type Airport struct {
	Code string `yaml:"code"`
	City string `yaml:"city"`
}

// Airports maps IATA codes to cities and separates the home-country
// airports from international ones.
type Airports struct {
	Domestic      []Airport `yaml:"domestic"`
	International []Airport `yaml:"international"`

	domestic map[string]bool
	cities   map[string]string
	byCity   map[string]string
}

// DefaultAirports returns the built-in Australian airport tables.
func DefaultAirports() *Airports {
	a := &Airports{
		Domestic: []Airport{
			{"SYD", "Sydney"},
			{"MEL", "Melbourne"},
			{"BNE", "Brisbane"},
			{"PER", "Perth"},
			{"ADL", "Adelaide"},
			{"DRW", "Darwin"},
			{"OOL", "Gold Coast"},
			{"CNS", "Cairns"},
			{"CBR", "Canberra"},
			{"HBA", "Hobart"},
		},
		International: []Airport{
			{"AKL", "Auckland"},
			{"SIN", "Singapore"},
			{"DPS", "Bali"},
			{"HND", "Tokyo"},
			{"HKG", "Hong Kong"},
			{"LAX", "Los Angeles"},
			{"LHR", "London"},
			{"DXB", "Dubai"},
			{"BKK", "Bangkok"},
			{"KUL", "Kuala Lumpur"},
		},
	}
	a.index()
	return a
}

// LoadAirports reads airport tables from a YAML file. A missing file yields
// the built-in tables.
func LoadAirports(path string) (*Airports, error) {
	if path == "" {
		return DefaultAirports(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultAirports(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read airports file: %w", err)
	}
	return ParseAirports(data)
}

// ParseAirports decodes YAML airport tables.
func ParseAirports(data []byte) (*Airports, error) {
	var a Airports
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse airports: %w", err)
	}
	if len(a.Domestic) == 0 {
		return nil, errors.New("airports file lists no domestic airports")
	}
	a.index()
	return &a, nil
}

func (a *Airports) index() {
	a.domestic = make(map[string]bool, len(a.Domestic))
	a.cities = make(map[string]string, len(a.Domestic)+len(a.International))
	a.byCity = make(map[string]string, len(a.Domestic)+len(a.International))
	add := func(list []Airport, domestic bool) {
		for i := range list {
			code := strings.ToUpper(strings.TrimSpace(list[i].Code))
			list[i].Code = code
			a.cities[code] = list[i].City
			a.byCity[strings.ToLower(list[i].City)] = code
			if domestic {
				a.domestic[code] = true
			}
		}
	}
	add(a.Domestic, true)
	add(a.International, false)
}

// IsDomestic reports whether code is a home-country airport.
func (a *Airports) IsDomestic(code string) bool {
	return a.domestic[strings.ToUpper(code)]
}

// CityName returns the city for code, or "" when unknown.
func (a *Airports) CityName(code string) string {
	return a.cities[strings.ToUpper(code)]
}

// Resolve maps a city name or IATA code to a known code.
func (a *Airports) Resolve(cityOrCode string) (string, bool) {
	s := strings.TrimSpace(cityOrCode)
	if code, ok := a.byCity[strings.ToLower(s)]; ok {
		return code, true
	}
	code := strings.ToUpper(s)
	if _, ok := a.cities[code]; ok {
		return code, true
	}
	return "", false
}

// DomesticCodes returns the home-country codes in table order.
func (a *Airports) DomesticCodes() []string {
	codes := make([]string, 0, len(a.Domestic))
	for _, ap := range a.Domestic {
		codes = append(codes, ap.Code)
	}
	return codes
}

// Codes returns every known code, domestic first.
func (a *Airports) Codes() []string {
	codes := a.DomesticCodes()
	for _, ap := range a.International {
		codes = append(codes, ap.Code)
	}
	return codes
}

// Cities returns the city names in table order, domestic first.
func (a *Airports) Cities() []string {
	cities := make([]string, 0, len(a.Domestic)+len(a.International))
	for _, ap := range append(slices.Clip(a.Domestic), a.International...) {
		cities = append(cities, ap.City)
	}
	return cities
}
