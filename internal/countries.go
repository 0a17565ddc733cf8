package internal

import (
	"fmt"
	"strings"

	"github.com/pariz/gountries"
)

var countryIndex = gountries.New()

// Lookup-only aliases; the display keeps the code as typed.
var countryAliases = map[string]string{
	"UK": "GB",
}

// countryRule describes how entries for one country are labelled. Countries
// without a rule use the ISO common name and the city as given.
type countryRule struct {
	// byProvince prefixes with COUNTRY/PROVINCE and renders the location
	// as "City, Province, Country".
	byProvince bool
	// label replaces the ISO name in the location string.
	label string
	// cityIsCountry replaces the city with the country's own name.
	cityIsCountry bool
	// noCity drops the city entirely.
	noCity bool
}

var countryRules = map[string]countryRule{
	"US": {byProvince: true},
	"CA": {byProvince: true},
	"HK": {label: "China", cityIsCountry: true},
	"MO": {label: "China", cityIsCountry: true},
	"RU": {label: "Russia"},
	"SG": {noCity: true},
}

// Prefixes whose menu line always carries the city.
var menuCityAlways = map[string]bool{
	"US/CA": true,
	"DE":    true,
	"FR":    true,
	"CN":    true,
	"RU":    true,
	"IN":    true,
	"BR":    true,
}

// Prefixes whose menu line carries the city unless it is the usual one.
var menuDefaultCity = map[string]string{
	"UK":    "London",
	"JP":    "Tokyo",
	"US/NY": "New York",
	"AU":    "Sydney",
}

func countryName(code string) (string, error) {
	lookup := code
	if alias, ok := countryAliases[code]; ok {
		lookup = alias
	}
	if len(lookup) != 2 {
		return "", fmt.Errorf("%w: unknown country code %q", ErrInput, code)
	}

	c, err := countryIndex.FindCountryByAlpha(lookup)
	if err != nil {
		return "", fmt.Errorf("%w: unknown country code %q", ErrInput, code)
	}
	if c.Name.Common != "" {
		return c.Name.Common, nil
	}
	return c.Name.Official, nil
}

// needsProvince and asksCity drive which fields are prompted for.
func needsProvince(country string) bool {
	return countryRules[strings.ToUpper(country)].byProvince
}

func asksCity(country string) bool {
	rule := countryRules[strings.ToUpper(country)]
	return !rule.noCity && !rule.cityIsCountry
}

func menuShowsCity(prefix, city string) bool {
	if city == "" {
		return false
	}
	if menuCityAlways[prefix] {
		return true
	}
	if def, ok := menuDefaultCity[prefix]; ok {
		return !strings.Contains(city, def)
	}
	return false
}
