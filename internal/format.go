package internal

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatEntry(e entry, levels int) (string, error) {
	if levels < 0 {
		return "", fmt.Errorf("%w: negative nesting level %d", ErrInput, levels)
	}

	country := strings.ToUpper(strings.TrimSpace(e.country))
	province := strings.ToUpper(strings.TrimSpace(e.province))
	city := cases.Title(language.Und).String(strings.TrimSpace(e.city))

	name, err := countryName(country)
	if err != nil {
		return "", err
	}

	ispShort := strings.TrimSpace(strings.SplitN(e.isp, "@", 2)[0])
	rule := countryRules[country]

	prefix := country
	var loc string
	if rule.byProvince {
		prefix = country + "/" + province
		loc = fmt.Sprintf("%s, %s, %s", city, province, country)
	} else {
		display := name
		if rule.label != "" {
			display = rule.label
		}
		if rule.cityIsCountry {
			city = name
		}
		if rule.noCity {
			city = ""
		}
		loc = display
		if city != "" {
			loc = city + ", " + display
		}
	}

	menu := fmt.Sprintf("menu = [%s] %s", prefix, ispShort)
	if menuShowsCity(prefix, city) {
		menu += " (" + city + ")"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", strings.Repeat("+", levels), e.name)
	fmt.Fprintln(&b, menu)
	fmt.Fprintf(&b, "title = [%s] %s - %s [%s]\n", prefix, e.isp, loc, e.address)
	fmt.Fprintf(&b, "host = %s\n", e.address)
	return b.String(), nil
}
