package domain

import "strings"

// countryNames maps ISO 3166-1 alpha-2 codes to the display names the
// storefront has historically stored inside zone country lists.
var countryNames = map[string]string{
	"US": "United States",
	"CA": "Canada",
	"GB": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"IT": "Italy",
	"ES": "Spain",
	"NL": "Netherlands",
	"BE": "Belgium",
	"AU": "Australia",
	"NZ": "New Zealand",
	"JP": "Japan",
	"KR": "South Korea",
	"SG": "Singapore",
	"MY": "Malaysia",
	"TH": "Thailand",
	"PH": "Philippines",
	"ID": "Indonesia",
	"IN": "India",
	"CN": "China",
	"HK": "Hong Kong",
	"TW": "Taiwan",
	"VN": "Vietnam",
	"BR": "Brazil",
	"MX": "Mexico",
	"AR": "Argentina",
	"CL": "Chile",
	"ZA": "South Africa",
	"AE": "United Arab Emirates",
	"SA": "Saudi Arabia",
	"IL": "Israel",
	"RU": "Russia",
	"PL": "Poland",
	"SE": "Sweden",
	"NO": "Norway",
	"DK": "Denmark",
	"FI": "Finland",
	"AT": "Austria",
	"CH": "Switzerland",
	"PT": "Portugal",
	"IE": "Ireland",
	"GR": "Greece",
	"CZ": "Czech Republic",
	"HU": "Hungary",
	"RO": "Romania",
	"TR": "Turkey",
}

var countryCodesByName = func() map[string]string {
	m := make(map[string]string, len(countryNames))
	for code, name := range countryNames {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// CountryName returns the display name for a code, or the code itself
// when unknown.
func CountryName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// NormalizeCountry resolves a stored country entry, either an alpha-2
// code or a legacy display name, to its alpha-2 code. Unknown two-letter
// inputs pass through uppercased so new codes keep working.
func NormalizeCountry(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}
	if len(trimmed) == 2 {
		return strings.ToUpper(trimmed), true
	}
	if code, ok := countryCodesByName[strings.ToLower(trimmed)]; ok {
		return code, true
	}
	return "", false
}
