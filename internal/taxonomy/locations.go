package taxonomy

func defaultMetros() map[string]string {
	groups := map[string][]string{
		"San Francisco Bay Area": {
			"san francisco", "sf", "bay area", "sf bay area", "santa clara", "palo alto", "mountain view",
			"sunnyvale", "san jose", "oakland", "redwood city", "menlo park", "san mateo", "berkeley",
		},
		"New York Metro":         {"new york", "new york city", "nyc", "brooklyn", "manhattan", "jersey city", "hoboken", "new brunswick"},
		"Seattle Metro":          {"seattle", "bellevue", "redmond", "kirkland"},
		"Boston Metro":           {"boston", "cambridge", "somerville"},
		"Chicago Metro":          {"chicago", "evanston"},
		"Los Angeles Metro":      {"los angeles", "la", "santa monica", "culver city", "pasadena", "irvine"},
		"Austin Metro":           {"austin"},
		"Denver Metro":           {"denver", "boulder"},
		"Salt Lake City Metro":   {"salt lake city", "sandy", "lehi", "draper"},
		"Washington DC Metro":    {"washington dc", "washington, dc", "washington d.c.", "arlington", "reston"},
		"Atlanta Metro":          {"atlanta"},
		"Miami Metro":            {"miami", "fort lauderdale"},
		"Waterloo, Canada":       {"waterloo"},
		"Toronto, Canada":        {"toronto"},
		"Vancouver, Canada":      {"vancouver"},
		"London, UK":             {"london"},
		"Dublin, Ireland":        {"dublin"},
		"Berlin, Germany":        {"berlin"},
		"Paris, France":          {"paris"},
		"Amsterdam, Netherlands": {"amsterdam"},
		"Singapore":              {"singapore"},
		"Sydney, Australia":      {"sydney"},
		"Tokyo, Japan":           {"tokyo"},
		"Bengaluru, India":       {"bengaluru", "bangalore"},
		"Rio de Janeiro, Brazil": {"rio de janeiro"},
		"São Paulo, Brazil":      {"sao paulo", "são paulo"},
		"Mexico City, Mexico":    {"mexico city", "cdmx"},
		"Hong Kong":              {"hong kong"},
		"Abu Dhabi, UAE":         {"abu dhabi"},
		"Tel Aviv, Israel":       {"tel aviv"},
	}

	out := make(map[string]string)
	for metro, aliases := range groups {
		for _, alias := range aliases {
			out[alias] = metro
		}
	}
	return out
}

func defaultStates() map[string]bool {
	codes := []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA", "KS",
		"KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ", "NM", "NY",
		"NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV",
		"WI", "WY", "DC",
	}
	out := make(map[string]bool, len(codes))
	for _, c := range codes {
		out[c] = true
	}
	return out
}

// defaultUSMetros lists the metro labels inside the United States. Their
// aliases only apply to fragments with no qualifier or a US qualifier, so
// "Cambridge, United Kingdom" is not read as Boston.
func defaultUSMetros() map[string]bool {
	return map[string]bool{
		"San Francisco Bay Area": true,
		"New York Metro":         true,
		"Seattle Metro":          true,
		"Boston Metro":           true,
		"Chicago Metro":          true,
		"Los Angeles Metro":      true,
		"Austin Metro":           true,
		"Denver Metro":           true,
		"Salt Lake City Metro":   true,
		"Washington DC Metro":    true,
		"Atlanta Metro":          true,
		"Miami Metro":            true,
	}
}

func defaultUSQualifiers() map[string]bool {
	return map[string]bool{
		"us": true, "u.s": true, "usa": true, "u.s.a": true,
		"united states": true, "united states of america": true,
	}
}
