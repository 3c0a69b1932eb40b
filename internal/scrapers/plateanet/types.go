package plateanet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Production is a show ("obra") listed in the site's catalog.
type Production struct {
	Id        string
	Name      string
	SourceRef string
}

// Identity holds the internal ids the services need to refer to a production.
type Identity struct {
	VenueId      string
	ProductionId string
}

// Performance is a single scheduled date ("funcion") of a production.
type Performance struct {
	Id   string
	Name string
}

// PromoOffer is a discount category as it appears in a sector of a performance.
type PromoOffer struct {
	Name  string
	Sold  int
	Quota int
}

// SectorOffer is the seating and discount state of a single sector.
type SectorOffer struct {
	Sector    string
	Total     int
	Available int
	Price     string
	Promos    []PromoOffer
}

// ProductionIdFromRef returns the trailing path segment of a catalog reference,
// ex. "https://www.plateanet.com/Obras/ABC123" -> "ABC123"
func ProductionIdFromRef(ref string) string {
	segments := strings.Split(ref, "/")
	return segments[len(segments)-1]
}

// jsonText accepts either a JSON string or a JSON number and keeps its text.
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*t = jsonText(s)
		return nil
	}
	var n json.Number
	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*t = jsonText(n.String())
	return nil
}

// jsonField is a scalar the services send either as a string or as a number,
// it remembers whether it was present so the error can name the offending
// field when a required one is missing.
type jsonField struct {
	raw   string
	isSet bool
}

func (f *jsonField) UnmarshalJSON(data []byte) error {
	var text jsonText
	err := json.Unmarshal(data, &text)
	if err != nil {
		return err
	}
	f.raw = string(text)
	f.isSet = !bytes.Equal(bytes.TrimSpace(data), []byte("null"))
	return nil
}

// Text returns the field as a non-blank string.
func (f jsonField) Text(field string) (string, error) {
	text := strings.TrimSpace(f.raw)
	if !f.isSet || text == "" {
		return "", fmt.Errorf("%s: missing value", field)
	}
	return text, nil
}

func (f jsonField) Int(field string) (int, error) {
	if !f.isSet {
		return 0, fmt.Errorf("%s: missing value", field)
	}
	n, err := strconv.Atoi(strings.TrimSpace(f.raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", field, f.raw)
	}
	return n, nil
}
