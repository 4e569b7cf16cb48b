package ticketmaster

import "encoding/json"

type EventsPage struct {
	Embedded struct {
		Events []Event `json:"events"`
	} `json:"_embedded"`
	Page PageInfo `json:"page"`
}

type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type Event struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	Dates  Dates   `json:"dates"`
	Sales  Sales   `json:"sales"`
	Images []Image `json:"images"`

	PriceRanges     []PriceRange     `json:"priceRanges"`
	Classifications []Classification `json:"classifications"`

	Embedded struct {
		Venues []Venue `json:"venues"`
	} `json:"_embedded"`

	// Raw is the original event object, kept for provenance.
	Raw json.RawMessage `json:"-"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Event(p)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

type Dates struct {
	Start struct {
		DateTime  string `json:"dateTime"`
		LocalDate string `json:"localDate"`
	} `json:"start"`
	Status struct {
		Code string `json:"code"`
	} `json:"status"`
}

type Sales struct {
	Public struct {
		StartDateTime string `json:"startDateTime"`
	} `json:"public"`
}

type Image struct {
	URL string `json:"url"`
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type Classification struct {
	Segment NamedRef `json:"segment"`
	Genre   NamedRef `json:"genre"`
}

type NamedRef struct {
	Name string `json:"name"`
}

type Venue struct {
	Name    string `json:"name"`
	Address struct {
		Line1      string `json:"line1"`
		PostalCode string `json:"postalCode"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}
