package eventbrite

import "encoding/json"

type SearchPage struct {
	Events     []Event    `json:"events"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	HasMoreItems bool   `json:"has_more_items"`
	Continuation string `json:"continuation"`
}

type Event struct {
	ID          string `json:"id"`
	Name        Text   `json:"name"`
	Description Text   `json:"description"`
	URL         string `json:"url"`
	IsFree      bool   `json:"is_free"`

	Start DateRef `json:"start"`
	End   DateRef `json:"end"`

	Venue              *Venue              `json:"venue"`
	TicketAvailability *TicketAvailability `json:"ticket_availability"`
	Category           *Category           `json:"category"`
	Logo               *Logo               `json:"logo"`

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

type Text struct {
	Text string `json:"text"`
}

type DateRef struct {
	UTC string `json:"utc"`
}

type Venue struct {
	Name    string `json:"name"`
	Address struct {
		Address1   string `json:"address_1"`
		City       string `json:"city"`
		PostalCode string `json:"postal_code"`
	} `json:"address"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type TicketAvailability struct {
	IsSoldOut bool `json:"is_sold_out"`
}

type Category struct {
	Name string `json:"name"`
}

type Logo struct {
	URL string `json:"url"`
}
