package seatgeek

import "encoding/json"

type EventsPage struct {
	Events []Event `json:"events"`
	Meta   Meta    `json:"meta"`
}

type Meta struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type Event struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Type          string `json:"type"`
	DatetimeLocal string `json:"datetime_local"`
	AnnounceDate  string `json:"announce_date"`

	Venue      Venue       `json:"venue"`
	Stats      Stats       `json:"stats"`
	Performers []Performer `json:"performers"`
	Taxonomies []Taxonomy  `json:"taxonomies"`

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

type Venue struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"location"`
}

type Stats struct {
	LowestPrice  *float64 `json:"lowest_price"`
	HighestPrice *float64 `json:"highest_price"`
	ListingCount *int     `json:"listing_count"`
}

type Performer struct {
	Image string `json:"image"`
}

type Taxonomy struct {
	Name string `json:"name"`
}
