// Package render produces the Substack-ready HTML bodies consumed by
// the alert monitor. Copywriting and delivery happen elsewhere; this
// is plain template rendering over event state.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"eventradar/internal/classify"
	"eventradar/internal/models"
)

// maxAlertCards caps the selling-fast section of an alert post.
const maxAlertCards = 8

var alertTmpl = template.Must(template.New("alert").Funcs(template.FuncMap{
	"longDate": func(t time.Time) string { return t.Format("2 January 2006") },
	"weekday":  func(t time.Time) string { return t.Format("Monday 2 January") },
}).Parse(`<h1>Selling Fast Alert &mdash; {{longDate .Now}}</h1>

<p>These events are running low on tickets. If any catch your eye, don't wait.</p>
{{range .SellingFast}}
<div class="event-card">
<h3>{{.Title}}</h3>
<p><strong>{{weekday .StartDate}}</strong> &middot; {{.Venue}} &middot; {{.Price}}</p>
{{if .Urgency}}<p class="urgency">{{.Urgency}}</p>{{end}}
{{if .TicketURL}}<p><a href="{{.TicketURL}}">Tickets</a></p>{{end}}
</div>
{{end}}{{if .SoldOut}}
<h2>Just sold out</h2>
<ul>
{{range .SoldOut}}<li>{{.Title}} &mdash; {{weekday .StartDate}}{{if .Venue}}, {{.Venue}}{{end}}</li>
{{end}}</ul>
{{end}}
<hr>
<p><em>Full listings and editor's picks in the weekly edition.</em></p>
`))

type card struct {
	Title     string
	StartDate time.Time
	Venue     string
	Price     string
	Urgency   string
	TicketURL string
}

// Alert implements the Renderer expected by the alert monitor.
type Alert struct{}

func NewAlert() *Alert { return &Alert{} }

// RenderAlert returns the alert post body, or "" when there is nothing
// worth posting.
func (r *Alert) RenderAlert(sellingFast, soldOut []models.Event) (string, error) {
	if len(sellingFast) == 0 && len(soldOut) == 0 {
		return "", nil
	}
	if len(sellingFast) > maxAlertCards {
		sellingFast = sellingFast[:maxAlertCards]
	}

	data := struct {
		Now         time.Time
		SellingFast []card
		SoldOut     []card
	}{Now: time.Now()}
	for _, ev := range sellingFast {
		data.SellingFast = append(data.SellingFast, toCard(ev))
	}
	for _, ev := range soldOut {
		data.SoldOut = append(data.SoldOut, toCard(ev))
	}

	var sb strings.Builder
	if err := alertTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toCard(ev models.Event) card {
	c := card{
		Title:     ev.Title,
		StartDate: ev.StartDate,
		Venue:     "Venue TBA",
		Price:     formatPrice(ev),
		Urgency:   classify.UrgencyMessage(ev.Status, ev.TicketsAvailable, ev.AvailabilityPercentage),
	}
	if ev.VenueName != nil && *ev.VenueName != "" {
		c.Venue = *ev.VenueName
	}
	if ev.TicketURL != nil {
		c.TicketURL = *ev.TicketURL
	}
	return c
}

func formatPrice(ev models.Event) string {
	switch {
	case ev.PriceMin == nil && ev.PriceMax == nil:
		return "Price TBA"
	case ev.PriceMin != nil && ev.PriceMin.IsZero() && (ev.PriceMax == nil || ev.PriceMax.IsZero()):
		return "Free"
	case ev.PriceMin != nil && ev.PriceMax != nil && !ev.PriceMin.Equal(*ev.PriceMax):
		return fmt.Sprintf("£%s–£%s", ev.PriceMin.StringFixed(2), ev.PriceMax.StringFixed(2))
	case ev.PriceMin != nil:
		return "From £" + ev.PriceMin.StringFixed(2)
	default:
		return "From £" + ev.PriceMax.StringFixed(2)
	}
}
