package domain

import "time"

// Catalog identifies a DONKI event catalog (API endpoint).
type Catalog string

const (
	CatalogFlare     Catalog = "FLR"
	CatalogStorm     Catalog = "GST"
	CatalogSolarWind Catalog = "WSAEnlilSimulations"
)

// Catalogs lists every supported catalog in a stable order.
var Catalogs = []Catalog{CatalogFlare, CatalogStorm, CatalogSolarWind}

// Valid reports whether the catalog is one of the supported DONKI endpoints.
func (c Catalog) Valid() bool {
	switch c {
	case CatalogFlare, CatalogStorm, CatalogSolarWind:
		return true
	}
	return false
}

// Event is one space-weather occurrence after schema validation.
// Events are immutable once produced by the fetcher.
type Event struct {
	ID        string    `json:"id"`
	EventType string    `json:"type"` // catalog identifier: "FLR", "GST", "WSAEnlilSimulations"
	BeginTime time.Time `json:"begin_time"`
	EndTime   time.Time `json:"end_time,omitzero"` // zero when the catalog reports none
	Magnitude float64   `json:"magnitude"`
	Unit      string    `json:"unit"` // "w/m2", "kp", "km/s"
	Class     string    `json:"class,omitempty"` // raw GOES class for flares, e.g. "M1.5"
	Severity  string    `json:"severity,omitempty"`
	Source    string    `json:"source,omitempty"` // DONKI activity ID, e.g. "2024-01-01T00:00:00-FLR-001"
	Link      string    `json:"link,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Table is the ordered collection of events for one query period.
// Order follows the API response order.
type Table []Event
