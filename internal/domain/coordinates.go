package domain

// Geographic coordinates of a city as resolved by the geocoding service.
// A field is nil when the upstream record omitted it.
type Coordinates struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
	Country   *string
	Timezone  *string
}
