package domain

// Location is a shop of the chain. Read-only reference data.
type Location struct {
	ID   int64
	Name string
}

// CatalogService is an offered grooming service with its current price.
type CatalogService struct {
	ID     int64
	Name   string
	Price  float64
	Active bool
}

// ServiceSelection is a service attached to a booking.
// Name and price are captured when the selection is submitted.
type ServiceSelection struct {
	ID          int64
	BookingID   int64
	ServiceID   int64
	ServiceName string
	Price       float64
	InputValue  *string
	CareNote    *string
}

// TotalPrice sums the captured prices of a selection set
func TotalPrice(selections []ServiceSelection) float64 {
	var total float64
	for _, s := range selections {
		total += s.Price
	}
	return total
}
