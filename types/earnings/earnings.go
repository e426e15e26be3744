package earnings

import "time"

// InvoiceStatus mirrors whether the walker has been paid for a line item.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusBlocked InvoiceStatus = "blocked"
)

// Invoice is one derived financial line item for a booking.
type Invoice struct {
	ID              string        `json:"id"`
	Date            time.Time     `json:"date"`
	DogName         string        `json:"dog_name"`
	ServiceType     string        `json:"service_type"`
	DurationMinutes int           `json:"duration_minutes"`
	GrossAmount     float64       `json:"gross_amount"`
	Commission      float64       `json:"commission"`
	NetAmount       float64       `json:"net_amount"`
	Status          InvoiceStatus `json:"status"`
}

// Summary aggregates a walker's invoices.
type Summary struct {
	TotalGross      float64 `json:"total_gross"`
	TotalCommission float64 `json:"total_commission"`
	TotalNet        float64 `json:"total_net"`
	ThisMonthNet    float64 `json:"this_month_net"`
	ServicesCount   int     `json:"services_count"`
}
