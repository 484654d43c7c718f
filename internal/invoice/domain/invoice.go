package domain

type ID string

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// DateLayout is the calendar-date form invoices are stored and returned in.
const DateLayout = "2006-01-02"

// Invoice amounts are minor currency units (cents).
type Invoice struct {
	ID         ID
	CustomerID string
	Amount     int64
	Status     Status
	Date       string
}

// Changes are the only columns an update may touch. ID and Date are fixed at
// creation.
type Changes struct {
	CustomerID string
	Amount     int64
	Status     Status
}

// Summary is an invoice joined with its customer for the list view.
type Summary struct {
	Invoice
	CustomerName     string
	CustomerEmail    string
	CustomerImageURL string
}
