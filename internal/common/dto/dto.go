package dto

// Amounts are minor currency units.
type Invoice struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

type InvoiceSummary struct {
	Invoice
	CustomerName     string `json:"name"`
	CustomerEmail    string `json:"email"`
	CustomerImageURL string `json:"image_url"`
}

type InvoicePage struct {
	Invoices   []InvoiceSummary `json:"invoices"`
	Query      string           `json:"query"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
