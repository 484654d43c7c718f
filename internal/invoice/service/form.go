package service

// Form field names accepted by the invoice mutations.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
	FieldID         = "id"
)

// Form is a flat submission of field name to raw string value. Absent fields
// and empty strings are treated alike.
type Form map[string]string

func (f Form) Get(field string) string {
	if f == nil {
		return ""
	}
	return f[field]
}
