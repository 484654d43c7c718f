package mapper

import (
	"github.com/AlibekovAA/invoice-dashboard/internal/common/dto"
	customerdomain "github.com/AlibekovAA/invoice-dashboard/internal/customer/domain"
	invoicedomain "github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
)

func InvoiceToDTO(invoice invoicedomain.Invoice) dto.Invoice {
	return dto.Invoice{
		ID:         string(invoice.ID),
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount,
		Status:     string(invoice.Status),
		Date:       invoice.Date,
	}
}

func InvoiceSummaryToDTO(summary invoicedomain.Summary) dto.InvoiceSummary {
	return dto.InvoiceSummary{
		Invoice:          InvoiceToDTO(summary.Invoice),
		CustomerName:     summary.CustomerName,
		CustomerEmail:    summary.CustomerEmail,
		CustomerImageURL: summary.CustomerImageURL,
	}
}

func InvoiceSummariesToDTO(summaries []invoicedomain.Summary) []dto.InvoiceSummary {
	result := make([]dto.InvoiceSummary, len(summaries))
	for i, s := range summaries {
		result[i] = InvoiceSummaryToDTO(s)
	}
	return result
}

func CustomersToDTO(customers []customerdomain.Customer) []dto.Customer {
	result := make([]dto.Customer, len(customers))
	for i, c := range customers {
		result[i] = dto.Customer{
			ID:       string(c.ID),
			Name:     c.Name,
			Email:    c.Email,
			ImageURL: c.ImageURL,
		}
	}
	return result
}
