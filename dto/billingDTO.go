package dto

type CreateBillingEntryRequest struct {
	InvoiceNumber string  `json:"invoice_number" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	CustomerName  string  `json:"customer_name" binding:"required"`
}
