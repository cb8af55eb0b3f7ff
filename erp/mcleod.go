// Package erp talks to the McLeod ERP invoice endpoint.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"opsboard/model"
)

type pushRequest struct {
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	CustomerName  string  `json:"customer_name"`
}

type pushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type McLeodClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMcLeodClient reads MCLEOD_API_URL from the environment. No timeout is
// set beyond the client default.
func NewMcLeodClient() (*McLeodClient, error) {
	baseURL := os.Getenv("MCLEOD_API_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("environment variable MCLEOD_API_URL is not set")
	}
	return &McLeodClient{baseURL: baseURL, httpClient: http.DefaultClient}, nil
}

func (c *McLeodClient) PushEntry(ctx context.Context, entry model.BillingEntry) error {
	payload, err := json.Marshal(pushRequest{
		InvoiceNumber: entry.InvoiceNumber,
		Amount:        entry.Amount,
		CustomerName:  entry.CustomerName,
	})
	if err != nil {
		return fmt.Errorf("marshal invoice %s: %w", entry.InvoiceNumber, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build ERP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ERP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ERP returned status %d", resp.StatusCode)
	}

	var result pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode ERP response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("ERP rejected invoice %s: %s", entry.InvoiceNumber, result.Message)
	}
	return nil
}
