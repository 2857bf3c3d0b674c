package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// ReceiptLine is one priced row on the receipt.
type ReceiptLine struct {
	Description string
	Quantity    int
	UnitPrice   string
	Amount      string
}

// ReceiptData carries everything the receipt layout needs, already
// formatted for display.
type ReceiptData struct {
	OrderID         string
	PlacedAt        string
	Status          string
	StoreName       string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Lines           []ReceiptLine
	Subtotal        string
	Shipping        string
	Discount        string
	Total           string
}

type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(NewProvider),
)
