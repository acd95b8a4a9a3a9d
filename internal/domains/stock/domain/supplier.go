package domain

import "context"

// ResponseCode is the supplier's verdict on a restock order.
type ResponseCode string

const (
	CodeSuccess            ResponseCode = "success"
	CodeCommunicationError ResponseCode = "communication_error"
	CodeItemNotFound       ResponseCode = "item_not_found"
	CodeOutOfStock         ResponseCode = "out_of_stock"
)

// Valid reports whether the code is one the replenishment protocol understands.
func (c ResponseCode) Valid() bool {
	switch c {
	case CodeSuccess, CodeCommunicationError, CodeItemNotFound, CodeOutOfStock:
		return true
	default:
		return false
	}
}

// SupplierOrder asks a supplier for Quantity units of the item.
type SupplierOrder struct {
	ItemID   int64
	Quantity int
}

// SupplierResponse describes how much of an order the supplier fulfilled.
// ActualQuantity is only meaningful for CodeSuccess and CodeOutOfStock.
type SupplierResponse struct {
	RequestedQuantity int
	ActualQuantity    int
	Code              ResponseCode
}

// Gateway places restock orders with a supplier's stock server.
type Gateway interface {
	Order(ctx context.Context, order SupplierOrder) (SupplierResponse, error)
}

// Supplier owns the gateway used to restock the items it provides.
type Supplier struct {
	ID      int64
	Name    string
	Email   string
	Gateway Gateway
}
