// Package ledger holds the pure rules of the stock ledger: status derivation,
// financial aggregation and the activity stream merge. Nothing here touches the store.
package ledger

import "stockledger/internal/model"

// An item is low on stock when fewer than LowStockNumerator/LowStockDenominator
// of everything it ever received is left.
const (
	LowStockNumerator   = 1
	LowStockDenominator = 4
)

// DeriveStatus maps the remaining quantity and the cumulative received quantity to a status.
func DeriveStatus(remaining, totalReceived int) model.StockStatus {
	if remaining <= 0 {
		return model.StatusCompleted
	}
	if totalReceived < remaining {
		totalReceived = remaining
	}
	if remaining*LowStockDenominator < totalReceived*LowStockNumerator {
		return model.StatusLowStock
	}
	return model.StatusAvailable
}
