package models

import "github.com/shopspring/decimal"

// Balance is the derived balance of a user together with the operations it was folded from,
// in creation order.
type Balance struct {
	Balance   decimal.Decimal `json:"balance"`
	Statement []Operation     `json:"statement"`
}
