package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

func TestComputeBalance(t *testing.T) {
	deposit := func(amount string) models.Operation {
		return models.Operation{Type: models.OperationTypeDeposit, Amount: decimal.RequireFromString(amount)}
	}
	withdraw := func(amount string) models.Operation {
		return models.Operation{Type: models.OperationTypeWithdraw, Amount: decimal.RequireFromString(amount)}
	}

	tests := []struct {
		name       string
		operations []models.Operation
		want       string
	}{
		{name: "nil", operations: nil, want: "0"},
		{name: "empty", operations: []models.Operation{}, want: "0"},
		{name: "single deposit", operations: []models.Operation{deposit("400")}, want: "400"},
		{name: "deposit then withdraw", operations: []models.Operation{deposit("400"), withdraw("200")}, want: "200"},
		{name: "order does not matter", operations: []models.Operation{withdraw("100"), deposit("400")}, want: "300"},
		{name: "no float drift", operations: []models.Operation{deposit("0.1"), deposit("0.2")}, want: "0.3"},
		{name: "negative fold", operations: []models.Operation{withdraw("1.25")}, want: "-1.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalance(tt.operations)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeBalanceDoesNotMutateInput(t *testing.T) {
	ops := []models.Operation{
		{ID: "1", Type: models.OperationTypeWithdraw, Amount: decimal.NewFromInt(5)},
		{ID: "2", Type: models.OperationTypeDeposit, Amount: decimal.NewFromInt(7)},
	}
	before := make([]models.Operation, len(ops))
	copy(before, ops)

	ComputeBalance(ops)

	assert.Equal(t, before, ops)
}
