package api

import (
	"testing"

	"github.com/fsdevblog/billsplit/internal/transport/api/testutils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	require.NoError(t, v.RegisterValidation("max_bytes", validateMaxBytes))
	require.NoError(t, v.RegisterValidation("decimal_gte0", validateDecimalGTE0))

	type sample struct {
		Name   string           `validate:"max_bytes=8"`
		Amount decimal.Decimal  `validate:"decimal_gte0"`
		Extra  *decimal.Decimal `validate:"omitempty,decimal_gte0"`
	}

	negative := decimal.NewFromInt(-5)
	tests := []struct {
		name    string
		value   sample
		wantErr bool
	}{
		{name: "valid", value: sample{Name: "steak", Amount: decimal.RequireFromString("10.50")}},
		{name: "zero amount", value: sample{Name: "steak"}},
		{name: "runes fit but bytes do not", value: sample{Name: testutils.GenerateOverBytesUnderRunes(3)}, wantErr: true},
		{name: "negative amount", value: sample{Amount: decimal.RequireFromString("-0.01")}, wantErr: true},
		{name: "negative optional amount", value: sample{Extra: &negative}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
