package billcalc

import (
	"errors"
	"testing"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeFees(t *testing.T) {
	nominal := dec("5000")
	tooBig := dec("1000000")

	cases := []struct {
		name         string
		subtotal     decimal.Decimal
		cfg          FeeConfig
		wantTax      string
		wantService  string
		wantDiscount string
		wantTotal    string
		wantErr      bool
	}{
		{
			name:      "tax only",
			subtotal:  dec("360000"),
			cfg:       FeeConfig{TaxPct: dec("10")},
			wantTax:   "36000",
			wantTotal: "396000",
		},
		{
			name:         "all percentages",
			subtotal:     dec("200000"),
			cfg:          FeeConfig{TaxPct: dec("11"), ServicePct: dec("5"), DiscountPct: dec("10")},
			wantTax:      "22000",
			wantService:  "10000",
			wantDiscount: "20000",
			wantTotal:    "212000",
		},
		{
			name:         "nominal discount wins over percent",
			subtotal:     dec("100000"),
			cfg:          FeeConfig{DiscountPct: dec("50"), DiscountNominal: &nominal},
			wantDiscount: "5000",
			wantTotal:    "95000",
		},
		{
			name:      "fractional amounts round to cents",
			subtotal:  dec("99.99"),
			cfg:       FeeConfig{TaxPct: dec("7.5")},
			wantTax:   "7.5",
			wantTotal: "107.49",
		},
		{name: "negative tax", subtotal: dec("100"), cfg: FeeConfig{TaxPct: dec("-1")}, wantErr: true},
		{name: "negative subtotal", subtotal: dec("-1"), wantErr: true},
		{name: "discount above total", subtotal: dec("100"), cfg: FeeConfig{DiscountNominal: &tooBig}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fees, err := ComputeFees(tc.subtotal, tc.cfg)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orZero(tc.wantTax), fees.Tax.String())
			assert.Equal(t, orZero(tc.wantService), fees.Service.String())
			assert.Equal(t, orZero(tc.wantDiscount), fees.Discount.String())
			assert.Equal(t, tc.wantTotal, fees.Total().String())
		})
	}
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func TestAllocate(t *testing.T) {
	fees, err := ComputeFees(dec("360000"), FeeConfig{TaxPct: dec("10"), ServicePct: dec("5")})
	require.NoError(t, err)

	b := Allocate(fees, dec("120000"))
	assert.Equal(t, "120000", b.Subtotal.String())
	assert.Equal(t, "12000", b.Tax.String())
	assert.Equal(t, "6000", b.Service.String())
	assert.Equal(t, "0", b.Discount.String())
	assert.Equal(t, "138000", b.Total().String())

	zero := Allocate(Fees{}, dec("10"))
	assert.Equal(t, "10", zero.Total().String())
}

func TestReconcileBreakdowns(t *testing.T) {
	fees, err := ComputeFees(dec("360000"), FeeConfig{TaxPct: dec("10")})
	require.NoError(t, err)
	require.Equal(t, "396000", fees.Total().String())

	host := domain.Breakdown{Subtotal: dec("120000"), Tax: dec("12000")}
	second := domain.Breakdown{Subtotal: dec("180000"), Tax: dec("18000")}
	third := domain.Breakdown{Subtotal: dec("60000"), Tax: dec("6000")}

	t.Run("fixture shares reconcile exactly", func(t *testing.T) {
		require.NoError(t, ReconcileBreakdowns(fees, []domain.Breakdown{host, second, third}))
		assert.Equal(t, "396000", host.Total().Add(second.Total()).Add(third.Total()).String())
		assert.Equal(t, "132000", host.Total().String())
		assert.Equal(t, "198000", second.Total().String())
		assert.Equal(t, "66000", third.Total().String())
	})

	t.Run("rounding within one unit is accepted", func(t *testing.T) {
		off := third
		off.Tax = dec("6000.6")
		require.NoError(t, ReconcileBreakdowns(fees, []domain.Breakdown{host, second, off}))
	})

	t.Run("mismatch names the field and delta", func(t *testing.T) {
		off := third
		off.Tax = dec("6005")
		err := ReconcileBreakdowns(fees, []domain.Breakdown{host, second, off})
		require.ErrorIs(t, err, domain.ErrValidation)

		var mismatch *MismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "taxAmount", mismatch.Field)
		assert.Equal(t, "5", mismatch.Delta().String())
		assert.Contains(t, err.Error(), "taxAmount")
	})

	t.Run("missing participant", func(t *testing.T) {
		err := ReconcileBreakdowns(fees, []domain.Breakdown{host, second})
		var mismatch *MismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "subtotal", mismatch.Field)
	})

	t.Run("negative component", func(t *testing.T) {
		bad := third
		bad.Discount = dec("-1")
		require.ErrorIs(t, ReconcileBreakdowns(fees, []domain.Breakdown{host, second, bad}), domain.ErrValidation)
	})
}
