package billcalc

import (
	"testing"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAssignments(t *testing.T) {
	items := []Item{
		{Price: dec("30000"), Quantity: 4},                  // неделимая позиция
		{Price: dec("90000"), Quantity: 1, IsSharing: true}, // общая позиция
	}

	cases := []struct {
		name        string
		assignments []Assignment
		want        map[int64]string
		wantErr     bool
	}{
		{
			name: "units and shares",
			assignments: []Assignment{
				{ItemIndex: 0, UserID: 1, QuantityAssigned: dec("1"), AmountAssigned: dec("30000")},
				{ItemIndex: 0, UserID: 2, QuantityAssigned: dec("3"), AmountAssigned: dec("90000")},
				{ItemIndex: 1, UserID: 1, QuantityAssigned: dec("0.5"), AmountAssigned: dec("45000")},
				{ItemIndex: 1, UserID: 2, QuantityAssigned: dec("0.5"), AmountAssigned: dec("45000")},
			},
			want: map[int64]string{1: "75000", 2: "135000"},
		},
		{
			name: "partially assigned shared item is accepted",
			assignments: []Assignment{
				{ItemIndex: 1, UserID: 1, QuantityAssigned: dec("0.25"), AmountAssigned: dec("22500")},
			},
			want: map[int64]string{1: "22500"},
		},
		{
			name: "unit quantity above item quantity",
			assignments: []Assignment{
				{ItemIndex: 0, UserID: 1, QuantityAssigned: dec("3"), AmountAssigned: dec("90000")},
				{ItemIndex: 0, UserID: 2, QuantityAssigned: dec("2"), AmountAssigned: dec("60000")},
			},
			wantErr: true,
		},
		{
			name: "shares above one",
			assignments: []Assignment{
				{ItemIndex: 1, UserID: 1, QuantityAssigned: dec("0.6"), AmountAssigned: dec("54000")},
				{ItemIndex: 1, UserID: 2, QuantityAssigned: dec("0.6"), AmountAssigned: dec("54000")},
			},
			wantErr: true,
		},
		{
			name: "fractional unit quantity",
			assignments: []Assignment{
				{ItemIndex: 0, UserID: 1, QuantityAssigned: dec("1.5"), AmountAssigned: dec("45000")},
			},
			wantErr: true,
		},
		{
			name: "amount does not match price",
			assignments: []Assignment{
				{ItemIndex: 0, UserID: 1, QuantityAssigned: dec("1"), AmountAssigned: dec("25000")},
			},
			wantErr: true,
		},
		{
			name: "unknown item",
			assignments: []Assignment{
				{ItemIndex: 7, UserID: 1, QuantityAssigned: dec("1"), AmountAssigned: dec("1")},
			},
			wantErr: true,
		},
		{
			name: "duplicate item and user",
			assignments: []Assignment{
				{ItemIndex: 0, UserID: 1, QuantityAssigned: dec("1"), AmountAssigned: dec("30000")},
				{ItemIndex: 0, UserID: 1, QuantityAssigned: dec("1"), AmountAssigned: dec("30000")},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReconcileAssignments(items, tc.assignments)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tc.want))
			for userID, want := range tc.want {
				assert.Equal(t, want, got[userID].String(), "user %d", userID)
			}
		})
	}
}

func TestSharedItemConservation(t *testing.T) {
	item := Item{Price: dec("100000"), Quantity: 1, IsSharing: true}
	third := dec("1").Div(dec("3"))

	var assignments []Assignment
	var sumShares decimal.Decimal
	for userID := int64(1); userID <= 3; userID++ {
		share := third
		if userID == 3 {
			share = dec("1").Sub(sumShares)
		}
		sumShares = sumShares.Add(share)
		assignments = append(assignments, Assignment{
			ItemIndex:        0,
			UserID:           userID,
			QuantityAssigned: share,
			AmountAssigned:   AssignedAmount(item, share),
		})
	}
	require.True(t, sumShares.Equal(dec("1")))

	subtotals, err := ReconcileAssignments([]Item{item}, assignments)
	require.NoError(t, err)

	var total decimal.Decimal
	for _, v := range subtotals {
		total = total.Add(v)
	}
	assert.True(t, WithinEpsilon(item.Value(), total), "got %s", total)
}

func TestReconcileAssignments_InvalidItems(t *testing.T) {
	_, err := ReconcileAssignments([]Item{{Price: dec("1"), Quantity: 0}}, nil)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = ReconcileAssignments([]Item{{Price: dec("-1"), Quantity: 1}}, nil)
	require.ErrorIs(t, err, domain.ErrValidation)
}
