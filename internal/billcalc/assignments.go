package billcalc

import (
	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Item позиция счета для сверки назначений.
type Item struct {
	Price     decimal.Decimal
	Quantity  int64
	IsSharing bool
}

// Value полная стоимость позиции: price * quantity.
func (i Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// Assignment назначение позиции ItemIndex участнику UserID. Для неделимых позиций QuantityAssigned -
// целое количество штук, для общих (IsSharing) - доля от 0 до 1.
type Assignment struct {
	ItemIndex        int
	UserID           int64
	QuantityAssigned decimal.Decimal
	AmountAssigned   decimal.Decimal
}

// AssignedAmount ожидаемая сумма назначения.
func AssignedAmount(item Item, quantityAssigned decimal.Decimal) decimal.Decimal {
	if item.IsSharing {
		return item.Value().Mul(quantityAssigned).Round(moneyPlaces)
	}
	return item.Price.Mul(quantityAssigned).Round(moneyPlaces)
}

// ReconcileAssignments проверяет назначения позиций и возвращает subtotal каждого участника.
//
// Правила:
//   - неделимая позиция: количество целое и неотрицательное, сумма равна price * quantityAssigned,
//     суммарное количество не больше quantity позиции;
//   - общая позиция: доля в [0, 1], сумма равна price * quantity * доля, суммарная доля не больше 1.
//     Неназначенный остаток не принадлежит никому;
//   - по каждой позиции сумма назначений не больше ее стоимости (с точностью до Epsilon).
func ReconcileAssignments(items []Item, assignments []Assignment) (map[int64]decimal.Decimal, error) {
	for i, item := range items {
		if item.Price.IsNegative() {
			return nil, domain.NewValidationError("item #%d: price must not be negative", i)
		}
		if item.Quantity < 1 {
			return nil, domain.NewValidationError("item #%d: quantity must be positive", i)
		}
	}

	type pair struct {
		item int
		user int64
	}
	seen := make(map[pair]struct{}, len(assignments))
	quantities := make([]decimal.Decimal, len(items))
	amounts := make([]decimal.Decimal, len(items))
	subtotals := make(map[int64]decimal.Decimal)

	for i, a := range assignments {
		if a.ItemIndex < 0 || a.ItemIndex >= len(items) {
			return nil, domain.NewValidationError("assignment #%d: unknown item #%d", i, a.ItemIndex)
		}
		key := pair{item: a.ItemIndex, user: a.UserID}
		if _, ok := seen[key]; ok {
			return nil, domain.NewValidationError(
				"assignment #%d: item #%d is assigned to user %d twice", i, a.ItemIndex, a.UserID,
			)
		}
		seen[key] = struct{}{}

		item := items[a.ItemIndex]
		if a.QuantityAssigned.IsNegative() || a.AmountAssigned.IsNegative() {
			return nil, domain.NewValidationError("assignment #%d: negative quantity or amount", i)
		}
		if item.IsSharing {
			if a.QuantityAssigned.GreaterThan(one) {
				return nil, domain.NewValidationError(
					"assignment #%d: share %s of shared item #%d is above 1", i, a.QuantityAssigned, a.ItemIndex,
				)
			}
		} else if !a.QuantityAssigned.Equal(a.QuantityAssigned.Truncate(0)) {
			return nil, domain.NewValidationError(
				"assignment #%d: quantity %s of item #%d must be whole", i, a.QuantityAssigned, a.ItemIndex,
			)
		}

		if expected := AssignedAmount(item, a.QuantityAssigned); !WithinEpsilon(expected, a.AmountAssigned) {
			return nil, domain.NewValidationError(
				"assignment #%d: amount %s does not match expected %s", i, a.AmountAssigned, expected,
			)
		}

		quantities[a.ItemIndex] = quantities[a.ItemIndex].Add(a.QuantityAssigned)
		amounts[a.ItemIndex] = amounts[a.ItemIndex].Add(a.AmountAssigned)
		subtotals[a.UserID] = subtotals[a.UserID].Add(a.AmountAssigned)
	}

	for i, item := range items {
		limit := decimal.NewFromInt(item.Quantity)
		if item.IsSharing {
			limit = one
		}
		if quantities[i].GreaterThan(limit) {
			return nil, domain.NewValidationError(
				"item #%d: assigned quantity %s exceeds %s", i, quantities[i], limit,
			)
		}
		if amounts[i].Sub(item.Value()).GreaterThan(Epsilon) {
			return nil, domain.NewValidationError(
				"item #%d: assigned amount %s exceeds item total %s", i, amounts[i], item.Value(),
			)
		}
	}

	return subtotals, nil
}
