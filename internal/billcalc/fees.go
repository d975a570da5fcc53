// Package billcalc содержит чистые расчеты счета: комиссии и их пропорциональное распределение,
// сверку назначений позиций, политику дедлайна оплаты и равное деление.
package billcalc

import (
	"fmt"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	// Epsilon допустимое расхождение сумм при сверке - одна денежная единица.
	Epsilon = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// FeeConfig проценты комиссий счета. DiscountNominal, если задан, имеет приоритет над DiscountPct.
type FeeConfig struct {
	TaxPct          decimal.Decimal
	ServicePct      decimal.Decimal
	DiscountPct     decimal.Decimal
	DiscountNominal *decimal.Decimal
}

// Fees абсолютные суммы счета.
type Fees struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Service  decimal.Decimal
	Discount decimal.Decimal
}

func (f Fees) Total() decimal.Decimal {
	return f.Breakdown().Total()
}

func (f Fees) Breakdown() domain.Breakdown {
	return domain.Breakdown{
		Subtotal: f.Subtotal,
		Tax:      f.Tax,
		Service:  f.Service,
		Discount: f.Discount,
	}
}

// FeesOf суммы уже сохраненного счета.
func FeesOf(bill *domain.Bill) Fees {
	return Fees{
		Subtotal: bill.SubTotal,
		Tax:      bill.TaxAmount,
		Service:  bill.ServiceAmount,
		Discount: bill.DiscountAmount,
	}
}

// ComputeFees считает абсолютные суммы налога, сервисного сбора и скидки от subtotal.
func ComputeFees(subtotal decimal.Decimal, cfg FeeConfig) (Fees, error) {
	if subtotal.IsNegative() {
		return Fees{}, domain.NewValidationError("subtotal must not be negative, got %s", subtotal)
	}
	percents := []struct {
		name  string
		value decimal.Decimal
	}{
		{name: "taxPct", value: cfg.TaxPct},
		{name: "servicePct", value: cfg.ServicePct},
		{name: "discountPct", value: cfg.DiscountPct},
	}
	for _, pct := range percents {
		if pct.value.IsNegative() {
			return Fees{}, domain.NewValidationError("%s must not be negative, got %s", pct.name, pct.value)
		}
	}

	fees := Fees{
		Subtotal: subtotal,
		Tax:      percentOf(subtotal, cfg.TaxPct),
		Service:  percentOf(subtotal, cfg.ServicePct),
		Discount: percentOf(subtotal, cfg.DiscountPct),
	}
	if cfg.DiscountNominal != nil {
		if cfg.DiscountNominal.IsNegative() {
			return Fees{}, domain.NewValidationError("discount must not be negative, got %s", *cfg.DiscountNominal)
		}
		fees.Discount = cfg.DiscountNominal.Round(moneyPlaces)
	}

	if fees.Total().IsNegative() {
		return Fees{}, domain.NewValidationError(
			"discount %s exceeds subtotal with fees %s", fees.Discount, fees.Total().Add(fees.Discount),
		)
	}
	return fees, nil
}

// Allocate распределяет комиссии счета на участника пропорционально его subtotal.
func Allocate(fees Fees, participantSubtotal decimal.Decimal) domain.Breakdown {
	if fees.Subtotal.IsZero() {
		return domain.Breakdown{Subtotal: participantSubtotal}
	}
	share := func(amount decimal.Decimal) decimal.Decimal {
		return amount.Mul(participantSubtotal).Div(fees.Subtotal).Round(moneyPlaces)
	}
	return domain.Breakdown{
		Subtotal: participantSubtotal,
		Tax:      share(fees.Tax),
		Service:  share(fees.Service),
		Discount: share(fees.Discount),
	}
}

// MismatchError описывает поле, по которому суммы участников не сошлись с суммами счета.
type MismatchError struct {
	Field    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// Delta наблюдаемое расхождение: Actual - Expected.
func (e *MismatchError) Delta() decimal.Decimal {
	return e.Actual.Sub(e.Expected)
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s mismatch: expected %s, got %s (delta %s)", e.Field, e.Expected, e.Actual, e.Delta())
}

// ReconcileBreakdowns проверяет, что разложения участников в сумме дают суммы счета с точностью до Epsilon,
// а итог каждого участника равен subtotal + tax + service - discount.
func ReconcileBreakdowns(fees Fees, breakdowns []domain.Breakdown) error {
	var sum domain.Breakdown
	for i, b := range breakdowns {
		if b.Subtotal.IsNegative() || b.Tax.IsNegative() || b.Service.IsNegative() || b.Discount.IsNegative() {
			return domain.NewValidationError("breakdown #%d contains a negative amount", i)
		}
		sum.Subtotal = sum.Subtotal.Add(b.Subtotal)
		sum.Tax = sum.Tax.Add(b.Tax)
		sum.Service = sum.Service.Add(b.Service)
		sum.Discount = sum.Discount.Add(b.Discount)
	}

	checks := []MismatchError{
		{Field: "subtotal", Expected: fees.Subtotal, Actual: sum.Subtotal},
		{Field: "taxAmount", Expected: fees.Tax, Actual: sum.Tax},
		{Field: "serviceAmount", Expected: fees.Service, Actual: sum.Service},
		{Field: "discountAmount", Expected: fees.Discount, Actual: sum.Discount},
		{Field: "totalAmount", Expected: fees.Total(), Actual: sum.Total()},
	}
	for _, check := range checks {
		if !WithinEpsilon(check.Expected, check.Actual) {
			mismatch := check
			return domain.NewError(domain.KindValidation, &mismatch,
				"participant breakdowns do not reconcile: %s differs by %s", mismatch.Field, mismatch.Delta())
		}
	}
	return nil
}

// WithinEpsilon сообщает, что a и b различаются не более чем на Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).Round(moneyPlaces)
}
