package billcalc

import (
	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// EqualSplit делит суммы счета поровну на count участников. Каждая доля округляется вниз до копеек,
// остаток достается первому элементу, поэтому сумма долей в точности равна total.
func EqualSplit(total domain.Breakdown, count int) ([]domain.Breakdown, error) {
	if count < 1 {
		return nil, domain.NewValidationError("equal split needs at least one participant")
	}
	n := decimal.NewFromInt(int64(count))

	split := func(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		share := amount.Div(n).Truncate(moneyPlaces)
		return share, amount.Sub(share.Mul(n))
	}
	subtotal, subtotalRest := split(total.Subtotal)
	tax, taxRest := split(total.Tax)
	service, serviceRest := split(total.Service)
	discount, discountRest := split(total.Discount)

	shares := make([]domain.Breakdown, count)
	for i := range shares {
		shares[i] = domain.Breakdown{Subtotal: subtotal, Tax: tax, Service: service, Discount: discount}
	}
	shares[0].Subtotal = shares[0].Subtotal.Add(subtotalRest)
	shares[0].Tax = shares[0].Tax.Add(taxRest)
	shares[0].Service = shares[0].Service.Add(serviceRest)
	shares[0].Discount = shares[0].Discount.Add(discountRest)
	return shares, nil
}
