package billcalc

import (
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
)

// DefaultPaymentWindow окно оплаты по умолчанию, отсчитывается от создания счета.
const DefaultPaymentWindow = 24 * time.Hour

// DeadlineState результат вычисления политики дедлайна на момент Now.
type DeadlineState struct {
	Now      time.Time
	Default  time.Time // createdAt + 24h
	Deadline time.Time // действующий дедлайн
	Expired  bool
}

// Late сообщает, что стандартное окно 24ч уже прошло, а расширенный дедлайн еще нет.
func (d DeadlineState) Late() bool {
	return !d.Expired && d.Now.After(d.Default)
}

// PaymentDeadline действующий дедлайн: maxPaymentDate, если счет разрешает отложенную оплату и дата задана,
// иначе createdAt + 24h.
func PaymentDeadline(createdAt time.Time, maxPaymentDate *time.Time, allowScheduledPayment bool) time.Time {
	if allowScheduledPayment && maxPaymentDate != nil {
		return *maxPaymentDate
	}
	return createdAt.Add(DefaultPaymentWindow)
}

// EvaluateDeadline вычисляет состояние дедлайна счета. Результат не кэшируется: вызывается при каждом чтении
// и каждой попытке оплаты.
func EvaluateDeadline(bill *domain.Bill, now time.Time) DeadlineState {
	deadline := PaymentDeadline(bill.CreatedAt, bill.MaxPaymentDate, bill.AllowScheduledPayment)
	return DeadlineState{
		Now:      now,
		Default:  bill.CreatedAt.Add(DefaultPaymentWindow),
		Deadline: deadline,
		Expired:  now.After(deadline),
	}
}
