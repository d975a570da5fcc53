package domain

type BillStatusType string

const (
	BillStatusActive    BillStatusType = "active"
	BillStatusCompleted BillStatusType = "completed"
	BillStatusExpired   BillStatusType = "expired"
)

type PaymentStatusType string

const (
	PaymentStatusPending            PaymentStatusType = "pending"
	PaymentStatusScheduled          PaymentStatusType = "scheduled"
	PaymentStatusCompleted          PaymentStatusType = "completed"
	PaymentStatusCompletedScheduled PaymentStatusType = "completed_scheduled"
	PaymentStatusCompletedLate      PaymentStatusType = "completed_late"
	PaymentStatusFailed             PaymentStatusType = "failed"
)

// IsSettled сообщает, что участник полностью рассчитался (одно из терминальных успешных состояний).
func (s PaymentStatusType) IsSettled() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusCompletedScheduled, PaymentStatusCompletedLate:
		return true
	default:
		return false
	}
}

// IsTerminal сообщает, что из состояния нет переходов.
func (s PaymentStatusType) IsTerminal() bool {
	return s.IsSettled() || s == PaymentStatusFailed
}

type PaymentType string

const (
	PaymentTypeInstant   PaymentType = "instant"
	PaymentTypeScheduled PaymentType = "scheduled"
)

// PaymentRecordStatusSettled единственный статус записи payment: запись создается только после успешного перевода.
const PaymentRecordStatusSettled = "settled"

type PaymentEventType string

const (
	PaymentEventSettled   PaymentEventType = "payment.settled"
	PaymentEventScheduled PaymentEventType = "payment.scheduled"
	PaymentEventExpired   PaymentEventType = "participant.expired"
	PaymentEventFailed    PaymentEventType = "participant.failed"
)
