package repoargs

import (
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
)

type CreateParticipant struct {
	BillID        int64
	UserID        int64
	Breakdown     domain.Breakdown
	PaymentStatus domain.PaymentStatusType
	PaidAt        *time.Time
}

type UpdateBreakdown struct {
	ID        int64
	Breakdown domain.Breakdown
}

// UpdateParticipantStatus nil ScheduledDate оставляет сохраненную дату без изменений.
type UpdateParticipantStatus struct {
	ID            int64
	Status        domain.PaymentStatusType
	PaidAt        *time.Time
	ScheduledDate *time.Time
}
