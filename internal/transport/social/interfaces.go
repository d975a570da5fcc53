package social

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/transport/social/client"
)

type Client interface {
	GetRelations(ctx context.Context, hostID, userID, billID int64) (*client.Relations, error)
}
