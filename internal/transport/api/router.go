package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/billsplit/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup               = "/api"
	LoginRoute               = "/user/login"
	LogoutRoute              = "/user/logout"
	BalanceRoute             = "/user/balance"
	BillsRoute               = "/bills"
	JoinBillRoute            = "/bills/join"
	BillRoute                = "/bills/:id"
	BillBreakdownsRoute      = "/bills/:id/breakdowns"
	BillParticipantRoute     = "/bills/:id/participants/:participantID"
	ParticipantPayRoute      = "/participants/:id/payments"
	ParticipantScheduleRoute = "/participants/:id/schedule"
	MetricsRoute             = "/metrics"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	BillService    BillServicer
	PaymentService PaymentServicer
	// MetricsHandler, если задан, отдается по MetricsRoute.
	MetricsHandler http.Handler
	// DevMode добавляет в ответы с ошибкой полную цепочку ошибки.
	DevMode bool
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors(args.DevMode))

	if args.MetricsHandler != nil {
		r.GET(MetricsRoute, gin.WrapH(args.MetricsHandler))
	}

	authHandler := NewAuthHandler(args.UserService)
	balanceHandler := NewBalanceHandler(args.UserService)
	billsHandler := NewBillsHandler(args.BillService)
	paymentsHandler := NewPaymentsHandler(args.PaymentService)

	api := r.Group(RouteGroup)

	api.POST(LoginRoute, authHandler.Login)

	api.Use(middlewares.AuthRequired(args.UserService))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.POST(LogoutRoute, authHandler.Logout)
	api.GET(BalanceRoute, balanceHandler.Index)

	api.POST(BillsRoute, billsHandler.Create)
	api.POST(JoinBillRoute, billsHandler.Join)
	api.GET(BillRoute, billsHandler.Show)
	api.PUT(BillBreakdownsRoute, billsHandler.ReassignBreakdowns)
	api.DELETE(BillParticipantRoute, billsHandler.RemoveParticipant)

	api.POST(ParticipantPayRoute, paymentsHandler.Pay)
	api.POST(ParticipantScheduleRoute, paymentsHandler.Schedule)
	return r, nil
}
