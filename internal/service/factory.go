package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService    *UserService
	BillService    *BillService
	PaymentService *PaymentService
}

type FactoryArgs struct {
	UOW        uow.UOW
	JWTSecret  []byte
	Hasher     PasswordHasher
	Sessions   SessionStore
	Admission  AdmissionChecker
	Publisher  EventPublisher
	Observer   PaymentObserver
	Policy     InsufficientFundsPolicy
	SessionTTL time.Duration
	Logger     *logrus.Logger
}

func Factory(args FactoryArgs) (*AppServices, error) {
	simulator, simulatorErr := NewSettlementSimulator(args.UOW)
	if simulatorErr != nil {
		return nil, fmt.Errorf("service factory: %s", simulatorErr.Error())
	}

	userService, userServiceErr := NewUserService(args.UOW, args.JWTSecret, args.Hasher, args.Sessions, simulator)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}
	userService.SetSessionTTL(args.SessionTTL)

	ledger := NewParticipantLedger(systemClock)
	billService, billServiceErr := NewBillService(args.UOW, ledger, args.Admission)
	if billServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", billServiceErr.Error())
	}

	paymentService := NewPaymentService(args.UOW, args.Hasher, simulator, args.Logger).
		SetInsufficientFundsPolicy(args.Policy).
		SetEventPublisher(args.Publisher).
		SetObserver(args.Observer)

	return &AppServices{
		UserService:    userService,
		BillService:    billService,
		PaymentService: paymentService,
	}, nil
}
