// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package service wires the process-wide dependencies: configuration,
// repository implementation, domain engines and use-case services.
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/practicedesk/notice-tracker-service/internal/domain/billing"
	"github.com/practicedesk/notice-tracker-service/internal/domain/derive"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
	"github.com/practicedesk/notice-tracker-service/internal/infrastructure/mock"
	natsinfra "github.com/practicedesk/notice-tracker-service/internal/infrastructure/nats"
	internalService "github.com/practicedesk/notice-tracker-service/internal/service"
)

// Config holds the environment-driven process configuration.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	NATSURL           string        `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSTimeout       time.Duration `env:"NATS_TIMEOUT" envDefault:"10s"`
	NATSMaxReconnect  int           `env:"NATS_MAX_RECONNECT" envDefault:"3"`
	NATSReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" envDefault:"2s"`

	// RepositorySource selects the storage backend: "nats" or "mock"
	RepositorySource string `env:"REPOSITORY_SOURCE" envDefault:"nats"`

	// BillingPolicyFile optionally overrides the default billing policy
	BillingPolicyFile string `env:"BILLING_POLICY_FILE"`

	// ReconcileInterval is the period of the background reconciliation
	// loop; zero disables it
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"24h"`
}

var (
	appConfig     Config
	appConfigOnce sync.Once

	natsClient *natsinfra.NATSClient
	repository port.Repository
	wireOnce   sync.Once

	calculator     *billing.Calculator
	reconciler     internalService.Reconciler
	poaService     *internalService.POAService
	billingService *internalService.BillingService
	noticeService  *internalService.NoticeService
	callService    *internalService.CallService
	clientService  *internalService.ClientService
)

// AppConfig parses the environment once and returns the configuration.
func AppConfig() Config {
	appConfigOnce.Do(func() {
		if err := env.Parse(&appConfig); err != nil {
			log.Fatalf("failed to parse environment configuration: %v", err)
		}
	})
	return appConfig
}

func wire(ctx context.Context) {
	wireOnce.Do(func() {
		config := AppConfig()

		switch config.RepositorySource {
		case "mock":
			repository = mock.NewMockRepository()
		default:
			client, err := natsinfra.NewClient(ctx, natsinfra.Config{
				URL:           config.NATSURL,
				Timeout:       config.NATSTimeout,
				MaxReconnect:  config.NATSMaxReconnect,
				ReconnectWait: config.NATSReconnectWait,
			})
			if err != nil {
				log.Fatalf("failed to create NATS client: %v", err)
			}
			natsClient = client
			repository = natsinfra.NewStorage(client)
		}

		billingConfig, err := billing.LoadConfig(config.BillingPolicyFile)
		if err != nil {
			log.Fatalf("failed to load billing policy: %v", err)
		}
		calculator = billing.NewCalculator(billingConfig)

		reconciler = internalService.NewReconciler(
			internalService.WithNoticeStore(repository),
			internalService.WithCallStore(repository),
			internalService.WithDeriveEngine(derive.NewEngine()),
		)
		poaService = internalService.NewPOAService(repository, repository)
		billingService = internalService.NewBillingService(repository, calculator)
		noticeService = internalService.NewNoticeService(repository, reconciler, poaService)
		callService = internalService.NewCallService(repository, repository, billingService, reconciler)
		clientService = internalService.NewClientService(repository, repository)
	})
}

// Repository returns the configured storage backend.
func Repository(ctx context.Context) port.Repository {
	wire(ctx)
	return repository
}

// NATSClient returns the NATS client, or nil when running on the mock
// repository.
func NATSClient(ctx context.Context) *natsinfra.NATSClient {
	wire(ctx)
	return natsClient
}

// Reconciler returns the reconciliation orchestrator.
func Reconciler(ctx context.Context) internalService.Reconciler {
	wire(ctx)
	return reconciler
}

// POAService returns the POA coverage service.
func POAService(ctx context.Context) *internalService.POAService {
	wire(ctx)
	return poaService
}

// BillingService returns the billing service.
func BillingService(ctx context.Context) *internalService.BillingService {
	wire(ctx)
	return billingService
}

// NoticeService returns the notice service.
func NoticeService(ctx context.Context) *internalService.NoticeService {
	wire(ctx)
	return noticeService
}

// CallService returns the call service.
func CallService(ctx context.Context) *internalService.CallService {
	wire(ctx)
	return callService
}

// ClientService returns the client service.
func ClientService(ctx context.Context) *internalService.ClientService {
	wire(ctx)
	return clientService
}
