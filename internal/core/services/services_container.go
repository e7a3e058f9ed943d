package services

import (
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Template = NewTemplateService(repos.TemplateRepo, repos.AccountRepo)
	container.FiscalPeriod = NewFiscalPeriodService(repos.FiscalPeriodRepo)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.TemplateRepo,
		repos.AccountRepo,
		container.FiscalPeriod,
	)

	container.Closing = NewClosingService(
		repos.TransactionRepo,
		repos.ReportingRepo,
		repos.AccountRepo,
		container.Transaction,
		cfg.RetainedEarningsCode,
		cfg.CurrentEarningsCode,
	)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo)
	container.Auth = NewAuthService(cfg)

	return container
}
