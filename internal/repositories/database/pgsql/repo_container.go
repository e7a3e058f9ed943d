package pgsql

import (
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	templateRepo := newPgxTemplateRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	fiscalPeriodRepo := newPgxFiscalPeriodRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		TemplateRepo:     templateRepo,
		TransactionRepo:  transactionRepo,
		FiscalPeriodRepo: fiscalPeriodRepo,
		ReportingRepo:    reportingRepo,
	}
}
