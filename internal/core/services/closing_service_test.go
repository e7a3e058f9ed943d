package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingReader = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) SummarizeIncomeStatement(ctx context.Context, from time.Time, to time.Time) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

func (m *MockReportingRepository) FindLedgerLines(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.GeneralLedgerLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneralLedgerLine), args.Error(1)
}

func (m *MockReportingRepository) SumAccountBalance(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, before)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock TransactionPosterService (as used by the closing service) ---
type MockTransactionPosterService struct {
	mock.Mock
}

var _ portssvc.TransactionPosterSvc = (*MockTransactionPosterService)(nil)

func (m *MockTransactionPosterService) PreviewTransaction(ctx context.Context, transactionID string) (*dto.PreviewTransactionResponse, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PreviewTransactionResponse), args.Error(1)
}

func (m *MockTransactionPosterService) PostTransaction(ctx context.Context, transactionID string, req dto.PostTransactionRequest, postedBy string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req, postedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionPosterService) VoidTransaction(ctx context.Context, transactionID string, req dto.VoidTransactionRequest, voidedBy string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req, voidedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Test Suite Setup ---
type ClosingServiceTestSuite struct {
	suite.Suite
	mockTransactionRepo *MockTransactionRepository
	mockReportingRepo   *MockReportingRepository
	mockAccountRepo     *MockAccountRepository
	mockTransactionSvc  *MockTransactionPosterService
	service             portssvc.ClosingSvc
	revenueAccount      domain.Account
	expenseAccount      domain.Account
	retainedEarnings    domain.Account
	currentEarnings     domain.Account
	userID              string
}

func (suite *ClosingServiceTestSuite) SetupTest() {
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTransactionSvc = new(MockTransactionPosterService)

	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "4.1",
		AccountName: "Pendapatan Jasa",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "5.1",
		AccountName: "Beban Gaji",
		AccountType: domain.Expense,
		IsActive:    true,
	}
	suite.retainedEarnings = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "3.1",
		AccountName: "Laba Ditahan",
		AccountType: domain.Equity,
		IsActive:    true,
	}
	suite.currentEarnings = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "3.2",
		AccountName: "Laba Tahun Berjalan",
		AccountType: domain.Equity,
		IsActive:    true,
	}

	suite.service = services.NewClosingService(
		suite.mockTransactionRepo,
		suite.mockReportingRepo,
		suite.mockAccountRepo,
		suite.mockTransactionSvc,
		suite.retainedEarnings.AccountCode,
		suite.currentEarnings.AccountCode,
	)
	suite.userID = uuid.NewString()
}

func (suite *ClosingServiceTestSuite) incomeStatement(revenue, expense int64) *domain.IncomeStatement {
	stmt := &domain.IncomeStatement{
		TotalRevenue: decimal.NewFromInt(revenue),
		TotalExpense: decimal.NewFromInt(expense),
	}
	if revenue != 0 {
		stmt.RevenueItems = []domain.IncomeStatementItem{{Account: suite.revenueAccount, Balance: decimal.NewFromInt(revenue)}}
	}
	if expense != 0 {
		stmt.ExpenseItems = []domain.IncomeStatementItem{{Account: suite.expenseAccount, Balance: decimal.NewFromInt(expense)}}
	}
	return stmt
}

func (suite *ClosingServiceTestSuite) expectAccountLookups() {
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.currentEarnings.AccountCode).Return(&suite.currentEarnings, nil)
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.retainedEarnings.AccountCode).Return(&suite.retainedEarnings, nil)
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.revenueAccount.AccountCode).Return(&suite.revenueAccount, nil)
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, suite.expenseAccount.AccountCode).Return(&suite.expenseAccount, nil)
}

// --- Test Cases ---

func (suite *ClosingServiceTestSuite) TestPreviewClosing_Profit() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("HasClosingTransactions", ctx, 2025).Return(false, nil).Once()
	suite.mockReportingRepo.On("SummarizeIncomeStatement", ctx, mock.Anything, mock.Anything).
		Return(suite.incomeStatement(1000, 400), nil).Once()
	suite.expectAccountLookups()

	preview, err := suite.service.PreviewClosing(ctx, 2025)

	suite.Require().NoError(err)
	suite.Equal(2025, preview.Year)
	suite.False(preview.AlreadyClosed)
	suite.True(preview.NetIncome.Equal(decimal.NewFromInt(600)))
	suite.Require().Len(preview.Entries, 3)

	// The revenue sweep debits each revenue account and credits current year
	// earnings with the total.
	revenueSweep := preview.Entries[0]
	suite.Equal("CLOSING-2025-01", revenueSweep.ReferenceNumber)
	suite.Require().Len(revenueSweep.Lines, 2)
	suite.True(revenueSweep.Lines[0].Debit.Equal(decimal.NewFromInt(1000)))
	suite.Equal(suite.currentEarnings.AccountCode, revenueSweep.Lines[1].AccountCode)
	suite.True(revenueSweep.Lines[1].Credit.Equal(decimal.NewFromInt(1000)))

	// Net income lands in retained earnings.
	netSweep := preview.Entries[2]
	suite.Equal(suite.retainedEarnings.AccountCode, netSweep.Lines[1].AccountCode)
	suite.True(netSweep.Lines[1].Credit.Equal(decimal.NewFromInt(600)))
}

func (suite *ClosingServiceTestSuite) TestPreviewClosing_Loss() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("HasClosingTransactions", ctx, 2025).Return(false, nil).Once()
	suite.mockReportingRepo.On("SummarizeIncomeStatement", ctx, mock.Anything, mock.Anything).
		Return(suite.incomeStatement(300, 500), nil).Once()
	suite.expectAccountLookups()

	preview, err := suite.service.PreviewClosing(ctx, 2025)

	suite.Require().NoError(err)
	suite.True(preview.NetIncome.Equal(decimal.NewFromInt(-200)))
	suite.Require().Len(preview.Entries, 3)

	// A loss debits retained earnings instead.
	netSweep := preview.Entries[2]
	suite.Equal(suite.retainedEarnings.AccountCode, netSweep.Lines[0].AccountCode)
	suite.True(netSweep.Lines[0].Debit.Equal(decimal.NewFromInt(200)))
}

func (suite *ClosingServiceTestSuite) TestPreviewClosing_NoActivity() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("HasClosingTransactions", ctx, 2025).Return(false, nil).Once()
	suite.mockReportingRepo.On("SummarizeIncomeStatement", ctx, mock.Anything, mock.Anything).
		Return(&domain.IncomeStatement{TotalRevenue: decimal.Zero, TotalExpense: decimal.Zero}, nil).Once()

	preview, err := suite.service.PreviewClosing(ctx, 2025)

	suite.Require().NoError(err)
	suite.Empty(preview.Entries)
	suite.True(preview.NetIncome.IsZero())
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestExecuteClosing_Success() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("HasClosingTransactions", ctx, 2025).Return(false, nil).Once()
	suite.mockReportingRepo.On("SummarizeIncomeStatement", ctx, mock.Anything, mock.Anything).
		Return(suite.incomeStatement(1000, 400), nil).Once()
	suite.expectAccountLookups()
	suite.mockTransactionRepo.On("SaveClosingTransactions", ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		if len(txns) != 3 {
			return false
		}
		for i, txn := range txns {
			if txn.Status != domain.StatusPosted || txn.ClosingYear == nil || *txn.ClosingYear != 2025 {
				return false
			}
			if txn.ClosingSeq == nil || *txn.ClosingSeq != i+1 {
				return false
			}
			if txn.TemplateID != nil {
				return false
			}
			totalDebit, totalCredit := decimal.Zero, decimal.Zero
			for _, entry := range txn.Entries {
				totalDebit = totalDebit.Add(entry.Debit)
				totalCredit = totalCredit.Add(entry.Credit)
			}
			if !totalDebit.Equal(totalCredit) {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	txns, err := suite.service.ExecuteClosing(ctx, 2025, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(txns, 3)
	suite.True(txns[0].Amount.Equal(decimal.NewFromInt(1000)))
	suite.True(txns[1].Amount.Equal(decimal.NewFromInt(400)))
	suite.True(txns[2].Amount.Equal(decimal.NewFromInt(600)))
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestExecuteClosing_AlreadyClosed() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("HasClosingTransactions", ctx, 2025).Return(true, nil).Once()
	suite.mockReportingRepo.On("SummarizeIncomeStatement", ctx, mock.Anything, mock.Anything).
		Return(suite.incomeStatement(1000, 400), nil).Once()
	suite.expectAccountLookups()

	_, err := suite.service.ExecuteClosing(ctx, 2025, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrYearAlreadyClosed)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveClosingTransactions", mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestExecuteClosing_NoActivityIsNoOp() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("HasClosingTransactions", ctx, 2025).Return(false, nil).Once()
	suite.mockReportingRepo.On("SummarizeIncomeStatement", ctx, mock.Anything, mock.Anything).
		Return(&domain.IncomeStatement{TotalRevenue: decimal.Zero, TotalExpense: decimal.Zero}, nil).Once()

	txns, err := suite.service.ExecuteClosing(ctx, 2025, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(txns)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveClosingTransactions", mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestReverseClosing_Success() {
	ctx := context.Background()
	year := 2025
	seq1, seq2 := 1, 2
	closings := []domain.Transaction{
		{TransactionID: uuid.NewString(), Status: domain.StatusPosted, ClosingYear: &year, ClosingSeq: &seq1},
		{TransactionID: uuid.NewString(), Status: domain.StatusPosted, ClosingYear: &year, ClosingSeq: &seq2},
	}

	suite.mockTransactionRepo.On("FindClosingTransactions", ctx, 2025).Return(closings, nil).Once()
	for i := range closings {
		voided := closings[i]
		voided.Status = domain.StatusVoid
		suite.mockTransactionSvc.On("VoidTransaction", ctx, closings[i].TransactionID,
			mock.MatchedBy(func(req dto.VoidTransactionRequest) bool {
				return req.Reason == "wrong equity account"
			}),
			suite.userID).Return(&voided, nil).Once()
	}

	voided, err := suite.service.ReverseClosing(ctx, 2025, "wrong equity account", suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(voided, 2)
	suite.Equal(domain.StatusVoid, voided[0].Status)
	suite.mockTransactionSvc.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestReverseClosing_NothingToReverse() {
	ctx := context.Background()
	year := 2025
	seq := 1
	alreadyVoided := []domain.Transaction{
		{TransactionID: uuid.NewString(), Status: domain.StatusVoid, ClosingYear: &year, ClosingSeq: &seq},
	}

	suite.mockTransactionRepo.On("FindClosingTransactions", ctx, 2025).Return(alreadyVoided, nil).Once()

	_, err := suite.service.ReverseClosing(ctx, 2025, "retry", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrYearNotClosed)
	suite.mockTransactionSvc.AssertNotCalled(suite.T(), "VoidTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestClosingService(t *testing.T) {
	suite.Run(t, new(ClosingServiceTestSuite))
}
