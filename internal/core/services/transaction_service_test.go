package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateDraftTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteDraftTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) PostTransaction(ctx context.Context, transactionID string, entries []domain.JournalEntry, postedBy string, postedAt time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, entries, postedBy, postedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) VoidTransaction(ctx context.Context, transactionID string, reversals []domain.JournalEntry, reason string, notes string, voidedBy string, voidedAt time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, reversals, reason, notes, voidedBy, voidedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveClosingTransactions(ctx context.Context, txns []domain.Transaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockTransactionRepository) HasClosingTransactions(ctx context.Context, year int) (bool, error) {
	args := m.Called(ctx, year)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) FindClosingTransactions(ctx context.Context, year int) ([]domain.Transaction, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock FiscalPeriodService (reader side, as used by the transaction service) ---
type MockFiscalPeriodService struct {
	mock.Mock
}

var _ portssvc.FiscalPeriodReaderSvc = (*MockFiscalPeriodService)(nil)

func (m *MockFiscalPeriodService) GetPeriod(ctx context.Context, year int, month int) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) ListPeriods(ctx context.Context, params dto.ListFiscalPeriodsParams) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) IsOpenForPosting(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockFiscalPeriodService) ValidateOpenForPosting(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTransactionRepo *MockTransactionRepository
	mockTemplateRepo    *MockTemplateRepository
	mockAccountRepo     *MockAccountRepository
	mockFiscalSvc       *MockFiscalPeriodService
	service             portssvc.TransactionSvcFacade
	cashAccount         domain.Account
	revenueAccount      domain.Account
	taxAccount          domain.Account
	template            *domain.JournalTemplate
	userID              string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFiscalSvc = new(MockFiscalPeriodService)
	suite.service = services.NewTransactionService(
		suite.mockTransactionRepo,
		suite.mockTemplateRepo,
		suite.mockAccountRepo,
		suite.mockFiscalSvc,
	)

	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "1.1.01",
		AccountName: "Kas",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "4.1",
		AccountName: "Pendapatan",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.taxAccount = domain.Account{
		AccountID:   uuid.NewString(),
		AccountCode: "2.3",
		AccountName: "Utang PPN",
		AccountType: domain.Liability,
		IsActive:    true,
	}

	templateID := uuid.NewString()
	suite.template = &domain.JournalTemplate{
		TemplateID:   templateID,
		TemplateName: "Penjualan Tunai",
		Category:     domain.CategoryIncome,
		IsActive:     true,
		Version:      1,
		Lines: []domain.JournalTemplateLine{
			{LineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount", LineOrder: 1},
			{LineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount", LineOrder: 2},
		},
	}
}

func (suite *TransactionServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (suite *TransactionServiceTestSuite) draftTransaction() *domain.Transaction {
	templateID := suite.template.TemplateID
	return &domain.Transaction{
		TransactionID:   uuid.NewString(),
		TemplateID:      &templateID,
		TransactionDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(500000),
		Description:     "Penjualan 15 Maret",
		Status:          domain.StatusDraft,
	}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TemplateID:      suite.template.TemplateID,
		TransactionDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(500000),
		Description:     "Penjualan 15 Maret",
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(suite.template, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockTemplateRepo.On("RecordTemplateUsage", ctx, suite.template.TemplateID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	created, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.StatusDraft, created.Status)
	suite.Nil(created.TransactionNumber)
	suite.Equal(suite.userID, created.CreatedBy)

	suite.mockTemplateRepo.AssertExpectations(suite.T())
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TemplateID: suite.template.TemplateID,
		Amount:     decimal.Zero,
	}

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountNotPositive)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "FindTemplateWithLines", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InactiveTemplate() {
	ctx := context.Background()
	inactive := *suite.template
	inactive.IsActive = false
	req := dto.CreateTransactionRequest{
		TemplateID: inactive.TemplateID,
		Amount:     decimal.NewFromInt(100),
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, inactive.TemplateID).Return(&inactive, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTemplateInactive)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnknownOverrideLine() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TemplateID:       suite.template.TemplateID,
		Amount:           decimal.NewFromInt(100),
		AccountOverrides: map[string]string{uuid.NewString(): suite.taxAccount.AccountID},
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(suite.template, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownOverride)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UsageFailureDoesNotFailCreate() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		TemplateID:      suite.template.TemplateID,
		TransactionDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(100),
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(suite.template, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockTemplateRepo.On("RecordTemplateUsage", ctx, suite.template.TemplateID, mock.Anything).Return(assert.AnError).Once()

	created, err := suite.service.CreateTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(created)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_NotDraft() {
	ctx := context.Background()
	posted := suite.draftTransaction()
	posted.Status = domain.StatusPosted
	newDescription := "changed"

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, posted.TransactionID).Return(posted, nil).Once()

	_, err := suite.service.UpdateTransaction(ctx, posted.TransactionID, dto.UpdateTransactionRequest{Description: &newDescription}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "UpdateDraftTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	draft := suite.draftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockFiscalSvc.On("ValidateOpenForPosting", ctx, draft.TransactionDate).Return(nil).Once()
	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(suite.template, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	number := "TRX-2025-0001"
	posted := *draft
	posted.Status = domain.StatusPosted
	posted.TransactionNumber = &number
	suite.mockTransactionRepo.On("PostTransaction", ctx, draft.TransactionID,
		mock.MatchedBy(func(entries []domain.JournalEntry) bool {
			if len(entries) != 2 {
				return false
			}
			totalDebit := entries[0].Debit.Add(entries[1].Debit)
			totalCredit := entries[0].Credit.Add(entries[1].Credit)
			return totalDebit.Equal(totalCredit) && totalDebit.Equal(draft.Amount)
		}),
		suite.userID, mock.AnythingOfType("time.Time")).Return(&posted, nil).Once()

	result, err := suite.service.PostTransaction(ctx, draft.TransactionID, dto.PostTransactionRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, result.Status)
	suite.Require().NotNil(result.TransactionNumber)
	suite.Equal(number, *result.TransactionNumber)

	suite.mockTransactionRepo.AssertExpectations(suite.T())
	suite.mockFiscalSvc.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_NotDraft() {
	ctx := context.Background()
	voided := suite.draftTransaction()
	voided.Status = domain.StatusVoid

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, voided.TransactionID).Return(voided, nil).Once()

	_, err := suite.service.PostTransaction(ctx, voided.TransactionID, dto.PostTransactionRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
	suite.mockFiscalSvc.AssertNotCalled(suite.T(), "ValidateOpenForPosting", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_PeriodClosed() {
	ctx := context.Background()
	draft := suite.draftTransaction()
	periodErr := apperrors.ErrPeriodClosed

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockFiscalSvc.On("ValidateOpenForPosting", ctx, draft.TransactionDate).Return(periodErr).Once()

	_, err := suite.service.PostTransaction(ctx, draft.TransactionID, dto.PostTransactionRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_Unbalanced() {
	ctx := context.Background()
	draft := suite.draftTransaction()
	unbalanced := *suite.template
	unbalanced.Lines = []domain.JournalTemplateLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount", LineOrder: 1},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount * 0.5", LineOrder: 2},
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockFiscalSvc.On("ValidateOpenForPosting", ctx, draft.TransactionDate).Return(nil).Once()
	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(&unbalanced, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	_, err := suite.service.PostTransaction(ctx, draft.TransactionID, dto.PostTransactionRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_ExtrasOverrideStoredVariables() {
	ctx := context.Background()
	draft := suite.draftTransaction()
	draft.Variables = map[string]decimal.Decimal{"fee": decimal.NewFromInt(10)}

	withFee := *suite.template
	withFee.Lines = []domain.JournalTemplateLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "fee", LineOrder: 1},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "fee", LineOrder: 2},
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockFiscalSvc.On("ValidateOpenForPosting", ctx, draft.TransactionDate).Return(nil).Once()
	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(&withFee, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	posted := *draft
	posted.Status = domain.StatusPosted
	suite.mockTransactionRepo.On("PostTransaction", ctx, draft.TransactionID,
		mock.MatchedBy(func(entries []domain.JournalEntry) bool {
			// The posting-time fee wins over the stored one.
			return len(entries) == 2 && entries[0].Debit.Equal(decimal.NewFromInt(25))
		}),
		suite.userID, mock.Anything).Return(&posted, nil).Once()

	req := dto.PostTransactionRequest{Variables: map[string]decimal.Decimal{"fee": decimal.NewFromInt(25)}}
	_, err := suite.service.PostTransaction(ctx, draft.TransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_RepositoryOmitsNumber() {
	ctx := context.Background()
	draft := suite.draftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockFiscalSvc.On("ValidateOpenForPosting", ctx, draft.TransactionDate).Return(nil).Once()
	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(suite.template, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	// A posted result without a document number must not blow up the service.
	posted := *draft
	posted.Status = domain.StatusPosted
	posted.TransactionNumber = nil
	suite.mockTransactionRepo.On("PostTransaction", ctx, draft.TransactionID,
		mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).Return(&posted, nil).Once()

	result, err := suite.service.PostTransaction(ctx, draft.TransactionID, dto.PostTransactionRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, result.Status)
	suite.Nil(result.TransactionNumber)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_NegativeLineAmount() {
	ctx := context.Background()
	draft := suite.draftTransaction()

	// Both lines evaluate to -500000: balanced, but below the entry floor.
	negative := *suite.template
	negative.Lines = []domain.JournalTemplateLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount - 2 * amount", LineOrder: 1},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount - 2 * amount", LineOrder: 2},
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockFiscalSvc.On("ValidateOpenForPosting", ctx, draft.TransactionDate).Return(nil).Once()
	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(&negative, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	_, err := suite.service.PostTransaction(ctx, draft.TransactionID, dto.PostTransactionRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "PostTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestVoidTransaction_Success() {
	ctx := context.Background()
	posted := suite.draftTransaction()
	posted.Status = domain.StatusPosted
	entries := []domain.JournalEntry{
		{EntryID: uuid.NewString(), TransactionID: posted.TransactionID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500000), Credit: decimal.Zero, LineOrder: 1},
		{EntryID: uuid.NewString(), TransactionID: posted.TransactionID, AccountID: suite.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(500000), LineOrder: 2},
	}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, posted.TransactionID).Return(posted, nil).Once()
	suite.mockTransactionRepo.On("FindEntriesByTransactionID", ctx, posted.TransactionID).Return(entries, nil).Once()

	voided := *posted
	voided.Status = domain.StatusVoid
	suite.mockTransactionRepo.On("VoidTransaction", ctx, posted.TransactionID,
		mock.MatchedBy(func(reversals []domain.JournalEntry) bool {
			if len(reversals) != 2 {
				return false
			}
			first := reversals[0]
			return first.IsReversal &&
				first.ReversedEntryID != nil && *first.ReversedEntryID == entries[0].EntryID &&
				first.Debit.Equal(entries[0].Credit) && first.Credit.Equal(entries[0].Debit) &&
				first.LineOrder == 3 && reversals[1].LineOrder == 4
		}),
		"input error", "", suite.userID, mock.AnythingOfType("time.Time")).Return(&voided, nil).Once()

	result, err := suite.service.VoidTransaction(ctx, posted.TransactionID, dto.VoidTransactionRequest{Reason: "input error"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusVoid, result.Status)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestVoidTransaction_NotPosted() {
	ctx := context.Background()
	draft := suite.draftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()

	_, err := suite.service.VoidTransaction(ctx, draft.TransactionID, dto.VoidTransactionRequest{Reason: "nope"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotPosted)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "VoidTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPreviewTransaction_Balanced() {
	ctx := context.Background()
	draft := suite.draftTransaction()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, draft.TransactionID).Return(draft, nil).Once()
	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, suite.template.TemplateID).Return(suite.template, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	preview, err := suite.service.PreviewTransaction(ctx, draft.TransactionID)

	suite.Require().NoError(err)
	suite.True(preview.Balanced)
	suite.True(preview.TotalDebit.Equal(draft.Amount))
	suite.True(preview.TotalCredit.Equal(draft.Amount))
	suite.Require().Len(preview.Entries, 2)
	suite.Equal(suite.cashAccount.AccountCode, preview.Entries[0].AccountCode)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotDraft() {
	ctx := context.Background()
	posted := suite.draftTransaction()
	posted.Status = domain.StatusPosted

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, posted.TransactionID).Return(posted, nil).Once()

	err := suite.service.DeleteTransaction(ctx, posted.TransactionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "DeleteDraftTransaction", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
