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

// --- Mock TemplateRepository ---
type MockTemplateRepository struct {
	mock.Mock
}

var _ portsrepo.TemplateRepositoryFacade = (*MockTemplateRepository)(nil)

func (m *MockTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.JournalTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindTemplateWithLines(ctx context.Context, templateID string) (*domain.JournalTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListTemplates(ctx context.Context, category *domain.TemplateCategory, activeOnly bool, limit int, offset int) ([]domain.JournalTemplate, error) {
	args := m.Called(ctx, category, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalTemplate), args.Error(1)
}

func (m *MockTemplateRepository) SaveTemplate(ctx context.Context, template domain.JournalTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) UpdateTemplate(ctx context.Context, template domain.JournalTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

func (m *MockTemplateRepository) RecordTemplateUsage(ctx context.Context, templateID string, usedAt time.Time) error {
	args := m.Called(ctx, templateID, usedAt)
	return args.Error(0)
}

// --- Mock AccountRepository (reader side only) ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, accountType *domain.AccountType, activeOnly bool, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, accountType, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---
type TemplateServiceTestSuite struct {
	suite.Suite
	mockTemplateRepo *MockTemplateRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.TemplateSvcFacade
	cashAccount      domain.Account
	revenueAccount   domain.Account
	userID           string
}

func (suite *TemplateServiceTestSuite) SetupTest() {
	suite.mockTemplateRepo = new(MockTemplateRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTemplateService(suite.mockTemplateRepo, suite.mockAccountRepo)

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
}

func (suite *TemplateServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

// --- Test Cases ---

func (suite *TemplateServiceTestSuite) TestCreateTemplate_Success() {
	ctx := context.Background()
	req := dto.CreateTemplateRequest{
		TemplateName: "Penjualan Tunai",
		Category:     domain.CategoryIncome,
		Lines: []dto.CreateTemplateLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount"},
			{AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: ""},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockTemplateRepo.On("SaveTemplate", ctx, mock.AnythingOfType("domain.JournalTemplate")).Return(nil).Once()

	created, err := suite.service.CreateTemplate(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.TemplateID)
	suite.Equal(1, created.Version)
	suite.False(created.IsSystem)
	suite.True(created.IsActive)
	suite.Len(created.Lines, 2)
	suite.Equal(1, created.Lines[0].LineOrder)
	suite.Equal(2, created.Lines[1].LineOrder)
	suite.Equal(suite.userID, created.CreatedBy)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestCreateTemplate_TooFewLines() {
	ctx := context.Background()
	req := dto.CreateTemplateRequest{
		TemplateName: "Satu Baris",
		Category:     domain.CategoryIncome,
		Lines: []dto.CreateTemplateLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit},
		},
	}

	_, err := suite.service.CreateTemplate(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTemplateMinLines)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestCreateTemplate_OneSided() {
	ctx := context.Background()
	req := dto.CreateTemplateRequest{
		TemplateName: "Hanya Debit",
		Category:     domain.CategoryExpense,
		Lines: []dto.CreateTemplateLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit},
			{AccountID: suite.revenueAccount.AccountID, Side: domain.Debit},
		},
	}

	_, err := suite.service.CreateTemplate(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTemplateOneSided)
}

func (suite *TemplateServiceTestSuite) TestCreateTemplate_BadFormula() {
	ctx := context.Background()
	req := dto.CreateTemplateRequest{
		TemplateName: "Rumus Rusak",
		Category:     domain.CategoryIncome,
		Lines: []dto.CreateTemplateLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount * "},
			{AccountID: suite.revenueAccount.AccountID, Side: domain.Credit},
		},
	}

	_, err := suite.service.CreateTemplate(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestCreateTemplate_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.revenueAccount
	inactive.IsActive = false
	req := dto.CreateTemplateRequest{
		TemplateName: "Akun Nonaktif",
		Category:     domain.CategoryIncome,
		Lines: []dto.CreateTemplateLineRequest{
			{AccountID: suite.cashAccount.AccountID, Side: domain.Debit},
			{AccountID: inactive.AccountID, Side: domain.Credit},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, inactive), nil).Once()

	_, err := suite.service.CreateTemplate(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTemplateInactiveAcc)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestUpdateTemplate_SystemTemplateRejected() {
	ctx := context.Background()
	templateID := uuid.NewString()
	systemTemplate := &domain.JournalTemplate{
		TemplateID:   templateID,
		TemplateName: "Tutup Buku",
		Category:     domain.CategorySystem,
		IsSystem:     true,
		Version:      1,
	}
	newName := "Renamed"

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, templateID).Return(systemTemplate, nil).Once()

	_, err := suite.service.UpdateTemplate(ctx, templateID, dto.UpdateTemplateRequest{TemplateName: &newName}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSystemTemplate)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "UpdateTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestUpdateTemplate_ReplacingLinesBumpsVersion() {
	ctx := context.Background()
	templateID := uuid.NewString()
	existing := &domain.JournalTemplate{
		TemplateID:   templateID,
		TemplateName: "Penjualan",
		Category:     domain.CategoryIncome,
		IsActive:     true,
		Version:      3,
		Lines: []domain.JournalTemplateLine{
			{LineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.cashAccount.AccountID, Side: domain.Debit, LineOrder: 1},
			{LineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, LineOrder: 2},
		},
	}
	newLines := []dto.CreateTemplateLineRequest{
		{AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount * 0.9"},
		{AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount * 0.9"},
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, templateID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockTemplateRepo.On("UpdateTemplate", ctx, mock.MatchedBy(func(t domain.JournalTemplate) bool {
		return t.Version == 4 && len(t.Lines) == 2
	})).Return(nil).Once()

	updated, err := suite.service.UpdateTemplate(ctx, templateID, dto.UpdateTemplateRequest{Lines: &newLines}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(4, updated.Version)
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestDeleteTemplate_InUse() {
	ctx := context.Background()
	templateID := uuid.NewString()
	used := &domain.JournalTemplate{
		TemplateID: templateID,
		UsageCount: 7,
	}

	suite.mockTemplateRepo.On("FindTemplateByID", ctx, templateID).Return(used, nil).Once()

	err := suite.service.DeleteTemplate(ctx, templateID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTemplateInUse)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "DeleteTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestDuplicateTemplate_Success() {
	ctx := context.Background()
	templateID := uuid.NewString()
	source := &domain.JournalTemplate{
		TemplateID:   templateID,
		TemplateName: "Tutup Buku",
		Category:     domain.CategorySystem,
		IsSystem:     true,
		IsActive:     true,
		Version:      5,
		UsageCount:   12,
		Lines: []domain.JournalTemplateLine{
			{LineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount", LineOrder: 1},
			{LineID: uuid.NewString(), TemplateID: templateID, AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount", LineOrder: 2},
		},
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, templateID).Return(source, nil).Once()
	suite.mockTemplateRepo.On("SaveTemplate", ctx, mock.AnythingOfType("domain.JournalTemplate")).Return(nil).Once()

	dup, err := suite.service.DuplicateTemplate(ctx, templateID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(dup)
	suite.Equal("Tutup Buku (Copy)", dup.TemplateName)
	suite.NotEqual(templateID, dup.TemplateID)
	suite.False(dup.IsSystem)
	suite.Equal(1, dup.Version)
	suite.Zero(dup.UsageCount)
	suite.Require().Len(dup.Lines, 2)
	suite.NotEqual(source.Lines[0].LineID, dup.Lines[0].LineID)
	suite.Equal(source.Lines[0].Formula, dup.Lines[0].Formula)
	suite.Equal(dup.TemplateID, dup.Lines[0].TemplateID)

	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestPreviewTemplate() {
	ctx := context.Background()
	templateID := uuid.NewString()
	template := &domain.JournalTemplate{
		TemplateID: templateID,
		IsActive:   true,
		Lines: []domain.JournalTemplateLine{
			{LineID: uuid.NewString(), AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Formula: "amount", LineOrder: 1},
			{LineID: uuid.NewString(), AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount * 0.5", LineOrder: 2},
			{LineID: uuid.NewString(), AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Formula: "amount - fee", LineOrder: 3},
		},
	}

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, templateID).Return(template, nil).Once()

	preview, err := suite.service.PreviewTemplate(ctx, templateID, decimal.NewFromInt(1000))

	suite.Require().NoError(err)
	suite.Require().Len(preview.Lines, 3)
	suite.Require().NotNil(preview.Lines[0].Amount)
	suite.True(preview.Lines[0].Amount.Equal(decimal.NewFromInt(1000)))
	suite.Require().NotNil(preview.Lines[1].Amount)
	suite.True(preview.Lines[1].Amount.Equal(decimal.NewFromInt(500)))
	// "fee" is unknown against a bare sample amount, so no preview value.
	suite.Nil(preview.Lines[2].Amount)
}

func (suite *TemplateServiceTestSuite) TestPreviewTemplate_NotFound() {
	ctx := context.Background()
	templateID := uuid.NewString()

	suite.mockTemplateRepo.On("FindTemplateWithLines", ctx, templateID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PreviewTemplate(ctx, templateID, decimal.NewFromInt(1000))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TemplateServiceTestSuite) TestValidateFormula() {
	ctx := context.Background()
	sample := decimal.NewFromInt(200)

	valid := suite.service.ValidateFormula(ctx, dto.ValidateFormulaRequest{Formula: "amount * 0.11", SampleAmount: &sample})
	suite.True(valid.Valid)
	suite.Empty(valid.Errors)
	suite.Require().NotNil(valid.Preview)
	suite.True(valid.Preview.Equal(decimal.NewFromInt(22)))

	invalid := suite.service.ValidateFormula(ctx, dto.ValidateFormulaRequest{Formula: "amount +"})
	suite.False(invalid.Valid)
	suite.NotEmpty(invalid.Errors)
	suite.Nil(invalid.Preview)
}

func (suite *TemplateServiceTestSuite) TestListTemplates_RepoError() {
	ctx := context.Background()
	suite.mockTemplateRepo.On("ListTemplates", ctx, (*domain.TemplateCategory)(nil), false, 50, 0).
		Return(nil, assert.AnError).Once()

	_, err := suite.service.ListTemplates(ctx, dto.ListTemplatesParams{})

	suite.Require().Error(err)
	suite.Contains(err.Error(), assert.AnError.Error())
}

// --- Run Test Suite ---
func TestTemplateService(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}
