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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FiscalPeriodRepository ---
type MockFiscalPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*MockFiscalPeriodRepository)(nil)

func (m *MockFiscalPeriodRepository) FindFiscalPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) FindFiscalPeriodByYearMonth(ctx context.Context, year int, month int) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) ListFiscalPeriods(ctx context.Context, year *int, status *domain.FiscalPeriodStatus) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, year, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodRepository) SaveFiscalPeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalPeriodRepository) UpdateFiscalPeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

// --- Test Suite Setup ---
type FiscalPeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockFiscalPeriodRepository
	service        portssvc.FiscalPeriodSvcFacade
	userID         string
}

func (suite *FiscalPeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockFiscalPeriodRepository)
	suite.service = services.NewFiscalPeriodService(suite.mockPeriodRepo)
	suite.userID = uuid.NewString()
}

func (suite *FiscalPeriodServiceTestSuite) closedPeriod(year, month int) *domain.FiscalPeriod {
	now := time.Now().UTC()
	actor := suite.userID
	return &domain.FiscalPeriod{
		PeriodID:      uuid.NewString(),
		Year:          year,
		Month:         month,
		Status:        domain.PeriodMonthClosed,
		MonthClosedAt: &now,
		MonthClosedBy: &actor,
	}
}

// --- Test Cases ---

func (suite *FiscalPeriodServiceTestSuite) TestGetPeriod_MissingRecordIsOpen() {
	ctx := context.Background()
	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(nil, apperrors.ErrNotFound).Once()

	period, err := suite.service.GetPeriod(ctx, 2025, 4)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.Empty(period.PeriodID)
	suite.True(period.IsOpen())
}

func (suite *FiscalPeriodServiceTestSuite) TestCreatePeriod_Duplicate() {
	ctx := context.Background()
	existing := &domain.FiscalPeriod{PeriodID: uuid.NewString(), Year: 2025, Month: 4, Status: domain.PeriodOpen}
	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(existing, nil).Once()

	_, err := suite.service.CreatePeriod(ctx, dto.CreateFiscalPeriodRequest{Year: 2025, Month: 4}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveFiscalPeriod", mock.Anything, mock.Anything)
}

func (suite *FiscalPeriodServiceTestSuite) TestCloseMonth_CreatesMissingRecord() {
	ctx := context.Background()
	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockPeriodRepo.On("SaveFiscalPeriod", ctx, mock.AnythingOfType("domain.FiscalPeriod")).Return(nil).Once()
	suite.mockPeriodRepo.On("UpdateFiscalPeriod", ctx, mock.MatchedBy(func(p domain.FiscalPeriod) bool {
		return p.Status == domain.PeriodMonthClosed && p.MonthClosedAt != nil && p.MonthClosedBy != nil
	})).Return(nil).Once()

	period, err := suite.service.CloseMonth(ctx, 2025, 4, "april close", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodMonthClosed, period.Status)
	suite.Require().NotNil(period.MonthClosedNotes)
	suite.Equal("april close", *period.MonthClosedNotes)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *FiscalPeriodServiceTestSuite) TestCloseMonth_AlreadyClosed() {
	ctx := context.Background()
	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(suite.closedPeriod(2025, 4), nil).Once()

	_, err := suite.service.CloseMonth(ctx, 2025, 4, "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdateFiscalPeriod", mock.Anything, mock.Anything)
}

func (suite *FiscalPeriodServiceTestSuite) TestFileTax_Success() {
	ctx := context.Background()
	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(suite.closedPeriod(2025, 4), nil).Once()
	suite.mockPeriodRepo.On("UpdateFiscalPeriod", ctx, mock.MatchedBy(func(p domain.FiscalPeriod) bool {
		return p.Status == domain.PeriodTaxFiled && p.TaxFiledAt != nil
	})).Return(nil).Once()

	period, err := suite.service.FileTax(ctx, 2025, 4, "spt filed", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodTaxFiled, period.Status)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *FiscalPeriodServiceTestSuite) TestFileTax_FromOpenRejected() {
	ctx := context.Background()
	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.FileTax(ctx, 2025, 4, "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *FiscalPeriodServiceTestSuite) TestReopenMonth_ClearsCloseStamps() {
	ctx := context.Background()
	closed := suite.closedPeriod(2025, 4)
	notes := "closed by mistake"
	closed.MonthClosedNotes = &notes

	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(closed, nil).Once()
	suite.mockPeriodRepo.On("UpdateFiscalPeriod", ctx, mock.MatchedBy(func(p domain.FiscalPeriod) bool {
		return p.Status == domain.PeriodOpen && p.MonthClosedAt == nil && p.MonthClosedBy == nil && p.MonthClosedNotes == nil
	})).Return(nil).Once()

	period, err := suite.service.ReopenMonth(ctx, 2025, 4, "fix entries", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *FiscalPeriodServiceTestSuite) TestReopenMonth_TaxFiledRejected() {
	ctx := context.Background()
	filed := suite.closedPeriod(2025, 4)
	filed.Status = domain.PeriodTaxFiled

	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(filed, nil).Once()

	_, err := suite.service.ReopenMonth(ctx, 2025, 4, "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdateFiscalPeriod", mock.Anything, mock.Anything)
}

func (suite *FiscalPeriodServiceTestSuite) TestIsOpenForPosting() {
	ctx := context.Background()
	date := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(nil, apperrors.ErrNotFound).Once()
	open, err := suite.service.IsOpenForPosting(ctx, date)
	suite.Require().NoError(err)
	suite.True(open)

	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(suite.closedPeriod(2025, 4), nil).Once()
	open, err = suite.service.IsOpenForPosting(ctx, date)
	suite.Require().NoError(err)
	suite.False(open)
}

func (suite *FiscalPeriodServiceTestSuite) TestValidateOpenForPosting_Closed() {
	ctx := context.Background()
	date := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindFiscalPeriodByYearMonth", ctx, 2025, 4).Return(suite.closedPeriod(2025, 4), nil).Once()

	err := suite.service.ValidateOpenForPosting(ctx, date)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.Contains(err.Error(), "2025-04")
}

func (suite *FiscalPeriodServiceTestSuite) TestListPeriods_PassesFilters() {
	ctx := context.Background()
	year := 2025
	status := domain.PeriodMonthClosed
	expected := []domain.FiscalPeriod{*suite.closedPeriod(2025, 3), *suite.closedPeriod(2025, 4)}

	suite.mockPeriodRepo.On("ListFiscalPeriods", ctx, &year, &status).Return(expected, nil).Once()

	periods, err := suite.service.ListPeriods(ctx, dto.ListFiscalPeriodsParams{Year: &year, Status: &status})

	suite.Require().NoError(err)
	suite.Len(periods, 2)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestFiscalPeriodService(t *testing.T) {
	suite.Run(t, new(FiscalPeriodServiceTestSuite))
}
