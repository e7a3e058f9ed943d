package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/apperrors"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/formula"
	portsrepo "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/repositories"
	portssvc "github.com/artivisi/aplikasi-akunting-sub005/internal/core/ports/services"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/dto"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/middleware"
)

var (
	ErrAmountNotPositive = errors.New("transaction amount must be positive")
	ErrTemplateInactive  = errors.New("template is inactive")
	ErrUnknownOverride   = errors.New("account override references a line not in the template")
	ErrNotDraft          = errors.New("transaction is not in DRAFT status")
	ErrNotPosted         = errors.New("transaction is not in POSTED status")
)

// transactionService drives the draft -> posted -> void lifecycle.
type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	templateRepo    portsrepo.TemplateRepositoryFacade
	accountRepo     portsrepo.AccountReader
	fiscalPeriodSvc portssvc.FiscalPeriodReaderSvc
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	templateRepo portsrepo.TemplateRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	fiscalPeriodSvc portssvc.FiscalPeriodReaderSvc,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		templateRepo:    templateRepo,
		accountRepo:     accountRepo,
		fiscalPeriodSvc: fiscalPeriodSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateOverrides checks that every override key targets a line of the
// template and every override account exists and is active.
func (s *transactionService) validateOverrides(ctx context.Context, template *domain.JournalTemplate, overrides map[string]string) error {
	if len(overrides) == 0 {
		return nil
	}

	lineIDs := make(map[string]struct{}, len(template.Lines))
	for _, line := range template.Lines {
		lineIDs[line.LineID] = struct{}{}
	}

	accountIDs := make([]string, 0, len(overrides))
	for lineID, accountID := range overrides {
		if _, ok := lineIDs[lineID]; !ok {
			return fmt.Errorf("%w: line %s", ErrUnknownOverride, lineID)
		}
		accountIDs = append(accountIDs, accountID)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return fmt.Errorf("failed to fetch override accounts: %w", err)
	}
	for _, accountID := range accountIDs {
		acc, found := accountsMap[accountID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: override account %s is inactive", apperrors.ErrValidation, acc.AccountCode)
		}
	}
	return nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrAmountNotPositive, req.Amount.String())
	}

	template, err := s.templateRepo.FindTemplateWithLines(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", req.TemplateID, err)
	}
	if !template.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrTemplateInactive, template.TemplateID)
	}

	if err := s.validateOverrides(ctx, template, req.AccountOverrides); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	templateID := template.TemplateID
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		TemplateID:       &templateID,
		TransactionDate:  req.TransactionDate,
		Amount:           req.Amount,
		Description:      req.Description,
		ReferenceNumber:  req.ReferenceNumber,
		ProjectID:        req.ProjectID,
		Status:           domain.StatusDraft,
		AccountOverrides: req.AccountOverrides,
		Variables:        req.Variables,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save draft transaction", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if err := s.templateRepo.RecordTemplateUsage(ctx, templateID, now); err != nil {
		// Usage stats are advisory; the draft itself already saved.
		logger.Warn("Failed to record template usage", slog.String("error", err.Error()), slog.String("template_id", templateID))
	}

	logger.Info("Draft transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("template_id", templateID))
	return &txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entries, err := s.transactionRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch entries for transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to retrieve entries for transaction %s: %w", transactionID, apperrors.ErrInternal)
	}
	txn.Entries = entries

	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.TransactionFilter{
		Status:   params.Status,
		Category: params.Category,
		From:     params.From,
		To:       params.To,
		Search:   params.Search,
	}

	txns, nextToken, err := s.transactionRepo.ListTransactions(ctx, filter, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    nextToken,
	}

	logger.Debug("Transactions listed", slog.Int("count", len(txns)))
	return resp, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, updaterID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if !txn.IsDraft() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotDraft, transactionID, txn.Status)
	}

	updated := false
	if req.TransactionDate != nil {
		txn.TransactionDate = *req.TransactionDate
		updated = true
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: got %s", ErrAmountNotPositive, req.Amount.String())
		}
		txn.Amount = *req.Amount
		updated = true
	}
	if req.Description != nil {
		txn.Description = *req.Description
		updated = true
	}
	if req.ReferenceNumber != nil {
		txn.ReferenceNumber = *req.ReferenceNumber
		updated = true
	}
	if req.ProjectID != nil {
		txn.ProjectID = req.ProjectID
		updated = true
	}
	if req.AccountOverrides != nil {
		template, err := s.templateRepo.FindTemplateWithLines(ctx, *txn.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to find template %s: %w", *txn.TemplateID, err)
		}
		if err := s.validateOverrides(ctx, template, *req.AccountOverrides); err != nil {
			return nil, err
		}
		txn.AccountOverrides = *req.AccountOverrides
		updated = true
	}
	if req.Variables != nil {
		txn.Variables = *req.Variables
		updated = true
	}

	if !updated {
		return txn, nil
	}

	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = updaterID

	if err := s.transactionRepo.UpdateDraftTransaction(ctx, *txn); err != nil {
		logger.Error("Failed to update draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	logger.Info("Draft transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	// Posted transactions must be voided, never deleted.
	if !txn.IsDraft() {
		return fmt.Errorf("%w: %s is %s", ErrNotDraft, transactionID, txn.Status)
	}

	if err := s.transactionRepo.DeleteDraftTransaction(ctx, transactionID); err != nil {
		logger.Error("Failed to delete draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	logger.Info("Draft transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// computedLine is one evaluated template line before it becomes a JournalEntry.
type computedLine struct {
	line    domain.JournalTemplateLine
	account domain.Account
	amount  decimal.Decimal
}

// evaluateTemplateLines resolves overrides and evaluates every line formula
// against the transaction's context, in line order. Drafts always re-resolve
// against the current template version.
func (s *transactionService) evaluateTemplateLines(ctx context.Context, txn *domain.Transaction, template *domain.JournalTemplate, variables map[string]decimal.Decimal) ([]computedLine, error) {
	evalCtx := formula.NewContextWithVariables(txn.Amount, variables)

	accountIDs := make([]string, 0, len(template.Lines))
	for _, line := range template.Lines {
		accountID := line.AccountID
		if override, ok := txn.AccountOverrides[line.LineID]; ok {
			accountID = override
		}
		accountIDs = append(accountIDs, accountID)
	}
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch line accounts: %w", err)
	}

	computed := make([]computedLine, 0, len(template.Lines))
	for i, line := range template.Lines {
		accountID := accountIDs[i]
		account, found := accountsMap[accountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}

		amount, err := formula.Evaluate(line.Formula, evalCtx)
		if err != nil {
			return nil, err
		}

		computed = append(computed, computedLine{line: line, account: account, amount: amount})
	}
	return computed, nil
}

// buildEntries turns computed lines into journal entries and verifies the
// balance invariant: sum of debits equals sum of credits at 2 decimals.
// Line amounts must not be negative; the journal_entries table enforces the
// same bound.
func buildEntries(txn *domain.Transaction, computed []computedLine, now time.Time, actor string) ([]domain.JournalEntry, decimal.Decimal, decimal.Decimal, error) {
	entries := make([]domain.JournalEntry, 0, len(computed))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, cl := range computed {
		if cl.amount.IsNegative() {
			return nil, totalDebit, totalCredit, fmt.Errorf("%w: formula %q produced negative amount %s for account %s",
				apperrors.ErrValidation, cl.line.Formula, cl.amount.String(), cl.account.AccountCode)
		}
		entry := domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: txn.TransactionID,
			AccountID:     cl.account.AccountID,
			ProjectID:     txn.ProjectID,
			Memo:          cl.line.Memo,
			LineOrder:     i + 1,
			CreatedAt:     now,
			CreatedBy:     actor,
		}
		if cl.line.Side == domain.Debit {
			entry.Debit = cl.amount
			entry.Credit = decimal.Zero
			totalDebit = totalDebit.Add(cl.amount)
		} else {
			entry.Debit = decimal.Zero
			entry.Credit = cl.amount
			totalCredit = totalCredit.Add(cl.amount)
		}
		entries = append(entries, entry)
	}

	if !totalDebit.Round(2).Equal(totalCredit.Round(2)) {
		return nil, totalDebit, totalCredit, fmt.Errorf("%w: debits %s, credits %s",
			apperrors.ErrUnbalanced, totalDebit.String(), totalCredit.String())
	}
	return entries, totalDebit, totalCredit, nil
}

func (s *transactionService) PreviewTransaction(ctx context.Context, transactionID string) (*dto.PreviewTransactionResponse, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.TemplateID == nil {
		return nil, fmt.Errorf("%w: transaction %s has no template", apperrors.ErrValidation, transactionID)
	}

	template, err := s.templateRepo.FindTemplateWithLines(ctx, *txn.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", *txn.TemplateID, err)
	}

	computed, err := s.evaluateTemplateLines(ctx, txn, template, txn.Variables)
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewTransactionResponse{
		TransactionID: transactionID,
		Entries:       make([]dto.PreviewEntryResponse, len(computed)),
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, cl := range computed {
		entry := dto.PreviewEntryResponse{
			AccountID:   cl.account.AccountID,
			AccountCode: cl.account.AccountCode,
			AccountName: cl.account.AccountName,
			Formula:     cl.line.Formula,
			Memo:        cl.line.Memo,
		}
		if cl.line.Side == domain.Debit {
			entry.Debit = cl.amount
			totalDebit = totalDebit.Add(cl.amount)
		} else {
			entry.Credit = cl.amount
			totalCredit = totalCredit.Add(cl.amount)
		}
		resp.Entries[i] = entry
	}
	resp.TotalDebit = totalDebit
	resp.TotalCredit = totalCredit
	resp.Balanced = totalDebit.Round(2).Equal(totalCredit.Round(2))
	return resp, nil
}

// mergeVariables overlays posting-time extras onto the draft's stored
// variables. Extras win on name collisions.
func mergeVariables(stored, extras map[string]decimal.Decimal) map[string]decimal.Decimal {
	if len(extras) == 0 {
		return stored
	}
	merged := make(map[string]decimal.Decimal, len(stored)+len(extras))
	for name, value := range stored {
		merged[name] = value
	}
	for name, value := range extras {
		merged[name] = value
	}
	return merged
}

func (s *transactionService) PostTransaction(ctx context.Context, transactionID string, req dto.PostTransactionRequest, postedBy string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if !txn.IsDraft() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotDraft, transactionID, txn.Status)
	}
	if txn.TemplateID == nil {
		return nil, fmt.Errorf("%w: transaction %s has no template", apperrors.ErrValidation, transactionID)
	}

	if err := s.fiscalPeriodSvc.ValidateOpenForPosting(ctx, txn.TransactionDate); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindTemplateWithLines(ctx, *txn.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", *txn.TemplateID, err)
	}

	computed, err := s.evaluateTemplateLines(ctx, txn, template, mergeVariables(txn.Variables, req.Variables))
	if err != nil {
		logger.Warn("Formula evaluation failed during posting", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	now := time.Now().UTC()
	entries, totalDebit, totalCredit, err := buildEntries(txn, computed, now, postedBy)
	if err != nil {
		logger.Warn("Balance check failed during posting",
			slog.String("transaction_id", transactionID),
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()))
		return nil, err
	}

	// The repository re-verifies DRAFT under a row lock, assigns the document
	// number and persists the entries in one unit of work; a concurrent post
	// loses with ErrInvalidState.
	posted, err := s.transactionRepo.PostTransaction(ctx, transactionID, entries, postedBy, now)
	if err != nil {
		logger.Error("Failed to post transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to post transaction: %w", err)
	}

	docNumber := ""
	if posted.TransactionNumber != nil {
		docNumber = *posted.TransactionNumber
	}
	logger.Info("Transaction posted",
		slog.String("transaction_id", transactionID),
		slog.String("transaction_number", docNumber),
		slog.String("total", totalDebit.String()))
	return posted, nil
}

func (s *transactionService) VoidTransaction(ctx context.Context, transactionID string, req dto.VoidTransactionRequest, voidedBy string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if !txn.IsPosted() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPosted, transactionID, txn.Status)
	}

	entries, err := s.transactionRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for transaction %s: %w", transactionID, err)
	}

	// Entries of a posted transaction are immutable, so the reversal set can
	// be computed outside the unit of work that appends it.
	now := time.Now().UTC()
	reversals := make([]domain.JournalEntry, len(entries))
	for i, entry := range entries {
		reversals[i] = entry.Reversed(uuid.NewString(), len(entries)+i+1, now, voidedBy)
	}

	voided, err := s.transactionRepo.VoidTransaction(ctx, transactionID, reversals, req.Reason, req.Notes, voidedBy, now)
	if err != nil {
		logger.Error("Failed to void transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to void transaction: %w", err)
	}

	logger.Info("Transaction voided", slog.String("transaction_id", transactionID), slog.String("reason", req.Reason))
	return voided, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
