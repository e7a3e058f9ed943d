package mapping

import (
	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/domain"
	"github.com/artivisi/aplikasi-akunting-sub005/internal/models"
)

// ToModelTransaction converts a domain Transaction header to its model form.
// Overrides, variables and entries live in their own tables and are persisted
// separately by the repository.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		TemplateID:        d.TemplateID,
		TransactionDate:   d.TransactionDate,
		Amount:            d.Amount,
		Description:       d.Description,
		ReferenceNumber:   d.ReferenceNumber,
		ProjectID:         d.ProjectID,
		TransactionNumber: d.TransactionNumber,
		Status:            string(d.Status),
		PostedAt:          d.PostedAt,
		PostedBy:          d.PostedBy,
		VoidReason:        d.VoidReason,
		VoidNotes:         d.VoidNotes,
		VoidedAt:          d.VoidedAt,
		VoidedBy:          d.VoidedBy,
		ClosingYear:       d.ClosingYear,
		ClosingSeq:        d.ClosingSeq,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction header to its domain form.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		TemplateID:        m.TemplateID,
		TransactionDate:   m.TransactionDate,
		Amount:            m.Amount,
		Description:       m.Description,
		ReferenceNumber:   m.ReferenceNumber,
		ProjectID:         m.ProjectID,
		TransactionNumber: m.TransactionNumber,
		Status:            domain.TransactionStatus(m.Status),
		PostedAt:          m.PostedAt,
		PostedBy:          m.PostedBy,
		VoidReason:        m.VoidReason,
		VoidNotes:         m.VoidNotes,
		VoidedAt:          m.VoidedAt,
		VoidedBy:          m.VoidedBy,
		ClosingYear:       m.ClosingYear,
		ClosingSeq:        m.ClosingSeq,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain JournalEntry to its model form.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		Debit:           d.Debit,
		Credit:          d.Credit,
		IsReversal:      d.IsReversal,
		ReversedEntryID: d.ReversedEntryID,
		ProjectID:       d.ProjectID,
		Memo:            d.Memo,
		LineOrder:       d.LineOrder,
		VoidedAt:        d.VoidedAt,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to its domain form.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		Debit:           m.Debit,
		Credit:          m.Credit,
		IsReversal:      m.IsReversal,
		ReversedEntryID: m.ReversedEntryID,
		ProjectID:       m.ProjectID,
		Memo:            m.Memo,
		LineOrder:       m.LineOrder,
		VoidedAt:        m.VoidedAt,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

// ToDomainJournalEntrySlice converts model entries to domain form.
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
