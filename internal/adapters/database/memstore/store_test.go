package memstore_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks_backend/internal/adapters/database/memstore"
	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
)

type MemstoreTestSuite struct {
	suite.Suite
	ctx          context.Context
	path         string
	store        *memstore.Store
	checkpointer *memstore.Checkpointer
	repos        portsrepo.RepositoryProvider
}

func (s *MemstoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "books.json")

	store, err := memstore.Open(s.path)
	s.Require().NoError(err)
	s.store = store

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.checkpointer = memstore.NewCheckpointer(store, logger)
	s.repos = memstore.NewRepositoryProvider(store, s.checkpointer)
}

func (s *MemstoreTestSuite) seedCurrency(code string, rate string, isDefault bool) domain.Currency {
	r, err := decimal.NewFromString(rate)
	s.Require().NoError(err)
	currency := domain.Currency{
		CurrencyCode: code,
		Name:         code + " currency",
		Symbol:       code[:1],
		RateToUSD:    r,
		IsDefault:    isDefault,
	}
	s.Require().NoError(s.repos.CurrencyRepo.SaveCurrency(s.ctx, currency))
	return currency
}

func (s *MemstoreTestSuite) seedAccounts() (gl domain.GLAccount, sub domain.SubAccount, sub2 domain.SubAccount) {
	gl = domain.GLAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: "1000",
		Name:          "Assets",
		AccountType:   domain.Asset,
		IsActive:      true,
	}
	s.Require().NoError(s.repos.AccountRepo.SaveGLAccount(s.ctx, gl))

	sub = domain.SubAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: "1001",
		Name:          "Main checking",
		CurrencyCode:  "USD",
		GLAccountID:   gl.AccountID,
		IsActive:      true,
	}
	s.Require().NoError(s.repos.AccountRepo.SaveSubAccount(s.ctx, sub))

	sub2 = domain.SubAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: "1002",
		Name:          "Savings",
		CurrencyCode:  "USD",
		GLAccountID:   gl.AccountID,
		IsActive:      true,
	}
	s.Require().NoError(s.repos.AccountRepo.SaveSubAccount(s.ctx, sub2))
	return gl, sub, sub2
}

func (s *MemstoreTestSuite) seedEntry(debitID, creditID string) domain.JournalEntry {
	amount := decimal.NewFromInt(100)
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Amount:          amount,
		CurrencyCode:    "USD",
		AmountInUSD:     amount,
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Description:     "seed entry",
	}
	s.Require().NoError(s.repos.JournalRepo.SaveEntry(s.ctx, entry))
	return entry
}

func (s *MemstoreTestSuite) TestOpenMissingFileInstallsEmptySchema() {
	currencies, err := s.repos.CurrencyRepo.ListCurrencies(s.ctx)
	s.Require().NoError(err)
	s.Empty(currencies)
}

func (s *MemstoreTestSuite) TestCheckpointAndReload() {
	s.seedCurrency("USD", "1", true)
	_, sub, sub2 := s.seedAccounts()
	entry := s.seedEntry(sub.AccountID, sub2.AccountID)

	s.Require().NoError(s.checkpointer.Checkpoint(s.ctx))

	reloaded, err := memstore.Open(s.path)
	s.Require().NoError(err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := memstore.NewRepositoryProvider(reloaded, memstore.NewCheckpointer(reloaded, logger))

	got, err := repos.JournalRepo.FindEntryByID(s.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(entry.Description, got.Description)
	s.True(entry.AmountInUSD.Equal(got.AmountInUSD))

	currencies, err := repos.CurrencyRepo.ListCurrencies(s.ctx)
	s.Require().NoError(err)
	s.Len(currencies, 1)
	s.True(currencies[0].IsDefault)
}

func (s *MemstoreTestSuite) TestOpenCorruptFileFails() {
	s.Require().NoError(os.WriteFile(s.path, []byte("{not json"), 0o644))
	_, err := memstore.Open(s.path)
	s.Require().Error(err)
	s.Contains(err.Error(), "corrupt")
}

func (s *MemstoreTestSuite) TestOpenFailsIntegrityCheckOnDanglingReference() {
	// An entry referencing accounts that do not exist must be rejected at load.
	blob := `{
		"schemaVersion": 1,
		"currencies": {"USD": {"currencyCode": "USD", "rateToUSD": "1", "isDefault": true}},
		"glAccounts": {},
		"subAccounts": {},
		"entries": {"e1": {"entryID": "e1", "amount": "10", "amountInUSD": "10", "currencyCode": "USD", "debitAccountID": "a", "creditAccountID": "b"}},
		"attachments": {}
	}`
	s.Require().NoError(os.WriteFile(s.path, []byte(blob), 0o644))
	_, err := memstore.Open(s.path)
	s.Require().Error(err)
	s.Contains(err.Error(), "integrity")
}

func (s *MemstoreTestSuite) TestCheckpointSurvivesFailureAndRetries() {
	s.seedCurrency("USD", "1", true)

	// Point the backing file into a directory that does not exist so the
	// temp file creation fails.
	s.Require().NoError(os.RemoveAll(filepath.Dir(s.path)))

	err := s.checkpointer.Checkpoint(s.ctx)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPersistence)

	// Memory is intact after the failed write.
	currencies, listErr := s.repos.CurrencyRepo.ListCurrencies(s.ctx)
	s.Require().NoError(listErr)
	s.Len(currencies, 1)

	// Restoring the directory lets the next attempt succeed.
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o755))
	s.Require().NoError(s.checkpointer.Checkpoint(s.ctx))
}

func (s *MemstoreTestSuite) TestCheckpointDuringWritesKeepsFilesLoadable() {
	s.seedCurrency("USD", "1", true)
	_, sub, sub2 := s.seedAccounts()

	// A writer goroutine races the checkpoint loop. The snapshot is taken
	// under the read lock, so every file a checkpoint produces must pass the
	// load-time integrity check with no half-applied write in it.
	const writes = 200
	writerDone := make(chan error, 1)
	go func() {
		for i := 0; i < writes; i++ {
			amount := decimal.NewFromInt(int64(i + 1))
			entry := domain.JournalEntry{
				EntryID:         uuid.NewString(),
				EntryDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Amount:          amount,
				CurrencyCode:    "USD",
				AmountInUSD:     amount,
				DebitAccountID:  sub.AccountID,
				CreditAccountID: sub2.AccountID,
				Description:     "concurrent entry",
			}
			if err := s.repos.JournalRepo.SaveEntry(s.ctx, entry); err != nil {
				writerDone <- err
				return
			}
		}
		writerDone <- nil
	}()

	for i := 0; i < 100; i++ {
		s.Require().NoError(s.checkpointer.Checkpoint(s.ctx))
		_, err := memstore.Open(s.path)
		s.Require().NoError(err, "checkpoint %d produced an unloadable file", i)
	}

	s.Require().NoError(<-writerDone)

	// The final checkpoint holds the complete write set.
	s.Require().NoError(s.checkpointer.Checkpoint(s.ctx))
	reloaded, err := memstore.Open(s.path)
	s.Require().NoError(err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := memstore.NewRepositoryProvider(reloaded, memstore.NewCheckpointer(reloaded, logger))
	entries, err := repos.JournalRepo.ListEntries(s.ctx, portsrepo.EntryFilter{})
	s.Require().NoError(err)
	s.Len(entries, writes)
}

func (s *MemstoreTestSuite) TestSingleDefaultCurrency() {
	s.seedCurrency("USD", "1", true)
	s.seedCurrency("EUR", "1.1", true)

	currencies, err := s.repos.CurrencyRepo.ListCurrencies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(currencies, 2)

	defaults := 0
	for _, c := range currencies {
		if c.IsDefault {
			defaults++
			s.Equal("EUR", c.CurrencyCode)
		}
	}
	s.Equal(1, defaults)
}

func (s *MemstoreTestSuite) TestDuplicateCurrencyRejected() {
	s.seedCurrency("USD", "1", true)
	err := s.repos.CurrencyRepo.SaveCurrency(s.ctx, domain.Currency{CurrencyCode: "USD", RateToUSD: decimal.NewFromInt(1)})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *MemstoreTestSuite) TestDuplicateAccountNumbersRejected() {
	s.seedCurrency("USD", "1", true)
	gl, _, _ := s.seedAccounts()

	err := s.repos.AccountRepo.SaveGLAccount(s.ctx, domain.GLAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: "1000",
		AccountType:   domain.Cash,
	})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	err = s.repos.AccountRepo.SaveSubAccount(s.ctx, domain.SubAccount{
		AccountID:     uuid.NewString(),
		AccountNumber: "1001",
		CurrencyCode:  "USD",
		GLAccountID:   gl.AccountID,
	})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *MemstoreTestSuite) TestRestrictDeletes() {
	s.seedCurrency("USD", "1", true)
	gl, sub, sub2 := s.seedAccounts()
	s.seedEntry(sub.AccountID, sub2.AccountID)

	s.ErrorIs(s.repos.CurrencyRepo.DeleteCurrency(s.ctx, "USD"), apperrors.ErrConflict)
	s.ErrorIs(s.repos.AccountRepo.DeleteGLAccount(s.ctx, gl.AccountID), apperrors.ErrConflict)
	s.ErrorIs(s.repos.AccountRepo.DeleteSubAccount(s.ctx, sub.AccountID), apperrors.ErrConflict)
	s.ErrorIs(s.repos.AccountRepo.DeleteSubAccount(s.ctx, sub2.AccountID), apperrors.ErrConflict)
}

func (s *MemstoreTestSuite) TestDeleteEntryCascadesAttachments() {
	s.seedCurrency("USD", "1", true)
	_, sub, sub2 := s.seedAccounts()
	entry := s.seedEntry(sub.AccountID, sub2.AccountID)

	attachment := domain.Attachment{
		AttachmentID: uuid.NewString(),
		EntryID:      entry.EntryID,
		FileName:     "receipt.pdf",
		MediaType:    "application/pdf",
		SizeBytes:    3,
		Data:         []byte{1, 2, 3},
	}
	s.Require().NoError(s.repos.JournalRepo.SaveAttachment(s.ctx, attachment))

	s.Require().NoError(s.repos.JournalRepo.DeleteEntry(s.ctx, entry.EntryID))

	_, err := s.repos.JournalRepo.FindAttachmentByID(s.ctx, attachment.AttachmentID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *MemstoreTestSuite) TestEntryIntegrityRules() {
	s.seedCurrency("USD", "1", true)
	_, sub, sub2 := s.seedAccounts()

	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       time.Now(),
		Amount:          decimal.NewFromInt(-5),
		CurrencyCode:    "USD",
		AmountInUSD:     decimal.NewFromInt(-5),
		DebitAccountID:  sub.AccountID,
		CreditAccountID: sub2.AccountID,
	}
	s.ErrorIs(s.repos.JournalRepo.SaveEntry(s.ctx, entry), apperrors.ErrInvariant)

	entry.Amount = decimal.NewFromInt(5)
	entry.AmountInUSD = decimal.NewFromInt(5)
	entry.CreditAccountID = sub.AccountID
	s.ErrorIs(s.repos.JournalRepo.SaveEntry(s.ctx, entry), apperrors.ErrInvariant)

	entry.CreditAccountID = "missing"
	s.ErrorIs(s.repos.JournalRepo.SaveEntry(s.ctx, entry), apperrors.ErrNotFound)
}

func (s *MemstoreTestSuite) TestRateChangeRecomputesEntryAmounts() {
	s.seedCurrency("USD", "1", true)
	eur := s.seedCurrency("EUR", "1.1", false)
	_, sub, sub2 := s.seedAccounts()

	amount := decimal.NewFromInt(100)
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       time.Now(),
		Amount:          amount,
		CurrencyCode:    "EUR",
		AmountInUSD:     decimal.NewFromInt(110),
		DebitAccountID:  sub.AccountID,
		CreditAccountID: sub2.AccountID,
	}
	s.Require().NoError(s.repos.JournalRepo.SaveEntry(s.ctx, entry))

	eur.RateToUSD = decimal.NewFromFloat(1.25)
	s.Require().NoError(s.repos.CurrencyRepo.UpdateCurrency(s.ctx, eur))

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(125).Equal(got.AmountInUSD), "got %s", got.AmountInUSD)
}

func TestMemstoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemstoreTestSuite))
}
