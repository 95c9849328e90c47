package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/services"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	env   *testEnv
	chart chart
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.chart = s.env.seedChart(s.T())
}

func (s *JournalServiceTestSuite) TestCreateEntry_DerivesAmountInUSD() {
	s.env.seedCurrency(s.T(), "EUR", "1.1", false)

	entry, err := s.env.services.Journal.CreateEntry(s.env.ctx, dto.CreateEntryRequest{
		EntryDate:       date(2024, 3, 5),
		Amount:          mustDecimal(s.T(), "100"),
		CurrencyCode:    "EUR",
		DebitAccountID:  s.chart.checking.AccountID,
		CreditAccountID: s.chart.capital.AccountID,
		Description:     "capital injection",
	})
	s.Require().NoError(err)
	s.True(mustDecimal(s.T(), "110").Equal(entry.AmountInUSD), "got %s", entry.AmountInUSD)
}

func (s *JournalServiceTestSuite) TestCreateEntry_RoundsHalfUp() {
	entry := s.env.seedEntry(s.T(), date(2024, 3, 5), "10.005", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "edge rounding")
	s.True(mustDecimal(s.T(), "10.01").Equal(entry.AmountInUSD), "got %s", entry.AmountInUSD)
}

func (s *JournalServiceTestSuite) TestCreateEntry_RejectsNonPositiveAmount() {
	_, err := s.env.services.Journal.CreateEntry(s.env.ctx, dto.CreateEntryRequest{
		EntryDate:       date(2024, 3, 5),
		Amount:          mustDecimal(s.T(), "0"),
		CurrencyCode:    "USD",
		DebitAccountID:  s.chart.checking.AccountID,
		CreditAccountID: s.chart.capital.AccountID,
		Description:     "zero",
	})
	s.Require().Error(err)
	s.ErrorIs(err, services.ErrNonPositiveAmount)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestCreateEntry_RejectsSameAccountLegs() {
	_, err := s.env.services.Journal.CreateEntry(s.env.ctx, dto.CreateEntryRequest{
		EntryDate:       date(2024, 3, 5),
		Amount:          mustDecimal(s.T(), "50"),
		CurrencyCode:    "USD",
		DebitAccountID:  s.chart.checking.AccountID,
		CreditAccountID: s.chart.checking.AccountID,
		Description:     "self transfer",
	})
	s.Require().Error(err)
	s.ErrorIs(err, services.ErrSameAccountLegs)
	s.ErrorIs(err, apperrors.ErrInvariant)
}

func (s *JournalServiceTestSuite) TestCreateEntry_RejectsUnknownReferences() {
	_, err := s.env.services.Journal.CreateEntry(s.env.ctx, dto.CreateEntryRequest{
		EntryDate:       date(2024, 3, 5),
		Amount:          mustDecimal(s.T(), "50"),
		CurrencyCode:    "JPY",
		DebitAccountID:  s.chart.checking.AccountID,
		CreditAccountID: s.chart.capital.AccountID,
		Description:     "unknown currency",
	})
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.env.services.Journal.CreateEntry(s.env.ctx, dto.CreateEntryRequest{
		EntryDate:       date(2024, 3, 5),
		Amount:          mustDecimal(s.T(), "50"),
		CurrencyCode:    "USD",
		DebitAccountID:  "no-such-account",
		CreditAccountID: s.chart.capital.AccountID,
		Description:     "unknown debit",
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) TestRejectedEntryLeavesNoPartialState() {
	_, err := s.env.services.Journal.CreateEntry(s.env.ctx, dto.CreateEntryRequest{
		EntryDate:       date(2024, 3, 5),
		Amount:          mustDecimal(s.T(), "50"),
		CurrencyCode:    "USD",
		DebitAccountID:  s.chart.checking.AccountID,
		CreditAccountID: "no-such-account",
		Description:     "doomed",
	})
	s.Require().Error(err)

	entries, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{})
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_RecomputesAmountOnCurrencyChange() {
	s.env.seedCurrency(s.T(), "EUR", "2", false)
	entry := s.env.seedEntry(s.T(), date(2024, 3, 5), "100", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "sale")
	s.True(mustDecimal(s.T(), "100").Equal(entry.AmountInUSD))

	eur := "EUR"
	updated, err := s.env.services.Journal.UpdateEntry(s.env.ctx, entry.EntryID, dto.UpdateEntryRequest{
		CurrencyCode: &eur,
	})
	s.Require().NoError(err)
	s.True(mustDecimal(s.T(), "200").Equal(updated.AmountInUSD), "got %s", updated.AmountInUSD)
}

func (s *JournalServiceTestSuite) TestUpdateEntry_RevalidatesMergedEntry() {
	entry := s.env.seedEntry(s.T(), date(2024, 3, 5), "100", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "sale")

	_, err := s.env.services.Journal.UpdateEntry(s.env.ctx, entry.EntryID, dto.UpdateEntryRequest{
		CreditAccountID: &s.chart.checking.AccountID,
	})
	s.ErrorIs(err, services.ErrSameAccountLegs)

	// The failed update must not have changed the stored entry.
	stored, err := s.env.services.Journal.GetEntryByID(s.env.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(s.chart.sales.AccountID, stored.CreditAccountID)
}

func (s *JournalServiceTestSuite) TestListEntries_FiltersAndOrder() {
	e1 := s.env.seedEntry(s.T(), date(2024, 1, 10), "10", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "january sale")
	e2 := s.env.seedEntry(s.T(), date(2024, 2, 10), "20", "USD",
		s.chart.rent.AccountID, s.chart.checking.AccountID, "february rent")
	e3 := s.env.seedEntry(s.T(), date(2024, 3, 10), "30", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "march sale")

	all, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(e3.EntryID, all[0].EntryID)
	s.Equal(e2.EntryID, all[1].EntryID)
	s.Equal(e1.EntryID, all[2].EntryID)

	from := date(2024, 2, 1)
	to := date(2024, 2, 28)
	february, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{From: &from, To: &to})
	s.Require().NoError(err)
	s.Require().Len(february, 1)
	s.Equal(e2.EntryID, february[0].EntryID)

	sales, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{AccountID: s.chart.sales.AccountID})
	s.Require().NoError(err)
	s.Len(sales, 2)
}

func (s *JournalServiceTestSuite) TestListEntries_RangeIsDayInclusive() {
	entry := s.env.seedEntry(s.T(),
		time.Date(2024, 4, 15, 18, 30, 0, 0, time.UTC), "10", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "evening sale")

	day := date(2024, 4, 15)
	got, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{From: &day, To: &day})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(entry.EntryID, got[0].EntryID)
}

func (s *JournalServiceTestSuite) TestAttachmentLifecycle() {
	entry := s.env.seedEntry(s.T(), date(2024, 3, 5), "100", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "sale")

	attachment, err := s.env.services.Journal.AddAttachment(s.env.ctx, entry.EntryID, dto.AddAttachmentRequest{
		FileName:  "receipt.pdf",
		MediaType: "application/pdf",
		Data:      []byte("pdf bytes"),
	})
	s.Require().NoError(err)
	s.Equal(int64(9), attachment.SizeBytes)

	listed, err := s.env.services.Journal.ListAttachments(s.env.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(attachment.AttachmentID, listed[0].AttachmentID)

	// Deleting the entry cascades to the attachment.
	s.Require().NoError(s.env.services.Journal.DeleteEntry(s.env.ctx, entry.EntryID))
	_, err = s.env.services.Journal.GetAttachmentByID(s.env.ctx, attachment.AttachmentID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) TestAddAttachment_RejectsEmptyAndMissingEntry() {
	entry := s.env.seedEntry(s.T(), date(2024, 3, 5), "100", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "sale")

	_, err := s.env.services.Journal.AddAttachment(s.env.ctx, entry.EntryID, dto.AddAttachmentRequest{FileName: "empty.bin"})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.services.Journal.AddAttachment(s.env.ctx, "missing", dto.AddAttachmentRequest{
		FileName: "receipt.pdf",
		Data:     []byte("x"),
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
