package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/dto"
)

const importHeader = "date,debit_account,credit_account,amount,currency,description,category,comment\n"

type ImportServiceTestSuite struct {
	suite.Suite
	env   *testEnv
	chart chart
}

func (s *ImportServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.chart = s.env.seedChart(s.T())
}

func (s *ImportServiceTestSuite) TestParseCSV() {
	body := importHeader +
		"2024-03-01,1001,4001,150.00,USD,March sale,sales,first of month\n" +
		"2024-03-02,5001,1001,40.50,usd,Office rent,,\n"

	rows, err := s.env.services.Import.ParseCSV(strings.NewReader(body))
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	s.Equal("1001", rows[0].DebitAccountNumber)
	s.Equal("4001", rows[0].CreditAccountNumber)
	s.True(mustDecimal(s.T(), "150.00").Equal(rows[0].Amount))
	s.Equal("March sale", rows[0].Description)
	s.Equal("sales", rows[0].Category)

	// Currency codes are normalized to upper case.
	s.Equal("USD", rows[1].CurrencyCode)
}

func (s *ImportServiceTestSuite) TestParseCSV_StructuralErrors() {
	_, err := s.env.services.Import.ParseCSV(strings.NewReader(""))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.services.Import.ParseCSV(strings.NewReader("who,what\n"))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.services.Import.ParseCSV(strings.NewReader(importHeader + "not-a-date,1001,4001,10,USD,x,,\n"))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.services.Import.ParseCSV(strings.NewReader(importHeader + "2024-03-01,1001,4001,ten,USD,x,,\n"))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ImportServiceTestSuite) TestImportRows_CommitsCleanBatch() {
	rows := []dto.ImportRow{
		{EntryDate: date(2024, 3, 1), DebitAccountNumber: "1001", CreditAccountNumber: "4001",
			Amount: mustDecimal(s.T(), "150.00"), CurrencyCode: "USD", Description: "sale"},
		{EntryDate: date(2024, 3, 2), DebitAccountNumber: "5001", CreditAccountNumber: "1001",
			Amount: mustDecimal(s.T(), "40.00"), CurrencyCode: "USD", Description: "rent"},
	}

	summary, err := s.env.services.Import.ImportRows(s.env.ctx, rows)
	s.Require().NoError(err)
	s.Equal(2, summary.Attempted)
	s.Equal(2, summary.Succeeded)
	s.Equal(0, summary.Failed)
	s.Empty(summary.Errors)

	entries, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{})
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *ImportServiceTestSuite) TestImportRows_OneBadRowCommitsNothing() {
	rows := []dto.ImportRow{
		{EntryDate: date(2024, 3, 1), DebitAccountNumber: "1001", CreditAccountNumber: "4001",
			Amount: mustDecimal(s.T(), "150.00"), CurrencyCode: "USD", Description: "good"},
		{EntryDate: date(2024, 3, 2), DebitAccountNumber: "1001", CreditAccountNumber: "8888",
			Amount: mustDecimal(s.T(), "40.00"), CurrencyCode: "USD", Description: "bad credit account"},
		{EntryDate: date(2024, 3, 3), DebitAccountNumber: "5001", CreditAccountNumber: "1001",
			Amount: mustDecimal(s.T(), "10.00"), CurrencyCode: "USD", Description: "good"},
	}

	summary, err := s.env.services.Import.ImportRows(s.env.ctx, rows)
	s.Require().NoError(err)
	s.Equal(3, summary.Attempted)
	s.Equal(0, summary.Succeeded)
	s.Equal(1, summary.Failed)
	s.Require().Len(summary.Errors, 1)
	s.Equal(2, summary.Errors[0].Row)
	s.Contains(summary.Errors[0].Reason, "8888")
	s.Equal(`Row 2: unknown credit account "8888"`, summary.Errors[0].String())

	// Atomicity: nothing was written.
	entries, err := s.env.services.Journal.ListEntries(s.env.ctx, dto.ListEntriesParams{})
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ImportServiceTestSuite) TestImportRows_ReportsEveryProblem() {
	rows := []dto.ImportRow{
		{EntryDate: date(2024, 3, 1), DebitAccountNumber: "9999", CreditAccountNumber: "9999",
			Amount: mustDecimal(s.T(), "-5"), CurrencyCode: "XXX", Description: ""},
	}

	summary, err := s.env.services.Import.ImportRows(s.env.ctx, rows)
	s.Require().NoError(err)
	s.Equal(1, summary.Failed)
	// Negative amount, unknown currency, unknown debit, unknown credit,
	// missing description: the report is complete, not first-error-only.
	s.GreaterOrEqual(len(summary.Errors), 4)
	for _, e := range summary.Errors {
		s.Equal(1, e.Row)
	}
}

func (s *ImportServiceTestSuite) TestImportRows_EmptyBatch() {
	summary, err := s.env.services.Import.ImportRows(s.env.ctx, nil)
	s.Require().NoError(err)
	s.Equal(0, summary.Attempted)
	s.Equal(0, summary.Succeeded)
	s.Empty(summary.Errors)
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
