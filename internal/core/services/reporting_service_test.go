package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks_backend/internal/apperrors"
	"github.com/openbooks-app/openbooks_backend/internal/core/domain"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	env   *testEnv
	chart chart
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.chart = s.env.seedChart(s.T())
}

// seedActivity posts a small but complete book:
//
//	Jan 5:  capital in          1000.00  checking  <- capital
//	Feb 10: product sale         300.00  checking  <- sales
//	Feb 20: office rent          120.00  rent      <- checking
//	Mar 1:  supplies on credit    80.00  rent      <- payable
func (s *ReportingServiceTestSuite) seedActivity() {
	s.env.seedEntry(s.T(), date(2024, 1, 5), "1000.00", "USD",
		s.chart.checking.AccountID, s.chart.capital.AccountID, "owner capital")
	s.env.seedEntry(s.T(), date(2024, 2, 10), "300.00", "USD",
		s.chart.checking.AccountID, s.chart.sales.AccountID, "product sale")
	s.env.seedEntry(s.T(), date(2024, 2, 20), "120.00", "USD",
		s.chart.rent.AccountID, s.chart.checking.AccountID, "office rent")
	s.env.seedEntry(s.T(), date(2024, 3, 1), "80.00", "USD",
		s.chart.rent.AccountID, s.chart.payable.AccountID, "supplies on credit")
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_Balances() {
	s.seedActivity()

	report, err := s.env.services.Reporting.BalanceSheet(s.env.ctx, date(2024, 12, 31), "")
	s.Require().NoError(err)

	s.True(report.Balanced)
	// checking: +1000 +300 -120 = 1180
	s.True(mustDecimal(s.T(), "1180").Equal(report.TotalAssets), "assets %s", report.TotalAssets)
	// payable: 80
	s.True(mustDecimal(s.T(), "80").Equal(report.TotalLiabilities), "liabilities %s", report.TotalLiabilities)
	// capital 1000 + retained (300 - 200) = 1100
	s.True(mustDecimal(s.T(), "100").Equal(report.RetainedEarnings), "retained %s", report.RetainedEarnings)
	s.True(mustDecimal(s.T(), "1100").Equal(report.TotalEquity), "equity %s", report.TotalEquity)

	s.Require().Len(report.Assets, 1)
	s.Equal("1001", report.Assets[0].AccountNumber)
	s.Require().Len(report.Liabilities, 1)
	s.Require().Len(report.Equity, 1)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_AsOfCutsOffLaterEntries() {
	s.seedActivity()

	report, err := s.env.services.Reporting.BalanceSheet(s.env.ctx, date(2024, 1, 31), "")
	s.Require().NoError(err)

	s.True(report.Balanced)
	s.True(mustDecimal(s.T(), "1000").Equal(report.TotalAssets), "assets %s", report.TotalAssets)
	s.True(report.TotalLiabilities.IsZero())
	s.True(report.RetainedEarnings.IsZero())
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_ExcludesOpeningBalanceAccounts() {
	s.env.seedEntry(s.T(), date(2024, 1, 1), "500.00", "USD",
		s.chart.checking.AccountID, s.chart.opening.AccountID, "opening balance")

	report, err := s.env.services.Reporting.BalanceSheet(s.env.ctx, date(2024, 12, 31), "")
	s.Require().NoError(err)

	for _, row := range append(append(report.Assets, report.Liabilities...), report.Equity...) {
		s.NotEqual(domain.OpeningBalance, row.AccountType)
		s.NotEqual("9001", row.AccountNumber)
	}
	// The opening-balance counterweight is invisible, so the sheet reports
	// assets without an offsetting equity row.
	s.True(mustDecimal(s.T(), "500").Equal(report.TotalAssets))
	s.False(report.Balanced)
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_DisplayCurrencyConversion() {
	s.env.seedCurrency(s.T(), "EUR", "1.25", false)
	s.seedActivity()

	report, err := s.env.services.Reporting.BalanceSheet(s.env.ctx, date(2024, 12, 31), "EUR")
	s.Require().NoError(err)

	s.True(report.Balanced)
	s.Equal("EUR", report.CurrencyCode)
	// 1180 USD / 1.25 = 944 EUR
	s.True(mustDecimal(s.T(), "944").Equal(report.TotalAssets), "assets %s", report.TotalAssets)

	_, err = s.env.services.Reporting.BalanceSheet(s.env.ctx, date(2024, 12, 31), "JPY")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReportingServiceTestSuite) TestProfitAndLoss() {
	s.seedActivity()

	report, err := s.env.services.Reporting.ProfitAndLoss(s.env.ctx, date(2024, 2, 1), date(2024, 2, 28), "")
	s.Require().NoError(err)

	// February only: 300 revenue, 120 expense.
	s.True(mustDecimal(s.T(), "300").Equal(report.TotalRevenue), "revenue %s", report.TotalRevenue)
	s.True(mustDecimal(s.T(), "120").Equal(report.TotalExpenses), "expenses %s", report.TotalExpenses)
	s.True(mustDecimal(s.T(), "180").Equal(report.NetIncome), "net %s", report.NetIncome)

	s.Require().Len(report.Revenue, 1)
	s.Equal("4001", report.Revenue[0].AccountNumber)
	s.Require().Len(report.Expenses, 1)
	s.Equal("5001", report.Expenses[0].AccountNumber)
}

func (s *ReportingServiceTestSuite) TestTrialBalance() {
	s.seedActivity()

	report, err := s.env.services.Reporting.TrialBalance(s.env.ctx, date(2024, 12, 31), "")
	s.Require().NoError(err)

	s.True(report.Balanced)
	s.True(report.TotalDebit.Equal(report.TotalCredit), "debit %s credit %s", report.TotalDebit, report.TotalCredit)

	// Natural account number order: 1001, 2001, 3001, 4001, 5001.
	numbers := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		numbers[i] = row.AccountNumber
	}
	s.Equal([]string{"1001", "2001", "3001", "4001", "5001"}, numbers)

	// checking is debit-normal with a positive balance.
	s.True(mustDecimal(s.T(), "1180").Equal(report.Rows[0].Debit))
	s.True(report.Rows[0].Credit.IsZero())
	// payable is credit-normal with a positive balance.
	s.True(mustDecimal(s.T(), "80").Equal(report.Rows[1].Credit))
}

func (s *ReportingServiceTestSuite) TestTrialBalance_SkipsNearZeroBalances() {
	// Two entries that cancel out leave the accounts off the report.
	s.env.seedEntry(s.T(), date(2024, 1, 5), "50.00", "USD",
		s.chart.checking.AccountID, s.chart.capital.AccountID, "in")
	s.env.seedEntry(s.T(), date(2024, 1, 6), "50.00", "USD",
		s.chart.capital.AccountID, s.chart.checking.AccountID, "out")

	report, err := s.env.services.Reporting.TrialBalance(s.env.ctx, date(2024, 12, 31), "")
	s.Require().NoError(err)
	s.Empty(report.Rows)
	s.True(report.Balanced)
}

func (s *ReportingServiceTestSuite) TestAccountLedger_RunningBalance() {
	s.seedActivity()

	report, err := s.env.services.Reporting.AccountLedger(s.env.ctx, s.chart.checking.AccountID, nil, nil)
	s.Require().NoError(err)

	s.Require().Len(report.Lines, 3)
	// Chronological replay: +1000, +300, -120.
	s.True(mustDecimal(s.T(), "1000").Equal(report.Lines[0].RunningBalance))
	s.True(mustDecimal(s.T(), "1300").Equal(report.Lines[1].RunningBalance))
	s.True(mustDecimal(s.T(), "1180").Equal(report.Lines[2].RunningBalance))
	s.True(mustDecimal(s.T(), "1180").Equal(report.FinalBalance))

	// Debit and credit columns reflect the leg the account sat on.
	s.True(mustDecimal(s.T(), "1000").Equal(report.Lines[0].Debit))
	s.True(report.Lines[0].Credit.IsZero())
	s.True(mustDecimal(s.T(), "120").Equal(report.Lines[2].Credit))
}

func (s *ReportingServiceTestSuite) TestAccountLedger_DateRangeAndMissingAccount() {
	s.seedActivity()

	from := date(2024, 2, 1)
	to := date(2024, 2, 28)
	report, err := s.env.services.Reporting.AccountLedger(s.env.ctx, s.chart.checking.AccountID, &from, &to)
	s.Require().NoError(err)
	s.Require().Len(report.Lines, 2)
	// The range balance starts from zero, not from the January activity.
	s.True(mustDecimal(s.T(), "180").Equal(report.FinalBalance), "got %s", report.FinalBalance)

	_, err = s.env.services.Reporting.AccountLedger(s.env.ctx, "missing", nil, nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReportingServiceTestSuite) TestAccountLedger_RejectsOpeningBalanceAccount() {
	s.seedActivity()

	_, err := s.env.services.Reporting.AccountLedger(s.env.ctx, s.chart.opening.AccountID, nil, nil)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
