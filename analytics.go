package main

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// roundHalfUp rounds to the nearest integer, halves toward positive infinity
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// endOfMonth returns the last instant of t's month
func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// startOfWeek returns the Sunday starting t's calendar week
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// defaultExpenseWindow spans the first day of the month two months back
// through the end of the current month.
func defaultExpenseWindow(now time.Time) (time.Time, time.Time) {
	return startOfMonth(now).AddDate(0, -2, 0), endOfMonth(now)
}

// MonthlyTotal is the expense total of one calendar month
type MonthlyTotal struct {
	Month  time.Time       `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// CategoryTotal is the summed amount of one category
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// CategoryShare is a category's share of the month's expenses, in percent
type CategoryShare struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// CategoryTrend compares a category's expenses with the previous month
type CategoryTrend struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Trend  int64           `json:"trend"`
}

// DailyTotals holds one day's income and expense sums
type DailyTotals struct {
	Day     string          `json:"day"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ExpenseAnalytics is the payload of the expense analytics endpoint
type ExpenseAnalytics struct {
	MonthlyExpenses      []MonthlyTotal  `json:"monthlyExpenses"`
	CategoryBreakdown    []CategoryTotal `json:"categoryBreakdown"`
	TotalExpenses        decimal.Decimal `json:"totalExpenses"`
	AverageExpense       decimal.Decimal `json:"averageExpense"`
	HighestExpense       decimal.Decimal `json:"highestExpense"`
	MostFrequentCategory string          `json:"mostFrequentCategory"`
}

// SummaryStats totals every transaction handed to Summarize
type SummaryStats struct {
	TotalIncome        decimal.Decimal            `json:"totalIncome"`
	TotalExpenses      decimal.Decimal            `json:"totalExpenses"`
	Balance            decimal.Decimal            `json:"balance"`
	CategoryTotals     map[string]decimal.Decimal `json:"categoryTotals"`
	RecentTransactions []Transaction              `json:"recentTransactions"`
}

// orderedSums accumulates amounts per key, remembering first-seen order
type orderedSums struct {
	keys   []string
	sums   map[string]decimal.Decimal
	counts map[string]int
}

func newOrderedSums() *orderedSums {
	return &orderedSums{sums: make(map[string]decimal.Decimal), counts: make(map[string]int)}
}

func (o *orderedSums) add(key string, amount decimal.Decimal) {
	if _, ok := o.sums[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.sums[key] = o.sums[key].Add(amount)
	o.counts[key]++
}

func expensesOnly(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == TransactionExpense {
			out = append(out, t)
		}
	}
	return out
}

// MonthlyExpenses sums expenses per calendar month in loc, in the order
// the months are first encountered.
func MonthlyExpenses(txs []Transaction, loc *time.Location) []MonthlyTotal {
	sums := newOrderedSums()
	months := make(map[string]time.Time)
	for _, t := range expensesOnly(txs) {
		month := startOfMonth(t.Date.In(loc))
		key := month.Format(time.RFC3339)
		months[key] = month
		sums.add(key, t.Amount)
	}

	series := make([]MonthlyTotal, 0, len(sums.keys))
	for _, key := range sums.keys {
		series = append(series, MonthlyTotal{Month: months[key], Amount: sums.sums[key]})
	}
	return series
}

// CategoryBreakdown sums expenses per category
func CategoryBreakdown(txs []Transaction) []CategoryTotal {
	sums := newOrderedSums()
	for _, t := range expensesOnly(txs) {
		sums.add(t.Category, t.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums.keys))
	for _, name := range sums.keys {
		out = append(out, CategoryTotal{Name: name, Value: sums.sums[name]})
	}
	return out
}

// AverageMonthlyExpense divides total by the number of months present,
// treating an empty series as a single month.
func AverageMonthlyExpense(total decimal.Decimal, series []MonthlyTotal) decimal.Decimal {
	months := len(series)
	if months == 0 {
		months = 1
	}
	return total.Div(decimal.NewFromInt(int64(months)))
}

// HighestMonthlyExpense is the largest monthly total, or zero
func HighestMonthlyExpense(series []MonthlyTotal) decimal.Decimal {
	highest := decimal.Zero
	for _, m := range series {
		if m.Amount.GreaterThan(highest) {
			highest = m.Amount
		}
	}
	return highest
}

// MostFrequentCategory picks the expense category with the most
// transactions. Ties go to the category seen first.
func MostFrequentCategory(txs []Transaction) string {
	sums := newOrderedSums()
	for _, t := range expensesOnly(txs) {
		sums.add(t.Category, t.Amount)
	}

	best, bestCount := "", 0
	for _, name := range sums.keys {
		if sums.counts[name] > bestCount {
			best, bestCount = name, sums.counts[name]
		}
	}
	return best
}

// AnalyzeExpenses computes the expense analytics for transactions already
// restricted to one user and window.
func AnalyzeExpenses(txs []Transaction, loc *time.Location) ExpenseAnalytics {
	expenses := expensesOnly(txs)
	total := decimal.Zero
	for _, t := range expenses {
		total = total.Add(t.Amount)
	}

	series := MonthlyExpenses(expenses, loc)
	return ExpenseAnalytics{
		MonthlyExpenses:      series,
		CategoryBreakdown:    CategoryBreakdown(expenses),
		TotalExpenses:        total,
		AverageExpense:       AverageMonthlyExpense(total, series),
		HighestExpense:       HighestMonthlyExpense(series),
		MostFrequentCategory: MostFrequentCategory(expenses),
	}
}

func dailyTotals(txs []Transaction, day time.Time) DailyTotals {
	totals := DailyTotals{
		Day:     day.Weekday().String()[:3],
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, t := range txs {
		if !sameDay(t.Date.In(day.Location()), day) {
			continue
		}
		switch t.Type {
		case TransactionIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case TransactionExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals
}

// WeeklyComparison reports income and expense for the seven calendar days
// ending today in now's location, oldest first.
func WeeklyComparison(txs []Transaction, now time.Time) []DailyTotals {
	today := startOfDay(now)
	out := make([]DailyTotals, 0, 7)
	for i := 6; i >= 0; i-- {
		out = append(out, dailyTotals(txs, today.AddDate(0, 0, -i)))
	}
	return out
}

// CalendarWeek reports income and expense for each day of the current
// Sunday-to-Saturday week.
func CalendarWeek(txs []Transaction, now time.Time) []DailyTotals {
	first := startOfWeek(now)
	out := make([]DailyTotals, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, dailyTotals(txs, first.AddDate(0, 0, i)))
	}
	return out
}

func monthExpensesByCategory(txs []Transaction, month time.Time) *orderedSums {
	sums := newOrderedSums()
	for _, t := range expensesOnly(txs) {
		d := t.Date.In(month.Location())
		if d.Year() == month.Year() && d.Month() == month.Month() {
			sums.add(t.Category, t.Amount)
		}
	}
	return sums
}

// ExpenseTrends compares each category spent on this month with the same
// category last month. A category with nothing spent last month trends 100;
// categories only present last month are left out.
func ExpenseTrends(txs []Transaction, now time.Time) []CategoryTrend {
	thisMonth := startOfMonth(now)
	current := monthExpensesByCategory(txs, thisMonth)
	previous := monthExpensesByCategory(txs, thisMonth.AddDate(0, -1, 0))

	out := make([]CategoryTrend, 0, len(current.keys))
	for _, name := range current.keys {
		amount := current.sums[name]
		prev := previous.sums[name]
		trend := int64(100)
		if !prev.IsZero() {
			trend = roundHalfUp(amount.Sub(prev).Div(prev).Mul(hundred))
		}
		out = append(out, CategoryTrend{Name: name, Amount: amount, Trend: trend})
	}
	return out
}

// ExpenseShares gives each category's share of this month's expenses
func ExpenseShares(txs []Transaction, now time.Time) []CategoryShare {
	current := monthExpensesByCategory(txs, startOfMonth(now))
	total := decimal.Zero
	for _, name := range current.keys {
		total = total.Add(current.sums[name])
	}

	out := make([]CategoryShare, 0, len(current.keys))
	for _, name := range current.keys {
		share := int64(0)
		if total.IsPositive() {
			share = roundHalfUp(current.sums[name].Div(total).Mul(hundred))
		}
		out = append(out, CategoryShare{Name: name, Value: share})
	}
	return out
}

// NetBalance is income minus expenses
func NetBalance(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case TransactionIncome:
			balance = balance.Add(t.Amount)
		case TransactionExpense:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// RecentTransactions returns up to n transactions, newest first
func RecentTransactions(txs []Transaction, n int) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Summarize totals income and expenses and sums every transaction per
// category regardless of type.
func Summarize(txs []Transaction) SummaryStats {
	stats := SummaryStats{
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		CategoryTotals: make(map[string]decimal.Decimal),
	}
	for _, t := range txs {
		if t.Type == TransactionIncome {
			stats.TotalIncome = stats.TotalIncome.Add(t.Amount)
		} else {
			stats.TotalExpenses = stats.TotalExpenses.Add(t.Amount)
		}
		stats.CategoryTotals[t.Category] = stats.CategoryTotals[t.Category].Add(t.Amount)
	}
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)
	stats.RecentTransactions = RecentTransactions(txs, 5)
	return stats
}
