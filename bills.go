package main

import (
	"context"
	"fmt"
	"time"
)

// rollForward advances a due date by one period of each frequency. Month and
// year steps keep the day of month and let overflow spill into the next
// month (Jan 31 + 1 month = Mar 3 or Mar 2).
var rollForward = map[BillFrequency]func(time.Time) time.Time{
	FrequencyWeekly:  func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
	FrequencyMonthly: func(t time.Time) time.Time { return t.AddDate(0, 1, 0) },
	FrequencyYearly:  func(t time.Time) time.Time { return t.AddDate(1, 0, 0) },
}

func (f BillFrequency) Valid() bool {
	_, ok := rollForward[f]
	return ok
}

// NextDueDate returns the due date of the occurrence after due
func NextDueDate(due time.Time, f BillFrequency) (time.Time, error) {
	step, ok := rollForward[f]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown bill frequency %q", ErrValidation, f)
	}
	return step(due), nil
}

// nextOccurrence clones a recurring bill into its unpaid successor. The
// period is stepped on the calendar of loc.
func nextOccurrence(b Bill, loc *time.Location) (Bill, error) {
	due, err := NextDueDate(b.DueDate.In(loc), b.Frequency)
	if err != nil {
		return Bill{}, err
	}
	return Bill{
		UserID:              b.UserID,
		Name:                b.Name,
		Amount:              b.Amount,
		DueDate:             due,
		Category:            b.Category,
		IsPaid:              false,
		IsRecurring:         true,
		Frequency:           b.Frequency,
		NotificationEnabled: b.NotificationEnabled,
	}, nil
}

// BillPayment is the outcome of paying a bill
type BillPayment struct {
	Bill        Bill        `json:"bill"`
	NextBill    *Bill       `json:"nextBill,omitempty"`
	Transaction Transaction `json:"transaction"`
}

// PayBill marks the bill paid, schedules the next occurrence of a recurring
// bill and records the expense. Nothing is rolled back if a later step fails,
// and paying twice repeats every side effect.
func (s *Server) PayBill(ctx context.Context, userID, billID string) (BillPayment, error) {
	bill, err := s.store.MarkBillPaid(ctx, userID, billID)
	if err != nil {
		return BillPayment{}, named(err, "Bill")
	}
	payment := BillPayment{Bill: bill}

	if bill.IsRecurring {
		next, err := nextOccurrence(bill, s.loc)
		if err != nil {
			return payment, err
		}
		if err := s.store.CreateBill(ctx, &next); err != nil {
			return payment, dependency("create next bill", err)
		}
		payment.NextBill = &next
	}

	payment.Transaction = Transaction{
		UserID:      userID,
		Type:        TransactionExpense,
		Amount:      bill.Amount,
		Category:    bill.Category,
		Description: "Paid bill: " + bill.Name,
		Date:        s.now(),
	}
	if err := s.store.CreateTransaction(ctx, &payment.Transaction); err != nil {
		return payment, dependency("record bill payment", err)
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, EventBillPaid, BillEvent{
		UserID:   userID,
		BillID:   bill.ID,
		Name:     bill.Name,
		Amount:   bill.Amount,
		Category: bill.Category,
		DueDate:  bill.DueDate,
	})

	s.logger.InfoContext(ctx, "bill paid",
		"user_id", userID,
		"bill_id", bill.ID,
		"recurring", bill.IsRecurring,
		"transaction_id", payment.Transaction.ID)
	return payment, nil
}
