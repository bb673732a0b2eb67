package checkout

import (
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Tender is the amount taken with one payment method.
type Tender struct {
	Method enum.PaymentMethod
	Amount decimal.Decimal
}

// Tenders holds at most one Tender per method, in the order methods were first added.
type Tenders struct {
	entries []Tender
}

// List returns a copy of the tenders.
func (t Tenders) List() []Tender {
	out := make([]Tender, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t Tenders) Len() int {
	return len(t.entries)
}

// Get returns the tender for method.
func (t Tenders) Get(method enum.PaymentMethod) (Tender, bool) {
	if i := t.index(method); i >= 0 {
		return t.entries[i], true
	}
	return Tender{}, false
}

// TotalPaid sums all tenders.
func (t Tenders) TotalPaid() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// Change is what is owed back to the customer; negative means underpayment.
func (t Tenders) Change(total decimal.Decimal) decimal.Decimal {
	return t.TotalPaid().Sub(total)
}

// Add takes a payment. Cash needs an explicit positive amount. Mobile money and
// card always take the outstanding remainder and are a no-op when nothing is owed.
// A second payment with the same method accumulates into the existing tender.
func (t Tenders) Add(method enum.PaymentMethod, amount *decimal.Decimal, total decimal.Decimal) (Tenders, error) {
	var add decimal.Decimal
	switch method {
	case enum.PaymentMethodCash:
		if amount == nil || !amount.IsPositive() {
			return t, invalidPaymentAmount(method)
		}
		add = *amount
	case enum.PaymentMethodMobileMoney, enum.PaymentMethodCard:
		add = total.Sub(t.TotalPaid())
		if !add.IsPositive() {
			return t, nil
		}
	default:
		return t, unknownPaymentMethod(method)
	}

	next := t.clone()
	if i := next.index(method); i >= 0 {
		next.entries[i].Amount = next.entries[i].Amount.Add(add)
		return next, nil
	}
	next.entries = append(next.entries, Tender{Method: method, Amount: add})
	return next, nil
}

// Remove drops the tender for method.
func (t Tenders) Remove(method enum.PaymentMethod) Tenders {
	i := t.index(method)
	if i < 0 {
		return t
	}
	next := Tenders{entries: make([]Tender, 0, len(t.entries)-1)}
	next.entries = append(next.entries, t.entries[:i]...)
	next.entries = append(next.entries, t.entries[i+1:]...)
	return next
}

func (t Tenders) index(method enum.PaymentMethod) int {
	for i, e := range t.entries {
		if e.Method == method {
			return i
		}
	}
	return -1
}

func (t Tenders) clone() Tenders {
	entries := make([]Tender, len(t.entries), len(t.entries)+1)
	copy(entries, t.entries)
	return Tenders{entries: entries}
}
