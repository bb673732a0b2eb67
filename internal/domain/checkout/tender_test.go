package checkout

import (
	"testing"

	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenders_CashAccumulates(t *testing.T) {
	total := dec("90")

	tenders, err := Tenders{}.Add(enum.PaymentMethodCash, decPtr("50"), total)
	require.NoError(t, err)
	tenders, err = tenders.Add(enum.PaymentMethodCash, decPtr("50"), total)
	require.NoError(t, err)

	require.Equal(t, 1, tenders.Len())
	cash, ok := tenders.Get(enum.PaymentMethodCash)
	require.True(t, ok)
	assertDecimal(t, "100", cash.Amount)
	assertDecimal(t, "100", tenders.TotalPaid())
	assertDecimal(t, "10", tenders.Change(total))
}

func TestTenders_ExactCash(t *testing.T) {
	tenders, err := Tenders{}.Add(enum.PaymentMethodCash, decPtr("90"), dec("90"))
	require.NoError(t, err)
	assertDecimal(t, "0", tenders.Change(dec("90")))
}

func TestTenders_CashRequiresPositiveAmount(t *testing.T) {
	for _, amount := range []*decimal.Decimal{nil, decPtr("0"), decPtr("-5")} {
		tenders, err := Tenders{}.Add(enum.PaymentMethodCash, amount, dec("90"))
		require.Error(t, err)
		assert.Equal(t, apperror.KindInvalidPayment, apperror.KindOf(err))
		assert.Equal(t, 0, tenders.Len())
	}
}

func TestTenders_ElectronicTakesRemainder(t *testing.T) {
	total := dec("90")

	tenders, err := Tenders{}.Add(enum.PaymentMethodCash, decPtr("40"), total)
	require.NoError(t, err)
	tenders, err = tenders.Add(enum.PaymentMethodMobileMoney, decPtr("999"), total)
	require.NoError(t, err)

	mobile, ok := tenders.Get(enum.PaymentMethodMobileMoney)
	require.True(t, ok)
	assertDecimal(t, "50", mobile.Amount)
	assertDecimal(t, "0", tenders.Change(total))

	t.Run("no-op once covered", func(t *testing.T) {
		next, err := tenders.Add(enum.PaymentMethodCard, nil, total)
		require.NoError(t, err)
		assert.Equal(t, tenders.List(), next.List())
	})
}

func TestTenders_ElectronicAccumulatesRemainder(t *testing.T) {
	tenders, err := Tenders{}.Add(enum.PaymentMethodCard, nil, dec("60"))
	require.NoError(t, err)

	// total went up after the card was taken
	tenders, err = tenders.Add(enum.PaymentMethodCard, nil, dec("90"))
	require.NoError(t, err)

	require.Equal(t, 1, tenders.Len())
	card, _ := tenders.Get(enum.PaymentMethodCard)
	assertDecimal(t, "90", card.Amount)
}

func TestTenders_RemoveKeepsOrder(t *testing.T) {
	total := dec("300")
	tenders, err := Tenders{}.Add(enum.PaymentMethodCash, decPtr("100"), total)
	require.NoError(t, err)
	tenders, err = tenders.Add(enum.PaymentMethodCard, nil, dec("150"))
	require.NoError(t, err)
	tenders, err = tenders.Add(enum.PaymentMethodMobileMoney, nil, total)
	require.NoError(t, err)

	tenders = tenders.Remove(enum.PaymentMethodCard)

	list := tenders.List()
	require.Len(t, list, 2)
	assert.Equal(t, enum.PaymentMethodCash, list[0].Method)
	assert.Equal(t, enum.PaymentMethodMobileMoney, list[1].Method)
	assertDecimal(t, "-50", tenders.Change(total))
}
