package registry

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openBank(t *testing.T, r *Registry, code currency.Code, balance string) *model.Bank {
	t.Helper()
	b, err := r.OpenBank(code, dec(balance))
	require.NoError(t, err)
	return b
}

func budget(t *testing.T, cat model.Category, amount string, code currency.Code, month model.Month, bank *model.Bank) *model.Budget {
	t.Helper()
	b, err := model.NewBudget(cat, dec(amount), code, month, bank)
	require.NoError(t, err)
	return b
}

func TestOpenBank_AssignsSequentialIDs(t *testing.T) {
	r := New()
	sgd := openBank(t, r, currency.SGD, "100")
	jpy := openBank(t, r, currency.JPY, "1000")

	assert.Equal(t, 0, sgd.ID)
	assert.Equal(t, 1, jpy.ID)
	assert.True(t, jpy.ExchangeRate.Equal(dec("0.0085")))
	assert.Len(t, r.Banks(), 2)

	got, err := r.Bank(1)
	require.NoError(t, err)
	assert.Same(t, jpy, got)

	_, err = r.Bank(2)
	assert.ErrorIs(t, err, ErrBankNotFound)

	_, err = r.OpenBank(currency.Code("USD"), dec("1"))
	assert.ErrorIs(t, err, currency.ErrInvalidCurrency)
	assert.Len(t, r.Banks(), 2)
}

func TestAddBank_RenumbersInOrder(t *testing.T) {
	r := New()
	b, err := model.NewBank(7, currency.MYR, dec("5"), decimal.Zero)
	require.NoError(t, err)

	r.AddBank(b)
	assert.Equal(t, 0, b.ID)
}

func TestBanksIn(t *testing.T) {
	r := New()
	openBank(t, r, currency.SGD, "1")
	thb := openBank(t, r, currency.THB, "1")
	openBank(t, r, currency.SGD, "1")

	assert.Len(t, r.BanksIn(currency.SGD), 2)
	assert.Equal(t, []*model.Bank{thb}, r.BanksIn(currency.THB))
	assert.Empty(t, r.BanksIn(currency.VND))
}

func TestAddBudget_RegistersWithBank(t *testing.T) {
	r := New()
	b := openBank(t, r, currency.SGD, "100")
	bgt := budget(t, model.CategoryFood, "200", currency.SGD, model.January, b)

	require.NoError(t, r.AddBudget(bgt))
	assert.Equal(t, []*model.Budget{bgt}, r.Budgets())
	assert.Equal(t, []*model.Budget{bgt}, b.Budgets())
}

func TestAddBudget_LastWriteWins(t *testing.T) {
	r := New()
	b := openBank(t, r, currency.SGD, "100")
	require.NoError(t, r.AddBudget(budget(t, model.CategoryFood, "200", currency.SGD, model.January, b)))
	replacement := budget(t, model.CategoryFood, "350", currency.SGD, model.January, b)
	require.NoError(t, r.AddBudget(replacement))

	assert.Len(t, r.Budgets(), 1)
	assert.Same(t, replacement, r.FindBudget(model.CategoryFood, model.January, b))
	assert.Len(t, b.Budgets(), 1)
}

func TestAddBudget_UnregisteredBank(t *testing.T) {
	r := New()
	stray, err := model.NewBank(0, currency.SGD, dec("1"), decimal.Zero)
	require.NoError(t, err)

	err = r.AddBudget(budget(t, model.CategoryFood, "1", currency.SGD, model.January, stray))
	assert.ErrorIs(t, err, ErrBankNotFound)
	assert.Empty(t, r.Budgets())
}

func TestFindBudget_GlobalVersusBank(t *testing.T) {
	r := New()
	b := openBank(t, r, currency.SGD, "100")
	bankBudget := budget(t, model.CategoryFood, "200", currency.SGD, model.January, b)
	globalBudget := budget(t, model.CategoryFood, "50", currency.SGD, model.January, nil)
	require.NoError(t, r.AddBudget(bankBudget))
	require.NoError(t, r.AddBudget(globalBudget))

	assert.Same(t, bankBudget, r.FindBudget(model.CategoryFood, model.January, b))
	assert.Same(t, globalBudget, r.FindBudget(model.CategoryFood, model.January, nil))
	assert.Nil(t, r.FindBudget(model.CategoryTransport, model.January, b))
	assert.Nil(t, r.FindBudget(model.CategoryFood, model.February, nil))
}

func TestTotalBudget(t *testing.T) {
	r := New()
	sgd := openBank(t, r, currency.SGD, "100")
	jpy := openBank(t, r, currency.JPY, "1000")
	require.NoError(t, r.AddBudget(budget(t, model.CategoryFood, "200", currency.SGD, model.January, sgd)))
	require.NoError(t, r.AddBudget(budget(t, model.CategoryFood, "3000", currency.JPY, model.January, jpy)))
	require.NoError(t, r.AddBudget(budget(t, model.CategoryFood, "99", currency.SGD, model.January, nil)))

	assert.True(t, r.TotalBudget(model.CategoryFood, model.January, sgd).Equal(dec("200")))
	assert.True(t, r.TotalBudget(model.CategoryFood, model.January, jpy).Equal(dec("3000")))
	assert.True(t, r.TotalBudget(model.CategoryFood, model.January, nil).Equal(dec("3200")))
	assert.True(t, r.TotalBudget(model.CategoryFood, model.March, sgd).IsZero())
	assert.True(t, r.TotalBudget(model.CategoryTransport, model.January, nil).IsZero())
}

func TestBudgetsFor(t *testing.T) {
	r := New()
	sgd := openBank(t, r, currency.SGD, "100")
	require.NoError(t, r.AddBudget(budget(t, model.CategoryFood, "1", currency.SGD, model.January, sgd)))
	require.NoError(t, r.AddBudget(budget(t, model.CategoryTransport, "2", currency.SGD, model.January, nil)))
	require.NoError(t, r.AddBudget(budget(t, model.CategoryFood, "3", currency.SGD, model.February, sgd)))

	assert.Len(t, r.BudgetsFor(model.January, nil), 2)
	assert.Len(t, r.BudgetsFor(model.January, sgd), 1)
	assert.Empty(t, r.BudgetsFor(model.March, nil))
}

func TestSession(t *testing.T) {
	r := New()
	openBank(t, r, currency.SGD, "100")
	b := openBank(t, r, currency.JPY, "1000")

	assert.False(t, r.IsLoggedIn())
	assert.Nil(t, r.Current())

	got, err := r.Login(1)
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.True(t, r.IsLoggedIn())

	_, err = r.Login(0)
	assert.ErrorIs(t, err, ErrAlreadyLoggedIn)
	assert.Same(t, b, r.Current())

	assert.True(t, r.Logout())
	assert.False(t, r.Logout())
	assert.True(t, b.Balance().Equal(dec("1000")), "session changes never touch balances")

	_, err = r.Login(5)
	assert.ErrorIs(t, err, ErrBankNotFound)
	assert.False(t, r.IsLoggedIn())
}

func TestTransactionsView(t *testing.T) {
	r := New()
	a := openBank(t, r, currency.SGD, "100")
	b := openBank(t, r, currency.SGD, "100")
	d, err := model.NewDate(1, model.January, 2025)
	require.NoError(t, err)

	post := func(bank *model.Bank, value string) {
		tx, err := model.NewTransaction(dec(value), model.CategoryFood, d, bank.Currency, "")
		require.NoError(t, err)
		require.NoError(t, bank.AddTransaction(tx))
	}
	post(b, "3")
	post(a, "1")
	post(a, "2")

	all := r.Transactions(nil)
	require.Len(t, all, 3)
	assert.Same(t, a, all[0].Bank)
	assert.Equal(t, 0, all[0].Position)
	assert.Equal(t, 1, all[1].Position)
	assert.Same(t, b, all[2].Bank)
	assert.True(t, all[2].Transaction.Value.Equal(dec("3")))

	assert.Len(t, r.Transactions(a), 2)
}
