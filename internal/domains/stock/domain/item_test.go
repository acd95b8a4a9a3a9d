package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewStockItem_StartsUnset(t *testing.T) {
	item, err := NewStockItem(1)
	require.NoError(t, err)
	require.Nil(t, item.Quantity)
	require.Nil(t, item.MinimumOrderQuantity)
	require.Nil(t, item.OrderAmount)

	_, ok := item.Threshold()
	require.False(t, ok)
	require.Equal(t, 0, item.HeldQuantity())

	_, err = NewStockItem(0)
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestRename_Bounds(t *testing.T) {
	item, _ := NewStockItem(1)
	require.ErrorIs(t, item.Rename("abcd"), ErrInvalidName)
	require.NoError(t, item.Rename("abcde"))
	require.NoError(t, item.Rename(strings.Repeat("x", 100)))
	require.ErrorIs(t, item.Rename(strings.Repeat("x", 101)), ErrInvalidName)
	require.Equal(t, strings.Repeat("x", 100), item.Name)
}

func TestUpdateDescription_Bounds(t *testing.T) {
	item, _ := NewStockItem(1)
	require.NoError(t, item.UpdateDescription(""))
	require.NoError(t, item.UpdateDescription(strings.Repeat("d", 500)))
	require.ErrorIs(t, item.UpdateDescription(strings.Repeat("d", 501)), ErrInvalidDescription)
}

func TestQuantitySetters(t *testing.T) {
	item, _ := NewStockItem(1)
	require.ErrorIs(t, item.SetQuantity(-1), ErrInvalidQuantity)
	require.Nil(t, item.Quantity)
	require.NoError(t, item.SetQuantity(0))
	require.Equal(t, 0, *item.Quantity)

	require.ErrorIs(t, item.SetMinimumOrderQuantity(-1), ErrInvalidMinimumOrderQuantity)
	require.NoError(t, item.SetMinimumOrderQuantity(0))

	require.ErrorIs(t, item.SetOrderAmount(0), ErrInvalidOrderAmount)
	require.NoError(t, item.SetOrderAmount(1))
}

func TestSetPrices(t *testing.T) {
	item, _ := NewStockItem(1)
	require.ErrorIs(t, item.SetPrices(decimal.Zero, decimal.NewFromInt(1)), ErrInvalidPrices)
	require.ErrorIs(t, item.SetPrices(decimal.NewFromInt(2), decimal.NewFromInt(1)), ErrInvalidPrices)
	require.NoError(t, item.SetPrices(decimal.NewFromInt(2), decimal.NewFromInt(2)))
}

func TestSetPrices_Precision(t *testing.T) {
	item, _ := NewStockItem(1)
	require.ErrorIs(t, item.SetPrices(decimal.RequireFromString("1.00005"), decimal.NewFromInt(2)), ErrInvalidPricePrecision)
	require.ErrorIs(t, item.SetPrices(decimal.NewFromInt(1), decimal.RequireFromString("2.12345")), ErrInvalidPricePrecision)
	require.NoError(t, item.SetPrices(decimal.RequireFromString("1.005"), decimal.RequireFromString("2.1234")))
	require.True(t, item.BuyingPrice.Equal(decimal.RequireFromString("1.005")))
}

func TestNeedsRestock(t *testing.T) {
	item, _ := NewStockItem(1)
	require.False(t, item.NeedsRestock())

	require.NoError(t, item.SetQuantity(19))
	require.NoError(t, item.SetMinimumOrderQuantity(20))
	require.True(t, item.NeedsRestock())

	require.NoError(t, item.SetMinimumOrderQuantity(0))
	require.NoError(t, item.SetQuantity(0))
	require.False(t, item.NeedsRestock())
	require.True(t, item.ShouldRetire())
}

func TestSellRestockDiscontinue(t *testing.T) {
	item, _ := NewStockItem(1)
	require.NoError(t, item.SetQuantity(50))
	require.NoError(t, item.SetMinimumOrderQuantity(20))

	item.Sell(31)
	require.Equal(t, 19, item.HeldQuantity())
	require.Equal(t, 31, item.NumTimesSold)

	item.Restock(30)
	require.Equal(t, 49, item.HeldQuantity())
	item.Restock(-5)
	require.Equal(t, 49, item.HeldQuantity())

	item.Discontinue()
	require.True(t, item.Discontinued)
	threshold, ok := item.Threshold()
	require.True(t, ok)
	require.Equal(t, 0, threshold)
}

func TestProfit(t *testing.T) {
	item, _ := NewStockItem(1)
	require.NoError(t, item.SetPrices(decimal.RequireFromString("1.50"), decimal.RequireFromString("1.75")))
	item.NumTimesSold = 20
	require.True(t, item.Profit().Equal(decimal.NewFromInt(5)))
}

func TestClone_DoesNotShareQuantities(t *testing.T) {
	item, _ := NewStockItem(1)
	require.NoError(t, item.SetQuantity(10))
	clone := item.Clone()
	clone.Sell(4)
	require.Equal(t, 10, item.HeldQuantity())
	require.Equal(t, 6, clone.HeldQuantity())
}

func TestValidate(t *testing.T) {
	item, _ := NewStockItem(1)
	require.NoError(t, item.Rename("Widget"))
	require.ErrorIs(t, item.Validate(), ErrIncomplete)

	require.NoError(t, item.SetQuantity(5))
	require.NoError(t, item.SetMinimumOrderQuantity(2))
	require.NoError(t, item.SetOrderAmount(10))
	require.ErrorIs(t, item.Validate(), ErrInvalidPrices)

	require.NoError(t, item.SetPrices(decimal.NewFromInt(1), decimal.NewFromInt(2)))
	require.NoError(t, item.Validate())
}
