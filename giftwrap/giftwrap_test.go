package giftwrap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toy-store/models"
)

func item(id string, qty int) models.LineItem {
	l := models.LineItem{ID: id, Quantity: qty, UnitPrice: decimal.NewFromInt(10)}
	l.RecalculateTotal()
	return l
}

func wrap(id, parent string, qty int) models.LineItem {
	l := item(id, qty)
	l.UnitPrice = decimal.NewFromInt(2)
	l.Metadata = map[string]any{models.MetaGiftWrapLine: true, models.MetaParentLineID: parent}
	l.RecalculateTotal()
	return l
}

func TestIsGiftWrapLine(t *testing.T) {
	assert.True(t, IsGiftWrapLine(wrap("w", "p", 1)))
	assert.False(t, IsGiftWrapLine(item("p", 1)))

	notFlagged := item("x", 1)
	notFlagged.Metadata = map[string]any{models.MetaGiftWrapLine: false, models.MetaParentLineID: "p"}
	assert.False(t, IsGiftWrapLine(notFlagged))

	noParent := item("x", 1)
	noParent.Metadata = map[string]any{models.MetaGiftWrapLine: true}
	assert.False(t, IsGiftWrapLine(noParent))

	numericParent := item("x", 1)
	numericParent.Metadata = map[string]any{models.MetaGiftWrapLine: true, models.MetaParentLineID: 12}
	assert.False(t, IsGiftWrapLine(numericParent))
}

func TestCascadeRemove_ParentTakesWrap(t *testing.T) {
	items := []models.LineItem{item("p", 1), wrap("w", "p", 1)}

	kept, removed := CascadeRemove(items, "p")
	assert.Empty(t, kept)
	assert.Len(t, removed, 2)
	assert.Equal(t, []string{"p", "w"}, RemovalIDs(items, "p"))
}

func TestCascadeRemove_WrapAlone(t *testing.T) {
	items := []models.LineItem{item("p", 1), wrap("w", "p", 1), item("q", 2)}

	kept, removed := CascadeRemove(items, "w")
	require.Len(t, removed, 1)
	assert.Equal(t, "w", removed[0].ID)
	assert.Len(t, kept, 2)
}

func TestCascadeRemove_Unknown(t *testing.T) {
	items := []models.LineItem{item("p", 1)}
	kept, removed := CascadeRemove(items, "missing")
	assert.Len(t, kept, 1)
	assert.Empty(t, removed)
}

func TestCascadeQuantity(t *testing.T) {
	items := []models.LineItem{item("p", 1), wrap("w", "p", 1), item("q", 1)}

	changed := CascadeQuantity(items, "p", 3)
	assert.ElementsMatch(t, []string{"p", "w"}, changed)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)
	assert.True(t, decimal.NewFromInt(6).Equal(items[1].Total))
	assert.Equal(t, 1, items[2].Quantity)
}

func TestDropOrphans(t *testing.T) {
	items := []models.LineItem{
		item("p", 1),
		wrap("w1", "p", 1),
		wrap("w2", "p", 1),
		wrap("w3", "gone", 1),
	}

	kept, orphans := DropOrphans(items)
	assert.Len(t, kept, 2)
	assert.Equal(t, "p", kept[0].ID)
	assert.Equal(t, "w1", kept[1].ID)
	assert.Len(t, orphans, 2)

	for _, k := range kept {
		if p, ok := ParentID(k); ok {
			assert.Len(t, ChildrenOf(kept, p), 1)
		}
	}
}

func TestNewLine(t *testing.T) {
	parent := item("p", 2)
	parent.CartID = "cart_1"

	parent.VariantID = "var_robot"
	parent.ProductID = "prod_robot"
	paper := models.Variant{ID: "var_gift_wrap", ProductID: "prod_gift_wrap", Price: decimal.RequireFromString("3.50")}

	line := NewLine(parent, paper)
	p, ok := ParentID(line)
	require.True(t, ok)
	assert.Equal(t, "p", p)
	assert.Equal(t, "cart_1", line.CartID)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, DefaultTitle, line.Title)
	assert.Equal(t, "var_gift_wrap", line.VariantID)
	assert.Equal(t, "prod_gift_wrap", line.ProductID)
	assert.True(t, decimal.NewFromInt(7).Equal(line.Total))
	assert.True(t, HasGiftWrap([]models.LineItem{parent, line}, "p"))
}
