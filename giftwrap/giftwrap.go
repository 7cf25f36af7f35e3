// Package giftwrap classifies and derives the synthetic gift-wrap line items
// attached to a parent line. A gift-wrap line never exists on its own: it is
// removed and re-quantified together with its parent.
package giftwrap

import (
	"github.com/google/uuid"

	"toy-store/models"
)

const DefaultTitle = "Gift wrap"

// IsGiftWrapLine reports whether item is a gift-wrap add-on.
func IsGiftWrapLine(item models.LineItem) bool {
	_, ok := ParentID(item)
	return ok
}

// ParentID returns the parent line id of a gift-wrap line.
func ParentID(item models.LineItem) (string, bool) {
	if item.Metadata == nil {
		return "", false
	}
	flag, ok := item.Metadata[models.MetaGiftWrapLine].(bool)
	if !ok || !flag {
		return "", false
	}
	parent, ok := item.Metadata[models.MetaParentLineID].(string)
	if !ok || parent == "" {
		return "", false
	}
	return parent, true
}

func ChildrenOf(items []models.LineItem, parentID string) []models.LineItem {
	var out []models.LineItem
	for _, item := range items {
		if p, ok := ParentID(item); ok && p == parentID {
			out = append(out, item)
		}
	}
	return out
}

func HasGiftWrap(items []models.LineItem, parentID string) bool {
	return len(ChildrenOf(items, parentID)) > 0
}

// CascadeRemove drops the line with id and every gift-wrap line attached to
// it. Removing a gift-wrap line directly removes only that line.
func CascadeRemove(items []models.LineItem, id string) (kept, removed []models.LineItem) {
	kept = make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			removed = append(removed, item)
			continue
		}
		if p, ok := ParentID(item); ok && p == id {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	return kept, removed
}

// RemovalIDs lists the ids CascadeRemove would drop, parent first.
func RemovalIDs(items []models.LineItem, id string) []string {
	_, removed := CascadeRemove(items, id)
	ids := make([]string, 0, len(removed))
	for _, item := range removed {
		if item.ID == id {
			ids = append([]string{id}, ids...)
			continue
		}
		ids = append(ids, item.ID)
	}
	return ids
}

// CascadeQuantity sets quantity on the parent and its gift-wrap lines.
// It returns the ids that changed.
func CascadeQuantity(items []models.LineItem, parentID string, quantity int) []string {
	var changed []string
	for i := range items {
		if items[i].ID == parentID {
			items[i].Quantity = quantity
			items[i].RecalculateTotal()
			changed = append(changed, items[i].ID)
			continue
		}
		if p, ok := ParentID(items[i]); ok && p == parentID {
			items[i].Quantity = quantity
			items[i].RecalculateTotal()
			changed = append(changed, items[i].ID)
		}
	}
	return changed
}

// DropOrphans removes gift-wrap lines whose parent is not in items, and
// duplicate gift-wrap lines for the same parent beyond the first.
func DropOrphans(items []models.LineItem) (kept, orphans []models.LineItem) {
	parents := make(map[string]bool, len(items))
	for _, item := range items {
		if !IsGiftWrapLine(item) {
			parents[item.ID] = true
		}
	}

	wrapped := make(map[string]bool)
	kept = make([]models.LineItem, 0, len(items))
	for _, item := range items {
		p, ok := ParentID(item)
		if !ok {
			kept = append(kept, item)
			continue
		}
		if !parents[p] || wrapped[p] {
			orphans = append(orphans, item)
			continue
		}
		wrapped[p] = true
		kept = append(kept, item)
	}
	return kept, orphans
}

// NewLine derives the gift-wrap line for parent. The line sells the wrap
// variant, so completing the order takes wrap stock, not parent stock.
func NewLine(parent models.LineItem, wrap models.Variant) models.LineItem {
	title := wrap.DisplayTitle()
	if title == "" {
		title = DefaultTitle
	}
	line := models.LineItem{
		ID:        "li_" + uuid.NewString(),
		CartID:    parent.CartID,
		VariantID: wrap.ID,
		ProductID: wrap.ProductID,
		Title:     title,
		Quantity:  parent.Quantity,
		UnitPrice: wrap.Price,
		Metadata: map[string]any{
			models.MetaGiftWrapLine: true,
			models.MetaParentLineID: parent.ID,
		},
	}
	line.RecalculateTotal()
	return line
}
