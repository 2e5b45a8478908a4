package portal

import (
	"context"
	"strings"
)

// ItemResult is one item search hit
type ItemResult struct {
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`
	StockUOM string `json:"stock_uom"`
}

// SearchItems returns up to ten enabled items whose code or name contains text
func (s *Service) SearchItems(ctx context.Context, text string) ([]ItemResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validation("Search text is required")
	}

	rows, err := s.store.SearchItems(ctx, text, searchLimit)
	if err != nil {
		return nil, unexpected(err)
	}

	out := make([]ItemResult, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, item := range rows {
		code := item.ItemCode.String()
		if item.Disabled != 0 || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, ItemResult{
			ItemCode: code,
			ItemName: item.ItemName.String(),
			StockUOM: item.StockUOM.String(),
		})
	}
	return out, nil
}
