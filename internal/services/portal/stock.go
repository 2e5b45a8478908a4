package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xelth-com/eckmobile/internal/models"
)

// StockEntrySummary is a stock movement in the external naming
type StockEntrySummary struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Status      string `json:"status"`
	Created     string `json:"created"`
}

// StockLine is one line of a stock movement
type StockLine struct {
	ItemCode    string  `json:"item_code"`
	ItemName    string  `json:"item_name"`
	Qty         float64 `json:"qty"`
	UOM         string  `json:"uom"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
}

// StockEntryDetail is returned by GetStockEntry
type StockEntryDetail struct {
	StockEntrySummary
	Docstatus int         `json:"docstatus"`
	Items     []StockLine `json:"items"`
}

// StockEntryList is returned by ListStockEntries
type StockEntryList struct {
	StockEntries []StockEntrySummary `json:"stock_entries"`
}

// LineInput is one line sent to UpsertStockEntry
type LineInput struct {
	ItemCode   models.Text  `json:"item_code" validate:"required"`
	Qty        models.Float `json:"qty" validate:"gte=0"`
	SWarehouse models.Text  `json:"s_warehouse"`
	TWarehouse models.Text  `json:"t_warehouse"`
}

// UpsertRequest carries the parameters of UpsertStockEntry. Items is the JSON-encoded line list.
type UpsertRequest struct {
	Name    string
	Token   string
	Items   string
	Approve bool
}

// UpsertResult is returned by UpsertStockEntry
type UpsertResult struct {
	Message      string `json:"message"`
	Name         string `json:"name"`
	Docstatus    int    `json:"docstatus"`
	ItemsUpdated int    `json:"items_updated"`
	ItemsAdded   int    `json:"items_added"`
}

// ListStockEntries returns the most recent submitted stock movements
func (s *Service) ListStockEntries(ctx context.Context, limit int) (*StockEntryList, error) {
	if limit <= 0 {
		limit = defaultStockEntryLimit
	}

	rows, err := s.store.ListStockEntries(ctx, limit)
	if err != nil {
		return nil, unexpected(err)
	}

	out := &StockEntryList{StockEntries: make([]StockEntrySummary, 0, len(rows))}
	for _, e := range rows {
		out.StockEntries = append(out.StockEntries, summarizeStockEntry(e))
	}
	return out, nil
}

func summarizeStockEntry(e models.StockEntry) StockEntrySummary {
	return StockEntrySummary{
		ID:          e.Name,
		Date:        e.PostingDate.String(),
		Type:        e.StockEntryType.String(),
		Source:      e.FromWarehouse.String(),
		Destination: e.ToWarehouse.String(),
		Status:      e.DisplayStatus(),
		Created:     e.Creation.String(),
	}
}

// GetStockEntry returns a non-cancelled stock movement with its lines
func (s *Service) GetStockEntry(ctx context.Context, name string) (detail *StockEntryDetail, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("stock_entry", name).Errorf("panic reading stock entry: %v", r)
			detail, err = nil, recovered(r)
		}
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("Stock Entry name is required")
	}

	entry, err := s.loadStockEntry(ctx, name)
	if err != nil {
		return nil, err
	}
	if entry.Docstatus == models.DocstatusCancelled {
		return nil, validation("Stock Entry is cancelled")
	}

	detail = &StockEntryDetail{
		StockEntrySummary: summarizeStockEntry(*entry),
		Docstatus:         entry.Docstatus,
		Items:             make([]StockLine, 0, len(entry.Items)),
	}
	for _, line := range entry.Items {
		detail.Items = append(detail.Items, StockLine{
			ItemCode:    line.ItemCode.String(),
			ItemName:    line.ItemName.String(),
			Qty:         line.Qty.Float64(),
			UOM:         line.UOM.String(),
			Source:      line.SWarehouse.String(),
			Destination: line.TWarehouse.String(),
		})
	}
	return detail, nil
}

// UpsertStockEntry merges lines into a draft stock movement, saves it and optionally submits it.
// A line whose item code is already on the document is updated in place; any other is appended.
func (s *Service) UpsertStockEntry(ctx context.Context, req UpsertRequest) (result *UpsertResult, err error) {
	log := s.log.WithField("stock_entry", req.Name)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic updating stock entry: %v", r)
			result, err = nil, recovered(r)
		}
	}()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("Stock Entry name is required")
	}

	if s.opts.VerifyToken != nil {
		if err := s.opts.VerifyToken(req.Token); err != nil {
			log.WithError(err).Warn("stock token rejected")
			return nil, authFailure("Invalid or expired token", err)
		}
	}

	lines, perr := s.parseLines(req.Items)
	if perr != nil {
		return nil, perr
	}

	entry, err := s.loadStockEntry(ctx, name)
	if err != nil {
		return nil, err
	}
	if entry.Docstatus != models.DocstatusDraft {
		return nil, validation("Stock Entry is not in draft state")
	}

	updated, added := mergeLines(entry, lines)

	if err := s.store.SaveStockEntry(ctx, entry); err != nil {
		return nil, writeFailure(err)
	}

	result = &UpsertResult{
		Message:      "Stock Entry updated",
		Name:         name,
		Docstatus:    entry.Docstatus,
		ItemsUpdated: updated,
		ItemsAdded:   added,
	}

	if req.Approve {
		if err := s.store.SubmitStockEntry(ctx, name); err != nil {
			return nil, writeFailure(err)
		}
		result.Message = "Stock Entry updated and submitted"
		result.Docstatus = models.DocstatusSubmitted
	}

	log.WithFields(logrus.Fields{
		"items_updated": updated,
		"items_added":   added,
		"approved":      req.Approve,
	}).Info("stock entry updated")
	return result, nil
}

// parseLines decodes and validates the JSON line list. An empty string is an empty list.
func (s *Service) parseLines(raw string) ([]LineInput, *Error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var lines []LineInput
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "Items must be a JSON list", Err: err}
	}
	for i := range lines {
		if err := s.validate.Struct(&lines[i]); err != nil {
			return nil, &Error{
				Kind:    KindValidation,
				Message: fmt.Sprintf("Invalid item at row %d: %s", i+1, describeValidation(err)),
				Err:     err,
			}
		}
	}
	return lines, nil
}

// mergeLines applies the input lines to the document and reports how many lines were
// updated and appended. Empty locations keep the value already on the line.
func mergeLines(entry *models.StockEntry, lines []LineInput) (updated, added int) {
	byCode := make(map[string]int, len(entry.Items))
	for i, line := range entry.Items {
		code := line.ItemCode.String()
		if _, dup := byCode[code]; !dup {
			byCode[code] = i
		}
	}

	for _, in := range lines {
		code := in.ItemCode.String()
		if i, ok := byCode[code]; ok {
			line := &entry.Items[i]
			line.Qty = in.Qty
			if in.SWarehouse != "" {
				line.SWarehouse = in.SWarehouse
			}
			if in.TWarehouse != "" {
				line.TWarehouse = in.TWarehouse
			}
			updated++
			continue
		}

		entry.Items = append(entry.Items, models.StockEntryDetail{
			ItemCode:   in.ItemCode,
			Qty:        in.Qty,
			SWarehouse: in.SWarehouse,
			TWarehouse: in.TWarehouse,
		})
		byCode[code] = len(entry.Items) - 1
		added++
	}
	return updated, added
}

func (s *Service) loadStockEntry(ctx context.Context, name string) (*models.StockEntry, error) {
	entry, err := s.store.GetStockEntry(ctx, name)
	if errors.Is(err, models.ErrNotFound) {
		return nil, notFound("Stock Entry not found", err)
	}
	if err != nil {
		return nil, unexpected(err)
	}
	return entry, nil
}

func writeFailure(err error) *Error {
	if errors.Is(err, models.ErrNotDraft) {
		return &Error{Kind: KindValidation, Message: "Stock Entry is not in draft state", Err: err}
	}
	if errors.Is(err, models.ErrNotFound) {
		return notFound("Stock Entry not found", err)
	}
	return unexpected(err)
}
