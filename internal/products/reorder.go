package products

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitecrm/sitecrm-backend/pkg/db/models"
	pkgerrors "github.com/sitecrm/sitecrm-backend/pkg/errors"
)

const sweepName = "product-reorder"

// Fields that appear only in a form sort after every registry field but
// keep the form's relative order among themselves.
const formOnlyOrderBase = 1 << 20

// SweepError records one product the sweep could not rewrite.
type SweepError struct {
	ProductID uuid.UUID `json:"productId"`
	Reason    string    `json:"reason"`
}

// SweepReport summarizes one run of the reorder sweep.
type SweepReport struct {
	Total   int          `json:"total"`
	Updated int          `json:"updated"`
	Skipped int          `json:"skipped"`
	Errors  []SweepError `json:"errors,omitempty"`
}

// ReorderAllProducts walks every product and rewrites its customData into
// canonical field order. Products without custom values, without a form, or
// whose form no longer resolves are skipped, as are products already in
// order. A failed write is retried once with a reduced payload; a second
// failure is recorded and the sweep moves on.
func (s *service) ReorderAllProducts(ctx context.Context) (*SweepReport, error) {
	started := time.Now()
	report := &SweepReport{}
	var itemErrs error

	registry, _, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	productList, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	report.Total = len(productList)

	formCache := make(map[uuid.UUID]*models.Form)
	for i := range productList {
		product := &productList[i]
		entries := product.CustomData.Data()
		if len(entries) == 0 || product.FormID == nil {
			report.Skipped++
			continue
		}

		form, ok := formCache[*product.FormID]
		if !ok {
			form, err = s.forms.FindByID(ctx, *product.FormID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					report.Skipped++
					continue
				}
				report.Errors = append(report.Errors, SweepError{ProductID: product.ID, Reason: err.Error()})
				itemErrs = multierr.Append(itemErrs, fmt.Errorf("product %s: %w", product.ID, err))
				continue
			}
			formCache[*product.FormID] = form
		}

		sorted := append([]models.FieldValueEntry(nil), entries...)
		sortEntries(sorted, orderIndex(registry, form))
		if sameSequence(entries, sorted) {
			report.Skipped++
			continue
		}

		product.CustomData = datatypes.NewJSONType(sorted)
		if _, err := s.repo.Save(ctx, product); err != nil {
			// retry with just the column that matters
			if retryErr := s.repo.SaveCustomData(ctx, product.ID, product.CustomData); retryErr != nil {
				report.Errors = append(report.Errors, SweepError{ProductID: product.ID, Reason: retryErr.Error()})
				itemErrs = multierr.Append(itemErrs, fmt.Errorf("product %s: %w", product.ID, retryErr))
				continue
			}
		}
		report.Updated++
	}

	s.sweeps.ObserveDuration(sweepName, time.Since(started))
	s.sweeps.AddUpdated(sweepName, report.Updated)
	s.sweeps.AddSkipped(sweepName, report.Skipped)
	s.sweeps.AddErrors(sweepName, len(report.Errors))
	if itemErrs != nil && s.logg != nil {
		s.logg.Error(ctx, "reorder sweep finished with errors", itemErrs)
	}
	return report, nil
}

// orderIndex builds the canonical order per field id: the registry order as
// baseline, overridden per field by the form's order, with form-only fields
// pushed after every registry field.
func orderIndex(registry []models.CustomField, form *models.Form) map[uuid.UUID]int {
	orders := make(map[uuid.UUID]int, len(registry))
	for position, field := range registry {
		orders[field.ID] = position
	}
	if form == nil {
		return orders
	}
	for _, field := range form.Fields.Data() {
		if _, known := orders[field.FieldID]; known {
			orders[field.FieldID] = field.Order
		} else {
			orders[field.FieldID] = formOnlyOrderBase + field.Order
		}
	}
	return orders
}

// sortEntries orders the entries by the order index. Fields absent from the
// index sort last and keep their relative order.
func sortEntries(entries []models.FieldValueEntry, orders map[uuid.UUID]int) {
	sort.SliceStable(entries, func(i, j int) bool {
		oi, iKnown := orders[entries[i].FieldID]
		oj, jKnown := orders[entries[j].FieldID]
		if !iKnown && !jKnown {
			return false
		}
		if !iKnown {
			return false
		}
		if !jKnown {
			return true
		}
		return oi < oj
	})
}

func sameSequence(a, b []models.FieldValueEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].FieldID != b[i].FieldID {
			return false
		}
	}
	return true
}
