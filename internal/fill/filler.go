// File: internal/fill/filler.go

// Package fill writes profile values into classified form controls and
// produces the three disjoint outcome sets the review gate presents.
package fill

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/classify"
	"github.com/autoapply/autoapply-cli/internal/page"
)

// Filler runs the classify-then-write pass over a page. It holds no
// per-invocation state; every call to Fill scans the page fresh.
type Filler struct {
	logger *zap.Logger
}

// New creates a Filler. A nil logger falls back to a no-op logger.
func New(logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{logger: logger.Named("filler")}
}

// Fill classifies every form control on the page and writes the mapped
// profile values. Rules, in order, per control:
//
//   - invisible, disabled or read-only controls are not candidates; they are
//     reported only when required and still empty
//   - file-upload roles never receive a value, only a visual flag
//   - unrecognized controls are reported only when required and empty
//   - a pre-existing non-blank value is never overwritten
//   - an empty mapped value is never written
//
// Highlight marks from any previous invocation are cleared before scanning.
func (f *Filler) Fill(ctx context.Context, pg page.Page, values Values) (*schemas.FillReport, error) {
	if err := pg.ResetMarks(ctx); err != nil {
		f.logger.Warn("Failed to reset highlight marks", zap.Error(err))
	}

	controls, err := pg.Controls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan form controls: %w", err)
	}

	report := &schemas.FillReport{}
	for _, c := range controls {
		f.fillOne(ctx, pg, c, values, report)
	}

	f.logger.Info("Fill pass complete",
		zap.Int("filled", len(report.Filled)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("required_unfilled", len(report.RequiredUnfilled)),
	)
	return report, nil
}

func (f *Filler) fillOne(ctx context.Context, pg page.Page, c page.Control, values Values, report *schemas.FillReport) {
	role := classify.Classify(c)
	label := page.Describe(c)

	if !c.Visible || c.Disabled || c.ReadOnly {
		// Not a fill candidate. Track it only when it blocks submission.
		if !c.Required {
			return
		}
		if role == classify.RoleFileUpload {
			if !c.HasFile {
				report.RequiredUnfilled = append(report.RequiredUnfilled, schemas.RequiredField{
					Selector: c.Selector, Role: string(role), Label: label,
					Reason: schemas.ReasonFileAttachment, IsFile: true,
				})
			}
			return
		}
		if strings.TrimSpace(c.Value) == "" {
			report.RequiredUnfilled = append(report.RequiredUnfilled, schemas.RequiredField{
				Selector: c.Selector, Role: string(role), Label: label,
				Reason: schemas.ReasonNotInteractable,
			})
		}
		return
	}

	switch role {
	case classify.RoleFileUpload:
		// Never auto-populate file inputs; flag them for the human instead.
		if c.Required && !c.HasFile {
			report.RequiredUnfilled = append(report.RequiredUnfilled, schemas.RequiredField{
				Selector: c.Selector, Role: string(role), Label: label,
				Reason: schemas.ReasonFileAttachment, IsFile: true,
			})
		} else {
			report.Skipped = append(report.Skipped, schemas.SkippedField{
				Selector: c.Selector, Role: string(role), Label: label,
				Reason: schemas.ReasonFileAttachment,
			})
		}
		if err := pg.Highlight(ctx, c.Selector, page.MarkFile); err != nil {
			f.logger.Debug("Highlight failed", zap.String("selector", c.Selector), zap.Error(err))
		}

	case classify.RoleNone:
		if c.Required && strings.TrimSpace(c.Value) == "" {
			report.RequiredUnfilled = append(report.RequiredUnfilled, schemas.RequiredField{
				Selector: c.Selector, Label: label,
				Reason: schemas.ReasonUnrecognized,
			})
		}

	default:
		if strings.TrimSpace(c.Value) != "" {
			report.Skipped = append(report.Skipped, schemas.SkippedField{
				Selector: c.Selector, Role: string(role), Label: label,
				Reason: schemas.ReasonAlreadyFilled,
			})
			return
		}
		value := values[role]
		if value == "" {
			if c.Required {
				report.RequiredUnfilled = append(report.RequiredUnfilled, schemas.RequiredField{
					Selector: c.Selector, Role: string(role), Label: label,
					Reason: schemas.ReasonNoProfileValue,
				})
			} else {
				report.Skipped = append(report.Skipped, schemas.SkippedField{
					Selector: c.Selector, Role: string(role), Label: label,
					Reason: schemas.ReasonNoProfileValue,
				})
			}
			return
		}
		if err := pg.SetValue(ctx, c.Selector, value); err != nil {
			f.logger.Warn("Failed to write value",
				zap.String("selector", c.Selector), zap.String("role", string(role)), zap.Error(err))
			report.Skipped = append(report.Skipped, schemas.SkippedField{
				Selector: c.Selector, Role: string(role), Label: label,
				Reason: schemas.ReasonNotInteractable,
			})
			return
		}
		report.Filled = append(report.Filled, schemas.FilledField{
			Selector: c.Selector, Role: string(role), Label: label, Value: value,
		})
		if err := pg.Highlight(ctx, c.Selector, page.MarkFilled); err != nil {
			f.logger.Debug("Highlight failed", zap.String("selector", c.Selector), zap.Error(err))
		}
	}
}
