package campaign

import (
	"context"
	"time"

	"github.com/reachly/reachly/internal/activitylog"
)

// draft runs the dry-run pipeline: generate content for each eligible contact
// and record a DRAFTED entry, without touching the deliverer. Generation
// calls are strictly sequential; one contact's failure never aborts the
// batch.
func (c *Controller) draft(ctx context.Context, eligible []ContactView, result *RunResult) error {
	for _, v := range eligible {
		if ctx.Err() != nil {
			result.Status = RunCancelled
			c.logger.Info("draft run cancelled", "remaining", len(eligible)-result.Attempted)
			return nil
		}

		d, err := c.generator.Generate(ctx, &v.Contact, c.sender)
		if err == nil && c.drafts != nil {
			if serr := c.drafts.SaveDraft(v.ID, d); serr != nil {
				err = serr
			}
		}
		if err != nil {
			c.logger.Warn("draft failed", "email", v.Email, "error", err)
			entry := &activitylog.Entry{
				Timestamp: time.Now(),
				Email:     v.Email,
				Company:   v.Company,
				Outcome:   activitylog.OutcomeErrored,
				Subject:   activitylog.SubjectNA,
				Error:     err.Error(),
			}
			if aerr := c.append(ctx, entry, result); aerr != nil {
				return aerr
			}
			result.record(ContactResult{
				Email:   v.Email,
				Company: v.Company,
				Outcome: activitylog.OutcomeErrored,
				Error:   err.Error(),
			})
			continue
		}

		entry := &activitylog.Entry{
			Timestamp: time.Now(),
			Email:     v.Email,
			Company:   v.Company,
			Outcome:   activitylog.OutcomeDrafted,
			Subject:   d.Subject,
		}
		if aerr := c.append(ctx, entry, result); aerr != nil {
			return aerr
		}
		result.record(ContactResult{
			Email:   v.Email,
			Company: v.Company,
			Outcome: activitylog.OutcomeDrafted,
			Subject: d.Subject,
			Body:    d.Body,
		})
		c.logger.Info("draft saved", "email", v.Email, "subject", d.Subject)
	}
	return nil
}
