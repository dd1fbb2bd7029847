package campaign

import (
	"context"
	"time"

	"github.com/reachly/reachly/internal/activitylog"
)

// dispatch runs the send pipeline. Contacts are processed strictly
// sequentially with a randomized delay between consecutive attempts: the
// provider enforces human-cadence sending, so parallelism is never an option
// here. Cancellation is cooperative and checked only at contact boundaries;
// entries already written stay written.
func (c *Controller) dispatch(ctx context.Context, eligible []ContactView, req RunRequest, result *RunResult) error {
	min, max := req.MinDelay, req.MaxDelay
	if min <= 0 {
		min = DefaultMinDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}

	for i, v := range eligible {
		if ctx.Err() != nil {
			result.Status = RunCancelled
			c.logger.Info("dispatch cancelled", "completed", result.Attempted, "remaining", len(eligible)-i)
			return nil
		}

		subject, body, err := c.content(ctx, &v)
		if err == nil {
			err = c.deliverer.Deliver(ctx, v.Email, subject, body)
		}

		if err != nil {
			c.logger.Warn("send failed", "email", v.Email, "error", err)
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
		} else {
			entry := &activitylog.Entry{
				Timestamp: time.Now(),
				Email:     v.Email,
				Company:   v.Company,
				Outcome:   activitylog.OutcomeSent,
				Subject:   subject,
			}
			if aerr := c.append(ctx, entry, result); aerr != nil {
				return aerr
			}
			result.record(ContactResult{
				Email:   v.Email,
				Company: v.Company,
				Outcome: activitylog.OutcomeSent,
				Subject: subject,
			})
			c.logger.Info("sent", "email", v.Email, "subject", subject)
		}

		// Pace before the next contact, never after the last one.
		if i < len(eligible)-1 {
			if err := c.pacer.Pace(ctx, min, max); err != nil {
				result.Status = RunCancelled
				c.logger.Info("dispatch cancelled during pacing", "completed", result.Attempted)
				return nil
			}
		}
	}
	return nil
}

// content resolves what to send: a draft stored by a previous dry run when
// one exists, otherwise freshly generated content.
func (c *Controller) content(ctx context.Context, v *ContactView) (subject, body string, err error) {
	if v.DraftSubject != "" && v.DraftBody != "" {
		return v.DraftSubject, v.DraftBody, nil
	}
	d, err := c.generator.Generate(ctx, &v.Contact, c.sender)
	if err != nil {
		return "", "", err
	}
	return d.Subject, d.Body, nil
}
