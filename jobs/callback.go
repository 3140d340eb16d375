// Completion callbacks.

package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	callbackTimeout  = 10 * time.Second
	callbackAttempts = 3
	callbackBackoff  = 2 * time.Second
)

// Notifier delivers terminal job states to callback URLs.
type Notifier struct {
	client *http.Client
}

// NewNotifier creates a notifier with a bounded request timeout.
func NewNotifier() *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: callbackTimeout},
	}
}

// Notify POSTs the job as JSON to its callback URL. Delivery is best effort
// with a small retry budget; failures are logged, never surfaced to the job.
func (n *Notifier) Notify(ctx context.Context, job *Job) {
	log := slog.With("job_id", job.ID, "callback_url", job.Request.CallbackURL)

	payload, err := json.Marshal(job)
	if err != nil {
		log.Error("callback_marshal_failed", "error", err)
		return
	}

	var lastErr error
	for attempt := 0; attempt < callbackAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				log.Warn("callback_abandoned", "error", ctx.Err())
				return
			case <-time.After(callbackBackoff):
			}
		}

		if lastErr = n.post(ctx, job.Request.CallbackURL, payload); lastErr == nil {
			log.Info("callback_delivered", "attempts", attempt+1)
			return
		}
	}
	log.Error("callback_failed", "attempts", callbackAttempts, "error", lastErr)
}

func (n *Notifier) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %s", resp.Status)
	}
	return nil
}
