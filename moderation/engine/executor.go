package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Turns a decided action in to an external effect (block list update,
// protocol publication, ...). The engine dispatches fire-and-forget:
// execution errors are logged and never block evaluation of the next event.
type Executor interface {
	Execute(ctx context.Context, action ModerationAction) error
}

type NoopExecutor struct{}

func (NoopExecutor) Execute(ctx context.Context, action ModerationAction) error {
	return nil
}

// Posts each decided action as JSON to a webhook, for deployments where a
// separate service owns enforcement.
type WebhookExecutor struct {
	URL    string
	Client *http.Client
}

func (w *WebhookExecutor) Execute(ctx context.Context, action ModerationAction) error {
	body, err := json.Marshal(action)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("action webhook POST failed. status=%d", resp.StatusCode)
	}
	return nil
}
