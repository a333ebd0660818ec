package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EvolutionConfig configures the Evolution API message sender.
type EvolutionConfig struct {
	BaseURL    string
	APIKey     string
	Instance   string
	HTTPClient *http.Client
}

type evolutionNotifier struct {
	cfg EvolutionConfig
}

// NewEvolutionNotifier builds a Notifier that posts replies through the
// Evolution API sendText endpoint.
func NewEvolutionNotifier(cfg EvolutionConfig) Notifier {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &evolutionNotifier{cfg: cfg}
}

func (n *evolutionNotifier) Send(ctx context.Context, sessionID, text string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text is required")
	}

	body, err := json.Marshal(map[string]string{
		"number": sessionID,
		"text":   text,
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/message/sendText/%s", strings.TrimSuffix(n.cfg.BaseURL, "/"), n.cfg.Instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", n.cfg.APIKey)

	res, err := n.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return fmt.Errorf("read send error body: %w", err)
		}
		return fmt.Errorf("send message status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
