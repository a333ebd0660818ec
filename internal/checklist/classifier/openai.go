package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/examops/checkbot/internal/checklist/catalog"
	"github.com/examops/checkbot/internal/checklist/domain"
)

// OpenAIConfig configures the OpenAI-backed classifier.
type OpenAIConfig struct {
	ResponsesURL string
	APIKey       string
	Model        string
	HTTPClient   *http.Client
}

type openAIClassifier struct {
	cfg     OpenAIConfig
	catalog *catalog.Catalog
}

// NewOpenAIClassifier builds a classifier over the OpenAI responses endpoint.
func NewOpenAIClassifier(cfg OpenAIConfig, cat *catalog.Catalog) Classifier {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o"
	}
	return &openAIClassifier{cfg: cfg, catalog: cat}
}

type classifierReply struct {
	Action string   `json:"action"`
	Day    int      `json:"day"`
	Items  []string `json:"items"`
	Note   string   `json:"note"`
}

// Classify sends one utterance to the model and parses the strict-JSON reply
// into a Command. Any transport or parse failure is returned as an error; the
// caller folds it into Unrecognized.
func (c *openAIClassifier) Classify(ctx context.Context, text string, activeDay domain.Day) (domain.Command, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Command{Kind: domain.CommandUnrecognized}, nil
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return domain.Command{}, fmt.Errorf("classifier api key is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"input": c.prompt(text, activeDay),
	})
	if err != nil {
		return domain.Command{}, fmt.Errorf("marshal classify request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return domain.Command{}, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return domain.Command{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return domain.Command{}, fmt.Errorf("read classify error body: %w", err)
		}
		return domain.Command{}, fmt.Errorf("classify request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.Command{}, fmt.Errorf("decode classify response: %w", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return domain.Command{}, fmt.Errorf("classify response missing output text")
	}

	return c.parseReply(outputText)
}

func (c *openAIClassifier) parseReply(outputText string) (domain.Command, error) {
	var reply classifierReply
	if err := json.Unmarshal([]byte(stripCodeFence(outputText)), &reply); err != nil {
		return domain.Command{}, fmt.Errorf("parse classifier reply: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(reply.Action)) {
	case "start_day":
		day, err := domain.ParseDay(reply.Day)
		if err != nil {
			return domain.Command{}, fmt.Errorf("classifier reply: %w", err)
		}
		return domain.Command{Kind: domain.CommandStartDay, Day: day}, nil
	case "mark_items":
		keys := make([]string, 0, len(reply.Items))
		for _, item := range reply.Items {
			if key := catalog.NormalizeKey(item); key != "" {
				keys = append(keys, key)
			}
		}
		if len(keys) == 0 {
			return domain.Command{}, fmt.Errorf("classifier reply names no items")
		}
		return domain.Command{Kind: domain.CommandMarkItems, Items: keys, Note: strings.TrimSpace(reply.Note)}, nil
	case "list_missing":
		return domain.Command{Kind: domain.CommandListMissing}, nil
	case "restart":
		return domain.Command{Kind: domain.CommandRestart}, nil
	case "unrecognized":
		return domain.Command{Kind: domain.CommandUnrecognized}, nil
	default:
		return domain.Command{}, fmt.Errorf("classifier reply has unknown action %q", reply.Action)
	}
}

func (c *openAIClassifier) prompt(text string, activeDay domain.Day) string {
	day := activeDay
	if day != domain.Day1 && day != domain.Day2 {
		day = domain.Day1
	}
	keys := strings.Join(c.catalog.Template(day), ", ")

	var b strings.Builder
	b.WriteString("You are a logistics assistant for an exam-material checklist. ")
	b.WriteString("Interpret the worker's message and reply with a single JSON object and nothing else.\n")
	b.WriteString(`Schema: {"action": "start_day" | "mark_items" | "list_missing" | "restart" | "unrecognized", "day": 1 or 2, "items": [keys], "note": "optional observation about the items"}` + "\n")
	b.WriteString("For \"mark_items\" you MUST map every mentioned item onto one of these exact keys: ")
	b.WriteString(keys)
	b.WriteString(".\nExamples:\n")
	b.WriteString("- \"conferi a ata de sala\" -> {\"action\":\"mark_items\",\"items\":[\"ata_sala_dia1\"]}\n")
	b.WriteString("- \"canetas ok, mas veio uma sem tampa\" -> {\"action\":\"mark_items\",\"items\":[\"canetas\"],\"note\":\"veio uma sem tampa\"}\n")
	b.WriteString("- \"iniciar checklist do dia 2\" -> {\"action\":\"start_day\",\"day\":2}\n")
	b.WriteString("- \"o que falta?\" -> {\"action\":\"list_missing\"}\n")
	b.WriteString("- \"vamos recomecar do zero\" -> {\"action\":\"restart\"}\n")
	b.WriteString("- \"bom dia\" -> {\"action\":\"unrecognized\"}\n")
	b.WriteString("Worker message: ")
	b.WriteString(fmt.Sprintf("%q", text))
	return b.String()
}

func stripCodeFence(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "```") {
		return value
	}
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(strings.TrimSpace(value), "```")
	return strings.TrimSpace(value)
}
