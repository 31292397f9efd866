package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sentinel-quant/sentinel/internal/logger"
	"github.com/sentinel-quant/sentinel/internal/tracker"
	"github.com/sentinel-quant/sentinel/internal/types"
	"github.com/sentinel-quant/sentinel/pkg/errors"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram posts Markdown messages to a chat through the Bot API.
type Telegram struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// NewTelegram creates a Telegram notifier for the given bot token and chat.
func NewTelegram(token, chatID string, l *logger.Logger) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  l,
	}
}

func (t *Telegram) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to marshal telegram payload", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "failed to build telegram request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "telegram request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrCodeUnknown, "telegram API returned status %s", resp.Status)
	}

	t.logger.Debug("telegram message sent", zap.Int("length", len(text)))

	return nil
}

func (t *Telegram) SignalAlert(ctx context.Context, sig types.Signal) error {
	return t.send(ctx, FormatSignal(sig))
}

func (t *Telegram) ExitAlert(ctx context.Context, event tracker.ExitEvent) error {
	return t.send(ctx, FormatExit(event))
}

func (t *Telegram) Status(ctx context.Context, text string) error {
	return t.send(ctx, text)
}

var _ Notifier = (*Telegram)(nil)
