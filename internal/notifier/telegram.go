package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

const defaultTelegramAPI = "https://api.telegram.org"

var photoExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// Telegram sends messages through the Telegram bot API.
type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// TelegramOption customizes a Telegram notifier.
type TelegramOption func(*Telegram)

// WithAPIBase points the notifier at another bot API host.
func WithAPIBase(base string) TelegramOption {
	return func(t *Telegram) {
		t.apiBase = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) TelegramOption {
	return func(t *Telegram) {
		t.client = client
	}
}

// NewTelegram creates a Telegram notifier for one chat.
func NewTelegram(botToken, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultTelegramAPI,
		client:   &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// SendText implements Notifier. A failed send is not retried.
func (t *Telegram) SendText(ctx context.Context, message string) error {
	if err := t.checkConfig(); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationDelivery, "failed to encode telegram message", err)
	}

	return t.post(ctx, "sendMessage", "application/json", bytes.NewReader(body))
}

// SendImage implements Notifier. A failed send is not retried.
func (t *Telegram) SendImage(ctx context.Context, path string) error {
	if err := t.checkConfig(); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeNotificationDelivery, err, "failed to read %s", path)
	}

	method, field := "sendDocument", "document"
	if photoExtensions[strings.ToLower(filepath.Ext(path))] {
		method, field = "sendPhoto", "photo"
	}

	var buf bytes.Buffer

	form := multipart.NewWriter(&buf)

	if err := form.WriteField("chat_id", t.chatID); err != nil {
		return errors.Wrap(errors.ErrCodeNotificationDelivery, "failed to build telegram upload", err)
	}

	part, err := form.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationDelivery, "failed to build telegram upload", err)
	}

	if _, err := part.Write(content); err != nil {
		return errors.Wrap(errors.ErrCodeNotificationDelivery, "failed to build telegram upload", err)
	}

	if err := form.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeNotificationDelivery, "failed to build telegram upload", err)
	}

	return t.post(ctx, method, form.FormDataContentType(), &buf)
}

func (t *Telegram) checkConfig() error {
	if t.botToken == "" || t.chatID == "" {
		return errors.New(errors.ErrCodeNotificationDelivery, "telegram token or chat id is not configured")
	}

	return nil
}

func (t *Telegram) post(ctx context.Context, method, contentType string, body io.Reader) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", t.apiBase, t.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationDelivery, "failed to build telegram request", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		// url.Error carries the request URL, which holds the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return errors.Wrapf(errors.ErrCodeNotificationDelivery, err, "telegram %s failed", method)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return errors.Wrapf(errors.ErrCodeNotificationDelivery,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
			"telegram %s failed", method)
	}

	return nil
}
