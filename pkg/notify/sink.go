package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrDelivery is returned when the webhook rejects a message.
var ErrDelivery = errors.New("message not delivered")

// DiscordLimit is the maximum content length of one webhook message.
const DiscordLimit = 2000

// Sink delivers a message. Callers log failures and never retry.
type Sink interface {
	Send(ctx context.Context, message string) error
}

// Discord posts messages to a Discord webhook.
type Discord struct {
	client *resty.Client
	url    string
}

func NewDiscord(webhookURL string, timeout time.Duration) *Discord {
	return &Discord{
		client: resty.New().SetTimeout(timeout).SetRetryCount(0),
		url:    webhookURL,
	}
}

// Send posts message, split into chunks that fit the webhook limit. It stops
// at the first rejected chunk.
func (d *Discord) Send(ctx context.Context, message string) error {
	for _, chunk := range Split(message, DiscordLimit) {
		resp, err := d.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]string{"content": chunk}).
			Post(d.url)
		if err != nil {
			return fmt.Errorf("failed to post to webhook: %w", err)
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("%w: status %d: %s", ErrDelivery, resp.StatusCode(), strings.TrimSpace(resp.String()))
		}
	}
	return nil
}

// Writer prints messages instead of sending them (dry runs).
type Writer struct {
	W io.Writer
}

func (w Writer) Send(ctx context.Context, message string) error {
	_, err := fmt.Fprintf(w.W, "%s\n\n", message)
	return err
}

// Discard logs that no sink is configured and drops the message.
type Discard struct {
	Logger *slog.Logger
}

func (d Discard) Send(ctx context.Context, message string) error {
	d.Logger.Warn("No webhook configured; skip posting", "length", len(message))
	return nil
}

// Split breaks message into pieces of at most limit bytes, preferring line
// boundaries. A single line longer than limit is cut at rune boundaries.
func Split(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.Split(message, "\n") {
		for len(line) > limit {
			flush()
			cut := runeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		sep := 0
		if cur.Len() > 0 {
			sep = 1
		}
		if cur.Len()+sep+len(line) > limit {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}

// runeCut returns the largest index <= limit that does not split a rune.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return limit
	}
	return cut
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
