package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultAPIBase = "https://discord.com/api/v10"

// Client is a minimal Discord REST client covering command registration and
// follow-up message edits. Not a gateway connection.
type Client struct {
	AppID   string
	Token   string // bot token
	BaseURL string // overridable for tests
	HTTP    *http.Client
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultAPIBase
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) error {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base()+"/"+endpoint, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.Token)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return fmt.Errorf("discord %s %s: http %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

// InstallGlobalCommands overwrites the application's global command set.
func (c *Client) InstallGlobalCommands(ctx context.Context, cmds []Command) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("applications/%s/commands", c.AppID), cmds)
}

// EditInteractionMessage rewrites a message previously sent for an
// interaction, addressed by the interaction token and message id.
func (c *Client) EditInteractionMessage(ctx context.Context, token, messageID string, data ResponseData) error {
	endpoint := fmt.Sprintf("webhooks/%s/%s/messages/%s", c.AppID, token, messageID)
	return c.do(ctx, http.MethodPatch, endpoint, data)
}
