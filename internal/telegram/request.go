package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const contentType = "application/json"

// apiResponse is the envelope the Bot API wraps every result in.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// call makes a POST request to a Bot API method and decodes the result into
// target when it is non-nil.
func (c *Client) call(method string, params map[string]any, target any) error {
	return c.callContext(c.ctx, method, params, target)
}

func (c *Client) callContext(ctx context.Context, method string, params map[string]any, target any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.APIURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("make request", zap.String("method", method))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var response apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}

	if !response.OK {
		return fmt.Errorf("%s: bad status: %s: %s", method, resp.Status, response.Description)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(response.Result, target); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}

	return nil
}
