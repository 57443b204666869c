// Package openai suggests listing prices with the OpenAI Responses API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"reuseu/internal/domain/service"
	"reuseu/pkg/errors"
)

const instructions = "Do not restate the prompt, just provide the price range for the item with no dollar signs in this format: <lower price>-<upper price>"

var priceRange = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
	model   string
}

func NewClient(baseURL, apiKey, model string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 20 * time.Second
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type responsesRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
	Input        string `json:"input"`
}

type responsesReply struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Suggest(ctx context.Context, q service.PriceQuery) (service.PriceRange, error) {
	body, err := json.Marshal(responsesRequest{
		Model:        c.model,
		Instructions: instructions,
		Input:        Prompt(q),
	})
	if err != nil {
		return service.PriceRange{}, errors.Upstream("Failed to encode price request", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+"/responses", body)
	if err != nil {
		return service.PriceRange{}, errors.Upstream("Failed to build price request", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return service.PriceRange{}, errors.Upstream("Price service unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return service.PriceRange{}, errors.Upstream("Failed to read price response", err)
	}
	var reply responsesReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return service.PriceRange{}, errors.Upstream("Price service returned malformed JSON", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		detail := resp.Status
		if reply.Error != nil && reply.Error.Message != "" {
			detail = reply.Error.Message
		}
		return service.PriceRange{}, errors.Upstream("Price service rejected the request", fmt.Errorf("%s", detail))
	}

	return ParseRange(reply.text())
}

func (r *responsesReply) text() string {
	var sb strings.Builder
	for _, o := range r.Output {
		for _, part := range o.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}

// Prompt renders the question sent to the model.
func Prompt(q service.PriceQuery) string {
	description := q.Description
	if strings.TrimSpace(description) == "" {
		description = "no description provided"
	}
	return fmt.Sprintf("Give me a good general price for %s, in the %s category(s), described as %s",
		q.Name, strings.Join(q.Categories, ", "), description)
}

// ParseRange extracts "<low>-<high>" from model output. The bounds come
// back ordered.
func ParseRange(text string) (service.PriceRange, error) {
	m := priceRange.FindStringSubmatch(text)
	if m == nil {
		return service.PriceRange{}, errors.Upstream("Could not parse price range", fmt.Errorf("model said %q", text))
	}
	low, err1 := strconv.ParseInt(m[1], 10, 64)
	high, err2 := strconv.ParseInt(m[2], 10, 64)
	if err1 != nil || err2 != nil {
		return service.PriceRange{}, errors.Upstream("Could not parse price range", fmt.Errorf("model said %q", text))
	}
	if low > high {
		low, high = high, low
	}
	return service.PriceRange{Min: low, Max: high}, nil
}
