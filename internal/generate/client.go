package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reachly/reachly/internal/campaign"
)

const defaultModel = "gpt-4o"

// Client talks to an OpenAI-compatible chat completions endpoint and turns
// contact attributes plus the sender profile into a subject/body draft. One
// request per contact per attempt; the client never retries.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a generation client. An empty model selects the default.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = defaultModel
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate produces a personalized draft for the contact.
func (c *Client) Generate(ctx context.Context, contact *campaign.Contact, sender campaign.SenderProfile) (*campaign.Draft, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You return ONLY valid JSON objects."},
			{Role: "user", Content: buildPrompt(contact, sender)},
		},
		Temperature: 0.7,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if chatResp.Error != nil {
			return nil, fmt.Errorf("generation API error: %s", chatResp.Error.Message)
		}
		return nil, fmt.Errorf("generation API error: HTTP %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("generation returned no choices")
	}

	content := stripCodeFence(chatResp.Choices[0].Message.Content)

	var draft campaign.Draft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("generation returned invalid JSON: %w", err)
	}

	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.Body = strings.TrimSpace(draft.Body)
	if draft.Subject == "" || draft.Body == "" {
		return nil, fmt.Errorf("generation returned empty content")
	}
	return &draft, nil
}

// stripCodeFence removes a surrounding markdown code fence, which models emit
// despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func buildPrompt(contact *campaign.Contact, sender campaign.SenderProfile) string {
	firstName := strings.TrimSpace(contact.FirstName)
	if firstName == "" {
		firstName = "there"
	}
	company := strings.TrimSpace(contact.Company)
	if company == "" {
		company = "your company"
	}
	title := strings.TrimSpace(contact.JobTitle)
	if title == "" {
		title = "your role"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert career coach helping with professional networking outreach.\n\n")
	fmt.Fprintf(&b, "THE SENDER:\nName: %s\n", sender.Name)
	if sender.Role != "" {
		fmt.Fprintf(&b, "Role: %s", sender.Role)
		if sender.Organization != "" {
			fmt.Fprintf(&b, " at %s", sender.Organization)
		}
		b.WriteString("\n")
	}
	if sender.Pitch != "" {
		fmt.Fprintf(&b, "Background: %s\n", sender.Pitch)
	}
	if sender.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", sender.Goal)
	}

	fmt.Fprintf(&b, "\nTHE RECIPIENT:\nJob Title: %s\nCompany: %s\n", title, company)
	if contact.City != "" || contact.State != "" {
		fmt.Fprintf(&b, "Location: %s\n", strings.TrimSpace(strings.Trim(contact.City+", "+contact.State, ", ")))
	}

	fmt.Fprintf(&b, "\nTASK:\nWrite a short networking email (max 125 words) from the sender to the recipient. ")
	fmt.Fprintf(&b, "Pick the single most relevant connection between the sender's background and the recipient's role at %s.\n\n", company)
	fmt.Fprintf(&b, "Return ONLY valid JSON:\n{\n  \"subject\": \"Brief subject line\",\n  \"body\": \"The email body starting with 'Hi %s,'\"\n}\n", firstName)
	return b.String()
}
