package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imagequest/internal/models"
)

const (
	requestTimeout = 60 * time.Second

	editModel = "gpt-image-1"
	chatModel = "gpt-4o-mini"
)

// Client talks to the image-edit and question-generation endpoints of an
// OpenAI-compatible API. Callers supply the API key per request; the server
// never stores one.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type imageEditResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// EditImage submits the base image with one prompt and returns the URL of
// the derived image.
func (c *Client) EditImage(ctx context.Context, apiKey, imagePath, prompt string) (string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open base image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read base image: %w", err)
	}
	if err := writer.WriteField("model", editModel); err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if err := writer.WriteField("prompt", prompt); err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+apiKey)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed imageEditResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse edit response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", fmt.Errorf("edit response carried no image URL")
	}
	return parsed.Data[0].URL, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateQuestions asks the model for a quiz on the given topic and parses
// its reply into questions. One difficulty (1-5) is given per question; a
// short difficulties list is cycled over the requested count.
func (c *Client) GenerateQuestions(ctx context.Context, apiKey, topic string, difficulties []int, count int) ([]models.Question, error) {
	prompt := buildQuestionPrompt(topic, difficulties, count)

	reqJSON, err := json.Marshal(chatRequest{
		Model:    chatModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no choices in API response")
	}

	return parseQuestionPayload(parsed.Choices[0].Message.Content)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed after %v: %w", time.Since(start), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	log.Printf("AI request %s completed in %v", req.URL.Path, time.Since(start))
	return body, nil
}

func buildQuestionPrompt(topic string, difficulties []int, count int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d multiple-choice trivia questions about %q.\n", count, topic)
	sb.WriteString("Difficulty per question on a 1-5 scale, in order: ")
	for i := 0; i < count; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		d := 3
		if len(difficulties) > 0 {
			d = difficulties[i%len(difficulties)]
		}
		fmt.Fprintf(&sb, "%d", d)
	}
	sb.WriteString(".\n")
	sb.WriteString(`Reply with only a JSON array; each element must be {"id": <number>, "question": <string>, "options": [<4 strings>], "answer": <one of the options>}.`)
	return sb.String()
}

// parseQuestionPayload extracts the JSON array from the model's reply.
// Models often wrap JSON in a markdown fence, so the payload is cut down to
// the outermost brackets before decoding.
func parseQuestionPayload(content string) ([]models.Question, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("model reply carried no JSON array")
	}

	var qs []models.Question
	if err := json.Unmarshal([]byte(content[start:end+1]), &qs); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	for i := range qs {
		qs[i].ID = i + 1
	}
	return qs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
