package openai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// Classifier implements port.AdvisoryClassifier using OpenAI
type Classifier struct {
	client      *openai.Client
	model       string
	temperature float32
	maxDays     int
	logger      *zap.Logger
}

// NewClassifier creates a new OpenAI advisory classifier
func NewClassifier(apiKey, model string, temperature float32, maxDays int, logger *zap.Logger) *Classifier {
	return &Classifier{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxDays:     maxDays,
		logger:      logger,
	}
}

// Classify produces approval-form suggestions for a damage report. The output
// only pre-fills the admin form; submitted values are validated again by the
// report service.
func (c *Classifier) Classify(ctx context.Context, report *entity.Report, asset *entity.Asset) (*port.ApprovalAdvice, error) {
	c.logger.Debug("Classifying report",
		zap.Int64("report_id", report.ID),
		zap.String("report_type", report.Type))

	prompt := c.buildPrompt(report, asset)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a facility maintenance planner for a university campus. Given a damage or loss report, propose an audit subject, a completion deadline in days, and a priority. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var advice port.ApprovalAdvice
	if err := json.Unmarshal([]byte(content), &advice); err != nil {
		// Fallback: try to extract JSON from markdown code blocks
		if jsonStr := extractJSON(content); jsonStr != "" {
			if err := json.Unmarshal([]byte(jsonStr), &advice); err == nil {
				c.logger.Info("Extracted JSON from response")
				return c.clamp(&advice), nil
			}
		}

		c.logger.Error("Failed to parse OpenAI response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.Info("Report classified",
		zap.Int64("report_id", report.ID),
		zap.String("priority", advice.Priority),
		zap.Int("suggested_days", advice.SuggestedDays))

	return c.clamp(&advice), nil
}

// clamp keeps the suggested deadline inside the range the approval form accepts
func (c *Classifier) clamp(advice *port.ApprovalAdvice) *port.ApprovalAdvice {
	if advice.SuggestedDays < 1 {
		advice.SuggestedDays = 1
	}
	if c.maxDays > 0 && advice.SuggestedDays > c.maxDays {
		advice.SuggestedDays = c.maxDays
	}
	return advice
}

func (c *Classifier) buildPrompt(report *entity.Report, asset *entity.Asset) string {
	assetInfo := "Unknown asset"
	if asset != nil {
		location := "outdoor"
		if asset.Indoor() {
			location = "indoor"
		}
		assetInfo = fmt.Sprintf("Name: %s, Placement: %s", asset.Name, location)
	}

	return fmt.Sprintf(`Propose an audit plan for this facility report:

**Report:**
- Type: %s
- Description: %s

**Asset:**
%s

Please respond with ONLY a valid JSON object (no markdown, no explanation). The JSON must have this exact structure:
{
  "suggested_subject": string of 5 to 200 characters summarizing the inspection task,
  "suggested_days": integer number of days until the audit deadline,
  "priority": one of "LOW", "MEDIUM", "HIGH",
  "reasoning": string explaining your assessment
}

Base the deadline on the severity implied by the description. Safety hazards and water or electrical damage are HIGH priority with short deadlines.`,
		report.Type,
		report.Description,
		assetInfo,
	)
}

// extractJSON extracts JSON from markdown code blocks
func extractJSON(content string) string {
	start := findJSONStart(content)
	if start < 0 {
		return ""
	}
	end := findJSONEnd(content, start)
	if end <= start {
		return ""
	}
	return content[start:end]
}

func findJSONStart(content string) int {
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			return i
		}
	}
	return -1
}

func findJSONEnd(content string, start int) int {
	if start < 0 || start >= len(content) || content[start] != '{' {
		return -1
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(content); i++ {
		char := content[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		if char == '\\' {
			escapeNext = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if char == '{' {
			braceCount++
		} else if char == '}' {
			braceCount--
			if braceCount == 0 {
				return i + 1
			}
		}
	}

	return -1
}

// Verify interface compliance
var _ port.AdvisoryClassifier = (*Classifier)(nil)
