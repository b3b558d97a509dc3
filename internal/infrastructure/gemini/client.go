package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-1.5-flash"

// BiographyPrompt is what the model knows about the person.
type BiographyPrompt struct {
	Name             string
	Parish           string
	FavCuisine       string
	FavColour        string
	FavSchoolSubject string
	Traits           []string
	Count            int
}

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.8)
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateBiographies asks the model for p.Count short dating-profile
// biographies written in the first person.
func (c *GeminiClient) GenerateBiographies(ctx context.Context, p BiographyPrompt) ([]string, error) {
	prompt := fmt.Sprintf(`
		Write %d distinct short biographies (2-3 sentences each) for a Jamaican dating profile.
		Name: %s
		Parish: %s
		Favourite cuisine: %s
		Favourite colour: %s
		Favourite school subject: %s
		Traits: %s

		Write in the first person, warm and light. Do not invent facts beyond the ones given.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, p.Count, p.Name, p.Parish, p.FavCuisine, p.FavColour, p.FavSchoolSubject, strings.Join(p.Traits, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return parseList(sb.String())
}

// parseList reads a JSON array of strings, tolerating markdown fences and
// falling back to one entry per non-empty line.
func parseList(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var items []string
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasPrefix(line, "]") {
				items = append(items, line)
			}
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("failed to parse biographies: %w", err)
		}
	}
	return items, nil
}
