package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/gemini"
	"github.com/jamdate/jamdate-backend/internal/validation"
)

const suggestionCount = 3

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// BiographyGenerator produces biography drafts from a prompt.
type BiographyGenerator interface {
	GenerateBiographies(ctx context.Context, p gemini.BiographyPrompt) ([]string, error)
}

type BiographyRequest struct {
	Name             string `json:"name" binding:"max=100"`
	Parish           string `json:"parish" binding:"max=100"`
	FavCuisine       string `json:"fav_cuisine" binding:"max=100"`
	FavColour        string `json:"fav_colour" binding:"max=50"`
	FavSchoolSubject string `json:"fav_school_subject" binding:"max=100"`
	Political        *bool  `json:"political"`
	Religious        *bool  `json:"religious"`
	FamilyOriented   *bool  `json:"family_oriented"`
}

type BiographyResponse struct {
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
}

type AssistUseCase struct {
	generator BiographyGenerator
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewAssistUseCase accepts a nil generator; suggestions then always come
// from the built-in templates.
func NewAssistUseCase(generator BiographyGenerator, validate *validator.Validate, logger *slog.Logger) *AssistUseCase {
	return &AssistUseCase{
		generator: generator,
		validate:  validate,
		logger:    logger,
	}
}

func (uc *AssistUseCase) SuggestBiography(ctx context.Context, req *BiographyRequest) (*BiographyResponse, error) {
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	prompt := gemini.BiographyPrompt{
		Name:             strings.TrimSpace(req.Name),
		Parish:           strings.TrimSpace(req.Parish),
		FavCuisine:       strings.TrimSpace(req.FavCuisine),
		FavColour:        strings.TrimSpace(req.FavColour),
		FavSchoolSubject: strings.TrimSpace(req.FavSchoolSubject),
		Traits:           traits(req),
		Count:            suggestionCount,
	}

	if uc.generator != nil {
		suggestions, err := uc.generator.GenerateBiographies(ctx, prompt)
		if err == nil && len(suggestions) > 0 {
			if len(suggestions) > suggestionCount {
				suggestions = suggestions[:suggestionCount]
			}
			return &BiographyResponse{Suggestions: suggestions, Source: SourceAI}, nil
		}
		uc.logger.WarnContext(ctx, "biography generation unavailable, using fallback", "error", err)
	}

	return &BiographyResponse{Suggestions: fallback(prompt), Source: SourceFallback}, nil
}

func traits(req *BiographyRequest) []string {
	var out []string
	add := func(v *bool, yes, no string) {
		if v == nil {
			return
		}
		if *v {
			out = append(out, yes)
		} else {
			out = append(out, no)
		}
	}
	add(req.FamilyOriented, "family oriented", "independent")
	add(req.Religious, "religious", "not religious")
	add(req.Political, "follows politics", "not into politics")
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func fallback(p gemini.BiographyPrompt) []string {
	parish := orDefault(p.Parish, "Jamaica")
	cuisine := orDefault(p.FavCuisine, "good food")
	colour := orDefault(p.FavColour, "bright colours")
	subject := orDefault(p.FavSchoolSubject, "learning new things")

	intro := "Hi!"
	if p.Name != "" {
		intro = fmt.Sprintf("Hi, I'm %s!", p.Name)
	}
	described := "easy-going"
	if len(p.Traits) > 0 {
		described = strings.Join(p.Traits, " and ")
	}

	return []string{
		fmt.Sprintf("%s Proud to call %s home. Ask me about the best %s spots and I'll take it from there.", intro, parish, cuisine),
		fmt.Sprintf("Someone %s who still remembers loving %s at school. My favourite colour is %s, and my weekends are for good company.", described, subject, colour),
		fmt.Sprintf("From %s with a soft spot for %s. Looking for someone to share a meal and a laugh with.", parish, cuisine),
	}
}
