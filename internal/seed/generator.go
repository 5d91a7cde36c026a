// ABOUTME: AI-powered data generator for realistic fake platform data.
// ABOUTME: Uses OpenAI to generate pack catalogs and phone directories.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
)

// Generator creates fake data using OpenAI or falls back to static data.
type Generator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// NewGenerator creates a generator, loading API key from .env if available.
func NewGenerator() *Generator {
	g := &Generator{}

	// Try to load .env from current dir or parent dirs
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Also check home directory
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}

	g.model = os.Getenv("OPENAI_MODEL")
	if g.model == "" {
		g.model = "gpt-5-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, using AI-generated data with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static fallback data")
	}

	return g
}

// GeneratedData holds all the generated fake data.
type GeneratedData struct {
	Packs   []PackData   `json:"packs"`
	Numbers []NumberData `json:"numbers"`
}

// PackData represents a generated pack catalog entry.
type PackData struct {
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	Version          string   `json:"version"`
	MakerName        string   `json:"maker_name"`
	Published        bool     `json:"published"`
	Archived         bool     `json:"archived"`
	Categories       []string `json:"categories"`
	InstallCount     int      `json:"install_count"`
}

// NumberData represents a generated directory phone number.
type NumberData struct {
	Number   string `json:"number"`
	Label    string `json:"label"`
	Verified bool   `json:"verified"`
}

// Generate creates all the fake data.
func (g *Generator) Generate(ctx context.Context, numPacks, numNumbers int) (*GeneratedData, error) {
	if !g.useAI {
		return g.generateStatic(numPacks, numNumbers), nil
	}

	data := &GeneratedData{}

	type result struct {
		name string
		err  error
	}

	// Generate in parallel for speed
	resultCh := make(chan result, 2)

	log.Printf("Generating %d packs, %d numbers via AI...", numPacks, numNumbers)

	go func() {
		log.Print("  ⏳ Generating packs...")
		packs, err := g.generatePacks(ctx, numPacks)
		if err != nil {
			resultCh <- result{"packs", err}
			return
		}
		data.Packs = packs
		log.Printf("  ✓ Generated %d packs", len(packs))
		resultCh <- result{"packs", nil}
	}()

	go func() {
		log.Print("  ⏳ Generating phone numbers...")
		numbers, err := g.generateNumbers(ctx, numNumbers)
		if err != nil {
			resultCh <- result{"numbers", err}
			return
		}
		data.Numbers = numbers
		log.Printf("  ✓ Generated %d numbers", len(numbers))
		resultCh <- result{"numbers", nil}
	}()

	// Collect results
	var errs []error
	for i := 0; i < 2; i++ {
		r := <-resultCh
		if r.err != nil {
			log.Printf("  ✗ Failed to generate %s: %v", r.name, r.err)
			errs = append(errs, fmt.Errorf("%s: %w", r.name, r.err))
		}
	}

	if len(errs) > 0 {
		log.Print("AI generation incomplete, falling back to static data...")
		return g.generateStatic(numPacks, numNumbers), nil
	}

	log.Print("AI generation complete!")
	return data, nil
}

func (g *Generator) generatePacks(ctx context.Context, count int) ([]PackData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic fake Packs for a no-code platform's pack marketplace. Include a mix of:
- Data connectors (CRMs, spreadsheets, databases)
- Productivity tools (tasks, notes, calendars)
- Communication integrations (chat, email, SMS)
- Niche utilities (unit conversion, weather, finance)

Return as JSON array with objects containing: name, short_description (one sentence),
description (2-3 sentences), version (small integer as string), maker_name,
published (boolean, about 70%% true), archived (boolean, about 10%% true),
categories (array of 0-3 names like "Data", "Productivity", "Communication"),
install_count (integer between 0 and 50000).
Make names and descriptions varied and plausible.`, count)

	return callOpenAI[[]PackData](ctx, g.client, g.model, prompt)
}

func (g *Generator) generateNumbers(ctx context.Context, count int) ([]NumberData, error) {
	prompt := fmt.Sprintf(`Generate %d realistic phone directory entries for a company account. Include:
- US office lines and mobiles
- A few international numbers (UK, France, Japan)
- Support and sales hotlines

Return as JSON array with objects containing: number (E.164 format with + prefix),
label (short human name like "Support line"), verified (boolean, about 60%% true).
Numbers must be dialable-looking, e.g. +16502530000 or +442070313000.`, count)

	return callOpenAI[[]NumberData](ctx, g.client, g.model, prompt)
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
