package proof_analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"dogwalking/logger"
	proof_model "dogwalking/models/proof"
	"dogwalking/repository"

	"google.golang.org/genai"
)

const analyzeTimeout = 30 * time.Second

// AnalyzerService screens proof photos with Gemini Vision and records an
// advisory dog_detected flag. The verdict never blocks or reverses a
// submission; owners make the actual call during review.
type AnalyzerService struct {
	Proofs *repository.ProofRepository
}

func NewAnalyzerService(proofs *repository.ProofRepository) *AnalyzerService {
	return &AnalyzerService{Proofs: proofs}
}

type screeningResult struct {
	DogVisible bool `json:"dog_visible"`
}

// ScreenProofAsync runs the screening in the background. Only images are
// screened; video proofs keep a nil flag.
func (s *AnalyzerService) ScreenProofAsync(p *proof_model.WalkProof, imageBytes []byte, mimeType string) {
	if !strings.HasPrefix(mimeType, "image/") {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		detected, err := s.screenWithGemini(ctx, imageBytes, mimeType)
		if err != nil {
			logger.Warning(fmt.Sprintf("Photo screening failed for proof %d: %v", p.ID, err))
			return
		}

		if err := s.Proofs.SetDogDetected(ctx, p.ID, detected); err != nil {
			logger.Error(fmt.Sprintf("Failed to store screening verdict for proof %d", p.ID), err)
			return
		}

		logger.Success(fmt.Sprintf("Screened proof %d: dog_detected=%t", p.ID, detected))
	}()
}

// screenWithGemini asks Gemini Vision whether a dog is visible in the photo.
func (s *AnalyzerService) screenWithGemini(ctx context.Context, imageBytes []byte, mimeType string) (bool, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return false, fmt.Errorf("API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := `Look at this photo taken during a dog care service. Return ONLY valid JSON.

			Required JSON format:
			{
			"dog_visible": boolean    // true if at least one dog is clearly visible in the photo
			}`

	content := &genai.Content{
		Parts: []*genai.Part{
			&genai.Part{Text: prompt},
			&genai.Part{InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     imageBytes,
			}},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return false, fmt.Errorf("no content generated")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return false, fmt.Errorf("empty response")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var parsed screeningResult
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return false, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	return parsed.DogVisible, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
