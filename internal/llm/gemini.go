package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/metrics"
)

var reJSONBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// retryConfig mirrors the pipeline's own contract: at most one retry, a
// short fixed-ish backoff with jitter, never a long wait — the pipeline
// must stay responsive on LLM stalls.
type retryConfig struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

var pipelineRetryConfig = retryConfig{
	maxAttempts: 2,
	baseDelay:   100 * time.Millisecond,
	maxDelay:    300 * time.Millisecond,
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "503") ||
		strings.Contains(s, "429") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "RESOURCE_EXHAUSTED")
}

// withRetry runs fn with exponential-backoff-with-full-jitter retry,
// decorrelating retries across concurrent goroutines the same way AWS's
// full-jitter algorithm does, scaled down to the pipeline's "at most one
// retry, ~100ms backoff" contract.
func withRetry[T any](ctx context.Context, cfg retryConfig, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return zero, err
		}

		if attempt < cfg.maxAttempts-1 {
			ceiling := cfg.baseDelay * time.Duration(1<<uint(attempt))
			if ceiling > cfg.maxDelay {
				ceiling = cfg.maxDelay
			}
			delay := time.Duration(rand.Int64N(int64(ceiling)))

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, fmt.Errorf("llm: max retries exceeded: %w", lastErr)
}

func validateGeminiResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil || len(resp.Candidates) == 0 {
		return fmt.Errorf("llm: empty response")
	}
	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return fmt.Errorf("llm: response blocked by safety filters")
	case genai.FinishReasonRecitation:
		return fmt.Errorf("llm: response blocked: recitation policy")
	case genai.FinishReasonMaxTokens:
		return fmt.Errorf("llm: response truncated: exceeded max tokens")
	case genai.FinishReasonOther:
		return fmt.Errorf("llm: unexpected finish reason")
	}
	if candidate.Content == nil {
		return fmt.Errorf("llm: no content in response (finish reason: %v)", candidate.FinishReason)
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if err := validateGeminiResponse(resp); err != nil {
		return "", err
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("llm: no text content in response")
}

// cleanJSON strips a ```json fence (or a bare ``` fence) around a response,
// tolerating the conversational wrapping models commonly add.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if matches := reJSONBlock.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// extractJSONObject scans for the first '{' and last '}' in text and
// returns the substring between them. Used for the translation step, whose
// response-parsing contract tolerates a conversational prefix around the
// embedded JSON object rather than requiring a clean fence.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func parseJSON[T any](text string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(cleanJSON(text)), &out); err != nil {
		return out, fmt.Errorf("llm: failed to parse response JSON: %w (raw: %.300s)", err, text)
	}
	return out, nil
}

// GeminiClient implements Client against Google's Gemini API.
type GeminiClient struct {
	client         *genai.Client
	model          string
	requestTimeout time.Duration
	taskTimeout    time.Duration
	log            zerolog.Logger
	metrics        *metrics.Registry
}

// NewGeminiClient builds a GeminiClient. apiKey, model come from config;
// requestTimeout/taskTimeout implement the pipeline's two-layer timeout
// contract (transport timeout and task-level timeout). metrics is optional;
// a nil registry disables LLM call instrumentation.
func NewGeminiClient(ctx context.Context, apiKey, model string, requestTimeout, taskTimeout time.Duration, log zerolog.Logger, reg *metrics.Registry) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to build gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model, requestTimeout: requestTimeout, taskTimeout: taskTimeout, log: log, metrics: reg}, nil
}

// generate runs one prompt through the model, retried per pipelineRetryConfig.
// task labels the LLMCalls/LLMLatency metrics so a dashboard can break down
// cost and latency per pipeline step (normalize, translate, classify...)
// rather than just an undifferentiated total.
func (c *GeminiClient) generate(ctx context.Context, task, prompt string) (string, error) {
	start := time.Now()
	result, err := c.doGenerate(ctx, prompt)
	c.observe(task, err, time.Since(start))
	return result, err
}

func (c *GeminiClient) doGenerate(ctx context.Context, prompt string) (string, error) {
	taskCtx, cancel := context.WithTimeout(ctx, c.taskTimeout)
	defer cancel()

	result, err := withRetry(taskCtx, pipelineRetryConfig, func() (string, error) {
		reqCtx, reqCancel := context.WithTimeout(taskCtx, c.requestTimeout)
		defer reqCancel()

		model := c.client.GenerativeModel(c.model)
		resp, err := model.GenerateContent(reqCtx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return responseText(resp)
	})
	if err != nil {
		if taskCtx.Err() != nil {
			return "", kernel.UpstreamTimeoutError("gemini")
		}
		return "", kernel.UpstreamErrorf("gemini", "%s", err.Error())
	}
	return result, nil
}

func (c *GeminiClient) observe(task string, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.LLMCalls.WithLabelValues(task, outcome).Inc()
	c.metrics.LLMLatency.WithLabelValues(task).Observe(elapsed.Seconds())
}

// NormalizeIngredientName implements the pipeline's normalize step (§4.3
// step 2). Response-cleaning is layered per the pipeline's tolerant-parsing
// contract; see cleanNormalizedName.
func (c *GeminiClient) NormalizeIngredientName(ctx context.Context, rawInput string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate and normalize this food ingredient name to its canonical English form. "+
			"Reply with ONLY the English name, nothing else, no punctuation, no explanation.\n\nIngredient: %q",
		sanitizePromptInput(rawInput),
	)
	raw, err := c.generate(ctx, "normalize", prompt)
	if err != nil {
		return "", err
	}
	return cleanNormalizedName(raw), nil
}

// cleanNormalizedName applies the pipeline's layered response-cleaning
// rule: extract a quoted token if present, strip bold/backtick markers,
// strip trailing punctuation, extract the tail after a colon if the model
// prefixed its answer, and preserve multi-word outputs as-is. As a last
// resort it takes the final word; nothing is logged when that branch fires.
func cleanNormalizedName(raw string) string {
	s := strings.TrimSpace(raw)

	if q := extractQuoted(s); q != "" {
		s = q
	}

	s = strings.Trim(s, "*`")
	s = strings.TrimSpace(s)

	if idx := strings.LastIndexByte(s, ':'); idx != -1 && idx < len(s)-1 {
		s = strings.TrimSpace(s[idx+1:])
	}

	s = strings.TrimRight(s, ".!,;")
	s = strings.TrimSpace(s)

	words := strings.Fields(s)
	switch {
	case len(words) == 0:
		return s
	case len(words) <= 3:
		return strings.Join(words, " ")
	default:
		// Last resort: the model returned a sentence, not a name. Take the
		// final word.
		return words[len(words)-1]
	}
}

func extractQuoted(s string) string {
	for _, q := range []byte{'"', '\''} {
		first := strings.IndexByte(s, q)
		if first == -1 {
			continue
		}
		last := strings.LastIndexByte(s, q)
		if last > first {
			return s[first+1 : last]
		}
	}
	return ""
}

func sanitizePromptInput(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	var b strings.Builder
	for _, r := range s {
		if r >= 32 || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TranslateIngredientName implements the pipeline's translate step (§4.3
// step 5): one call, strict JSON shape, tolerant extraction of the embedded
// object.
func (c *GeminiClient) TranslateIngredientName(ctx context.Context, nameEN string) (TranslationResult, error) {
	prompt := fmt.Sprintf(
		`Translate the food ingredient %q into Polish, Russian, and Ukrainian. `+
			`Reply with ONLY a JSON object of the exact shape {"pl":"...","ru":"...","uk":"..."}, nothing else.`,
		nameEN,
	)
	raw, err := c.generate(ctx, "translate_ingredient", prompt)
	if err != nil {
		return TranslationResult{}, err
	}

	obj, ok := extractJSONObject(raw)
	if !ok {
		return TranslationResult{}, kernel.UpstreamErrorf("gemini", "translation response had no JSON object: %.200s", raw)
	}

	var payload struct {
		PL string `json:"pl"`
		RU string `json:"ru"`
		UK string `json:"uk"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return TranslationResult{}, kernel.UpstreamErrorf("gemini", "invalid translation JSON: %s", err.Error())
	}

	return TranslationResult{NamePL: strings.TrimSpace(payload.PL), NameRU: strings.TrimSpace(payload.RU), NameUK: strings.TrimSpace(payload.UK)}, nil
}

// ClassifyIngredient implements the pipeline's classify step (§4.3 step 6).
// Unlike translation, a failure here is recoverable by the caller via
// graceful degrade — this method still reports the raw error so the
// pipeline can log it before falling back.
func (c *GeminiClient) ClassifyIngredient(ctx context.Context, nameEN string) (ClassificationResult, error) {
	prompt := fmt.Sprintf(
		`Classify the food ingredient %q. `+
			`Reply with ONLY a JSON object of the exact shape {"category_slug":"...","unit":"..."}, nothing else. `+
			`category_slug is one of: meat, seafood, dairy, vegetables, fruit, grains, spices, other. `+
			`unit is one of: g, kg, ml, l, piece.`,
		nameEN,
	)
	raw, err := c.generate(ctx, "classify_ingredient", prompt)
	if err != nil {
		return ClassificationResult{}, err
	}

	obj, ok := extractJSONObject(raw)
	if !ok {
		return ClassificationResult{}, kernel.UpstreamErrorf("gemini", "classification response had no JSON object: %.200s", raw)
	}

	var payload struct {
		CategorySlug string `json:"category_slug"`
		Unit         string `json:"unit"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return ClassificationResult{}, kernel.UpstreamErrorf("gemini", "invalid classification JSON: %s", err.Error())
	}

	return ClassificationResult{CategorySlug: strings.TrimSpace(payload.CategorySlug), Unit: strings.TrimSpace(payload.Unit)}, nil
}

// TranslateRecipe implements the async recipe translation job: one call for
// all three target languages, matching the ingredient translation step's
// tolerant-JSON-extraction contract.
func (c *GeminiClient) TranslateRecipe(ctx context.Context, nameDefault, instructionsDefault string) (RecipeTranslationResult, error) {
	prompt := fmt.Sprintf(
		"Translate this recipe's name and instructions into Polish, Russian, and Ukrainian.\n\n"+
			"Name: %q\nInstructions: %q\n\n"+
			`Reply with ONLY a JSON object of the exact shape `+
			`{"pl":{"name":"...","instructions":"..."},"ru":{"name":"...","instructions":"..."},"uk":{"name":"...","instructions":"..."}}, nothing else.`,
		sanitizePromptInput(nameDefault), sanitizePromptInput(instructionsDefault),
	)
	raw, err := c.generate(ctx, "translate_recipe", prompt)
	if err != nil {
		return RecipeTranslationResult{}, err
	}

	obj, ok := extractJSONObject(raw)
	if !ok {
		return RecipeTranslationResult{}, kernel.UpstreamErrorf("gemini", "recipe translation response had no JSON object: %.200s", raw)
	}

	type lang struct {
		Name         string `json:"name"`
		Instructions string `json:"instructions"`
	}
	var payload struct {
		PL lang `json:"pl"`
		RU lang `json:"ru"`
		UK lang `json:"uk"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return RecipeTranslationResult{}, kernel.UpstreamErrorf("gemini", "invalid recipe translation JSON: %s", err.Error())
	}

	return RecipeTranslationResult{
		NamePL: strings.TrimSpace(payload.PL.Name), InstructionsPL: strings.TrimSpace(payload.PL.Instructions),
		NameRU: strings.TrimSpace(payload.RU.Name), InstructionsRU: strings.TrimSpace(payload.RU.Instructions),
		NameUK: strings.TrimSpace(payload.UK.Name), InstructionsUK: strings.TrimSpace(payload.UK.Instructions),
	}, nil
}

// GenerateRecipeInsights implements the §4.6 structured insights call.
func (c *GeminiClient) GenerateRecipeInsights(ctx context.Context, req InsightsRequest) (InsightsResult, error) {
	prompt := buildInsightsPrompt(req)
	raw, err := c.generate(ctx, "recipe_insights", prompt)
	if err != nil {
		return InsightsResult{}, err
	}

	type jsonInsights struct {
		Steps      []string `json:"steps"`
		Validation struct {
			Errors   []string `json:"errors"`
			Warnings []string `json:"warnings"`
			Missing  []string `json:"missing"`
		} `json:"validation"`
		Suggestions struct {
			Fixes          []string `json:"fixes"`
			Substitutions  []string `json:"substitutions"`
		} `json:"suggestions"`
		FeasibilityScore int `json:"feasibility_score"`
	}

	payload, err := parseJSON[jsonInsights](raw)
	if err != nil {
		return InsightsResult{}, kernel.UpstreamErrorf("gemini", "%s", err.Error())
	}

	return InsightsResult{
		Steps:                   payload.Steps,
		ValidationErrors:        payload.Validation.Errors,
		ValidationWarnings:      payload.Validation.Warnings,
		ValidationMissing:       payload.Validation.Missing,
		SuggestionFixes:         payload.Suggestions.Fixes,
		SuggestionSubstitutions: payload.Suggestions.Substitutions,
		FeasibilityScore:        payload.FeasibilityScore,
	}, nil
}

func buildInsightsPrompt(req InsightsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this recipe named %q (language: %s).\n", req.RecipeName, req.Language)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(req.IngredientNames, ", "))
	fmt.Fprintf(&b, "Instructions:\n%s\n", req.Instructions)
	if len(req.PreValidationNotes) > 0 {
		fmt.Fprintf(&b, "Automated pre-checks already flagged: %s\n", strings.Join(req.PreValidationNotes, "; "))
	}
	b.WriteString(
		"Reply with ONLY a JSON object of the exact shape " +
			`{"steps":["..."],"validation":{"errors":["..."],"warnings":["..."],"missing":["..."]},` +
			`"suggestions":{"fixes":["..."],"substitutions":["..."]},"feasibility_score":0}` +
			", nothing else. feasibility_score is an integer from 0 to 100.",
	)
	return b.String()
}
