// Package gemini implements the scorecard extractor on Google's Gemini
// models through the genai SDK.
package gemini

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/logging"
)

var _ extraction.Extractor = (*Client)(nil)

// Backend selects the Google API.
type Backend string

// Backends.
const (
	BackendGeminiAPI Backend = "gemini"
	BackendVertexAI  Backend = "vertex"
)

// Config configures the client.
type Config struct {
	APIKey      string
	Model       string
	Backend     Backend
	Project     string // Vertex AI only
	Location    string // Vertex AI only
	Temperature float32
}

// generator is the part of the genai SDK the client calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client is an extraction.Extractor backed by Gemini.
type Client struct {
	cfg Config

	mu        sync.Mutex
	generator generator
}

// New validates cfg. The genai client is created on first use.
func New(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = constants.DefaultGeminiModel
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendGeminiAPI
	}
	switch cfg.Backend {
	case BackendGeminiAPI:
		if cfg.APIKey == "" {
			return nil, &errors.ConfigError{
				Component: "gemini",
				Message:   "API key required - set GOOGLE_API_KEY or GEMINI_API_KEY",
				Err:       errors.ErrAPIKeyRequired,
			}
		}
	case BackendVertexAI:
		if cfg.Project == "" {
			return nil, &errors.ConfigError{
				Component: "gemini",
				Message:   "project ID not configured - set GOOGLE_CLOUD_PROJECT",
			}
		}
	default:
		return nil, errors.NewConfigError("gemini", "unknown backend "+string(cfg.Backend), nil)
	}
	return &Client{cfg: cfg}, nil
}

// newWithGenerator is used by tests.
func newWithGenerator(g generator, model string) *Client {
	return &Client{cfg: Config{Model: model}, generator: g}
}

// Model returns the model name in use.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) getGenerator(ctx context.Context) (generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generator != nil {
		return c.generator, nil
	}

	config := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.cfg.APIKey,
	}
	if c.cfg.Backend == BackendVertexAI {
		config = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  c.cfg.Project,
			Location: c.cfg.Location,
			APIKey:   c.cfg.APIKey,
		}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, errors.NewConfigError("gemini", "failed to create client", err)
	}
	c.generator = client.Models
	return c.generator, nil
}

// Extract implements extraction.Extractor.
func (c *Client) Extract(ctx context.Context, req extraction.Request) (*extraction.Result, error) {
	scoresOnly := req.Strategy == extraction.StrategyScoresOnly
	prompt := fullPrompt(req.UserContext)
	if scoresOnly {
		prompt = scoresOnlyPrompt(req.Course, req.UserContext)
	}

	text, err := c.generate(ctx, "extract", req, prompt, resultSchema(scoresOnly))
	if err != nil {
		return nil, err
	}
	var result extraction.Result
	if err := decode(text, &result); err != nil {
		return nil, errors.NewCollaboratorError("extractor", "extract", err)
	}
	normalize(&result)
	logging.FromContext(ctx).Debug().
		Str("strategy", string(req.Strategy)).
		Int("holes", len(result.Holes)).
		Int("tees", len(result.Tees)).
		Msg("Card extracted")
	return &result, nil
}

// Identify implements extraction.Extractor.
func (c *Client) Identify(ctx context.Context, req extraction.Request) (*extraction.Identification, error) {
	text, err := c.generate(ctx, "identify", req, identifyPrompt(req.UserContext), identificationSchema())
	if err != nil {
		return nil, err
	}
	var id extraction.Identification
	if err := decode(text, &id); err != nil {
		return nil, errors.NewCollaboratorError("extractor", "identify", err)
	}
	clampConfidence(&id.Name)
	clampConfidence(&id.Location)
	return &id, nil
}

func (c *Client) generate(ctx context.Context, op string, req extraction.Request, prompt string, schema *genai.Schema) (string, error) {
	if len(req.Image) == 0 {
		return "", errors.NewValidationError("image", nil, "image is required")
	}
	g, err := c.getGenerator(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Image, req.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.cfg.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := g.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return "", wrapAPIError(ctx, op, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.NewCollaboratorError("extractor", op, errors.New("empty response"))
	}
	return text, nil
}

func wrapAPIError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return errors.NewCollaboratorError("extractor", op, errors.ErrTimeout)
	}
	ce := errors.NewCollaboratorError("extractor", op, err)
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		ce.StatusCode = apiErr.Code
		ce.Message = apiErr.Message
	}
	return ce
}

// decode parses a JSON response, tolerating a surrounding code fence.
func decode(text string, v any) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return errors.WrapParse("json", "", err)
	}
	return nil
}

// normalize clamps confidences and fills hole numbers the model left out
// by card position.
func normalize(r *extraction.Result) {
	clampConfidence(&r.Course.Name)
	clampConfidence(&r.Course.Location)
	clampConfidence(&r.Course.Par)
	clampConfidence(&r.Date)
	clampConfidence(&r.PlayerName)
	clampConfidence(&r.Notes)
	clampConfidence(&r.Totals.TotalScore)
	clampConfidence(&r.Totals.FrontNineScore)
	clampConfidence(&r.Totals.BackNineScore)
	clampConfidence(&r.Totals.TotalPutts)
	for i := range r.Tees {
		t := &r.Tees[i]
		clampConfidence(&t.Color)
		clampConfidence(&t.SlopeRating)
		clampConfidence(&t.CourseRating)
		for j := range t.HoleYardages {
			clampConfidence(&t.HoleYardages[j].Yardage)
		}
	}
	for i := range r.Holes {
		h := &r.Holes[i]
		if !h.HoleNumber.Value.IsSet() {
			h.HoleNumber = extraction.Read(i+1, h.HoleNumber.Confidence)
		}
		clampConfidence(&h.HoleNumber)
		clampConfidence(&h.Par)
		clampConfidence(&h.Handicap)
		clampConfidence(&h.Strokes)
		clampConfidence(&h.Putts)
		clampConfidence(&h.FairwayHit)
		clampConfidence(&h.GreenInRegulation)
	}
}

func clampConfidence[T any](a *extraction.Annotated[T]) {
	switch {
	case a.Confidence < 0:
		a.Confidence = 0
	case a.Confidence > 1:
		a.Confidence = 1
	}
}
