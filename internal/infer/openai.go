package infer

// openai.go: the network-backed inference variant.
//
// The provider builds one structured prompt embedding evidence counts and
// full evidence detail, then calls the chat-completion API with a bounded
// retry loop. Each retry appends the previous failure's message to the
// prompt as corrective feedback. Every response is parsed and validated
// against the Candidate invariants before acceptance; a structurally
// invalid response counts as a failed attempt, never as a coerced success.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"ripp/internal/evidence"
	"ripp/internal/section"
)

// chatCompleter is the slice of *openai.Client the provider uses.
// Tests substitute a scripted implementation.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider is the network-backed inference strategy.
type OpenAIProvider struct {
	client     chatCompleter
	model      string
	maxRetries int
	timeout    time.Duration
	log        *slog.Logger
}

// NewOpenAIProvider builds a provider from an API key. An empty key leaves
// the provider unconfigured; IsConfigured then returns false.
func NewOpenAIProvider(apiKey, model string, maxRetries int, timeout time.Duration) *OpenAIProvider {
	p := &OpenAIProvider{
		model:      model,
		maxRetries: maxRetries,
		timeout:    timeout,
		log:        slog.Default().With(slog.String("component", "openai")),
	}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}
	if p.model == "" {
		p.model = openai.GPT4oMini
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.timeout <= 0 {
		p.timeout = 30 * time.Second
	}
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) IsConfigured() bool { return p.client != nil }

const systemPrompt = `You are a specification archaeologist. You receive static evidence
extracted from a repository and propose specification fragments describing the
feature's observable intent. Rules:
1. Claim only what the evidence supports. Do not invent business rules.
2. Cite evidence (file, line) for every fragment.
3. Respond with ONLY a JSON object, no markdown fences, matching:
   {"candidates":[{"confidence":0.0,"citations":[{"file":"","line":0,"note":""}],
    "sections":{"<name>":"<markdown body>"},"note":""}]}
4. Allowed section names: %s.
5. Confidence must reflect evidence strength, in [0,1].`

// InferIntent runs the bounded retry loop.
func (p *OpenAIProvider) InferIntent(ctx context.Context, pack *evidence.Pack, opts Options) ([]Candidate, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("openai provider is not configured")
	}

	basePrompt := buildPrompt(pack, opts)
	var lastErr error
	feedback := ""

	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		prompt := basePrompt
		if feedback != "" {
			prompt += "\n\nYour previous response failed validation. Fix this and respond again:\n" + feedback
		}

		cands, err := p.attempt(ctx, prompt)
		if err == nil {
			return cands, nil
		}
		lastErr = err
		feedback = err.Error()
		p.log.Warn("inference attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
	}
	return nil, fmt.Errorf("inference failed after %d attempts: %w", p.maxRetries, lastErr)
}

// attempt performs one bounded API call and full response validation.
func (p *OpenAIProvider) attempt(ctx context.Context, prompt string) ([]Candidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	sectionNames := make([]string, len(section.Order))
	for i, n := range section.Order {
		sectionNames[i] = string(n)
	}

	resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, strings.Join(sectionNames, ", "))},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return p.parseResponse(resp.Choices[0].Message.Content)
}

// wireCandidate is the JSON shape the model must return.
type wireCandidate struct {
	Confidence float64           `json:"confidence"`
	Citations  []Citation        `json:"citations"`
	Sections   map[string]string `json:"sections"`
	Note       string            `json:"note"`
}

// parseResponse decodes and validates the model output. System-owned fields
// (source, provider, requires_human_confirmation) are set here, not taken
// from the wire; everything else must already be valid.
func (p *OpenAIProvider) parseResponse(content string) ([]Candidate, error) {
	var wire struct {
		Candidates []wireCandidate `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &wire); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if len(wire.Candidates) == 0 {
		return nil, fmt.Errorf("response contains no candidates")
	}

	now := time.Now().UTC()
	cands := make([]Candidate, 0, len(wire.Candidates))
	for i, wc := range wire.Candidates {
		sections := make(map[section.Name]string, len(wc.Sections))
		for name, body := range wc.Sections {
			sections[section.Name(name)] = body
		}
		c := Candidate{
			Source:                    SourceInferred,
			Provider:                  p.Name(),
			Confidence:                wc.Confidence,
			RequiresHumanConfirmation: true,
			Citations:                 wc.Citations,
			Sections:                  sections,
			Note:                      wc.Note,
			CreatedAt:                 now,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("response candidate %d: %w", i, err)
		}
		cands = append(cands, c)
	}
	return cands, nil
}

// stripFences removes a markdown code fence if the model ignored rule 3.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// buildPrompt embeds evidence counts and full detail. The pack is already
// redacted, so the prompt never carries raw secret values.
func buildPrompt(pack *evidence.Pack, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target conformance level: %d\n\n", opts.TargetLevel)
	fmt.Fprintf(&b, "Evidence summary: %d files, %d dependencies, %d routes, %d auth signals, %d schemas, %d workflows\n\n",
		len(pack.Files), len(pack.Dependencies), len(pack.Routes),
		len(pack.AuthSignals), len(pack.Schemas), len(pack.Workflows))

	b.WriteString("Full evidence detail (YAML):\n")
	detail, err := yaml.Marshal(struct {
		Dependencies []evidence.DependencyRecord `yaml:"dependencies,omitempty"`
		Routes       []evidence.RouteRecord      `yaml:"routes,omitempty"`
		AuthSignals  []evidence.AuthRecord       `yaml:"auth_signals,omitempty"`
		Schemas      []evidence.SchemaRecord     `yaml:"schemas,omitempty"`
		Workflows    []evidence.WorkflowRecord   `yaml:"workflows,omitempty"`
	}{pack.Dependencies, pack.Routes, pack.AuthSignals, pack.Schemas, pack.Workflows})
	if err == nil {
		b.Write(detail)
	}
	return b.String()
}
