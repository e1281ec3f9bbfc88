package src

import (
	"context"
	"fmt"

	agent "github.com/Protocol-Lattice/go-agent"
	adk "github.com/Protocol-Lattice/go-agent/src/adk"
	adkmodules "github.com/Protocol-Lattice/go-agent/src/adk/modules"
	"github.com/Protocol-Lattice/go-agent/src/memory"
	"github.com/Protocol-Lattice/go-agent/src/models"
	openai "github.com/sashabaranov/go-openai"
)

// Tier selects how much model we pay for: fast for screen tips and
// documentation, capable for generation and repair.
type Tier int

const (
	TierFast Tier = iota
	TierCapable
)

func (t Tier) String() string {
	if t == TierFast {
		return "fast"
	}
	return "capable"
}

// ModelClient is the narrow surface the pipeline sees. Transport or auth
// failures come back as *ModelUnavailableError; the bounded retry loops
// only re-prompt on content problems, never on transport errors.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, tier Tier) (string, error)
}

// NewModelClient builds the backend named by the config.
func NewModelClient(ctx context.Context, cfg *Config) (ModelClient, error) {
	switch cfg.Backend {
	case "openai":
		return newOpenAIClient(cfg), nil
	default:
		return newGeminiClient(ctx, cfg)
	}
}

// --- Gemini via go-agent ----------------------------------------------------

type geminiClient struct {
	fast    *agent.Agent
	capable *agent.Agent
}

func newGeminiClient(ctx context.Context, cfg *Config) (*geminiClient, error) {
	fast, err := buildGeminiAgent(ctx, cfg.GeminiFastModel)
	if err != nil {
		return nil, err
	}
	capable, err := buildGeminiAgent(ctx, cfg.GeminiCapableModel)
	if err != nil {
		return nil, err
	}
	return &geminiClient{fast: fast, capable: capable}, nil
}

func buildGeminiAgent(ctx context.Context, modelName string) (*agent.Agent, error) {
	memOpts := memory.DefaultOptions()
	builder, err := adk.New(
		ctx,
		adk.WithDefaultSystemPrompt(CoderSystemPrompt),
		adk.WithModules(
			adkmodules.InMemoryMemoryModule(512, memory.AutoEmbedder(), &memOpts),
			adkmodules.NewModelModule("gemini", func(_ context.Context) (models.Agent, error) {
				return models.NewGeminiLLM(ctx, modelName, "Python program generator")
			}),
		),
	)
	if err != nil {
		return nil, err
	}
	return builder.BuildAgent(ctx)
}

func (g *geminiClient) Generate(ctx context.Context, prompt string, tier Tier) (string, error) {
	ag := g.capable
	if tier == TierFast {
		ag = g.fast
	}
	resp, err := ag.Generate(ctx, "pipeline", prompt)
	if err != nil {
		return "", &ModelUnavailableError{Tier: tier, Err: err}
	}
	return resp, nil
}

// --- OpenAI via go-openai ---------------------------------------------------

type openAIClient struct {
	client  *openai.Client
	fast    string
	capable string
}

func newOpenAIClient(cfg *Config) *openAIClient {
	return &openAIClient{
		client:  openai.NewClient(cfg.OpenAIKey),
		fast:    cfg.OpenAIFastModel,
		capable: cfg.OpenAICapableModel,
	}
}

func (o *openAIClient) Generate(ctx context.Context, prompt string, tier Tier) (string, error) {
	model := o.capable
	if tier == TierFast {
		model = o.fast
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: CoderSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &ModelUnavailableError{Tier: tier, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ModelUnavailableError{Tier: tier, Err: fmt.Errorf("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}
