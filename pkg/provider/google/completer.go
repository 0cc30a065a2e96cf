package google

import (
	"context"
	"errors"

	"github.com/adrianliechti/libretto/pkg/provider"

	"google.golang.org/genai"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
}

func NewCompleter(model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	if cfg.model == "" {
		cfg.model = "gemini-2.5-flash"
	}

	return &Completer{
		Config: cfg,
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	client, err := c.newClient(ctx)

	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{}

	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}

	if options.Temperature != nil {
		config.Temperature = genai.Ptr(*options.Temperature)
	}

	if options.Format == provider.CompletionFormatJSON || options.Schema != nil {
		config.ResponseMIMEType = "application/json"
	}

	if options.Schema != nil {
		config.ResponseJsonSchema = options.Schema.Schema
	}

	system, contents, err := convertMessages(messages)

	if err != nil {
		return nil, err
	}

	config.SystemInstruction = system

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)

	if err != nil {
		return nil, err
	}

	result := &provider.Completion{
		ID:     resp.ResponseID,
		Model:  c.model,
		Reason: provider.CompletionReasonStop,

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},
	}

	if resp.ModelVersion != "" {
		result.Model = resp.ModelVersion
	}

	if len(resp.Candidates) > 0 {
		result.Reason = toCompletionReason(resp.Candidates[0].FinishReason)
	}

	if text := resp.Text(); text != "" {
		result.Message.Content = append(result.Message.Content, provider.TextContent(text))
	}

	if resp.UsageMetadata != nil {
		result.Usage = &provider.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return result, nil
}

func convertMessages(messages []provider.Message) (*genai.Content, []*genai.Content, error) {
	var system *genai.Content
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case provider.MessageRoleSystem:
			system = genai.NewContentFromText(m.Text(), genai.RoleUser)

		case provider.MessageRoleUser:
			var parts []*genai.Part

			for _, c := range m.Content {
				if c.Text != "" {
					parts = append(parts, genai.NewPartFromText(c.Text))
				}

				if c.File != nil {
					switch c.File.ContentType {
					case "image/png", "image/jpeg", "image/webp":
						parts = append(parts, genai.NewPartFromBytes(c.File.Content, c.File.ContentType))

					default:
						return nil, nil, errors.New("unsupported content type")
					}
				}
			}

			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

		case provider.MessageRoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Text(), genai.RoleModel))
		}
	}

	return system, contents, nil
}

func toCompletionReason(reason genai.FinishReason) provider.CompletionReason {
	switch reason {
	case genai.FinishReasonMaxTokens:
		return provider.CompletionReasonLength

	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent:
		return provider.CompletionReasonFilter

	default:
		return provider.CompletionReasonStop
	}
}
