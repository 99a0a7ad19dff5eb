package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockConverseAPI is the subset of the Bedrock client the enricher uses.
type BedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient implements LLMClient through the Bedrock Converse API.
type BedrockClient struct {
	client  BedrockConverseAPI
	modelID string
}

// NewBedrockClient creates a Bedrock-backed LLMClient.
func NewBedrockClient(client BedrockConverseAPI, modelID string) (*BedrockClient, error) {
	if client == nil {
		return nil, errors.New("enrich: bedrock client is required")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("enrich: bedrock model id is required")
	}
	return &BedrockClient{client: client, modelID: modelID}, nil
}

// Complete sends a single-turn prompt through Converse and returns the text.
func (c *BedrockClient) Complete(ctx context.Context, prompt string) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens: aws.Int32(200),
		},
	}
	output, err := c.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("enrich: bedrock converse failed: %w", err)
	}
	message, ok := output.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok || len(message.Value.Content) == 0 {
		return "", errors.New("enrich: bedrock returned no content")
	}
	var text strings.Builder
	for _, block := range message.Value.Content {
		if t, ok := block.(*brtypes.ContentBlockMemberText); ok {
			text.WriteString(t.Value)
		}
	}
	return strings.TrimSpace(text.String()), nil
}
