package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gemapi/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini 基于 generative-ai-go SDK 实现 Generator。二进制 Part 以 inline blob 发送，
// SDK 在线上以 base64 编码。
type Gemini struct {
	client *genai.Client
	model  func(id string) contentModel
}

// NewGemini 使用 API key 创建 SDK 客户端。
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &Gemini{
		client: client,
		model: func(id string) contentModel {
			return client.GenerativeModel(id)
		},
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, model, prompt string, parts []Part) (string, error) {
	if g == nil || g.model == nil {
		return "", errors.New("gemini: client not initialized")
	}
	req := make([]genai.Part, 0, len(parts)+1)
	req = append(req, genai.Text(prompt))
	descs := make([]string, 0, len(parts))
	for _, p := range parts {
		req = append(req, genai.Blob{MIMEType: p.MIMEType, Data: p.Data})
		descs = append(descs, p.String())
	}
	logger.LogLLMRequest(model, prompt, descs)

	resp, err := g.model(model).GenerateContent(ctx, req...)
	if err != nil {
		if perr := fromAPIError(err); perr != nil {
			return "", perr
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text, ok := extractText(resp)
	if !ok {
		logger.Warnf("gemini: model %s returned no text", model)
		text = NoResponseText
	}
	logger.LogLLMResponse(model, text)
	return text, nil
}

// Close 释放 SDK 客户端。
func (g *Gemini) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// extractText 返回第一个含文本的候选中拼接后的文本。
func extractText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String(), true
		}
	}
	return "", false
}

var _ Generator = (*Gemini)(nil)
