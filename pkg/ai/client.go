package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Completer 是对生成式补全服务的最小抽象：
// 一段提示词进、一段文本出；失败类型为 TransportError 或 ParseError。
type Completer interface {
	Complete(prompt string, wantJSON bool) (string, error)
}

// GeminiClient 通过Gemini REST API实现Completer
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient 创建Gemini客户端实例
func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	// 确保URL格式正确
	if baseURL != "" && !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}

	return &GeminiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// generateContent请求/响应的线格式（只声明用到的字段）
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Complete 调用generateContent端点并返回生成文本。
// wantJSON为真时要求服务端以application/json输出。
func (c *GeminiClient) Complete(prompt string, wantJSON bool) (string, error) {
	if c.apiKey == "" {
		return "", &TransportError{Err: fmt.Errorf("missing API credential")}
	}

	reqPayload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if wantJSON {
		reqPayload.GenerationConfig = &generationConfig{ResponseMimeType: "application/json"}
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	// 设置请求头
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return "", &TransportError{Err: fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", &ParseError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", &ParseError{Err: fmt.Errorf("response contains no candidates")}
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
