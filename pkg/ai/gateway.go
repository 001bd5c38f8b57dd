package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"refiniti-ops-backend/pkg/config"
	"refiniti-ops-backend/pkg/models"
)

// strategyExcerptLimit 任务生成提示词中策略上下文的最大前缀长度
const strategyExcerptLimit = 1000

// Gateway 封装全部AI生成操作。
// 契约：任何失败（网络、凭证、解析）都被吸收为同形状的兜底值，
// 只记录日志，绝不向调用方返回错误。无重试、无限流、无缓存。
type Gateway struct {
	client Completer
}

// NewGateway 根据配置创建网关
func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		client: NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel),
	}
}

// NewGatewayWithCompleter 注入自定义Completer（测试用）
func NewGatewayWithCompleter(c Completer) *Gateway {
	return &Gateway{client: c}
}

// GenerateProposalContent 生成结构化提案内容。
// 数字字段（估值、报价）由模型估算，不保证与投资明细算术一致。
func (g *Gateway) GenerateProposalContent(clientName, industry string, services []string, notes string) models.ProposalContent {
	prompt := fmt.Sprintf(`Act as VARIA, the elite operations AI for Refiniti.
We are generating a structured JSON proposal for a client to be displayed in our dashboard.

Client: %s
Industry: %s
Requested Services: %s
Sales Notes: %s

Generate a JSON object strictly following this structure (do not use markdown formatting for the JSON itself, just return the raw JSON):

{
  "hero": {
    "title": "Proposal for %s",
    "subtitle": "An integrated plan for a unified digital ecosystem and high-performance growth."
  },
  "engine": {
    "generatedValue": (Estimate a realistic dollar value of the strategy e.g. 24680),
    "description": "This plan is designed to maximize conversion while maintaining strict capital separation. Our proprietary engine combines data-driven strategies with high-converting creative."
  },
  "phases": [
    {
      "title": "Phase 1: Website Infrastructure & Conversion Assets",
      "description": "Focus: Building high-authority digital real estate required to generate and convert high-quality leads.",
      "items": ["(List 3-4 specific deliverables based on services)"]
    },
    {
      "title": "Phase 2: Performance Lead Generation",
      "description": "Focus: Rebuilding the lead engine with a 'no-waste' ad spend strategy to drive measurable ROI.",
      "items": ["(List 3-4 specific deliverables)"]
    }
  ],
  "investment": [
    { "item": "Website Infrastructure & Assets", "costInitial": (number), "costMonthly": (number) },
    { "item": "Performance Lead Generation", "costInitial": (number), "costMonthly": (number) }
  ],
  "strategy": [
    { "title": "Platform Evaluation", "content": "Analysis of current stack efficiency." },
    { "title": "The VSL Factor", "content": "Video Sales Letter implementation strategy." },
    { "title": "Open/Shut Protocol", "content": "Lead qualification framework." }
  ],
  "adSpend": [
    { "phase": "Testing (Month 1-2)", "monthlySpend": "$500 - $1,500", "targetCPL": "$150", "expectedLeads": "6 - 10" },
    { "phase": "Optimization (Month 3)", "monthlySpend": "$2,400", "targetCPL": "$120", "expectedLeads": "20 - 25" },
    { "phase": "Stabilized State", "monthlySpend": "$3K - $4.5K", "targetCPL": "$80 - $100", "expectedLeads": "30 - 45" }
  ]
}`, clientName, industry, strings.Join(services, ", "), notes, clientName)

	var result models.ProposalContent
	if err := g.completeJSON(prompt, &result); err != nil {
		fmt.Printf("❌ AI proposal generation failed: %v\n", err)
		return FallbackProposalContent()
	}
	return result
}

// GenerateMarketingStrategy 基于问卷答案生成营销策略
func (g *Gateway) GenerateMarketingStrategy(clientName string, answers map[string]string) models.MarketingStrategy {
	answersJSON, _ := json.Marshal(answers)
	prompt := fmt.Sprintf(`Act as VARIA, the Chief Strategy Officer.
Create a detailed Marketing Strategy for %s based on the following intake questionnaire:
%s

Output strictly in this JSON format:
{
    "executiveSummary": "High level overview of the approach",
    "targetAudience": "Detailed persona description",
    "brandVoice": "Tone and style guidelines",
    "roadmap": [
        { "phase": "Phase 1: Foundation", "timeline": "Weeks 1-4", "objectives": ["obj1", "obj2"] },
        { "phase": "Phase 2: Growth", "timeline": "Weeks 5-8", "objectives": ["obj1", "obj2"] }
    ],
    "channels": ["Channel 1", "Channel 2"],
    "kpis": ["KPI 1", "KPI 2"]
}`, clientName, string(answersJSON))

	var result models.MarketingStrategy
	if err := g.completeJSON(prompt, &result); err != nil {
		fmt.Printf("❌ AI strategy generation failed: %v\n", err)
		return FallbackMarketingStrategy()
	}
	return result
}

// GenerateProjectTasks 从策略文本派生战术任务列表。
// 策略上下文截断到有限前缀，避免提示词无限膨胀。
func (g *Gateway) GenerateProjectTasks(strategyText, projectTitle string) []models.GeneratedTask {
	excerpt := strategyText
	if len(excerpt) > strategyExcerptLimit {
		excerpt = excerpt[:strategyExcerptLimit]
	}

	prompt := fmt.Sprintf(`Act as VARIA, the Operations Manager.
Based on the following strategy for project "%s", generate a list of 5-8 tactical tasks required to execute it.

Strategy Context:
%s...

For each task, provide a checklist of 2-3 sub-items.

Output strictly JSON:
[
  {
    "title": "Task Title",
    "description": "Brief description",
    "priority": "High" | "Medium" | "Low",
    "checklist": [{ "id": "1", "text": "Subtask 1", "completed": false }]
  }
]`, projectTitle, excerpt)

	var result []models.GeneratedTask
	if err := g.completeJSON(prompt, &result); err != nil {
		fmt.Printf("❌ AI task generation failed: %v\n", err)
		return FallbackProjectTasks()
	}
	return result
}

// GenerateInvoiceEmail 生成发票提醒邮件的主题与正文
func (g *Gateway) GenerateInvoiceEmail(clientName, invoiceID string, amount float64, dueDate string) models.EmailDraft {
	prompt := fmt.Sprintf(`Write a professional yet friendly email to %s regarding Invoice %s for $%.0f, due on %s.
Tone: Professional, Efficient, Warm.
Output JSON: { "subject": "...", "body": "..." }`, clientName, invoiceID, amount, dueDate)

	var result models.EmailDraft
	if err := g.completeJSON(prompt, &result); err != nil {
		fmt.Printf("❌ AI invoice email generation failed: %v\n", err)
		return FallbackInvoiceEmail(invoiceID)
	}
	return result
}

// ChatReply 客服机器人回复（纯文本，单轮）
func (g *Gateway) ChatReply(message string) string {
	prompt := fmt.Sprintf(`You are Varia, the AI assistant for Refiniti's operations portal.
Answer the user's question concisely and professionally.
User: %s`, message)

	text, err := g.client.Complete(prompt, false)
	if err != nil {
		fmt.Printf("❌ AI chat reply failed: %v\n", err)
		return FallbackChatReply()
	}
	if strings.TrimSpace(text) == "" {
		return "I'm having trouble connecting right now."
	}
	return text
}

// completeJSON 调用补全服务并将结果解析到v；
// 解析前剥离模型偶尔包裹的markdown代码块
func (g *Gateway) completeJSON(prompt string, v interface{}) error {
	text, err := g.client.Complete(prompt, true)
	if err != nil {
		return err
	}
	cleaned := stripJSONFences(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &ParseError{Err: fmt.Errorf("response is not the requested shape: %w", err)}
	}
	return nil
}

// stripJSONFences 去除 ```json ... ``` 包裹
func stripJSONFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}
