package ai

import (
	"fmt"

	"refiniti-ops-backend/pkg/models"
)

// 兜底值构造：网关的"永不抛错、总返回可渲染内容"契约的另一半。
// 独立成函数以便单独测试兜底策略。

// FallbackProposalContent 提案生成失败时的占位内容
func FallbackProposalContent() models.ProposalContent {
	return models.ProposalContent{
		Hero:       models.ProposalHero{Title: "Error", Subtitle: "Could not generate proposal"},
		Engine:     models.ProposalEngine{GeneratedValue: 0, Description: "System Error"},
		Phases:     []models.ProposalPhase{},
		Investment: []models.InvestmentItem{},
		Strategy:   []models.StrategyNote{},
		AdSpend:    []models.AdSpendRow{},
	}
}

// FallbackMarketingStrategy 策略生成失败时的占位内容
func FallbackMarketingStrategy() models.MarketingStrategy {
	return models.MarketingStrategy{
		ExecutiveSummary: "Error generating strategy.",
		TargetAudience:   "N/A",
		BrandVoice:       "N/A",
		Roadmap:          []models.RoadmapPhase{},
		Channels:         []string{},
		KPIs:             []string{},
	}
}

// FallbackProjectTasks 任务生成失败时返回空列表
func FallbackProjectTasks() []models.GeneratedTask {
	return []models.GeneratedTask{}
}

// FallbackInvoiceEmail 邮件生成失败时的通用文案
func FallbackInvoiceEmail(invoiceID string) models.EmailDraft {
	return models.EmailDraft{
		Subject: fmt.Sprintf("Invoice %s", invoiceID),
		Body:    "Please find the invoice attached.",
	}
}

// FallbackChatReply 客服机器人失败时的离线提示
func FallbackChatReply() string {
	return "System offline. Please try again."
}
