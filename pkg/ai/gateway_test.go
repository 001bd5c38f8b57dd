package ai

import (
	"errors"
	"strings"
	"testing"
)

// fakeCompleter 固定返回预设文本或错误
type fakeCompleter struct {
	text string
	err  error

	lastPrompt   string
	lastWantJSON bool
}

func (f *fakeCompleter) Complete(prompt string, wantJSON bool) (string, error) {
	f.lastPrompt = prompt
	f.lastWantJSON = wantJSON
	return f.text, f.err
}

func TestGenerateProposalContentFallsBackOnTransportError(t *testing.T) {
	gw := NewGatewayWithCompleter(&fakeCompleter{err: &TransportError{Err: errors.New("connection refused")}})

	got := gw.GenerateProposalContent("Apex", "FinTech", []string{"Web Dev"}, "")
	want := FallbackProposalContent()
	if got.Hero.Title != want.Hero.Title || got.Engine.Description != want.Engine.Description {
		t.Errorf("got %+v, want fallback content", got)
	}
	if got.Investment == nil || got.Phases == nil {
		t.Error("fallback slices must be non-nil for stable JSON rendering")
	}
}

func TestGenerateProposalContentFallsBackOnGarbage(t *testing.T) {
	gw := NewGatewayWithCompleter(&fakeCompleter{text: "sorry, I cannot help with that"})

	got := gw.GenerateProposalContent("Apex", "FinTech", []string{"SEO"}, "")
	if got.Hero.Title != "Error" {
		t.Errorf("hero title = %q, want fallback on unparseable response", got.Hero.Title)
	}
}

func TestGenerateProposalContentParsesFencedJSON(t *testing.T) {
	fake := &fakeCompleter{text: "```json\n{\"hero\":{\"title\":\"Proposal for Apex\",\"subtitle\":\"sub\"},\"engine\":{\"generatedValue\":24680,\"description\":\"d\"},\"phases\":[],\"investment\":[{\"item\":\"Setup\",\"costInitial\":5000,\"costMonthly\":0}],\"strategy\":[],\"adSpend\":[]}\n```"}
	gw := NewGatewayWithCompleter(fake)

	got := gw.GenerateProposalContent("Apex", "FinTech", []string{"Web Dev"}, "dark mode")
	if got.Hero.Title != "Proposal for Apex" {
		t.Errorf("hero title = %q", got.Hero.Title)
	}
	if got.Engine.GeneratedValue != 24680 {
		t.Errorf("generated value = %v, want 24680", got.Engine.GeneratedValue)
	}
	if len(got.Investment) != 1 || got.Investment[0].CostInitial != 5000 {
		t.Errorf("investment = %v", got.Investment)
	}
	if !fake.lastWantJSON {
		t.Error("structured generation must request JSON output")
	}
	if !strings.Contains(fake.lastPrompt, "Apex") || !strings.Contains(fake.lastPrompt, "Web Dev") {
		t.Error("prompt missing client context")
	}
}

func TestGenerateMarketingStrategyFallback(t *testing.T) {
	gw := NewGatewayWithCompleter(&fakeCompleter{err: &TransportError{Err: errors.New("missing API credential")}})

	got := gw.GenerateMarketingStrategy("Apex", map[string]string{"goal": "leads"})
	if got.ExecutiveSummary != "Error generating strategy." {
		t.Errorf("summary = %q, want fallback", got.ExecutiveSummary)
	}
	if got.Roadmap == nil || got.Channels == nil || got.KPIs == nil {
		t.Error("fallback slices must be non-nil")
	}
}

func TestGenerateProjectTasksTruncatesStrategy(t *testing.T) {
	fake := &fakeCompleter{text: `[{"title":"Task 1","description":"d","priority":"High","checklist":[]}]`}
	gw := NewGatewayWithCompleter(fake)

	long := strings.Repeat("x", 5000)
	got := gw.GenerateProjectTasks(long, "Website Redesign")
	if len(got) != 1 || got[0].Title != "Task 1" {
		t.Fatalf("tasks = %v", got)
	}
	if !strings.Contains(fake.lastPrompt, strings.Repeat("x", strategyExcerptLimit)) {
		t.Error("strategy excerpt missing from prompt")
	}
	if strings.Contains(fake.lastPrompt, strings.Repeat("x", strategyExcerptLimit+1)) {
		t.Error("strategy context not truncated in prompt")
	}
}

func TestGenerateProjectTasksFallbackIsEmptyList(t *testing.T) {
	gw := NewGatewayWithCompleter(&fakeCompleter{text: "not json"})

	got := gw.GenerateProjectTasks("strategy", "Project")
	if got == nil {
		t.Fatal("fallback must be an empty list, not nil")
	}
	if len(got) != 0 {
		t.Errorf("fallback tasks = %v, want empty", got)
	}
}

func TestGenerateInvoiceEmailFallbackKeepsReference(t *testing.T) {
	gw := NewGatewayWithCompleter(&fakeCompleter{err: &ParseError{Err: errors.New("bad shape")}})

	got := gw.GenerateInvoiceEmail("Apex", "INV-2026-1042", 2500, "2026-09-15")
	if got.Subject != "Invoice INV-2026-1042" {
		t.Errorf("subject = %q", got.Subject)
	}
	if got.Body == "" {
		t.Error("fallback body empty")
	}
}

func TestChatReply(t *testing.T) {
	fake := &fakeCompleter{text: "You can reset it from the settings page."}
	gw := NewGatewayWithCompleter(fake)

	if got := gw.ChatReply("how do I reset my password?"); got != "You can reset it from the settings page." {
		t.Errorf("reply = %q", got)
	}
	if fake.lastWantJSON {
		t.Error("chat must not request JSON output")
	}

	gw = NewGatewayWithCompleter(&fakeCompleter{err: &TransportError{Err: errors.New("down")}})
	if got := gw.ChatReply("hello"); got != "System offline. Please try again." {
		t.Errorf("offline reply = %q", got)
	}
}

func TestStripJSONFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                      "{\"a\":1}",
		"```json\n{\"a\":1}\n```":        "{\"a\":1}",
		"```\n{\"a\":1}\n```":            "{\"a\":1}",
		"  ```json\n{\"a\":1}\n```   \n": "{\"a\":1}",
	}
	for in, want := range cases {
		if got := stripJSONFences(in); got != want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", in, got, want)
		}
	}
}
