package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/internal/consultant/quote"
	"novyrix_backend/internal/consultant/session"
	"novyrix_backend/platform/ai/openaichat"
	"novyrix_backend/platform/apperr"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/logger"
)

// fakeLLM replays a scripted sequence of model responses and records
// every request it receives.
type fakeLLM struct {
	responses []openaichat.Message
	requests  []openaichat.Request
	err       error
}

func (f *fakeLLM) ChatCompletion(_ context.Context, req openaichat.Request) (openaichat.Message, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openaichat.Message{}, f.err
	}
	if len(f.responses) == 0 {
		return openaichat.Message{}, errors.New("fake llm: no scripted response left")
	}
	msg := f.responses[0]
	f.responses = f.responses[1:]
	return msg, nil
}

func toolCall(id, name, arguments string) openaichat.ToolCall {
	return openaichat.ToolCall{
		ID:   id,
		Type: "function",
		Function: openaichat.FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}

func newTestOrchestrator(t *testing.T, llm ChatCompleter) (*Orchestrator, session.Store) {
	t.Helper()

	catalog, err := pricing.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	store := session.NewMemoryStore(time.Hour, 100)
	t.Cleanup(store.Close)

	o, err := New(llm, catalog, store, currency.NewFormatter("KES"), logger.New("development"), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o, store
}

func TestChatPlainReplyWithoutToolCalls(t *testing.T) {
	llm := &fakeLLM{responses: []openaichat.Message{
		openaichat.AssistantMessage("Hi! What kind of project do you have in mind?"),
	}}
	o, store := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-1", "hello")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Message != "Hi! What kind of project do you have in mind?" {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	if reply.Quote != nil || len(reply.ToolResults) != 0 {
		t.Fatal("plain reply should carry no quote or tool results")
	}
	if len(llm.requests) != 1 {
		t.Fatalf("expected a single model call, got %d", len(llm.requests))
	}
	if len(llm.requests[0].Tools) == 0 {
		t.Fatal("first model call must offer tools")
	}

	s, err := store.Get(context.Background(), "sess-1")
	if err != nil || s == nil {
		t.Fatalf("expected persisted session, got %v (%v)", s, err)
	}
	if len(s.Messages) != 2 || s.Messages[0].Role != "user" || s.Messages[1].Role != "assistant" {
		t.Fatalf("unexpected transcript: %+v", s.Messages)
	}
}

func TestChatFirstCallOffersSystemPromptFirst(t *testing.T) {
	llm := &fakeLLM{responses: []openaichat.Message{openaichat.AssistantMessage("ok")}}
	o, _ := newTestOrchestrator(t, llm)

	if _, err := o.Chat(context.Background(), "sess-1", "hello"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	msgs := llm.requests[0].Messages
	if len(msgs) < 2 || msgs[0].Role != "system" {
		t.Fatalf("expected system prompt first, got %+v", msgs)
	}
	if msgs[len(msgs)-1].Role != "user" || msgs[len(msgs)-1].Content != "hello" {
		t.Fatalf("expected trailing user message, got %+v", msgs[len(msgs)-1])
	}
}

func TestChatDispatchesToolCallsAndMakesSecondCall(t *testing.T) {
	first := openaichat.Message{
		Role:      "assistant",
		ToolCalls: []openaichat.ToolCall{toolCall("call-1", "start_quote", `{"serviceType":"website"}`)},
	}
	llm := &fakeLLM{responses: []openaichat.Message{
		first,
		openaichat.AssistantMessage("I've started a website quote at KES 45,000."),
	}}
	o, _ := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-1", "I want a website")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if len(llm.requests) != 2 {
		t.Fatalf("expected two model calls, got %d", len(llm.requests))
	}
	if len(llm.requests[1].Tools) != 0 {
		t.Fatal("second model call must offer no tools")
	}

	second := llm.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call-1" {
		t.Fatalf("expected trailing tool result for call-1, got %+v", last)
	}

	if reply.Message != "I've started a website quote at KES 45,000." {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	if reply.Quote == nil || reply.Quote.Total != 45000 {
		t.Fatalf("expected quote snapshot with foundation total, got %+v", reply.Quote)
	}
	if len(reply.ToolResults) != 1 || reply.ToolResults[0].Name != "start_quote" {
		t.Fatalf("unexpected tool results: %+v", reply.ToolResults)
	}
}

func TestChatUnknownFunctionFeedsErrorResultBack(t *testing.T) {
	first := openaichat.Message{
		Role:      "assistant",
		ToolCalls: []openaichat.ToolCall{toolCall("call-1", "launch_rocket", `{}`)},
	}
	llm := &fakeLLM{responses: []openaichat.Message{
		first,
		openaichat.AssistantMessage("Sorry, I can't do that."),
	}}
	o, _ := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-1", "launch a rocket")
	if err != nil {
		t.Fatalf("unknown function must not abort the exchange: %v", err)
	}

	second := llm.requests[1].Messages
	last := second[len(second)-1]
	var payload map[string]string
	if err := json.Unmarshal([]byte(last.Content), &payload); err != nil {
		t.Fatalf("tool result not JSON: %v", err)
	}
	if payload["error"] != "Unknown function" {
		t.Fatalf("expected {error: Unknown function}, got %q", last.Content)
	}
	if reply.Message != "Sorry, I can't do that." {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestChatMalformedArgumentsAbortRequest(t *testing.T) {
	first := openaichat.Message{
		Role:      "assistant",
		ToolCalls: []openaichat.ToolCall{toolCall("call-1", "add_feature", `{"featureId":`)},
	}
	llm := &fakeLLM{responses: []openaichat.Message{first}}
	o, _ := newTestOrchestrator(t, llm)

	_, err := o.Chat(context.Background(), "sess-1", "add it")
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for malformed arguments, got %v", err)
	}
}

func TestChatUpstreamFailureSurfacesApology(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	o, _ := newTestOrchestrator(t, llm)

	_, err := o.Chat(context.Background(), "sess-1", "hello")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != apologyMessage {
		t.Fatalf("expected the generic apology, got %v", err)
	}
}

func TestChatSequentialMultiToolDispatch(t *testing.T) {
	first := openaichat.Message{
		Role: "assistant",
		ToolCalls: []openaichat.ToolCall{
			toolCall("call-1", "start_quote", `{"serviceType":"automation"}`),
			toolCall("call-2", "add_feature", `{"featureId":"WF-MPESA"}`),
		},
	}
	llm := &fakeLLM{responses: []openaichat.Message{
		first,
		openaichat.AssistantMessage("Done: automation quote with M-Pesa reconciliation."),
	}}
	o, _ := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-1", "automation with mpesa")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if len(reply.ToolResults) != 2 {
		t.Fatalf("expected 2 tool results, got %d", len(reply.ToolResults))
	}
	// WF-CORE 55000 + WF-MPESA 40000; the second call depends on the
	// first having run, so order is load-bearing.
	if reply.Quote == nil || reply.Quote.Total != 95000 {
		t.Fatalf("expected total 95000, got %+v", reply.Quote)
	}
}

func TestEndToEndAutomationScenario(t *testing.T) {
	catalog, err := pricing.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	core, err := catalog.Foundation(pricing.ServiceAutomation)
	if err != nil {
		t.Fatalf("Foundation: %v", err)
	}
	matrix, _ := catalog.Matrix(pricing.ServiceAutomation)
	invoice, ok := matrix.Get("WF-INVOICE")
	if !ok {
		t.Fatal("catalog missing WF-INVOICE")
	}

	llm := &fakeLLM{responses: []openaichat.Message{
		{Role: "assistant", ToolCalls: []openaichat.ToolCall{
			toolCall("c1", "start_quote", `{"serviceType":"automation"}`),
			toolCall("c2", "add_feature", `{"featureId":"WF-INVOICE"}`),
			toolCall("c3", "finalize_quote", `{"clientName":"Wanjiku Kamau","clientEmail":"wanjiku@example.co.ke"}`),
		}},
		openaichat.AssistantMessage("Submitted!"),
	}}
	o, _ := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-e2e", "set me up")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	wantTotal := core.Price + invoice.Price
	if reply.Quote == nil || reply.Quote.Total != wantTotal {
		t.Fatalf("expected total %d, got %+v", wantTotal, reply.Quote)
	}

	finalize, ok := reply.ToolResults[2].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected finalize result: %+v", reply.ToolResults[2].Result)
	}
	if finalize["clientName"] != "Wanjiku Kamau" || finalize["clientEmail"] != "wanjiku@example.co.ke" {
		t.Fatalf("finalize must echo client details unchanged, got %+v", finalize)
	}
	if finalize["submitted"] != true {
		t.Fatalf("expected submitted=true, got %+v", finalize)
	}
}

// recordingSubmitter captures the lead and quote handed to the CRM port.
type recordingSubmitter struct {
	lead Lead
	q    *quote.Quote
	err  error
}

func (r *recordingSubmitter) SubmitQuote(_ context.Context, lead Lead, q *quote.Quote) (Receipt, error) {
	r.lead = lead
	r.q = q
	if r.err != nil {
		return Receipt{}, r.err
	}
	return Receipt{RequestID: "req-123"}, nil
}

func TestFinalizeInvokesSubmitter(t *testing.T) {
	llm := &fakeLLM{responses: []openaichat.Message{
		{Role: "assistant", ToolCalls: []openaichat.ToolCall{
			toolCall("c1", "start_quote", `{"serviceType":"starter"}`),
			toolCall("c2", "finalize_quote", `{"clientName":"Ali","clientEmail":"ali@example.com","clientPhone":"0712345678"}`),
		}},
		openaichat.AssistantMessage("All done."),
	}}
	o, _ := newTestOrchestrator(t, llm)
	submitter := &recordingSubmitter{}
	o.SetQuoteSubmitter(submitter)

	reply, err := o.Chat(context.Background(), "sess-1", "go ahead")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if submitter.lead.ClientName != "Ali" || submitter.lead.SessionID != "sess-1" {
		t.Fatalf("unexpected lead: %+v", submitter.lead)
	}
	if submitter.q == nil || submitter.q.ServiceType != pricing.ServiceStarter {
		t.Fatalf("unexpected quote handed to submitter: %+v", submitter.q)
	}

	finalize := reply.ToolResults[1].Result.(map[string]any)
	if finalize["requestId"] != "req-123" {
		t.Fatalf("expected receipt request ID in result, got %+v", finalize)
	}
}

func TestFinalizeWithoutActiveQuote(t *testing.T) {
	llm := &fakeLLM{responses: []openaichat.Message{
		{Role: "assistant", ToolCalls: []openaichat.ToolCall{
			toolCall("c1", "finalize_quote", `{"clientName":"Ali","clientEmail":"ali@example.com"}`),
		}},
		openaichat.AssistantMessage("Let's build a quote first."),
	}}
	o, _ := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-1", "submit")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	result, ok := reply.ToolResults[0].Result.(errorResult)
	if !ok || result.Error != "No active quote" {
		t.Fatalf("expected 'No active quote' error result, got %+v", reply.ToolResults[0].Result)
	}
}

func TestQuoteBreakdownAndReset(t *testing.T) {
	llm := &fakeLLM{responses: []openaichat.Message{
		{Role: "assistant", ToolCalls: []openaichat.ToolCall{
			toolCall("c1", "start_quote", `{"serviceType":"website"}`),
		}},
		openaichat.AssistantMessage("Started."),
	}}
	o, _ := newTestOrchestrator(t, llm)
	ctx := context.Background()

	if _, err := o.Chat(ctx, "sess-1", "website please"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	b, err := o.QuoteBreakdown(ctx, "sess-1")
	if err != nil {
		t.Fatalf("QuoteBreakdown: %v", err)
	}
	if b == nil || b.Total != 45000 {
		t.Fatalf("expected website foundation total, got %+v", b)
	}

	if err := o.Reset(ctx, "sess-1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	b, err = o.QuoteBreakdown(ctx, "sess-1")
	if err != nil {
		t.Fatalf("QuoteBreakdown after reset: %v", err)
	}
	if b != nil {
		t.Fatalf("expected no quote after reset, got %+v", b)
	}
}

func TestFindFeaturesUsesActiveQuoteServiceType(t *testing.T) {
	llm := &fakeLLM{responses: []openaichat.Message{
		{Role: "assistant", ToolCalls: []openaichat.ToolCall{
			toolCall("c1", "start_quote", `{"serviceType":"website"}`),
			toolCall("c2", "find_features", `{"query":"accept mpesa payments"}`),
		}},
		openaichat.AssistantMessage("Found it."),
	}}
	o, _ := newTestOrchestrator(t, llm)

	reply, err := o.Chat(context.Background(), "sess-1", "website with mpesa")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	search := reply.ToolResults[1].Result.(map[string]any)
	matches := search["matches"].([]map[string]any)
	if len(matches) == 0 {
		t.Fatal("expected at least one match for mpesa query")
	}
	if matches[0]["featureId"] != "WEB-MPESA" {
		t.Fatalf("expected WEB-MPESA as top match, got %+v", matches[0])
	}
}
