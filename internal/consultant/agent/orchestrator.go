// Package agent runs the consultant's function-calling loop: one model
// call with tools offered, sequential dispatch of any requested tool
// calls, then a closing model call with no tools to force a
// natural-language reply.
package agent

import (
	"context"
	"errors"

	"novyrix_backend/internal/catalog/pricing"
	"novyrix_backend/internal/consultant/quote"
	"novyrix_backend/internal/consultant/session"
	"novyrix_backend/platform/ai/openaichat"
	"novyrix_backend/platform/apperr"
	"novyrix_backend/platform/currency"
	"novyrix_backend/platform/logger"
)

// apologyMessage is the only text surfaced to visitors when the model
// API fails; the real cause goes to the logs.
const apologyMessage = "Sorry, I'm having trouble responding right now. Please try again in a moment."

// ChatCompleter is the slice of the platform LLM client the orchestrator
// needs. Tests substitute a scripted fake.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req openaichat.Request) (openaichat.Message, error)
}

// ToolResult is one dispatched tool call and its serialized outcome,
// echoed in the HTTP response for the chat widget's debug view.
type ToolResult struct {
	Name   string `json:"name"`
	Result any    `json:"result"`
}

// Reply is the orchestrator's answer to one inbound chat message.
type Reply struct {
	Message     string           `json:"message"`
	Quote       *quote.Breakdown `json:"quote,omitempty"`
	ToolResults []ToolResult     `json:"toolResults,omitempty"`
}

// Orchestrator owns one conversation turn end to end: session lookup,
// the two model calls, tool dispatch and session persistence.
type Orchestrator struct {
	llm          ChatCompleter
	catalog      *pricing.Catalog
	sessions     session.Store
	submitter    QuoteSubmitter
	formatter    *currency.Formatter
	log          *logger.Logger
	systemPrompt string
}

// New creates an orchestrator. The submitter may be nil, in which case
// finalized quotes are acknowledged without being persisted.
func New(llm ChatCompleter, catalog *pricing.Catalog, sessions session.Store, formatter *currency.Formatter, log *logger.Logger, personaFile string) (*Orchestrator, error) {
	prompt, err := buildSystemPrompt(personaFile, formatter.Code())
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		llm:          llm,
		catalog:      catalog,
		sessions:     sessions,
		formatter:    formatter,
		log:          log,
		systemPrompt: prompt,
	}, nil
}

// SetQuoteSubmitter wires the CRM boundary. Called from the composition
// root after both modules exist.
func (o *Orchestrator) SetQuoteSubmitter(submitter QuoteSubmitter) {
	o.submitter = submitter
}

// Chat handles one inbound visitor message and returns the consultant's
// reply plus the current quote snapshot.
func (o *Orchestrator) Chat(ctx context.Context, sessionID, userMessage string) (*Reply, error) {
	log := o.log.WithSessionID(sessionID)

	s, err := session.GetOrCreate(ctx, o.sessions, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load session", err)
	}
	s.Append("user", userMessage)

	first, err := o.llm.ChatCompletion(ctx, openaichat.Request{
		Messages: o.buildMessages(s),
		Tools:    toolDeclarations(),
	})
	if err != nil {
		log.UpstreamError("llm", err)
		return nil, apperr.Upstream(apologyMessage)
	}

	reply := &Reply{}

	if len(first.ToolCalls) == 0 {
		reply.Message = first.Content
	} else {
		toolMessages := make([]openaichat.Message, 0, len(first.ToolCalls))
		for _, call := range first.ToolCalls {
			result, err := o.dispatch(ctx, log, s, call)
			if err != nil {
				return nil, err
			}
			reply.ToolResults = append(reply.ToolResults, ToolResult{Name: call.Function.Name, Result: result})
			toolMessages = append(toolMessages, openaichat.ToolResultMessage(call.ID, call.Function.Name, result))
		}

		// Second round: history + the tool exchange, no tools offered,
		// which forces a natural-language summary.
		messages := append(o.buildMessages(s), first)
		messages = append(messages, toolMessages...)
		second, err := o.llm.ChatCompletion(ctx, openaichat.Request{Messages: messages})
		if err != nil {
			log.UpstreamError("llm", err)
			return nil, apperr.Upstream(apologyMessage)
		}
		reply.Message = second.Content
	}

	s.Append("assistant", reply.Message)
	if err := o.sessions.Upsert(ctx, s); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "store session", err)
	}

	if s.Quote != nil {
		b := s.Quote.Breakdown(o.formatter)
		reply.Quote = &b
	}
	return reply, nil
}

// QuoteBreakdown returns the active quote for a session, or nil when the
// session has none.
func (o *Orchestrator) QuoteBreakdown(ctx context.Context, sessionID string) (*quote.Breakdown, error) {
	s, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load session", err)
	}
	if s == nil || s.Quote == nil {
		return nil, nil
	}
	b := s.Quote.Breakdown(o.formatter)
	return &b, nil
}

// Reset discards a session and its quote.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	if err := o.sessions.Delete(ctx, sessionID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete session", err)
	}
	return nil
}

func (o *Orchestrator) buildMessages(s *session.Session) []openaichat.Message {
	messages := make([]openaichat.Message, 0, len(s.Messages)+1)
	messages = append(messages, openaichat.SystemMessage(o.systemPrompt))
	for _, m := range s.Messages {
		messages = append(messages, openaichat.Message{Role: m.Role, Content: m.Content})
	}
	return messages
}

// errorResult is the structured shape fed back to the model for
// conversational (recoverable) failures.
type errorResult struct {
	Error string `json:"error"`
}

// dispatch decodes and executes one tool call. Conversational failures
// come back as structured results for the model; only malformed
// arguments abort the request.
func (o *Orchestrator) dispatch(ctx context.Context, log *logger.Logger, s *session.Session, tc openaichat.ToolCall) (any, error) {
	call, err := decodeCall(tc.Function.Name, tc.Function.Arguments)
	if errors.Is(err, ErrUnknownFunction) {
		log.ToolDispatch(s.ID, tc.Function.Name, false)
		return errorResult{Error: "Unknown function"}, nil
	}
	if err != nil {
		log.ToolDispatch(s.ID, tc.Function.Name, false)
		return nil, apperr.BadRequest("malformed tool arguments for " + tc.Function.Name)
	}

	result := o.execute(ctx, s, call)
	_, failed := result.(errorResult)
	log.ToolDispatch(s.ID, tc.Function.Name, !failed)
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, s *session.Session, call Call) any {
	switch c := call.(type) {
	case StartQuote:
		return o.startQuote(s, c)
	case FindFeatures:
		return o.findFeatures(s, c)
	case AddFeature:
		return o.addFeature(s, c)
	case GetQuote:
		return o.getQuote(s)
	case FinalizeQuote:
		return o.finalizeQuote(ctx, s, c)
	default:
		// decodeCall only produces the variants above.
		return errorResult{Error: "Unknown function"}
	}
}

func (o *Orchestrator) startQuote(s *session.Session, c StartQuote) any {
	serviceType, err := pricing.ParseServiceType(c.ServiceType)
	if err != nil {
		return errorResult{Error: "Unknown service type: " + c.ServiceType}
	}

	q, err := quote.Start(o.catalog, serviceType)
	if err != nil {
		return errorResult{Error: "Could not start a quote for " + c.ServiceType}
	}
	s.Quote = q

	return map[string]any{
		"started":     true,
		"serviceType": string(serviceType),
		"foundation":  q.Mandatory[0],
		"total":       q.Total,
		"totalText":   o.formatter.Format(q.Total),
	}
}

func (o *Orchestrator) findFeatures(s *session.Session, c FindFeatures) any {
	serviceTypeValue := c.ServiceType
	if serviceTypeValue == "" && s.Quote != nil {
		serviceTypeValue = string(s.Quote.ServiceType)
	}
	if serviceTypeValue == "" {
		return errorResult{Error: "No active quote. Start a quote first or pass serviceType."}
	}

	serviceType, err := pricing.ParseServiceType(serviceTypeValue)
	if err != nil {
		return errorResult{Error: "Unknown service type: " + serviceTypeValue}
	}
	matrix, err := o.catalog.Matrix(serviceType)
	if err != nil {
		return errorResult{Error: "Unknown service type: " + serviceTypeValue}
	}

	matches := matrix.Search(c.Query)
	results := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]any{
			"featureId":   m.Feature.ID,
			"name":        m.Feature.Name,
			"description": m.Feature.Description,
			"price":       m.Feature.Price,
			"priceText":   o.formatter.Format(m.Feature.Price),
			"score":       m.Score,
		})
	}
	return map[string]any{"matches": results}
}

func (o *Orchestrator) addFeature(s *session.Session, c AddFeature) any {
	if s.Quote == nil {
		return errorResult{Error: "No active quote. Start a quote first."}
	}

	item, err := s.Quote.AddFeature(o.catalog, c.FeatureID)
	switch {
	case errors.Is(err, quote.ErrFeatureNotFound):
		return errorResult{Error: "Feature " + c.FeatureID + " not found"}
	case errors.Is(err, quote.ErrAlreadyAdded):
		return map[string]any{
			"alreadyAdded": true,
			"item":         item,
			"total":        s.Quote.Total,
			"totalText":    o.formatter.Format(s.Quote.Total),
		}
	case err != nil:
		return errorResult{Error: "Could not add feature " + c.FeatureID}
	}

	return map[string]any{
		"added":     item,
		"total":     s.Quote.Total,
		"totalText": o.formatter.Format(s.Quote.Total),
	}
}

func (o *Orchestrator) getQuote(s *session.Session) any {
	if s.Quote == nil {
		return errorResult{Error: "No active quote"}
	}
	return s.Quote.Breakdown(o.formatter)
}

func (o *Orchestrator) finalizeQuote(ctx context.Context, s *session.Session, c FinalizeQuote) any {
	if s.Quote == nil {
		return errorResult{Error: "No active quote"}
	}
	if c.ClientName == "" || c.ClientEmail == "" {
		return errorResult{Error: "Client name and email are required to submit a quote request"}
	}

	result := map[string]any{
		"submitted":   true,
		"clientName":  c.ClientName,
		"clientEmail": c.ClientEmail,
		"total":       s.Quote.Total,
		"totalText":   o.formatter.Format(s.Quote.Total),
	}

	if o.submitter != nil {
		receipt, err := o.submitter.SubmitQuote(ctx, Lead{
			SessionID:   s.ID,
			ClientName:  c.ClientName,
			ClientEmail: c.ClientEmail,
			ClientPhone: c.ClientPhone,
			Notes:       c.Notes,
		}, s.Quote)
		if err != nil {
			o.log.UpstreamError("crm", err)
			return errorResult{Error: "Could not submit the quote request, please try again"}
		}
		result["requestId"] = receipt.RequestID
	}

	return result
}
