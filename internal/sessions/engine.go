package sessions

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/omarselim/codeviz/internal/archive"
	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/history"
	"github.com/omarselim/codeviz/internal/llm"
	"github.com/omarselim/codeviz/internal/tickets"
)

// Describer produces the analysis text for a class method.
type Describer interface {
	Describe(ctx context.Context, className, methodName, extra string) (string, error)
}

// Bundler turns an analysis text into rendered diagram artifacts.
type Bundler interface {
	Generate(ctx context.Context, req bundle.Request) bundle.Manifest
}

// Engine routes chat messages to the diagram pipeline, the ticket store,
// or a grounded question answer.
type Engine struct {
	store    *Store
	analyzer Describer
	bundler  Bundler
	archive  *archive.Store
	history  *history.Store
	tickets  *tickets.Store
	provider llm.Provider
	model    string
}

// EngineConfig collects the collaborators an Engine needs. Archive, history
// and tickets may be nil; the engine degrades to diagram-only behavior.
type EngineConfig struct {
	Store    *Store
	Analyzer Describer
	Bundler  Bundler
	Archive  *archive.Store
	History  *history.Store
	Tickets  *tickets.Store
	Provider llm.Provider
	Model    string
}

// NewEngine creates a chat engine.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		store:    cfg.Store,
		analyzer: cfg.Analyzer,
		bundler:  cfg.Bundler,
		archive:  cfg.Archive,
		history:  cfg.History,
		tickets:  cfg.Tickets,
		provider: cfg.Provider,
		model:    cfg.Model,
	}
}

// Reply is the engine's answer to one chat message.
type Reply struct {
	SessionID string        `json:"session_id"`
	Intent    Intent        `json:"intent"`
	Content   string        `json:"content"`
	Links     []bundle.Link `json:"links,omitempty"`
	TicketID  string        `json:"ticket_id,omitempty"`
	RecordID  string        `json:"record_id,omitempty"`
}

// HandleMessage processes one user message in a session: it classifies the
// intent, runs the matching pipeline, and records both sides of the
// conversation.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, content string) (*Reply, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}

	intent := Classify(content)
	if _, err := e.store.AddMessage(ctx, Message{
		SessionID: sessionID,
		Role:      "user",
		Content:   content,
		Intent:    intent,
	}); err != nil {
		return nil, err
	}

	reply := &Reply{SessionID: sessionID, Intent: intent}
	switch intent {
	case IntentDiagram:
		err = e.handleDiagram(ctx, sess, content, reply)
	case IntentTicket:
		err = e.handleTicket(ctx, sess, content, reply)
	default:
		err = e.handleQuestion(ctx, content, reply)
	}
	if err != nil {
		return nil, err
	}

	if _, err := e.store.AddMessage(ctx, Message{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   reply.Content,
		Intent:    intent,
	}); err != nil {
		log.Printf("sessions: recording assistant message: %v", err)
	}
	return reply, nil
}

func (e *Engine) handleDiagram(ctx context.Context, sess *Session, content string, reply *Reply) error {
	className, methodName, ok := ExtractTarget(content)
	if !ok {
		reply.Content = "Which class and method should I diagram? Name it like OrderService.processOrder."
		return nil
	}

	analysis, err := e.analyzer.Describe(ctx, className, methodName, content)
	if err != nil {
		return fmt.Errorf("describing %s.%s: %w", className, methodName, err)
	}

	req := bundle.Request{
		Project:      sess.Project,
		ClassName:    className,
		MethodName:   methodName,
		AnalysisText: analysis,
	}
	manifest := e.bundler.Generate(ctx, req)

	if e.archive != nil {
		rec, err := e.archive.Save(ctx, req, manifest)
		if err != nil {
			log.Printf("sessions: archiving record: %v", err)
		} else {
			reply.RecordID = rec.ID
			if e.history != nil {
				if err := e.history.Add(ctx, history.Entry{
					ID:         rec.ID,
					Project:    rec.Project,
					ClassName:  rec.ClassName,
					MethodName: rec.MethodName,
					Analysis:   rec.Analysis,
				}); err != nil {
					log.Printf("sessions: indexing analysis: %v", err)
				}
			}
		}
	}

	reply.Links = manifest.Links
	reply.Content = diagramSummary(className, methodName, manifest)
	return nil
}

func (e *Engine) handleTicket(ctx context.Context, sess *Session, content string, reply *Reply) error {
	if e.tickets == nil {
		reply.Content = "Ticket tracking is not configured on this server."
		return nil
	}

	t, err := e.tickets.Create(ctx, tickets.Ticket{
		Project:     sess.Project,
		Title:       ticketTitle(content),
		Description: content,
		Source:      "chat",
	})
	if err != nil {
		return fmt.Errorf("creating ticket: %w", err)
	}

	reply.TicketID = t.ID
	reply.Content = fmt.Sprintf("Filed ticket %s. It will show up in the ticket list as open.", t.ID)
	return nil
}

func (e *Engine) handleQuestion(ctx context.Context, content string, reply *Reply) error {
	if e.provider == nil {
		reply.Content = "Question answering is not configured on this server."
		return nil
	}

	var entries []history.Entry
	if e.history != nil {
		var err error
		entries, err = e.history.Search(ctx, content, 5)
		if err != nil {
			log.Printf("sessions: searching history: %v", err)
		}
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: questionSystemPrompt},
			{Role: llm.RoleUser, Content: buildQuestionPrompt(content, entries)},
		},
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	reply.Content = strings.TrimSpace(resp.Content)
	return nil
}

const questionSystemPrompt = `You are an assistant for a codebase visualization tool. Answer questions about application flows using the past flow analyses provided as context. Reference actual class and method names. If the analyses do not cover the question, say what you do know and suggest generating a diagram for the relevant method.`

func buildQuestionPrompt(question string, entries []history.Entry) string {
	var b strings.Builder

	b.WriteString("## Past Flow Analyses\n")
	if len(entries) > 0 {
		for _, e := range entries {
			fmt.Fprintf(&b, "### %s.%s (%s)\n%s\n\n", e.ClassName, e.MethodName, e.Project, e.Analysis)
		}
	} else {
		b.WriteString("(No analyses recorded yet)\n")
	}

	fmt.Fprintf(&b, "\n## Question\n%s\n", question)
	return b.String()
}

func diagramSummary(className, methodName string, manifest bundle.Manifest) string {
	var b strings.Builder
	if len(manifest.Links) == 0 {
		fmt.Fprintf(&b, "I could not produce diagrams for %s.%s.", className, methodName)
	} else {
		fmt.Fprintf(&b, "Generated %d diagram(s) for %s.%s:", len(manifest.Links), className, methodName)
		for _, l := range manifest.Links {
			fmt.Fprintf(&b, "\n- %s: %s", l.Label, l.Path)
		}
	}
	if manifest.Notice != "" {
		b.WriteString("\n")
		b.WriteString(manifest.Notice)
	}
	return b.String()
}

func ticketTitle(content string) string {
	title := strings.TrimSpace(content)
	if idx := strings.IndexAny(title, ".\n"); idx > 0 {
		title = title[:idx]
	}
	const maxTitle = 120
	if r := []rune(title); len(r) > maxTitle {
		title = string(r[:maxTitle])
	}
	return title
}

// Store returns the underlying session store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}
