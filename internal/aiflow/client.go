// Package aiflow implements the AI capabilities of the workspace as typed
// request/response flows over a generative model: grammar correction,
// rewriting, chat about a document, data manipulation and formula creation.
//
// Each flow validates its input, renders a prompt, asks the model for JSON
// matching the output schema and validates the decoded reply. There are no
// retries and no streaming.
package aiflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/maruel/workpad/internal/metrics"
)

// Request is what a Generator receives.
type Request struct {
	Flow        Flow
	Prompt      string
	Schema      *jsonschema.Schema
	Temperature float32
}

// Generator produces a JSON reply for a prompt, constrained to Schema.
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// Options configures a Client.
type Options struct {
	// Temperature is passed to the generator.
	Temperature float32
	// Timeout bounds a single call when positive.
	Timeout time.Duration
}

// Client runs the flows against a Generator.
type Client struct {
	gen  Generator
	opts Options
}

// NewClient returns a Client using gen.
func NewClient(gen Generator, opts Options) *Client {
	return &Client{gen: gen, opts: opts}
}

// CorrectGrammar proofreads a document.
func (c *Client) CorrectGrammar(ctx context.Context, in *CorrectGrammarInput) (*CorrectGrammarOutput, error) {
	return invoke[CorrectGrammarOutput](ctx, c, FlowCorrectGrammar, in)
}

// RewriteDocument rewrites a passage following instructions.
func (c *Client) RewriteDocument(ctx context.Context, in *RewriteDocumentInput) (*RewriteDocumentOutput, error) {
	return invoke[RewriteDocumentOutput](ctx, c, FlowRewriteDocument, in)
}

// ChatWithDocument answers the next instruction of a conversation with a
// reply and a rewritten document.
func (c *Client) ChatWithDocument(ctx context.Context, in *ChatWithDocumentInput) (*ChatWithDocumentOutput, error) {
	return invoke[ChatWithDocumentOutput](ctx, c, FlowChatWithDoc, in)
}

// ManipulateData transforms CSV data following an instruction.
func (c *Client) ManipulateData(ctx context.Context, in *ManipulateDataInput) (*ManipulateDataOutput, error) {
	return invoke[ManipulateDataOutput](ctx, c, FlowManipulateData, in)
}

// CreateFormula writes a spreadsheet formula from a description.
func (c *Client) CreateFormula(ctx context.Context, in *CreateFormulaInput) (*CreateFormulaOutput, error) {
	return invoke[CreateFormulaOutput](ctx, c, FlowCreateFormula, in)
}

// invoke runs one flow: validate, prompt, generate, decode, validate.
func invoke[Out any, PtrOut interface {
	*Out
	validator
}](ctx context.Context, c *Client, flow Flow, in validator) (*Out, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	prompt, err := renderPrompt(flow, in)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to render prompt: %w", flow, err)
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.gen.Generate(ctx, &Request{
		Flow:        flow,
		Prompt:      prompt,
		Schema:      schemaFor(PtrOut(new(Out))),
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		finish(ctx, flow, start, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", flow, ErrUnavailable, err)
	}
	out := PtrOut(new(Out))
	if err := decodeReply(reply, out); err != nil {
		finish(ctx, flow, start, "invalid_output", err)
		return nil, fmt.Errorf("%s: %w", flow, err)
	}
	finish(ctx, flow, start, "success", nil)
	return out, nil
}

// decodeReply parses the model reply into out and validates it. Replies
// wrapped in a markdown code fence are accepted.
func decodeReply(reply string, out validator) error {
	reply = stripFence(reply)
	d := json.NewDecoder(strings.NewReader(reply))
	if err := d.Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	if err := out.Validate(); err != nil {
		if !errors.Is(err, ErrInvalidOutput) {
			err = fmt.Errorf("%w: %w", ErrInvalidOutput, err)
		}
		return err
	}
	return nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func finish(ctx context.Context, flow Flow, start time.Time, status string, err error) {
	d := time.Since(start)
	metrics.RecordAIRequest(string(flow), status, d)
	if err != nil {
		slog.WarnContext(ctx, "ai", "flow", flow, "status", status, "dur", d.Round(time.Millisecond), "err", err)
		return
	}
	slog.InfoContext(ctx, "ai", "flow", flow, "dur", d.Round(time.Millisecond))
}
