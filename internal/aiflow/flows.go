package aiflow

import (
	"fmt"
	"strings"
)

// Flow names an AI capability.
type Flow string

// Flows.
const (
	FlowCorrectGrammar  Flow = "correctGrammar"
	FlowRewriteDocument Flow = "rewriteDocument"
	FlowChatWithDoc     Flow = "chatWithDocument"
	FlowManipulateData  Flow = "manipulateData"
	FlowCreateFormula   Flow = "createFormula"
)

// validator is implemented by every flow input and output.
type validator interface {
	Validate() error
}

// CorrectGrammarInput is the document to proofread.
type CorrectGrammarInput struct {
	Text string `json:"text" jsonschema:"description=The text to correct"`
}

// Validate implements validator.
func (i *CorrectGrammarInput) Validate() error {
	if strings.TrimSpace(i.Text) == "" {
		return missing("text", "Please provide text to correct.")
	}
	return nil
}

// CorrectGrammarOutput is the proofread document.
type CorrectGrammarOutput struct {
	CorrectedText string `json:"correctedText" jsonschema:"description=The text with grammar and spelling corrected"`
}

// Validate implements validator.
func (o *CorrectGrammarOutput) Validate() error {
	if o.CorrectedText == "" {
		return fmt.Errorf("%w: correctedText is empty", ErrInvalidOutput)
	}
	return nil
}

// RewriteDocumentInput asks for a passage to be rewritten.
type RewriteDocumentInput struct {
	SelectedText string `json:"selectedText" jsonschema:"description=The text selected by the user to be rewritten"`
	Instructions string `json:"instructions" jsonschema:"description=Natural language instructions for rewriting the selected text"`
}

// Validate implements validator.
func (i *RewriteDocumentInput) Validate() error {
	if strings.TrimSpace(i.Instructions) == "" {
		return missing("instructions", "Please provide rewrite instructions.")
	}
	if strings.TrimSpace(i.SelectedText) == "" {
		return missing("selectedText", "Please provide text to rewrite.")
	}
	return nil
}

// RewriteDocumentOutput is the rewritten passage.
type RewriteDocumentOutput struct {
	RewrittenText string `json:"rewrittenText" jsonschema:"description=The rewritten text based on the instructions"`
}

// Validate implements validator.
func (o *RewriteDocumentOutput) Validate() error {
	if o.RewrittenText == "" {
		return fmt.Errorf("%w: rewrittenText is empty", ErrInvalidOutput)
	}
	return nil
}

// ChatMessage is one turn of a chat about a document.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "bot"
	Content string `json:"content"`
}

// ChatWithDocumentInput is the next instruction of a conversation about a
// document.
type ChatWithDocumentInput struct {
	Document    string        `json:"document" jsonschema:"description=The current content of the document"`
	Instruction string        `json:"instruction" jsonschema:"description=The user's instruction for what to change"`
	ChatHistory []ChatMessage `json:"chatHistory,omitempty" jsonschema:"description=The conversation so far"`
}

// Validate implements validator.
func (i *ChatWithDocumentInput) Validate() error {
	if strings.TrimSpace(i.Instruction) == "" {
		return missing("instruction", "Please provide an instruction.")
	}
	for _, m := range i.ChatHistory {
		if m.Role != "user" && m.Role != "bot" {
			return missing("chatHistory", fmt.Sprintf("Unknown chat role %q.", m.Role))
		}
	}
	return nil
}

// History renders the chat history as "role: content" lines.
func (i *ChatWithDocumentInput) History() string {
	lines := make([]string, len(i.ChatHistory))
	for j, m := range i.ChatHistory {
		lines[j] = m.Role + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

// ChatWithDocumentOutput is the model reply and its proposed document.
type ChatWithDocumentOutput struct {
	Reply             string `json:"reply" jsonschema:"description=A short conversational reply to the user about the changes made"`
	RewrittenDocument string `json:"rewrittenDocument" jsonschema:"description=The full updated document content"`
}

// Validate implements validator.
func (o *ChatWithDocumentOutput) Validate() error {
	if o.Reply == "" {
		return fmt.Errorf("%w: reply is empty", ErrInvalidOutput)
	}
	return nil
}

// ManipulateDataInput asks for a transformation of spreadsheet data.
type ManipulateDataInput struct {
	SpreadsheetData string `json:"spreadsheetData" jsonschema:"description=The data from the spreadsheet as a CSV string"`
	SelectedRange   string `json:"selectedRange" jsonschema:"description=The selected range of cells in the spreadsheet (e.g. A1:C5)"`
	Instruction     string `json:"instruction" jsonschema:"description=The natural language instruction for data manipulation"`
}

// Validate implements validator.
func (i *ManipulateDataInput) Validate() error {
	if strings.TrimSpace(i.Instruction) == "" {
		return missing("instruction", "Please provide data manipulation instructions.")
	}
	if strings.TrimSpace(i.SpreadsheetData) == "" {
		return missing("spreadsheetData", "The spreadsheet is empty.")
	}
	return nil
}

// ManipulateDataOutput is the transformed data as CSV.
type ManipulateDataOutput struct {
	ManipulatedData string `json:"manipulatedData" jsonschema:"description=The manipulated data in CSV format"`
}

// Validate implements validator.
func (o *ManipulateDataOutput) Validate() error {
	if strings.TrimSpace(o.ManipulatedData) == "" {
		return fmt.Errorf("%w: manipulatedData is empty", ErrInvalidOutput)
	}
	return nil
}

// CreateFormulaInput describes a calculation over a spreadsheet's columns.
type CreateFormulaInput struct {
	Description string   `json:"description" jsonschema:"description=A natural language description of the desired calculation"`
	ColumnNames []string `json:"columnNames" jsonschema:"description=The names of the columns available in the spreadsheet"`
}

// Validate implements validator.
func (i *CreateFormulaInput) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return missing("description", "Please describe the formula.")
	}
	return nil
}

// CreateFormulaOutput is a spreadsheet formula without the leading "=".
type CreateFormulaOutput struct {
	Formula string `json:"formula" jsonschema:"description=The generated spreadsheet formula without a leading equals sign"`
}

// Validate implements validator. It also strips a leading "=" the model may
// add despite the instructions.
func (o *CreateFormulaOutput) Validate() error {
	o.Formula = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(o.Formula), "="))
	if o.Formula == "" {
		return fmt.Errorf("%w: formula is empty", ErrInvalidOutput)
	}
	return nil
}
