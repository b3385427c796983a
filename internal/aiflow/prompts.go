package aiflow

import (
	"strings"
	"text/template"
)

// Prompts are plain text; the model sees the document verbatim so no
// escaping is applied.
var prompts = map[Flow]*template.Template{
	FlowCorrectGrammar: template.Must(template.New(string(FlowCorrectGrammar)).Parse(
		`You are a meticulous copy editor. Correct the grammar, spelling and punctuation of the text below.
Keep the meaning, tone and formatting (including markdown) unchanged. Do not add commentary.

Text:
{{.Text}}

Return only the corrected text.`)),

	FlowRewriteDocument: template.Must(template.New(string(FlowRewriteDocument)).Parse(
		`You are an AI assistant specialized in rewriting text based on user instructions.

Selected Text: {{.SelectedText}}
Instructions: {{.Instructions}}

Rewrite the selected text according to the instructions provided. Return only the rewritten text.`)),

	FlowChatWithDoc: template.Must(template.New(string(FlowChatWithDoc)).Parse(
		`You are an AI assistant that helps users edit a document through conversation.

The user will provide the current document, an instruction, and the chat history.

Your tasks are:
1. Rewrite the document based on the user's latest instruction, taking into account the context of the conversation.
2. Provide a short, conversational reply explaining what you did. For example, if the user says "make it shorter", you could reply "I've condensed it for you."

Chat History:
{{.History}}

Current Document:
{{.Document}}

User Instruction:
"{{.Instruction}}"

Now, generate the reply and the rewritten document.`)),

	FlowManipulateData: template.Must(template.New(string(FlowManipulateData)).Parse(
		`You are an AI assistant specializing in data manipulation within spreadsheets.

You will receive spreadsheet data in CSV format, a selected range of cells, and a natural language instruction.
Your goal is to perform the data manipulation task described in the instruction on the selected range of the spreadsheet data.

Spreadsheet Data (CSV):
{{.SpreadsheetData}}

Selected Range: {{.SelectedRange}}

Instruction: {{.Instruction}}

Return the manipulated data in CSV format, including the header line.

Make sure you return valid CSV.`)),

	FlowCreateFormula: template.Must(template.New(string(FlowCreateFormula)).Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(
		`You are a spreadsheet expert. You will generate a spreadsheet formula based on the user's description.

Here are the available column names: {{join .ColumnNames ", "}}

Description: {{.Description}}

Given the description, create a valid spreadsheet formula that performs the calculation. The formula should be compatible with common spreadsheet software like Google Sheets or Microsoft Excel.
Ensure that the formula is syntactically correct and uses the appropriate column names. Use column names directly, do not assume column order.
The formula should NOT include an equals sign (=).
If no columns are mentioned, assume that the formula should use columns A, B, C, etc.`)),
}

func renderPrompt(flow Flow, data any) (string, error) {
	var b strings.Builder
	if err := prompts[flow].Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
