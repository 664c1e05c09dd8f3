package formatter

// NarrowingIssueFormatter renders the contradiction diagnostics produced by
// the type-narrowing analysis. It adds a line explaining which branch became
// unreachable, since the underlined condition alone does not show it.
type NarrowingIssueFormatter struct{}

func (f *NarrowingIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}
{{branchInfo .Padding .Rule }}

{{- if .Suggestion }}
{{suggestion .Suggestion .Padding .MaxLineNumWidth .StartLine}}
{{- end }}

{{- if .Note }}
{{note .Note}}
{{- end }}
`
}

func branchInfo(padding string, rule string) string {
	var info string
	switch rule {
	case ImpossibleCondition:
		info = "the then-branch can never execute"
	case RedundantCondition:
		info = "the condition always holds; the else path is unreachable"
	}

	var endString string
	endString = lineStyle.Sprintf("%s| ", padding)
	endString += messageStyle.Sprintf("%s\n", info)

	return endString
}
