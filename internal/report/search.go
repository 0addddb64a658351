package report

import (
	"fmt"
	"strings"

	"github.com/codybook/codybook/internal/session"
)

// SaveContextSearchSession renders a context-search session: settings, a
// performance summary computed here from the records, one block per search
// (parameters, API detail, numbered result chunks) and, for conversational
// sessions, the accompanying transcript.
func (r *Reporter) SaveContextSearchSession(searches []session.SearchRecord, meta session.SearchMetadata, scriptName string) (string, error) {
	if scriptName == "" {
		scriptName = "context-search-session"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Context Search Session: %s\n\n", orNA(meta.Mode))
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", r.generatedAt())
	fmt.Fprintf(&sb, "**Script:** %s\n\n", scriptName)
	fmt.Fprintf(&sb, "**Session Duration:** %s\n\n", orNA(meta.Duration))
	sb.WriteString("---\n\n")

	sb.WriteString("## Session Settings\n\n")
	fmt.Fprintf(&sb, "- **Mode:** `%s`\n", orNA(meta.Mode))
	fmt.Fprintf(&sb, "- **Total Searches:** `%d`\n", len(searches))
	sb.WriteString("- **Default Repositories:**\n")
	for _, repo := range meta.DefaultRepos {
		fmt.Fprintf(&sb, "  - `%s`\n", orNA(repo.Name))
	}
	fmt.Fprintf(&sb, "- **API Endpoint:** `%s`\n\n", orNA(meta.Endpoint))

	if len(searches) > 0 {
		writePerformanceSummary(&sb, searches)
	}

	sb.WriteString("## Search History & Results\n\n")
	for i, search := range searches {
		writeSearchRecord(&sb, i+1, search)
	}

	if meta.IncludesConversation && len(meta.ConversationHistory) > 0 {
		sb.WriteString("## Conversation History\n\n")
		fmt.Fprintf(&sb, "This was a conversational session with %d messages.\n\n", len(meta.ConversationHistory))
		for i, msg := range meta.ConversationHistory {
			switch msg.Role {
			case session.RoleSystem:
				fmt.Fprintf(&sb, "### %d. 🔧 System Context\n\n", i+1)
			case session.RoleUser:
				fmt.Fprintf(&sb, "### %d. 👤 User Question\n\n", i+1)
			case session.RoleAssistant:
				fmt.Fprintf(&sb, "### %d. 🤖 Assistant Response\n\n", i+1)
			default:
				continue
			}
			fmt.Fprintf(&sb, "%s\n\n", msg.Content)
		}
		sb.WriteString("---\n\n")
	}

	sb.WriteString("## Continue Searching\n\n")
	sb.WriteString("To continue searching:\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("codybook context\n")
	sb.WriteString("```\n")

	mode := meta.Mode
	if mode == "" {
		mode = "unknown"
	}
	filename := r.sink.Filename(scriptName, []string{mode}, "md")
	return r.save(filename, sb.String())
}

// writePerformanceSummary aggregates latency and result counts across the
// session. Min and max default to 0 over an empty collection; callers only
// invoke this with at least one record.
func writePerformanceSummary(sb *strings.Builder, searches []session.SearchRecord) {
	var totalResults int
	var totalTime, minTime, maxTime int64
	first := true
	for _, s := range searches {
		totalResults += len(s.Results)
		var latency int64
		if s.Call != nil {
			latency = s.Call.LatencyMS
		}
		totalTime += latency
		if first || latency < minTime {
			minTime = latency
		}
		if first || latency > maxTime {
			maxTime = latency
		}
		first = false
	}
	avg := float64(totalTime) / float64(len(searches))

	sb.WriteString("## Performance Summary\n\n")
	fmt.Fprintf(sb, "- **Total Results Found:** `%d`\n", totalResults)
	fmt.Fprintf(sb, "- **Total API Response Time:** `%d`ms\n", totalTime)
	fmt.Fprintf(sb, "- **Average Response Time:** `%.1f`ms\n", avg)
	fmt.Fprintf(sb, "- **Fastest Query:** `%d`ms\n", minTime)
	fmt.Fprintf(sb, "- **Slowest Query:** `%d`ms\n\n", maxTime)
}

func writeSearchRecord(sb *strings.Builder, number int, search session.SearchRecord) {
	fmt.Fprintf(sb, "### %d. Search: \"%s\"\n\n", number, search.Query)

	sb.WriteString("#### 🔍 Search Parameters\n\n")
	fmt.Fprintf(sb, "- **Query:** `%s`\n", orNA(search.Query))
	fmt.Fprintf(sb, "- **Code Results:** `%d`\n", search.Params.CodeResults)
	fmt.Fprintf(sb, "- **Text Results:** `%d`\n", search.Params.TextResults)
	if len(search.Params.FilePatterns) > 0 {
		fmt.Fprintf(sb, "- **File Patterns:** `%s`\n", strings.Join(search.Params.FilePatterns, ", "))
	} else {
		sb.WriteString("- **File Patterns:** `None`\n")
	}
	fmt.Fprintf(sb, "- **Version:** `%s`\n\n", orNA(search.Params.Version))

	sb.WriteString("#### 🔄 API Call Details\n\n")
	if search.Call != nil {
		fmt.Fprintf(sb, "- **Status Code:** `%d`\n", search.Call.StatusCode)
		fmt.Fprintf(sb, "- **Response Time:** `%d`ms\n", search.Call.LatencyMS)
	} else {
		sb.WriteString("- **Status Code:** `N/A`\n")
		sb.WriteString("- **Response Time:** `N/A`\n")
	}
	fmt.Fprintf(sb, "- **Results Found:** `%d`\n\n", len(search.Results))

	if search.Call != nil {
		writeHeaders(sb, "Headers", search.Call.Headers)
		if search.Call.RequestPayload != nil {
			sb.WriteString("**Complete Request Payload:**\n\n")
			sb.WriteString(FencedJSON(search.Call.RequestPayload))
			sb.WriteString("\n")
		}
		writeCallError(sb, search.Call.Err)
	}

	if len(search.Results) > 0 {
		fmt.Fprintf(sb, "#### 📄 Search Results (%d found)\n\n", len(search.Results))
		for j, result := range search.Results {
			fmt.Fprintf(sb, "**Result %d:**\n\n", j+1)
			fmt.Fprintf(sb, "- **Repository:** `%s`\n", orNA(result.Repository))
			fmt.Fprintf(sb, "- **File:** `%s`\n", orNA(result.Path))
			fmt.Fprintf(sb, "- **Lines:** `%d-%d`\n\n", result.StartLine, result.EndLine)

			if result.Content != "" {
				sb.WriteString("**Code:**\n\n")
				sb.WriteString("```\n")
				for k, line := range strings.Split(result.Content, "\n") {
					fmt.Fprintf(sb, "%4d: %s\n", result.StartLine+k, line)
				}
				sb.WriteString("```\n\n")
			}
			sb.WriteString("---\n\n")
		}
	} else {
		sb.WriteString("#### 📄 Search Results\n\n")
		sb.WriteString("*No results found for this query.*\n\n")
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}
