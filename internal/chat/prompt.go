package chat

import (
	"strings"

	"github.com/ShivanshKaul/ai-task-backend/internal/gemini"
	"github.com/ShivanshKaul/ai-task-backend/internal/model"
)

const systemInstruction = `You are an AI assistant. 
Always reply in **well-formatted markdown** with:
- Headings where appropriate
- Numbered or bulleted lists
- Bold for key points
- Short paragraphs instead of long blocks

Be concise and structured, not verbose.`

const NoTasksPlaceholder = "No tasks yet."

// TaskSummary renders one "- {title} [done|pending]" line per task.
func TaskSummary(tasks []model.Task) string {
	if len(tasks) == 0 {
		return NoTasksPlaceholder
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		state := "pending"
		if t.Completed {
			state = "done"
		}
		lines[i] = "- " + t.DisplayTitle() + " [" + state + "]"
	}
	return strings.Join(lines, "\n")
}

// BuildContents assembles the request payload: the system instruction,
// then every transcript turn in order, then the task summary. The summary
// is always last.
func BuildContents(history []model.ChatTurn, summary string) []gemini.Content {
	contents := make([]gemini.Content, 0, len(history)+2)
	contents = append(contents, gemini.TextContent(string(model.ChatRoleUser), systemInstruction))
	for _, turn := range history {
		contents = append(contents, gemini.TextContent(string(turn.Role), turn.Text))
	}
	contents = append(contents, gemini.TextContent(string(model.ChatRoleUser), "FYI, here are the user's tasks:\n"+summary))
	return contents
}
