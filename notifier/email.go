package notifier

import (
	"fmt"
	"html"
	"strings"

	"opsboard/model"
)

// renderTaskUpdate builds the subject and HTML body for a task update
// notification.
func renderTaskUpdate(task model.BuildTask) (subject, body string) {
	subject = "Task Update: " + task.Title

	var b strings.Builder
	b.WriteString("<h2>Task Update Notification</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Task:</strong> %s</p>\n", html.EscapeString(task.Title))
	fmt.Fprintf(&b, "<p><strong>Status:</strong> %s</p>\n", html.EscapeString(task.Status))
	fmt.Fprintf(&b, "<p><strong>Description:</strong> %s</p>\n", html.EscapeString(task.Description))

	if len(task.SubTasks) > 0 {
		b.WriteString("<h3>Subtasks:</h3>\n<ul>\n")
		for _, st := range task.SubTasks {
			state := "⏳ Pending"
			if st.Completed {
				state = "✅ Completed"
			}
			fmt.Fprintf(&b, "<li>%s - %s</li>\n", html.EscapeString(st.Title), state)
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("<p><small>You are receiving this email because you subscribed to updates for this task. " +
		"To unsubscribe, click the bell icon on the task in the application.</small></p>\n")
	return subject, b.String()
}
