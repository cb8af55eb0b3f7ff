package notifier

import (
	"encoding/json"

	"opsboard/model"
)

// MeaningfulChange reports whether a task update warrants notifying
// subscribers: the status changed, the sub-task count changed, or the
// serialized sub-task list differs. Anything else (title edits, reorders,
// subscriber churn) stays quiet.
func MeaningfulChange(before, after model.BuildTask) bool {
	if before.Status != after.Status {
		return true
	}
	if len(before.SubTasks) != len(after.SubTasks) {
		return true
	}
	beforeJSON, err := json.Marshal(before.SubTasks)
	if err != nil {
		return true
	}
	afterJSON, err := json.Marshal(after.SubTasks)
	if err != nil {
		return true
	}
	return string(beforeJSON) != string(afterJSON)
}
