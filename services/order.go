package services

import (
	"time"

	"opsboard/model"
)

type orderShift struct {
	taskID string
	order  int
}

// nextOrder returns one past the highest order present, so a new task always
// lands after everything else. Matches the board's max+1 scheme, starting
// at 1 on an empty board.
func nextOrder(tasks []model.BuildTask) int {
	maxOrder := 0
	for _, task := range tasks {
		if task.Order > maxOrder {
			maxOrder = task.Order
		}
	}
	return maxOrder + 1
}

// planShifts lists the ±1 order adjustments for every task displaced by
// moving the given task to targetOrder. Moving up shifts tasks in
// [target, current) down the board; moving down shifts (current, target]
// up. The moved task itself is excluded.
func planShifts(tasks []model.BuildTask, taskID string, targetOrder int) ([]orderShift, error) {
	var moved *model.BuildTask
	for i := range tasks {
		if tasks[i].TaskID == taskID {
			moved = &tasks[i]
			break
		}
	}
	if moved == nil {
		return nil, model.ErrNotFound
	}

	currentOrder := moved.Order
	if currentOrder == targetOrder {
		return nil, nil
	}

	var shifts []orderShift
	for _, task := range tasks {
		if task.TaskID == taskID {
			continue
		}
		switch {
		case currentOrder > targetOrder && task.Order >= targetOrder && task.Order < currentOrder:
			shifts = append(shifts, orderShift{taskID: task.TaskID, order: task.Order + 1})
		case currentOrder < targetOrder && task.Order > currentOrder && task.Order <= targetOrder:
			shifts = append(shifts, orderShift{taskID: task.TaskID, order: task.Order - 1})
		}
	}
	return shifts, nil
}

// toggleSubTask flips one entry's completed flag and bumps its updatedAt,
// returning a rewritten list.
func toggleSubTask(subTasks []model.SubTask, subTaskID string) ([]model.SubTask, bool) {
	updated := make([]model.SubTask, len(subTasks))
	found := false
	for i, st := range subTasks {
		if st.SubTaskID == subTaskID {
			st.Completed = !st.Completed
			st.UpdatedAt = time.Now()
			found = true
		}
		updated[i] = st
	}
	return updated, found
}

func removeSubTask(subTasks []model.SubTask, subTaskID string) ([]model.SubTask, bool) {
	updated := make([]model.SubTask, 0, len(subTasks))
	found := false
	for _, st := range subTasks {
		if st.SubTaskID == subTaskID {
			found = true
			continue
		}
		updated = append(updated, st)
	}
	return updated, found
}
