package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest accepted task title, in characters.
const MaxTitleLength = 200

// MinEstimatedHours is the smallest accepted effort estimate.
const MinEstimatedHours = 0.1

// Task is a read-only task record submitted for analysis. The zero value of
// DueDate, EstimatedHours and Importance means the field was not supplied.
type Task struct {
	ID             *int    `json:"id,omitempty"`
	Title          string  `json:"title"`
	DueDate        DueDate `json:"due_date"`
	EstimatedHours float64 `json:"estimated_hours"`
	Importance     int     `json:"importance"`
	Dependencies   []int   `json:"dependencies"`
}

// Identifier returns the task's explicit ID, or its position when it has none.
func (t Task) Identifier(position int) int {
	if t.ID != nil {
		return *t.ID
	}
	return position
}

// CheckRequired verifies that the fields needed for scoring are present and
// that the due date parses.
func (t Task) CheckRequired() error {
	verr := &ValidationError{TaskIndex: -1}
	if t.DueDate.IsZero() {
		verr.add("due_date", msgRequired)
	} else if _, err := t.DueDate.Resolve(); err != nil {
		verr.add("due_date", msgInvalidDate)
	}
	if t.EstimatedHours == 0 {
		verr.add("estimated_hours", msgRequired)
	}
	if t.Importance == 0 {
		verr.add("importance", msgRequired)
	}
	if len(verr.Details) > 0 {
		return verr
	}
	return nil
}

// Validate applies the full input contract: title, date format, positive
// effort, importance range and non-negative dependency ids.
func (t Task) Validate() error {
	verr := &ValidationError{TaskIndex: -1}

	switch {
	case t.Title == "":
		verr.add("title", msgBlank)
	case utf8.RuneCountInString(t.Title) > MaxTitleLength:
		verr.add("title", "Ensure this field has no more than 200 characters.")
	}

	if err := t.CheckRequired(); err != nil {
		var required *ValidationError
		if errors.As(err, &required) {
			for field, msgs := range required.Details {
				for _, msg := range msgs {
					verr.add(field, msg)
				}
			}
		}
	}

	if t.EstimatedHours != 0 {
		if t.EstimatedHours < MinEstimatedHours {
			verr.add("estimated_hours", "Ensure this value is greater than or equal to 0.1.")
		}
		if t.EstimatedHours <= 0 {
			verr.add("estimated_hours", "Estimated hours must be greater than 0")
		}
	}

	if t.Importance != 0 && (t.Importance < 1 || t.Importance > 10) {
		verr.add("importance", "Importance must be between 1 and 10")
	}

	for _, dep := range t.Dependencies {
		if dep < 0 {
			verr.add("dependencies", "Ensure this value is greater than or equal to 0.")
			break
		}
	}

	if len(verr.Details) > 0 {
		return verr
	}
	return nil
}

// ValidateTasks validates every task and reports the first failure with its index.
func ValidateTasks(tasks []Task) error {
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return verr.AtIndex(i)
			}
			return err
		}
	}
	return nil
}

// SampleTasks returns the demonstration tasks used when a suggestion is
// requested without any tasks.
func SampleTasks(today time.Time) []Task {
	return []Task{
		{
			Title:          "Fix critical login bug",
			DueDate:        DateOf(today),
			EstimatedHours: 3,
			Importance:     9,
			Dependencies:   []int{},
		},
		{
			Title:          "Write documentation",
			DueDate:        DateOf(today.AddDate(0, 0, 7)),
			EstimatedHours: 2,
			Importance:     6,
			Dependencies:   []int{},
		},
		{
			Title:          "Refactor user profile page",
			DueDate:        DateOf(today.AddDate(0, 0, 3)),
			EstimatedHours: 5,
			Importance:     7,
			Dependencies:   []int{0},
		},
	}
}
