// Copyright 2025 The tasknest Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateTask validates a Task according to domain rules.
//
// Validation rules:
//   - Title must not be empty after trimming
//   - Priority and Status must hold known values
//   - Owner must be set
//
// NOT validated (populated by storage or the embedding path):
//   - Vector (can be empty until the task is embedded)
//   - ID (0 is valid before the database sequence assigns one)
func ValidateTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}

	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTitle)
	}

	if err := ValidatePriority(task.Priority); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	if err := ValidateStatus(task.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	if task.Owner == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrMissingOwner)
	}

	return nil
}

// ValidateSubtask validates a Subtask according to domain rules.
//
// Validation rules:
//   - Title must not be empty after trimming
//   - TaskId and Owner must be set
func ValidateSubtask(subtask *Subtask) error {
	if subtask == nil {
		return fmt.Errorf("%w: subtask is nil", ErrInvalidSubtask)
	}

	if strings.TrimSpace(subtask.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSubtask, ErrEmptyTitle)
	}

	if subtask.TaskId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSubtask, ErrMissingTask)
	}

	if subtask.Owner == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSubtask, ErrMissingOwner)
	}

	return nil
}

// ValidateUser validates a User according to domain rules.
func ValidateUser(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: user is nil", ErrInvalidUser)
	}

	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyEmail)
	}

	return nil
}

// ValidatePriority validates that a Priority holds a known value.
func ValidatePriority(priority Priority) error {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
}

// ValidateStatus validates that a Status holds a known value.
func ValidateStatus(status Status) error {
	switch status {
	case StatusPending, StatusInProgress, StatusDone:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}
