// Package planner breaks tasks down into subtasks.
//
// Suggestions come from the AI provider and are transient: nothing is stored
// until the user explicitly saves the subtasks they want to keep. Saving is
// idempotent per title, so re-saving a suggestion list never duplicates
// subtasks already kept.
package planner
