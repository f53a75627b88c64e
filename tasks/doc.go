// Package tasks implements the task lifecycle: creation, listing, status
// changes, deletion, and embedding attachment.
//
// Creation embeds the task title synchronously but treats the provider as
// best-effort: if embedding fails, the task is stored without a vector and
// the backfill pipeline picks it up later. A flaky provider must never block
// a user from capturing a task.
package tasks
