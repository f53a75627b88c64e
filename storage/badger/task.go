package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
type TaskRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) (*TaskRepository, error) {
	idSeq, err := backend.GetSequence(taskRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &TaskRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *TaskRepository) Close() error {
	return r.idSeq.Release()
}

// AddTasks adds one or more tasks to storage.
func (r *TaskRepository) AddTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, task := range tasks {
			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			task.Id = core.ID(nextID)

			if task.CreatedAt.IsZero() {
				task.CreatedAt = time.Now().UTC()
			}
			task.UpdatedAt = task.CreatedAt

			key := makeTaskKey(task.Owner, task.Id)
			if err := tx.Set(key, storage.MarshalTask(task)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return tasks, err
}

// GetTask retrieves a single task by owner and ID.
func (r *TaskRepository) GetTask(ctx context.Context, owner, id core.ID) (*core.Task, error) {
	var result *core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTaskKey(owner, id)
		var err error
		result, err = readTask(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetTasks retrieves every task belonging to owner.
func (r *TaskRepository) GetTasks(ctx context.Context, owner core.ID) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeOwnerTaskPrefix(owner)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var task *core.Task
			err := iter.Item().Value(func(val []byte) error {
				var err error
				task, err = storage.UnmarshalTask(val)
				return err
			})
			if err != nil {
				return err
			}
			if task != nil {
				results = append(results, task)
			}
		}
		return nil
	}, false)
	return results, err
}

// UpdateTaskStatus sets the status of an owned task.
func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, owner, id core.ID, status core.Status) (*core.Task, error) {
	var result *core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTaskKey(owner, id)
		task, err := readTask(tx, key)
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}

		task.Status = status
		task.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalTask(task)); err != nil {
			return err
		}
		result = task
		return tx.Commit()
	}, true)
	return result, err
}

// DeleteTasks removes tasks by their IDs along with their subtasks.
func (r *TaskRepository) DeleteTasks(ctx context.Context, owner core.ID, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeTaskKey(owner, id)
			task, err := readTask(tx, key)
			if err != nil {
				return err
			}
			if task == nil {
				return storage.ErrNotFound
			}

			// Cascade: delete every subtask under this task
			if err := deleteSubtasksByPrefix(tx, makeTaskSubtaskPrefix(owner, id)); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// PutEmbedding attaches or replaces the embedding of an existing task.
// Writing a vector identical to the stored one is a no-op.
func (r *TaskRepository) PutEmbedding(ctx context.Context, owner, id core.ID, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTaskKey(owner, id)
		task, err := readTask(tx, key)
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}

		if slices.Equal(task.Vector, vector) {
			return nil
		}

		task.Vector = slices.Clone(vector)
		task.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalTask(task)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ScanEmbedded returns every task of one owner that has an embedding.
func (r *TaskRepository) ScanEmbedded(ctx context.Context, owner core.ID) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeOwnerTaskPrefix(owner)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var task *core.Task
			err := iter.Item().Value(func(val []byte) error {
				var err error
				task, err = storage.UnmarshalTask(val)
				return err
			})
			if err != nil {
				return err
			}
			if task == nil {
				continue
			}

			// Tasks without embeddings are not searchable
			if len(task.Vector) == 0 {
				continue
			}
			results = append(results, task)
		}
		return nil
	}, false)
	return results, err
}

// TasksWithoutEmbedding returns every task across all owners lacking an
// embedding. Feed for the backfill pipeline.
func (r *TaskRepository) TasksWithoutEmbedding(ctx context.Context) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(taskRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var task *core.Task
			err := iter.Item().Value(func(val []byte) error {
				var err error
				task, err = storage.UnmarshalTask(val)
				return err
			})
			if err != nil {
				return err
			}
			if task == nil || len(task.Vector) > 0 {
				continue
			}
			results = append(results, task)
		}
		return nil
	}, false)
	return results, err
}

// readTask reads a task record from the transaction.
func readTask(tx *badger.Txn, key []byte) (*core.Task, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var task *core.Task
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		task, unmarshalErr = storage.UnmarshalTask(val)
		return unmarshalErr
	})
	return task, err
}

// deleteSubtasksByPrefix deletes every key under the given subtask prefix.
func deleteSubtasksByPrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	// Collect keys first; Badger forbids writes while an iterator is open.
	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
