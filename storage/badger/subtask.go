package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
)

// SubtaskRepository implements storage.SubtaskRepository for BadgerDB.
type SubtaskRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.SubtaskRepository = (*SubtaskRepository)(nil)

// NewSubtaskRepository creates a new SubtaskRepository.
func NewSubtaskRepository(backend *Backend) (*SubtaskRepository, error) {
	idSeq, err := backend.GetSequence(subtaskRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &SubtaskRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *SubtaskRepository) Close() error {
	return r.idSeq.Release()
}

// AddSubtasks adds one or more subtasks to storage.
func (r *SubtaskRepository) AddSubtasks(ctx context.Context, subtasks ...*core.Subtask) ([]*core.Subtask, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, subtask := range subtasks {
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
			subtask.Id = core.ID(nextID)

			if subtask.CreatedAt.IsZero() {
				subtask.CreatedAt = time.Now().UTC()
			}

			key := makeSubtaskKey(subtask.Owner, subtask.TaskId, subtask.Id)
			if err := tx.Set(key, storage.MarshalSubtask(subtask)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return subtasks, err
}

// GetSubtasksByTask retrieves the subtasks of an owned task, in insertion order.
func (r *SubtaskRepository) GetSubtasksByTask(ctx context.Context, owner, taskID core.ID) ([]*core.Subtask, error) {
	var results []*core.Subtask
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTaskSubtaskPrefix(owner, taskID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var subtask *core.Subtask
			err := iter.Item().Value(func(val []byte) error {
				var err error
				subtask, err = storage.UnmarshalSubtask(val)
				return err
			})
			if err != nil {
				return err
			}
			if subtask != nil {
				results = append(results, subtask)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteSubtask removes a single subtask.
func (r *SubtaskRepository) DeleteSubtask(ctx context.Context, owner, taskID, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSubtaskKey(owner, taskID, id)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
