package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/tasknest/tasknest/core"
)

// Key prefixes for different data types.
//
// Task and subtask keys embed the owner right after the prefix, in BigEndian,
// so every per-owner read is a contiguous key range. Cross-owner isolation
// holds at the key level; no query can observe another owner's records.
const (
	taskRecordPrefix    = "tasrec"
	taskRecordIDSeq     = "tasrecseq"
	subtaskRecordPrefix = "subrec"
	subtaskRecordIDSeq  = "subrecseq"
	userRecordPrefix    = "usrrec"
	userRecordIDSeq     = "usrrecseq"
	userEmailPrefix     = "usremail"
)

// makeTaskKey generates a key for a task record.
// Format: prefix:owner:id
func makeTaskKey(owner, id core.ID) []byte {
	prefix := taskRecordPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic order matches numeric order
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeOwnerTaskPrefix generates the key prefix covering every task of one owner.
func makeOwnerTaskPrefix(owner core.ID) []byte {
	prefix := taskRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	return buf
}

// makeSubtaskKey generates a key for a subtask record.
// Format: prefix:owner:taskID:id
func makeSubtaskKey(owner, taskID, id core.ID) []byte {
	prefix := subtaskRecordPrefix + ":"
	buf := make([]byte, len(prefix)+24)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(taskID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTaskSubtaskPrefix generates the key prefix covering every subtask of one
// task. Task deletion iterates this range to cascade.
func makeTaskSubtaskPrefix(owner, taskID core.ID) []byte {
	prefix := subtaskRecordPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(owner))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(taskID))
	return buf
}

// makeUserKey generates a key for a user record by ID.
func makeUserKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", userRecordPrefix, id))
}

// makeUserEmailKey generates a key for the email-to-ID index.
func makeUserEmailKey(email string) []byte {
	return []byte(userEmailPrefix + ":" + email)
}
