package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the domain records stored in BadgerDB.
// Timestamps are encoded as Unix microseconds, vectors as length-prefixed
// float32 slices.

var (
	IDMUS      = idMUS{}
	TaskMUS    = taskMUS{}
	SubtaskMUS = subtaskMUS{}
	UserMUS    = userMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type taskMUS struct{}

func (taskMUS) Marshal(t Task, bs []byte) (n int) {
	n = IDMUS.Marshal(t.Id, bs)
	n += ord.String.Marshal(t.Title, bs[n:])
	n += ord.String.Marshal(string(t.Priority), bs[n:])
	n += ord.String.Marshal(string(t.Status), bs[n:])
	n += IDMUS.Marshal(t.Owner, bs[n:])
	n += marshalTime(t.CreatedAt, bs[n:])
	n += marshalTime(t.UpdatedAt, bs[n:])
	n += vectorMUS.Marshal(t.Vector, bs[n:])
	return
}

func (taskMUS) Unmarshal(bs []byte) (t Task, n int, err error) {
	var (
		n1 int
		s  string
	)
	t.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	t.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Priority = Priority(s)
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Status = Status(s)
	t.Owner, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (taskMUS) Size(t Task) (size int) {
	size = IDMUS.Size(t.Id)
	size += ord.String.Size(t.Title)
	size += ord.String.Size(string(t.Priority))
	size += ord.String.Size(string(t.Status))
	size += IDMUS.Size(t.Owner)
	size += sizeTime(t.CreatedAt)
	size += sizeTime(t.UpdatedAt)
	size += vectorMUS.Size(t.Vector)
	return
}

type subtaskMUS struct{}

func (subtaskMUS) Marshal(s Subtask, bs []byte) (n int) {
	n = IDMUS.Marshal(s.Id, bs)
	n += IDMUS.Marshal(s.TaskId, bs[n:])
	n += IDMUS.Marshal(s.Owner, bs[n:])
	n += ord.String.Marshal(s.Title, bs[n:])
	n += ord.Bool.Marshal(s.Saved, bs[n:])
	n += marshalTime(s.CreatedAt, bs[n:])
	return
}

func (subtaskMUS) Unmarshal(bs []byte) (s Subtask, n int, err error) {
	var n1 int
	s.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	s.TaskId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Owner, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Saved, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (subtaskMUS) Size(s Subtask) (size int) {
	size = IDMUS.Size(s.Id)
	size += IDMUS.Size(s.TaskId)
	size += IDMUS.Size(s.Owner)
	size += ord.String.Size(s.Title)
	size += ord.Bool.Size(s.Saved)
	size += sizeTime(s.CreatedAt)
	return
}

type userMUS struct{}

func (userMUS) Marshal(u User, bs []byte) (n int) {
	n = IDMUS.Marshal(u.Id, bs)
	n += ord.String.Marshal(u.Email, bs[n:])
	n += ord.String.Marshal(u.PasswordHash, bs[n:])
	n += marshalTime(u.CreatedAt, bs[n:])
	return
}

func (userMUS) Unmarshal(bs []byte) (u User, n int, err error) {
	var n1 int
	u.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	u.Email, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.PasswordHash, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	u.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return
}

func (userMUS) Size(u User) (size int) {
	size = IDMUS.Size(u.Id)
	size += ord.String.Size(u.Email)
	size += ord.String.Size(u.PasswordHash)
	size += sizeTime(u.CreatedAt)
	return
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
