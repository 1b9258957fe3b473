package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the storage layer. The fields of Article are written
// in declaration order; timestamps are stored as Unix microseconds. Any
// field added to Article must also be added here, at the end, to keep old
// records readable.

var (
	stringsMUS = ord.NewSliceSer[string](ord.String)
	vectorMUS  = ord.NewSliceSer[float32](raw.Float32)
)

// IDMUS serializes IDs as varint-encoded uint64.
var IDMUS = idMUS{}

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

// ArticleMUS serializes complete Article records, vector included.
var ArticleMUS = articleMUS{}

type articleMUS struct{}

func (s articleMUS) Marshal(a Article, bs []byte) (n int) {
	n = IDMUS.Marshal(a.Id, bs)
	n += ord.String.Marshal(a.Title, bs[n:])
	n += ord.String.Marshal(a.Description, bs[n:])
	n += stringsMUS.Marshal(a.Tags, bs[n:])
	n += ord.String.Marshal(a.Keywords, bs[n:])
	n += ord.String.Marshal(a.Type, bs[n:])
	n += ord.String.Marshal(a.URL, bs[n:])
	n += varint.Int.Marshal(a.Position, bs[n:])
	n += vectorMUS.Marshal(a.Vector, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(a.InsertedAt), bs[n:])
	n += varint.Int64.Marshal(timeToMicro(a.UpdatedAt), bs[n:])
	return n
}

func (s articleMUS) Unmarshal(bs []byte) (a Article, n int, err error) {
	var m int
	if a.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if a.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.Description, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.Tags, m, err = stringsMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.Keywords, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.Type, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.URL, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.Position, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if a.Vector, m, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	var micro int64
	if micro, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	a.InsertedAt = microToTime(micro)
	if micro, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	a.UpdatedAt = microToTime(micro)
	return
}

func (s articleMUS) Size(a Article) (size int) {
	size = IDMUS.Size(a.Id)
	size += ord.String.Size(a.Title)
	size += ord.String.Size(a.Description)
	size += stringsMUS.Size(a.Tags)
	size += ord.String.Size(a.Keywords)
	size += ord.String.Size(a.Type)
	size += ord.String.Size(a.URL)
	size += varint.Int.Size(a.Position)
	size += vectorMUS.Size(a.Vector)
	size += varint.Int64.Size(timeToMicro(a.InsertedAt))
	size += varint.Int64.Size(timeToMicro(a.UpdatedAt))
	return size
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micro int64) time.Time {
	if micro == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micro).UTC()
}
