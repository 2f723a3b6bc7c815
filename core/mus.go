package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the records the storage layer persists. Composed by
// hand from mus-go primitives; the record set is small enough that
// generated code would be more churn than help.

var (
	metadataSer = ord.NewMapSer[string, string](ord.String, ord.String)
	vectorSer   = ord.NewSliceSer[float32](raw.Float32)
)

// TimeMUS serializes a time.Time as unix microseconds. The zero time is
// encoded as 0 so optional timestamps (StartedAt, CompletedAt) survive a
// round trip.
var TimeMUS = timeSer{}

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) (n int) {
	var us int64
	if !t.IsZero() {
		us = t.UnixMicro()
	}
	return raw.Int64.Marshal(us, bs)
}

func (timeSer) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	us, n, err := raw.Int64.Unmarshal(bs)
	if err != nil || us == 0 {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeSer) Size(t time.Time) (size int) {
	return raw.Int64.Size(t.UnixMicro())
}

func (timeSer) Skip(bs []byte) (n int, err error) {
	return raw.Int64.Skip(bs)
}

// UUIDMUS serializes a uuid.UUID as its raw 16 bytes.
var UUIDMUS = uuidSer{}

type uuidSer struct{}

func (uuidSer) Marshal(id uuid.UUID, bs []byte) (n int) {
	return copy(bs, id[:])
}

func (uuidSer) Unmarshal(bs []byte) (id uuid.UUID, n int, err error) {
	if len(bs) < 16 {
		return id, 0, ErrTruncatedData
	}
	copy(id[:], bs[:16])
	return id, 16, nil
}

func (uuidSer) Size(uuid.UUID) int {
	return 16
}

func (uuidSer) Skip(bs []byte) (n int, err error) {
	if len(bs) < 16 {
		return 0, ErrTruncatedData
	}
	return 16, nil
}

// CollectionMUS serializes Collection records.
var CollectionMUS = collectionSer{}

type collectionSer struct{}

func (collectionSer) Marshal(c Collection, bs []byte) (n int) {
	n = UUIDMUS.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.Name, bs[n:])
	n += TimeMUS.Marshal(c.CreatedAt, bs[n:])
	n += TimeMUS.Marshal(c.UpdatedAt, bs[n:])
	return n
}

func (collectionSer) Unmarshal(bs []byte) (c Collection, n int, err error) {
	var n1 int
	if c.ID, n, err = UUIDMUS.Unmarshal(bs); err != nil {
		return c, n, err
	}
	if c.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.UpdatedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	return c, n + n1, err
}

func (collectionSer) Size(c Collection) (size int) {
	size = UUIDMUS.Size(c.ID)
	size += ord.String.Size(c.Name)
	size += TimeMUS.Size(c.CreatedAt)
	size += TimeMUS.Size(c.UpdatedAt)
	return size
}

func (s collectionSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// DocumentMUS serializes Document records.
var DocumentMUS = documentSer{}

type documentSer struct{}

func (documentSer) Marshal(d Document, bs []byte) (n int) {
	n = UUIDMUS.Marshal(d.ID, bs)
	n += UUIDMUS.Marshal(d.CollectionID, bs[n:])
	n += ord.String.Marshal(string(d.SourceType), bs[n:])
	n += ord.String.Marshal(d.Format, bs[n:])
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.URI, bs[n:])
	n += metadataSer.Marshal(d.Metadata, bs[n:])
	n += TimeMUS.Marshal(d.CreatedAt, bs[n:])
	n += TimeMUS.Marshal(d.UpdatedAt, bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	if d.ID, n, err = UUIDMUS.Unmarshal(bs); err != nil {
		return d, n, err
	}
	if d.CollectionID, n1, err = UUIDMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	var st string
	if st, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	d.SourceType = SourceType(st)
	n += n1
	if d.Format, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.URI, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Metadata, n1, err = metadataSer.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	d.UpdatedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	return d, n + n1, err
}

func (documentSer) Size(d Document) (size int) {
	size = UUIDMUS.Size(d.ID)
	size += UUIDMUS.Size(d.CollectionID)
	size += ord.String.Size(string(d.SourceType))
	size += ord.String.Size(d.Format)
	size += ord.String.Size(d.Title)
	size += ord.String.Size(d.URI)
	size += metadataSer.Size(d.Metadata)
	size += TimeMUS.Size(d.CreatedAt)
	size += TimeMUS.Size(d.UpdatedAt)
	return size
}

func (s documentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// ChunkMUS serializes Chunk records.
var ChunkMUS = chunkSer{}

type chunkSer struct{}

func (chunkSer) Marshal(c Chunk, bs []byte) (n int) {
	n = UUIDMUS.Marshal(c.ID, bs)
	n += UUIDMUS.Marshal(c.DocumentID, bs[n:])
	n += UUIDMUS.Marshal(c.CollectionID, bs[n:])
	n += varint.Int.Marshal(c.Index, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += vectorSer.Marshal(c.Vector, bs[n:])
	n += metadataSer.Marshal(c.Metadata, bs[n:])
	n += TimeMUS.Marshal(c.CreatedAt, bs[n:])
	return n
}

func (chunkSer) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	if c.ID, n, err = UUIDMUS.Unmarshal(bs); err != nil {
		return c, n, err
	}
	if c.DocumentID, n1, err = UUIDMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.CollectionID, n1, err = UUIDMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Vector, n1, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Metadata, n1, err = metadataSer.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	return c, n + n1, err
}

func (chunkSer) Size(c Chunk) (size int) {
	size = UUIDMUS.Size(c.ID)
	size += UUIDMUS.Size(c.DocumentID)
	size += UUIDMUS.Size(c.CollectionID)
	size += varint.Int.Size(c.Index)
	size += ord.String.Size(c.Text)
	size += vectorSer.Size(c.Vector)
	size += metadataSer.Size(c.Metadata)
	size += TimeMUS.Size(c.CreatedAt)
	return size
}

func (s chunkSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// IngestionJobMUS serializes IngestionJob records.
var IngestionJobMUS = ingestionJobSer{}

type ingestionJobSer struct{}

func (ingestionJobSer) Marshal(j IngestionJob, bs []byte) (n int) {
	n = UUIDMUS.Marshal(j.ID, bs)
	n += UUIDMUS.Marshal(j.CollectionID, bs[n:])
	n += UUIDMUS.Marshal(j.DocumentID, bs[n:])
	n += ord.String.Marshal(string(j.SourceType), bs[n:])
	n += ord.String.Marshal(j.Format, bs[n:])
	n += ord.String.Marshal(string(j.Status), bs[n:])
	n += ord.String.Marshal(j.Progress.Stage, bs[n:])
	n += varint.Int.Marshal(j.Progress.UnitsTotal, bs[n:])
	n += varint.Int.Marshal(j.Progress.UnitsFailed, bs[n:])
	n += varint.Int.Marshal(j.Progress.Chunks, bs[n:])
	n += ord.String.Marshal(j.ErrorSummary, bs[n:])
	n += TimeMUS.Marshal(j.CreatedAt, bs[n:])
	n += TimeMUS.Marshal(j.StartedAt, bs[n:])
	n += TimeMUS.Marshal(j.CompletedAt, bs[n:])
	return n
}

func (ingestionJobSer) Unmarshal(bs []byte) (j IngestionJob, n int, err error) {
	var n1 int
	if j.ID, n, err = UUIDMUS.Unmarshal(bs); err != nil {
		return j, n, err
	}
	if j.CollectionID, n1, err = UUIDMUS.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.DocumentID, n1, err = UUIDMUS.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	var s string
	if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	j.SourceType = SourceType(s)
	n += n1
	if j.Format, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	j.Status = JobStatus(s)
	n += n1
	if j.Progress.Stage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.Progress.UnitsTotal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.Progress.UnitsFailed, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.Progress.Chunks, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.ErrorSummary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	if j.StartedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return j, n + n1, err
	}
	n += n1
	j.CompletedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	return j, n + n1, err
}

func (ingestionJobSer) Size(j IngestionJob) (size int) {
	size = UUIDMUS.Size(j.ID)
	size += UUIDMUS.Size(j.CollectionID)
	size += UUIDMUS.Size(j.DocumentID)
	size += ord.String.Size(string(j.SourceType))
	size += ord.String.Size(j.Format)
	size += ord.String.Size(string(j.Status))
	size += ord.String.Size(j.Progress.Stage)
	size += varint.Int.Size(j.Progress.UnitsTotal)
	size += varint.Int.Size(j.Progress.UnitsFailed)
	size += varint.Int.Size(j.Progress.Chunks)
	size += ord.String.Size(j.ErrorSummary)
	size += TimeMUS.Size(j.CreatedAt)
	size += TimeMUS.Size(j.StartedAt)
	size += TimeMUS.Size(j.CompletedAt)
	return size
}

func (s ingestionJobSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
