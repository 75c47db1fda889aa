package registry

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/pkg/encoding"
	"github.com/zeusync/gamecore/pkg/generic"
)

// Snapshot layout, all integers big-endian:
//
//	magic "GCSN" | version uint16 | entityCount int32
//	per entity: recordLen uint32 | xxhash64(record) uint64 | record
//	record: id int32 | active bool | componentCount int32 | (tag string | payload bytes)*
const (
	snapshotMagic   = "GCSN"
	SnapshotVersion = 1
)

var (
	ErrBadMagic           = errors.New("registry: not an entity snapshot")
	ErrUnsupportedVersion = errors.New("registry: unsupported snapshot version")
	ErrTruncated          = errors.New("registry: truncated snapshot")

	ErrChecksum     = errors.New("registry: record checksum mismatch")
	ErrUnknownTag   = errors.New("registry: unknown component tag")
	ErrDuplicateID  = errors.New("registry: duplicate entity id")
	ErrInvalidID    = errors.New("registry: invalid entity id")
	ErrBadComponent = errors.New("registry: component decode failed")
)

// LoadReport describes how many snapshot records were restored.
type LoadReport struct {
	Total   int
	Loaded  int
	Skipped int
	Errors  []error
}

var bufferPool = generic.NewPool(
	func() *bytes.Buffer { return new(bytes.Buffer) },
	func(b *bytes.Buffer) { b.Reset() },
)

// SaveSnapshot encodes every live entity. Components that are not
// models.Persistent, or whose id has no registered tag, are left out.
func (r *Registry) SaveSnapshot() ([]byte, error) {
	out := new(bytes.Buffer)
	w := encoding.NewWriter(out)
	w.Raw([]byte(snapshotMagic))
	w.Uint16(SnapshotVersion)
	w.Int32(int32(len(r.order)))

	rec := bufferPool.Get()
	defer bufferPool.Put(rec)

	for _, e := range r.order {
		rec.Reset()
		if err := r.encodeRecord(encoding.NewWriter(rec), e); err != nil {
			return nil, err
		}
		w.Uint32(uint32(rec.Len()))
		w.Uint64(xxhash.Sum64(rec.Bytes()))
		w.Raw(rec.Bytes())
	}
	return out.Bytes(), nil
}

type encodedComponent struct {
	tag     string
	payload []byte
}

func (r *Registry) encodeRecord(w *encoding.Writer, e *models.Entity) error {
	var comps []encodedComponent
	for _, c := range e.Components() {
		p, ok := c.(models.Persistent)
		if !ok {
			continue
		}
		tag, ok := r.types.Tag(c.ComponentID())
		if !ok {
			r.logger.Debug("component without tag left out of snapshot",
				log.Uint32("entity", uint32(e.ID())), log.Int("id", int(c.ComponentID())))
			continue
		}
		payload, err := p.Marshal()
		if err != nil {
			return fmt.Errorf("registry: encode %s of entity %d: %w", tag, e.ID(), err)
		}
		comps = append(comps, encodedComponent{tag: tag, payload: payload})
	}

	w.Int32(int32(e.ID()))
	w.Bool(e.Active())
	w.Int32(int32(len(comps)))
	for _, c := range comps {
		w.Text(c.tag)
		w.Bytes(c.payload)
	}
	return nil
}

// LoadSnapshot replaces the registry contents with the entities in data.
// Header and framing errors are fatal and leave the registry untouched. A
// record that fails its checksum or cannot be decoded is skipped and reported.
func (r *Registry) LoadSnapshot(data []byte) (LoadReport, error) {
	var report LoadReport
	rd := encoding.NewReader(data)

	if magic := rd.Raw(len(snapshotMagic)); string(magic) != snapshotMagic {
		return report, ErrBadMagic
	}
	if v := rd.Uint16(); rd.Err() != nil || v != SnapshotVersion {
		if rd.Err() != nil {
			return report, fmt.Errorf("%w: %w", ErrTruncated, rd.Err())
		}
		return report, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	count := rd.Int32()
	if err := rd.Err(); err != nil {
		return report, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	if count < 0 {
		return report, fmt.Errorf("%w: negative entity count %d", ErrTruncated, count)
	}
	report.Total = int(count)

	loaded := make(map[models.EntityID]*models.Entity)
	for i := 0; i < int(count); i++ {
		size := rd.Uint32()
		sum := rd.Uint64()
		if size > encoding.MaxChunk {
			return LoadReport{Total: report.Total}, fmt.Errorf("%w: record %d claims %d bytes", ErrTruncated, i, size)
		}
		rec := rd.Raw(int(size))
		if err := rd.Err(); err != nil {
			return LoadReport{Total: report.Total}, fmt.Errorf("%w: record %d: %w", ErrTruncated, i, err)
		}

		e, err := r.decodeRecord(rec, sum, loaded)
		if err != nil {
			err = fmt.Errorf("record %d: %w", i, err)
			r.logger.Warn("snapshot record skipped", log.Int("record", i), log.Error(err))
			report.Skipped++
			report.Errors = append(report.Errors, err)
			continue
		}
		loaded[e.ID()] = e
		report.Loaded++
	}
	if err := rd.Done(); err != nil {
		return LoadReport{Total: report.Total}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	r.Clear()
	for _, e := range loaded {
		r.live[e.ID()] = e
		r.order = append(r.order, e)
		r.lastID = max(r.lastID, e.ID())
	}
	slices.SortFunc(r.order, func(a, b *models.Entity) int { return compareIDs(a.ID(), b.ID()) })

	r.logger.Info("snapshot loaded",
		log.Int("total", report.Total), log.Int("loaded", report.Loaded), log.Int("skipped", report.Skipped))
	return report, nil
}

func (r *Registry) decodeRecord(rec []byte, sum uint64, seen map[models.EntityID]*models.Entity) (*models.Entity, error) {
	if xxhash.Sum64(rec) != sum {
		return nil, ErrChecksum
	}
	rd := encoding.NewReader(rec)
	id := rd.Int32()
	active := rd.Bool()
	n := rd.Int32()
	if err := rd.Err(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	if _, dup := seen[models.EntityID(id)]; dup {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if n < 0 || int(n) > models.MaxComponents {
		return nil, fmt.Errorf("%w: component count %d", ErrBadComponent, n)
	}

	comps := make([]models.Persistent, 0, n)
	for j := 0; j < int(n); j++ {
		tag := rd.Text()
		payload := rd.Bytes()
		if err := rd.Err(); err != nil {
			return nil, err
		}
		c, ok := r.types.New(tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
		if err := c.Unmarshal(payload); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadComponent, tag, err)
		}
		comps = append(comps, c)
	}
	if err := rd.Done(); err != nil {
		return nil, err
	}

	e := models.NewEntity(models.EntityID(id))
	e.SetActive(active)
	for _, c := range comps {
		if err := e.Add(c); err != nil {
			_ = e.DetachAll()
			return nil, fmt.Errorf("%w: %w", ErrBadComponent, err)
		}
	}
	return e, nil
}
