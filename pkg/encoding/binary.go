package encoding

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortRead is returned when a Reader runs out of input mid-value.
var ErrShortRead = errors.New("encoding: short read")

// MaxChunk bounds length-prefixed strings and byte slices.
const MaxChunk = 16 << 20

// Writer appends big-endian fixed-width values and length-prefixed chunks to
// a buffer. It never fails; the buffer grows as needed.
type Writer struct {
	buf *bytes.Buffer
}

func NewWriter(buf *bytes.Buffer) *Writer {
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	return &Writer{buf: buf}
}

func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }

func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

func (w *Writer) Bytes(v []byte) {
	w.Uint32(uint32(len(v)))
	w.buf.Write(v)
}

func (w *Writer) Text(v string) {
	w.Uint32(uint32(len(v)))
	w.buf.WriteString(v)
}

// Raw writes v without a length prefix.
func (w *Writer) Raw(v []byte) { w.buf.Write(v) }

func (w *Writer) Len() int { return w.buf.Len() }

// Reader is the counterpart of Writer. The first failure sticks: later calls
// return zero values and Err reports the failure.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, n, r.off, len(r.data)-r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Uint16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *Reader) Uint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

func (r *Reader) Uint64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *Reader) Float64() float64 { return math.Float64frombits(r.Uint64()) }

func (r *Reader) Bool() bool {
	b := r.next(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		r.err = fmt.Errorf("encoding: invalid bool byte 0x%02x at offset %d", b[0], r.off-1)
		return false
	}
}

// Bytes reads a length-prefixed chunk. The result aliases the input.
func (r *Reader) Bytes() []byte {
	n := r.Uint32()
	if r.err != nil {
		return nil
	}
	if n > MaxChunk {
		r.err = fmt.Errorf("encoding: chunk of %d bytes exceeds limit", n)
		return nil
	}
	return r.next(int(n))
}

func (r *Reader) Text() string {
	return string(r.Bytes())
}

// Raw reads n bytes without a length prefix.
func (r *Reader) Raw(n int) []byte { return r.next(n) }

func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) Err() error { return r.err }

// Done reports an error if the reader failed or did not consume all input.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.data) {
		return fmt.Errorf("encoding: %d trailing bytes", len(r.data)-r.off)
	}
	return nil
}
