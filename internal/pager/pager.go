// Package pager implements the on-disk page store: a header region at
// page 0 followed by fixed-size data pages, a free-page max-heap, and an
// in-memory page cache mirroring the file until Flush.
package pager

import (
	"bytes"
	"container/heap"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/smythg4/godb/internal/codec"
	"github.com/smythg4/godb/internal/dberr"
	"github.com/smythg4/godb/internal/encoding"
	"github.com/smythg4/godb/internal/value"
)

// RecordID names a row's physical location.
type RecordID struct {
	PageNumber uint32
	Slot       uint16
}

// persistedHeader is the PageHeader's on-disk shape (spec.md §3, §6.1).
type persistedHeader struct {
	Schema       *value.Schema
	PageByteSize int
	PageCapacity int
	NumPages     uint32
	FreePages    []uint32
}

// pageHeap is a max-heap of page numbers, used so Insert can always ask
// "which free page should I use" in O(log n).
type pageHeap []uint32

func (h pageHeap) Len() int           { return len(h) }
func (h pageHeap) Less(i, j int) bool { return h[i] > h[j] }
func (h pageHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pageHeap) Push(x any)        { *h = append(*h, x.(uint32)) }
func (h *pageHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Pager owns one table's file: its header, free-page heap, and the
// in-memory array of optional rows for every allocated page.
type Pager struct {
	file         *os.File
	codec        codec.Codec
	schema       *value.Schema
	pageByteSize int
	capacity     int
	numPages     uint32
	free         pageHeap
	pages        map[uint32][]*value.Row
}

// Create lays out a brand new table file: computes page_capacity from the
// codec's row-size oracle, then writes the header to page 0. Fails with
// dberr.PageTooSmall if the header or a single row cannot fit.
func Create(file *os.File, c codec.Codec, schema *value.Schema, pageByteSize int) (*Pager, error) {
	rowBytes, envelope, err := c.RowSize(schema)
	if err != nil {
		return nil, err
	}
	capacity, err := ComputeCapacity(rowBytes, envelope, pageByteSize)
	if err != nil {
		return nil, err
	}
	p := &Pager{
		file:         file,
		codec:        c,
		schema:       schema,
		pageByteSize: pageByteSize,
		capacity:     capacity,
		pages:        make(map[uint32][]*value.Row),
	}
	if err := p.writeHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// ComputeCapacity implements the start-and-decrement algorithm from
// spec.md §4.3: the largest page_capacity such that envelopeOverhead plus
// page_capacity rows of rowBytes each still fits in pageByteSize.
func ComputeCapacity(rowBytes, envelope, pageByteSize int) (int, error) {
	if rowBytes <= 0 {
		return 0, dberr.New(dberr.PageTooSmall, "page size is not large enough")
	}
	capacity := pageByteSize / rowBytes
	for capacity > 0 && envelope+rowBytes*capacity > pageByteSize {
		capacity--
	}
	if capacity < 1 {
		return 0, dberr.New(dberr.PageTooSmall, "page size is not large enough")
	}
	return capacity, nil
}

// LoadFrom reconstructs a Pager from an already-open table file: the
// header framing is self-describing, so it's read directly off the
// stream before page_byte_size (needed to seek to later pages) is known.
func LoadFrom(file *os.File, c codec.Codec) (*Pager, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, dberr.Wrap(dberr.Io, err, "seek to header")
	}
	encoded, err := encoding.ReadPrefixedBlock(file)
	if err != nil {
		return nil, dberr.Wrap(dberr.Corrupt, err, "read header")
	}
	var h persistedHeader
	if err := c.Unmarshal(encoded, &h); err != nil {
		return nil, dberr.Wrap(dberr.Corrupt, err, "decode header")
	}

	p := &Pager{
		file:         file,
		codec:        c,
		schema:       h.Schema,
		pageByteSize: h.PageByteSize,
		capacity:     h.PageCapacity,
		numPages:     h.NumPages,
		pages:        make(map[uint32][]*value.Row),
	}
	for _, pn := range h.FreePages {
		heap.Push(&p.free, pn)
	}
	for i := uint32(1); i <= h.NumPages; i++ {
		slots, err := p.readPage(i)
		if err != nil {
			return nil, err
		}
		p.pages[i] = slots
	}
	return p, nil
}

func (p *Pager) writeHeader() error {
	h := persistedHeader{
		Schema:       p.schema,
		PageByteSize: p.pageByteSize,
		PageCapacity: p.capacity,
		NumPages:     p.numPages,
		FreePages:    append([]uint32(nil), p.free...),
	}
	encoded, err := p.codec.Marshal(h)
	if err != nil {
		return errors.Wrap(err, "encode header")
	}
	var buf bytes.Buffer
	if err := encoding.WritePrefixedBlock(&buf, encoded); err != nil {
		return errors.Wrap(err, "frame header")
	}
	if buf.Len() > p.pageByteSize {
		return dberr.New(dberr.PageTooSmall, "page size is not large enough")
	}
	region := make([]byte, p.pageByteSize)
	copy(region, buf.Bytes())
	if _, err := p.file.WriteAt(region, 0); err != nil {
		return dberr.Wrap(dberr.Io, err, "write header")
	}
	return nil
}

func (p *Pager) readPage(pn uint32) ([]*value.Row, error) {
	buf := make([]byte, p.pageByteSize)
	if _, err := p.file.ReadAt(buf, int64(pn)*int64(p.pageByteSize)); err != nil {
		return nil, dberr.Wrap(dberr.Io, err, "read page")
	}
	var slots []*value.Row
	if err := p.codec.Unmarshal(buf, &slots); err != nil {
		return nil, dberr.Wrap(dberr.Corrupt, err, "decode page")
	}
	return slots, nil
}

func (p *Pager) writePage(pn uint32) error {
	encoded, err := p.codec.Marshal(p.pages[pn])
	if err != nil {
		return errors.Wrap(err, "encode page")
	}
	if len(encoded) > p.pageByteSize {
		return dberr.New(dberr.PageTooSmall, "page size is not large enough")
	}
	buf := make([]byte, p.pageByteSize)
	copy(buf, encoded)
	if _, err := p.file.WriteAt(buf, int64(pn)*int64(p.pageByteSize)); err != nil {
		return dberr.Wrap(dberr.Io, err, "write page")
	}
	return nil
}

// HasFreePages reports whether any page currently has an empty slot.
func (p *Pager) HasFreePages() bool { return len(p.free) > 0 }

// AllocatePage grows the file by one empty data page and registers it as
// free.
func (p *Pager) AllocatePage() error {
	p.numPages++
	pn := p.numPages
	p.pages[pn] = make([]*value.Row, p.capacity)
	heap.Push(&p.free, pn)
	return p.writePage(pn)
}

// Insert places row in the lowest-indexed empty slot of the page the free
// heap currently favors, popping that page off the heap once it fills.
func (p *Pager) Insert(row value.Row) (RecordID, error) {
	if !p.HasFreePages() {
		return RecordID{}, dberr.New(dberr.Full, "pager has no free pages")
	}
	pn := p.free[0]
	slots := p.pages[pn]
	slot := -1
	for i, s := range slots {
		if s == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		// Heap and cache disagree; drop the stale entry and retry.
		heap.Pop(&p.free)
		return p.Insert(row)
	}
	rowCopy := row
	slots[slot] = &rowCopy
	if !hasFreeSlot(slots) {
		heap.Pop(&p.free)
	}
	return RecordID{PageNumber: pn, Slot: uint16(slot)}, nil
}

func hasFreeSlot(slots []*value.Row) bool {
	for _, s := range slots {
		if s == nil {
			return true
		}
	}
	return false
}

// Flush writes the header and every allocated page back to the file.
// A header write error is returned at once, before any page is written;
// otherwise every page is attempted even after a page error, and the
// first page error is returned.
func (p *Pager) Flush() error {
	if err := p.writeHeader(); err != nil {
		return err
	}
	var firstErr error
	for pn := uint32(1); pn <= p.numPages; pn++ {
		if err := p.writePage(pn); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Rows returns every occupied slot's row in ascending (page_number, slot)
// order.
func (p *Pager) Rows() []value.Row {
	var out []value.Row
	for pn := uint32(1); pn <= p.numPages; pn++ {
		for _, s := range p.pages[pn] {
			if s != nil {
				out = append(out, *s)
			}
		}
	}
	return out
}

// Record pairs a stored row with its physical location.
type Record struct {
	ID  RecordID
	Row value.Row
}

// Records returns every occupied slot paired with its RecordID, in
// ascending (page_number, slot) order. Used to rebuild a table's
// in-memory primary-key index after LoadFrom.
func (p *Pager) Records() []Record {
	var out []Record
	for pn := uint32(1); pn <= p.numPages; pn++ {
		for slot, s := range p.pages[pn] {
			if s != nil {
				out = append(out, Record{ID: RecordID{PageNumber: pn, Slot: uint16(slot)}, Row: *s})
			}
		}
	}
	return out
}

func (p *Pager) Schema() *value.Schema { return p.schema }
func (p *Pager) Capacity() int         { return p.capacity }
func (p *Pager) NumPages() uint32      { return p.numPages }

// Close releases the underlying file handle.
func (p *Pager) Close() error { return p.file.Close() }
