package change

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrPosition is returned when a child position is out of range.
	ErrPosition = errors.New("change: child position out of range")

	// ErrCycle is returned when a detector would become its own ancestor.
	ErrCycle = errors.New("change: detector would contain itself")
)

// Record is one binding checked during change detection.
type Record interface {
	// Check re-evaluates the binding against ctx and reports whether its
	// target was updated.
	Check(ctx any) (bool, error)
}

// RecordFunc adapts a function to Record.
type RecordFunc func(ctx any) (bool, error)

// Check implements Record.
func (f RecordFunc) Check(ctx any) (bool, error) { return f(ctx) }

// Detector is a node in the change-detection tree.
type Detector struct {
	parent     *Detector
	children   []*Detector
	records    []Record
	context    any
	hasContext bool
}

// New creates a detached detector with the given records.
func New(records ...Record) *Detector {
	return &Detector{records: records}
}

// Parent returns the parent detector, or nil.
func (d *Detector) Parent() *Detector { return d.parent }

// Children returns a copy of the ordered child list.
func (d *Detector) Children() []*Detector {
	return slices.Clone(d.children)
}

// Len returns the number of children.
func (d *Detector) Len() int { return len(d.children) }

// IndexOf returns the position of child, or -1.
func (d *Detector) IndexOf(child *Detector) int {
	return slices.Index(d.children, child)
}

// AddChild appends child, detaching it from any previous parent.
func (d *Detector) AddChild(child *Detector) error {
	return d.insert(child, d.sizeWithout(child))
}

// InsertChild places child at pos in [0, Len()], detaching it from any
// previous parent first. pos is interpreted after that detachment.
func (d *Detector) InsertChild(child *Detector, pos int) error {
	return d.insert(child, pos)
}

// sizeWithout is the child count once child has been detached.
func (d *Detector) sizeWithout(child *Detector) int {
	if child != nil && child.parent == d {
		return len(d.children) - 1
	}
	return len(d.children)
}

func (d *Detector) insert(child *Detector, pos int) error {
	if child == nil {
		return errors.New("change: nil detector")
	}
	for p := d; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	if size := d.sizeWithout(child); pos < 0 || pos > size {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPosition, pos, size)
	}

	child.Remove()
	d.children = slices.Insert(d.children, pos, child)
	child.parent = d
	return nil
}

// Remove detaches d from its parent's children. No-op when detached.
func (d *Detector) Remove() {
	p := d.parent
	if p == nil {
		return
	}
	if i := p.IndexOf(d); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	d.parent = nil
}

// SetContext sets the value records are evaluated against.
func (d *Detector) SetContext(ctx any) {
	d.context = ctx
	d.hasContext = true
}

// ClearContext removes d's own context so it inherits its parent's again.
func (d *Detector) ClearContext() {
	d.context = nil
	d.hasContext = false
}

// Context returns d's own context, or the nearest ancestor's.
func (d *Detector) Context() any {
	for cur := d; cur != nil; cur = cur.parent {
		if cur.hasContext {
			return cur.context
		}
	}
	return nil
}

// AddRecord appends a binding record.
func (d *Detector) AddRecord(r Record) {
	d.records = append(d.records, r)
}

// DetectChanges checks d's records and then its children depth-first.
// It returns the number of records that reported a change and stops at
// the first record error.
func (d *Detector) DetectChanges() (int, error) {
	changed := 0
	ctx := d.Context()
	for _, r := range d.records {
		ok, err := r.Check(ctx)
		if err != nil {
			return changed, err
		}
		if ok {
			changed++
		}
	}
	for _, c := range slices.Clone(d.children) {
		n, err := c.DetectChanges()
		changed += n
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}
