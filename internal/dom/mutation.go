package dom

import (
	"golang.org/x/net/html"
)

// MutationType distinguishes structural from attribute changes.
type MutationType int

const (
	// ChildList records children added to or removed from Target.
	ChildList MutationType = iota + 1
	// Attributes records a change of AttributeName on Target.
	Attributes
)

func (t MutationType) String() string {
	switch t {
	case ChildList:
		return "childList"
	case Attributes:
		return "attributes"
	}
	return "unknown"
}

// MutationRecord describes one change applied through a Document.
type MutationRecord struct {
	Type          MutationType
	Target        *html.Node
	AttributeName string
	Added         []*html.Node
	Removed       []*html.Node
}

// ObserveOptions selects which mutations an observer receives.
type ObserveOptions struct {
	ChildList  bool
	Attributes bool
	// Subtree extends observation from the target to all its descendants.
	Subtree bool
	// AttributeFilter restricts attribute records to these names. Empty
	// means every attribute.
	AttributeFilter []string
}

type observer struct {
	target *html.Node
	opts   ObserveOptions
	fn     func(MutationRecord)
	active bool
}

func (o *observer) wants(rec MutationRecord) bool {
	if !o.active {
		return false
	}
	if o.opts.Subtree {
		if !IsAncestorOrSelf(o.target, rec.Target) {
			return false
		}
	} else if rec.Target != o.target {
		return false
	}
	switch rec.Type {
	case ChildList:
		return o.opts.ChildList
	case Attributes:
		if !o.opts.Attributes {
			return false
		}
		if len(o.opts.AttributeFilter) == 0 {
			return true
		}
		for _, name := range o.opts.AttributeFilter {
			if name == rec.AttributeName {
				return true
			}
		}
	}
	return false
}

// Observe registers fn for mutations under target. The returned func stops
// delivery.
func (d *Document) Observe(target *html.Node, opts ObserveOptions, fn func(MutationRecord)) (stop func()) {
	o := &observer{target: target, opts: opts, fn: fn, active: true}
	d.observers = append(d.observers, o)
	return func() {
		o.active = false
		for i, cur := range d.observers {
			if cur == o {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify(rec MutationRecord) {
	if len(d.observers) == 0 {
		return
	}
	// observers may unregister while being notified
	current := append([]*observer(nil), d.observers...)
	for _, o := range current {
		if o.wants(rec) {
			o.fn(rec)
		}
	}
}

// SetAttr sets attribute key on n and records the change when the value
// differs.
func (d *Document) SetAttr(n *html.Node, key, val string) {
	if !IsElement(n) {
		return
	}
	if setAttr(n, key, val) {
		d.notify(MutationRecord{Type: Attributes, Target: n, AttributeName: key})
	}
}

// RemoveAttr removes attribute key from n.
func (d *Document) RemoveAttr(n *html.Node, key string) {
	if !IsElement(n) {
		return
	}
	if removeAttr(n, key) {
		d.notify(MutationRecord{Type: Attributes, Target: n, AttributeName: key})
	}
}

// AppendChild detaches child from its current parent and appends it to
// parent.
func (d *Document) AppendChild(parent, child *html.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child into parent before ref, or at the end when ref
// is nil.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil {
		return
	}
	if child.Parent != nil {
		d.RemoveChild(child)
	}
	parent.InsertBefore(child, ref)
	d.notify(MutationRecord{Type: ChildList, Target: parent, Added: []*html.Node{child}})
}

// RemoveChild detaches child from its parent.
func (d *Document) RemoveChild(child *html.Node) {
	if child == nil || child.Parent == nil {
		return
	}
	parent := child.Parent
	parent.RemoveChild(child)
	d.notify(MutationRecord{Type: ChildList, Target: parent, Removed: []*html.Node{child}})
}

// ReplaceChildren removes every child of parent and appends children, as a
// single mutation record.
func (d *Document) ReplaceChildren(parent *html.Node, children ...*html.Node) {
	if parent == nil {
		return
	}
	var removed []*html.Node
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		removed = append(removed, c)
		c = next
	}
	for _, c := range children {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
	d.notify(MutationRecord{Type: ChildList, Target: parent, Added: children, Removed: removed})
}
