// fastview implements a builder pattern for simple push views: given an
// input data format, apply a transformation to a view-model, then multiplex
// that data to one or more views whose element updates are pushed to the
// client over a websocket.
package fastview

import (
	"html/template"
)

// EleUpdate is an element identifier and a set of operations to apply to
// its attributes/content.
type EleUpdate struct {
	// The id by which to find the element
	EleId string
	// Op keys are attrib keys or 'textContent', values are the strings to
	// which these are set. 'textContent' is a reserved key: it sets
	// ele.textContent rather than an attribute.
	Ops []Op
}

// Op is a key and value. For example an html attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// ViewComponent implements server side views: Parse to add the view to a
// parent template (inheriting its func-map), and Updates to obtain the
// chan by which ele-updates are notified.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	Parse(*template.Template) (string, error)
}
