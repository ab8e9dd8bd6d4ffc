package store

import "github.com/inamate/annotator/internal/annotation"

// Sink receives the full shape list after every committed mutation. It is
// fire-and-forget: the store never looks at what the sink does with it.
type Sink interface {
	AnnotationsChanged(shapes []annotation.Annotation)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(shapes []annotation.Annotation)

func (f SinkFunc) AnnotationsChanged(shapes []annotation.Annotation) {
	f(shapes)
}
