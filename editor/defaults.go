package editor

import (
	"fmt"

	"erd/diagram"
)

// DefaultAnnotationText is the placeholder body of a new note.
const DefaultAnnotationText = "Double-click to edit"

// DefaultAttributes returns the columns every new entity starts with.
func DefaultAttributes() []diagram.Attribute {
	return []diagram.Attribute{
		{Name: "id", Type: "INT", PrimaryKey: true, Required: true, Unique: true},
		{Name: "name", Type: "VARCHAR(255)"},
	}
}

func (e *Editor) defaultEntity() diagram.NodeContent {
	entities := 0
	for _, n := range e.model.Nodes() {
		if n.Kind == diagram.KindEntity {
			entities++
		}
	}
	return diagram.NodeContent{
		Name:       fmt.Sprintf("Entity%d", entities+1),
		Attributes: DefaultAttributes(),
	}
}

func defaultAnnotation() diagram.NodeContent {
	return diagram.NodeContent{Name: "Note", Text: DefaultAnnotationText}
}

// DefaultContent returns the content a newly placed node of kind gets.
func (e *Editor) DefaultContent(kind diagram.NodeKind) diagram.NodeContent {
	if kind == diagram.KindAnnotation {
		return defaultAnnotation()
	}
	return e.defaultEntity()
}
