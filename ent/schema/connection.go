package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Connection is a directed "leads to" edge between two courses.
// Both endpoint columns reference courses.id.
type Connection struct {
	ent.Schema
}

func (Connection) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			Positive().
			Immutable(),
		field.Int("from_course_id").
			Comment("Source course"),
		field.Int("to_course_id").
			Comment("Target course"),
		field.Text("notes").
			Default("").
			Comment("Edge label, empty when the route has no notes"),
	}
}

func (Connection) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("from_course_id", "to_course_id").
			Unique(),
		index.Fields("to_course_id"),
	}
}

// References maps each foreign-key column to the table it points at.
func (Connection) References() map[string]string {
	return map[string]string{
		"from_course_id": "courses",
		"to_course_id":   "courses",
	}
}
