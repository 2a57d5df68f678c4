package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Course is one educational offering. Ids come from the source CSV and
// are never generated locally.
type Course struct {
	ent.Schema
}

func (Course) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			Positive().
			Immutable().
			Comment("CourseId from the source data"),
		field.String("name").
			NotEmpty().
			Comment("Course title"),
		field.String("provider").
			NotEmpty().
			Comment("Institution offering the course"),
		field.Int("level").
			Comment("Qualification level, 3 to 7"),
		field.String("subject_area").
			Default("").
			Comment("Pathway or subject grouping"),
		field.Text("description").
			Default(""),
		field.String("qualification_type").
			Default(""),
		field.String("url").
			Default("").
			Comment("External course page"),
	}
}

func (Course) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("level"),
		index.Fields("provider"),
	}
}
