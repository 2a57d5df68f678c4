package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// KSBMapping holds the knowledge, skills and behaviours analysis for a
// course. The course association is soft: there is no foreign key, and a
// course without a row simply has no enrichment.
type KSBMapping struct {
	ent.Schema
}

func (KSBMapping) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			Positive(),
		field.Int("course_id"),
		field.String("pathway").
			Default(""),
		field.Text("knowledge_areas").
			Default("[]").
			Comment("JSON list of {id, description, confidence}"),
		field.Text("skills_areas").
			Default("[]"),
		field.Text("behaviours").
			Default("[]"),
		field.Text("occupational_standards").
			Default("[]").
			Comment("JSON list of {name, level, confidence}"),
		field.Text("career_pathways").
			Default("[]").
			Comment("JSON list of {role, level, confidence}"),
		field.Int("overall_confidence_score").
			Default(0),
		field.Text("analysis_notes").
			Default(""),
		field.String("processed_date").
			Default("").
			Comment("RFC 3339, empty when unknown"),
		field.String("source_url").
			Default(""),
		field.Text("standardized_response").
			Default(""),
	}
}

func (KSBMapping) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("course_id"),
	}
}
