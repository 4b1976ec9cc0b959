package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Topic is a subject a learner can study and be quizzed on.
type Topic struct {
	ent.Schema
}

func (Topic) Fields() []ent.Field {
	return []ent.Field{
		field.String("title").
			NotEmpty(),
		field.String("description").
			Default(""),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Topic) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("contents", Content.Type),
		edge.To("quizzes", Quiz.Type),
		edge.To("scores", UserScore.Type),
	}
}

func (Topic) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("title"),
	}
}

// Content is an explanation attached to a topic.
type Content struct {
	ent.Schema
}

func (Content) Fields() []ent.Field {
	return []ent.Field{
		field.Text("summary_text"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Content) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("topic", Topic.Type).
			Ref("contents").
			Unique().
			Required(),
	}
}
