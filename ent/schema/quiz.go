package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Quiz is one multiple-choice question. correct_option is never sent to
// the client.
type Quiz struct {
	ent.Schema
}

func (Quiz) Fields() []ent.Field {
	return []ent.Field{
		field.Text("question"),
		field.Strings("options"),
		field.Int("correct_option").
			NonNegative(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Quiz) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("topic", Topic.Type).
			Ref("quizzes").
			Unique().
			Required(),
	}
}

// UserScore is one graded quiz attempt.
type UserScore struct {
	ent.Schema
}

func (UserScore) Fields() []ent.Field {
	return []ent.Field{
		field.Int("score").
			NonNegative(),
		field.Int("total_questions").
			NonNegative(),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
	}
}

func (UserScore) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("user", User.Type).
			Ref("scores").
			Unique().
			Required(),
		edge.From("topic", Topic.Type).
			Ref("scores").
			Unique().
			Required(),
	}
}

func (UserScore) Indexes() []ent.Index {
	return []ent.Index{
		index.Edges("user", "topic"),
	}
}
