// Package schema describes the backend's tables as ent schemas. The store
// package keeps a hand-written migration table list that must match.
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// User is a registered learner.
type User struct {
	ent.Schema
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("name").
			NotEmpty(),
		field.String("email").
			Unique().
			NotEmpty(),
		field.String("hashed_password").
			Sensitive(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("scores", UserScore.Type),
	}
}
