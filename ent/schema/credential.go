package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Credential is the client's saved login, a single row keyed 1.
type Credential struct {
	ent.Schema
}

func (Credential) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id"),
		field.Text("access_token").
			Sensitive(),
		field.String("token_type").
			Default("bearer"),
		field.String("email").
			Default(""),
		field.Time("saved_at"),
	}
}
