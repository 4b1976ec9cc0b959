package store

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/stretchr/testify/assert"

	entschema "github.com/abhisek/studymate/ent/schema"
)

// columnsOf lists the columns ent would generate for def: the implicit id,
// mixin fields, declared fields and the foreign keys added by edges.
func columnsOf(def ent.Interface, edgeColumns ...string) []string {
	var fields []ent.Field
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, def.Fields()...)

	var cols []string
	hasID := false
	for _, f := range fields {
		name := f.Descriptor().Name
		if name == "id" {
			hasID = true
		}
		cols = append(cols, name)
	}
	if !hasID {
		cols = append([]string{"id"}, cols...)
	}
	return append(cols, edgeColumns...)
}

func tableColumns(t *schema.Table) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

func TestTablesMatchEntSchemas(t *testing.T) {
	tests := []struct {
		table *schema.Table
		want  []string
	}{
		{UsersTable, columnsOf(entschema.User{})},
		{TopicsTable, columnsOf(entschema.Topic{})},
		{ContentsTable, columnsOf(entschema.Content{}, "topic_id")},
		{QuizzesTable, columnsOf(entschema.Quiz{}, "topic_id")},
		{UserScoresTable, columnsOf(entschema.UserScore{}, "user_id", "topic_id")},
		{LLMRequestEventsTable, columnsOf(entschema.LLMRequestEvent{})},
		{CredentialsTable, columnsOf(entschema.Credential{})},
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tableColumns(tt.table))
		})
	}
	assert.Len(t, Tables, len(tests))
}
