package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions for the migration engine. Column order matters: the
// repositories select columns by name but the primary key is always first.
var (
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "hashed_password", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	TopicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	TopicsTable = &schema.Table{
		Name:       "topics",
		Columns:    TopicsColumns,
		PrimaryKey: []*schema.Column{TopicsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "topic_title", Columns: []*schema.Column{TopicsColumns[1]}},
		},
	}

	ContentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "summary_text", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "topic_id", Type: field.TypeInt},
	}
	ContentsTable = &schema.Table{
		Name:       "contents",
		Columns:    ContentsColumns,
		PrimaryKey: []*schema.Column{ContentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "contents_topics_contents",
				Columns:    []*schema.Column{ContentsColumns[3]},
				RefColumns: []*schema.Column{TopicsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	QuizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_option", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "topic_id", Type: field.TypeInt},
	}
	QuizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    QuizzesColumns,
		PrimaryKey: []*schema.Column{QuizzesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quizzes_topics_quizzes",
				Columns:    []*schema.Column{QuizzesColumns[5]},
				RefColumns: []*schema.Column{TopicsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	UserScoresColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeInt},
		{Name: "topic_id", Type: field.TypeInt},
	}
	UserScoresTable = &schema.Table{
		Name:       "user_scores",
		Columns:    UserScoresColumns,
		PrimaryKey: []*schema.Column{UserScoresColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_scores_users_scores",
				Columns:    []*schema.Column{UserScoresColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "user_scores_topics_scores",
				Columns:    []*schema.Column{UserScoresColumns[5]},
				RefColumns: []*schema.Column{TopicsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "userscore_user_id_topic_id", Columns: []*schema.Column{UserScoresColumns[4], UserScoresColumns[5]}},
		},
	}

	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
		},
	}

	// CredentialsColumns holds the client's saved login. A single row keyed 1.
	CredentialsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "access_token", Type: field.TypeString, Size: 2147483647},
		{Name: "token_type", Type: field.TypeString, Default: "bearer"},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "saved_at", Type: field.TypeTime},
	}
	CredentialsTable = &schema.Table{
		Name:       "credentials",
		Columns:    CredentialsColumns,
		PrimaryKey: []*schema.Column{CredentialsColumns[0]},
	}

	// Tables lists every table in dependency order.
	Tables = []*schema.Table{
		UsersTable,
		TopicsTable,
		ContentsTable,
		QuizzesTable,
		UserScoresTable,
		LLMRequestEventsTable,
		CredentialsTable,
	}
)

func init() {
	ContentsTable.ForeignKeys[0].RefTable = TopicsTable
	QuizzesTable.ForeignKeys[0].RefTable = TopicsTable
	UserScoresTable.ForeignKeys[0].RefTable = UsersTable
	UserScoresTable.ForeignKeys[1].RefTable = TopicsTable
}

// migrate creates or upgrades every table.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, Tables...)
}
