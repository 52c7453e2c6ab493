package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CoursesColumns holds the columns for the "courses" table.
	CoursesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 64},
		{Name: "subject_code", Type: field.TypeString, Size: 16},
		{Name: "number", Type: field.TypeString, Size: 16, Default: ""},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "units", Type: field.TypeFloat64},
		{Name: "cb_codes", Type: field.TypeJSON, Nullable: true},
		{Name: "ccn_standard_id", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// CoursesTable holds the schema information for the "courses" table.
	CoursesTable = &schema.Table{
		Name:       "courses",
		Columns:    CoursesColumns,
		PrimaryKey: []*schema.Column{CoursesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "course_subject_code_number", Columns: []*schema.Column{CoursesColumns[1], CoursesColumns[2]}},
		},
	}

	// CourseOutcomesColumns holds the columns for the "course_outcomes" table.
	CourseOutcomesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "course_id", Type: field.TypeString, Size: 64},
		{Name: "sequence", Type: field.TypeInt},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
	}
	// CourseOutcomesTable holds the schema information for the "course_outcomes" table.
	CourseOutcomesTable = &schema.Table{
		Name:       "course_outcomes",
		Columns:    CourseOutcomesColumns,
		PrimaryKey: []*schema.Column{CourseOutcomesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_outcomes_courses_outcomes",
				Columns:    []*schema.Column{CourseOutcomesColumns[1]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "courseoutcome_course_id_sequence", Unique: true, Columns: []*schema.Column{CourseOutcomesColumns[1], CourseOutcomesColumns[2]}},
		},
	}

	// CourseTopicsColumns holds the columns for the "course_topics" table.
	CourseTopicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "course_id", Type: field.TypeString, Size: 64},
		{Name: "sequence", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString},
		{Name: "hours", Type: field.TypeFloat64, Nullable: true},
	}
	// CourseTopicsTable holds the schema information for the "course_topics" table.
	CourseTopicsTable = &schema.Table{
		Name:       "course_topics",
		Columns:    CourseTopicsColumns,
		PrimaryKey: []*schema.Column{CourseTopicsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_topics_courses_topics",
				Columns:    []*schema.Column{CourseTopicsColumns[1]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "coursetopic_course_id_sequence", Unique: true, Columns: []*schema.Column{CourseTopicsColumns[1], CourseTopicsColumns[2]}},
		},
	}

	// JustificationsColumns holds the columns for the "justifications" table.
	JustificationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "course_id", Type: field.TypeString, Size: 64},
		{Name: "reason_code", Type: field.TypeString, Size: 32},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "submitted_at", Type: field.TypeTime},
	}
	// JustificationsTable holds the schema information for the "justifications" table.
	JustificationsTable = &schema.Table{
		Name:       "justifications",
		Columns:    JustificationsColumns,
		PrimaryKey: []*schema.Column{JustificationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "justifications_courses_justifications",
				Columns:    []*schema.Column{JustificationsColumns[1]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{Name: "justification_course_id_submitted_at", Columns: []*schema.Column{JustificationsColumns[1], JustificationsColumns[4]}},
		},
	}

	// AuditEventsColumns holds the columns for the "audit_events" table.
	AuditEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "course_id", Type: field.TypeString, Size: 64},
		{Name: "kind", Type: field.TypeString, Size: 64},
		{Name: "actor", Type: field.TypeString, Default: ""},
		{Name: "detail", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AuditEventsTable holds the schema information for the "audit_events" table.
	AuditEventsTable = &schema.Table{
		Name:       "audit_events",
		Columns:    AuditEventsColumns,
		PrimaryKey: []*schema.Column{AuditEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "auditevent_course_id_sequence", Columns: []*schema.Column{AuditEventsColumns[2], AuditEventsColumns[1]}},
		},
	}

	// WizardSnapshotsColumns holds the columns for the "wizard_snapshots" table.
	WizardSnapshotsColumns = []*schema.Column{
		{Name: "course_id", Type: field.TypeString, Size: 64},
		{Name: "data", Type: field.TypeJSON},
		{Name: "saved_at", Type: field.TypeTime},
	}
	// WizardSnapshotsTable holds the schema information for the "wizard_snapshots" table.
	WizardSnapshotsTable = &schema.Table{
		Name:       "wizard_snapshots",
		Columns:    WizardSnapshotsColumns,
		PrimaryKey: []*schema.Column{WizardSnapshotsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "wizard_snapshots_courses_snapshot",
				Columns:    []*schema.Column{WizardSnapshotsColumns[0]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// GlobalSequenceTable holds the single-row audit sequence counter.
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CoursesTable,
		CourseOutcomesTable,
		CourseTopicsTable,
		JustificationsTable,
		AuditEventsTable,
		WizardSnapshotsTable,
		GlobalSequenceTable,
	}
)

func init() {
	CourseOutcomesTable.ForeignKeys[0].RefTable = CoursesTable
	CourseTopicsTable.ForeignKeys[0].RefTable = CoursesTable
	JustificationsTable.ForeignKeys[0].RefTable = CoursesTable
	WizardSnapshotsTable.ForeignKeys[0].RefTable = CoursesTable
}
