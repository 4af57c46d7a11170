package models

// ColumnKind is the engine-neutral type of a column. Each engine renders it
// to its own native type.
type ColumnKind int

const (
	KindID ColumnKind = iota
	KindText
	KindInteger
	KindReal
	KindTimestamp
)

type ColumnDef struct {
	Name    string
	Kind    ColumnKind
	NotNull bool
	Unique  bool
	// Default is a literal SQL default, rendered verbatim on both engines.
	Default string
}

type ForeignKeyDef struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

type TableDef struct {
	Name        string
	Columns     []ColumnDef
	ForeignKeys []ForeignKeyDef
}

// Column reports one column as seen by the engine's catalog.
type Column struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	NotNull    bool    `json:"notnull"`
	Default    *string `json:"dflt_value"`
	PrimaryKey bool    `json:"pk"`
}

type ForeignKey struct {
	From     string `json:"from"`
	Table    string `json:"table"`
	To       string `json:"to"`
	OnUpdate string `json:"on_update"`
	OnDelete string `json:"on_delete"`
}

type TableSummary struct {
	Columns     []Column         `json:"columns"`
	ForeignKeys []ForeignKey     `json:"foreign_keys"`
	RowCount    int64            `json:"row_count"`
	SampleRows  []map[string]any `json:"sample_rows"`
}

// Report is the engine-independent structural description of the store.
type Report struct {
	Engine  string                  `json:"engine"`
	Tables  []string                `json:"tables"`
	Summary map[string]TableSummary `json:"summary"`
}

// PrimaryKeys returns the primary key column names of a summarized table.
func (t TableSummary) PrimaryKeys() []string {
	var pks []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	return pks
}

// Relationship is one edge of an ER diagram, in Mermaid cardinality notation.
type Relationship struct {
	FromTable string
	ToTable   string
	Type      string
}
