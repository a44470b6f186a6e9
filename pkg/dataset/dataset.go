// Package dataset builds push dataset definitions.
//
// A push dataset is created by posting its schema: a named set of tables with
// typed columns, optional DAX measures and relationships. The types in this
// package marshal to the JSON shape the service expects:
//
//	sales := dataset.NewTable("Sales").
//		AddColumn(dataset.NewColumn("Region", dataset.String)).
//		AddColumn(dataset.NewColumn("Amount", dataset.Decimal))
//
//	ds := dataset.New("Revenue").AddTable(sales)
//	if err := ds.Validate(); err != nil {
//		return err
//	}
package dataset

import (
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrInvalidValue       = errors.New("invalid value")
	ErrNameRequired       = errors.New("name is required")
	ErrNoTables           = errors.New("dataset has no tables")
	ErrDuplicateTable     = errors.New("duplicate table name")
	ErrDuplicateColumn    = errors.New("duplicate column name")
	ErrUnknownTable       = errors.New("unknown table")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrExpressionRequired = errors.New("measure expression is required")
)

// Column is a table column.
type Column struct {
	Name         string            `json:"name"`
	DataType     ColumnDataType    `json:"dataType"`
	FormatString string            `json:"formatString,omitempty"`
	DataCategory string            `json:"dataCategory,omitempty"`
	IsHidden     bool              `json:"isHidden,omitempty"`
	SortByColumn string            `json:"sortByColumn,omitempty"`
	SummarizeBy  AggregationMethod `json:"summarizeBy,omitempty"`
}

// NewColumn creates a column.
func NewColumn(name string, dataType ColumnDataType) *Column {
	return &Column{Name: name, DataType: dataType}
}

// WithFormatString sets the display format, e.g. "0.00%".
func (c *Column) WithFormatString(format string) *Column {
	c.FormatString = format

	return c
}

// WithDataCategory sets the data category, e.g. "Location".
func (c *Column) WithDataCategory(category string) *Column {
	c.DataCategory = category

	return c
}

// Hidden hides the column from report authors.
func (c *Column) Hidden() *Column {
	c.IsHidden = true

	return c
}

// WithSortByColumn sorts this column by the values of another column.
func (c *Column) WithSortByColumn(column string) *Column {
	c.SortByColumn = column

	return c
}

// WithSummarizeBy sets the default aggregation.
func (c *Column) WithSummarizeBy(method AggregationMethod) *Column {
	c.SummarizeBy = method

	return c
}

// Validate checks name and enumerations.
func (c *Column) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("column: %w", ErrNameRequired)
	}

	if err := c.DataType.Validate(); err != nil {
		return fmt.Errorf("column %s: %w", c.Name, err)
	}

	if c.SummarizeBy != "" {
		if err := c.SummarizeBy.Validate(); err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
	}

	return nil
}

// Measure is a DAX measure.
type Measure struct {
	Name         string `json:"name"`
	Expression   string `json:"expression"`
	FormatString string `json:"formatString,omitempty"`
	IsHidden     bool   `json:"isHidden,omitempty"`
}

// NewMeasure creates a measure.
func NewMeasure(name, expression string) *Measure {
	return &Measure{Name: name, Expression: expression}
}

// Validate checks the measure has a name and an expression.
func (m *Measure) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("measure: %w", ErrNameRequired)
	}

	if m.Expression == "" {
		return fmt.Errorf("measure %s: %w", m.Name, ErrExpressionRequired)
	}

	return nil
}

// Table is a push dataset table.
type Table struct {
	Name     string           `json:"name"`
	Columns  []*Column        `json:"columns,omitempty"`
	Measures []*Measure       `json:"measures,omitempty"`
	Rows     []map[string]any `json:"rows,omitempty"`
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// AddColumn appends a column.
func (t *Table) AddColumn(column *Column) *Table {
	t.Columns = append(t.Columns, column)

	return t
}

// AddMeasure appends a measure.
func (t *Table) AddMeasure(measure *Measure) *Table {
	t.Measures = append(t.Measures, measure)

	return t
}

// AddRow appends a row keyed by column name.
func (t *Table) AddRow(row map[string]any) *Table {
	t.Rows = append(t.Rows, row)

	return t
}

// Column returns the named column or nil.
func (t *Table) Column(name string) *Column {
	for _, column := range t.Columns {
		if column.Name == name {
			return column
		}
	}

	return nil
}

// ColumnNames lists column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		names = append(names, column.Name)
	}

	return names
}

// Validate checks the table, its columns and measures.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table: %w", ErrNameRequired)
	}

	seen := make(map[string]struct{}, len(t.Columns))

	for _, column := range t.Columns {
		if err := column.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}

		if _, ok := seen[column.Name]; ok {
			return fmt.Errorf("table %s: %w: %s", t.Name, ErrDuplicateColumn, column.Name)
		}

		seen[column.Name] = struct{}{}
	}

	for _, measure := range t.Measures {
		if err := measure.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}

	return nil
}

// Relationship joins two tables.
type Relationship struct {
	Name                   string                 `json:"name"`
	FromTable              string                 `json:"fromTable"`
	FromColumn             string                 `json:"fromColumn"`
	ToTable                string                 `json:"toTable"`
	ToColumn               string                 `json:"toColumn"`
	CrossFilteringBehavior CrossFilteringBehavior `json:"crossFilteringBehavior,omitempty"`
}

// Datasource is a datasource reference carried by a dataset definition.
type Datasource struct {
	DatasourceType    DatasourceType    `json:"datasourceType"`
	ConnectionDetails map[string]string `json:"connectionDetails,omitempty"`
}

// Dataset is the definition posted to create a push dataset.
type Dataset struct {
	Name          string          `json:"name"`
	DefaultMode   Mode            `json:"defaultMode,omitempty"`
	Tables        []*Table        `json:"tables"`
	Relationships []*Relationship `json:"relationships,omitempty"`
	Datasources   []*Datasource   `json:"datasources,omitempty"`
}

// New creates a dataset in Push mode.
func New(name string) *Dataset {
	return &Dataset{Name: name, DefaultMode: ModePush, Tables: []*Table{}}
}

// WithDefaultMode overrides the storage mode.
func (d *Dataset) WithDefaultMode(mode Mode) *Dataset {
	d.DefaultMode = mode

	return d
}

// AddTable appends a table.
func (d *Dataset) AddTable(table *Table) *Dataset {
	d.Tables = append(d.Tables, table)

	return d
}

// AddRelationship appends a relationship.
func (d *Dataset) AddRelationship(relationship *Relationship) *Dataset {
	d.Relationships = append(d.Relationships, relationship)

	return d
}

// AddDatasource appends a datasource.
func (d *Dataset) AddDatasource(datasource *Datasource) *Dataset {
	d.Datasources = append(d.Datasources, datasource)

	return d
}

// Table returns the named table or nil.
func (d *Dataset) Table(name string) *Table {
	for _, table := range d.Tables {
		if table.Name == name {
			return table
		}
	}

	return nil
}

// Schema returns a copy of the definition with table rows removed. Rows are
// pushed separately once the dataset exists.
func (d *Dataset) Schema() *Dataset {
	schema := *d
	schema.Tables = make([]*Table, 0, len(d.Tables))

	for _, table := range d.Tables {
		stripped := *table
		stripped.Rows = nil
		schema.Tables = append(schema.Tables, &stripped)
	}

	return &schema
}

// Validate checks the whole definition before it is posted.
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset: %w", ErrNameRequired)
	}

	if d.DefaultMode != "" {
		if err := d.DefaultMode.Validate(); err != nil {
			return fmt.Errorf("dataset %s: %w", d.Name, err)
		}
	}

	if len(d.Tables) == 0 {
		return fmt.Errorf("dataset %s: %w", d.Name, ErrNoTables)
	}

	seen := make(map[string]struct{}, len(d.Tables))

	for _, table := range d.Tables {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("dataset %s: %w", d.Name, err)
		}

		if _, ok := seen[table.Name]; ok {
			return fmt.Errorf("dataset %s: %w: %s", d.Name, ErrDuplicateTable, table.Name)
		}

		seen[table.Name] = struct{}{}
	}

	for _, relationship := range d.Relationships {
		if err := d.validateRelationship(relationship); err != nil {
			return fmt.Errorf("dataset %s: relationship %s: %w", d.Name, relationship.Name, err)
		}
	}

	for _, datasource := range d.Datasources {
		if err := datasource.DatasourceType.Validate(); err != nil {
			return fmt.Errorf("dataset %s: %w", d.Name, err)
		}
	}

	return nil
}

func (d *Dataset) validateRelationship(relationship *Relationship) error {
	if relationship.CrossFilteringBehavior != "" {
		if err := relationship.CrossFilteringBehavior.Validate(); err != nil {
			return err
		}
	}

	ends := [][2]string{
		{relationship.FromTable, relationship.FromColumn},
		{relationship.ToTable, relationship.ToColumn},
	}

	for _, end := range ends {
		table := d.Table(end[0])
		if table == nil {
			return fmt.Errorf("%w: %s", ErrUnknownTable, end[0])
		}

		if table.Column(end[1]) == nil {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, end[0], end[1])
		}
	}

	return nil
}
