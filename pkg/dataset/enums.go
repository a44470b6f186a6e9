package dataset

import (
	"fmt"
	"slices"
)

// ColumnDataType is the data type of a push dataset column.
type ColumnDataType string

const (
	Int64    ColumnDataType = "Int64"
	Double   ColumnDataType = "Double"
	Boolean  ColumnDataType = "bool"
	DateTime ColumnDataType = "DateTime"
	String   ColumnDataType = "string"
	Decimal  ColumnDataType = "Decimal"
)

// Validate reports whether the data type is known to the service.
func (t ColumnDataType) Validate() error {
	return oneOf("column data type", t, Int64, Double, Boolean, DateTime, String, Decimal)
}

// AggregationMethod is the default summarization of a column.
type AggregationMethod string

const (
	AggregateDefault       AggregationMethod = "default"
	AggregateNone          AggregationMethod = "none"
	AggregateSum           AggregationMethod = "sum"
	AggregateMin           AggregationMethod = "min"
	AggregateMax           AggregationMethod = "max"
	AggregateCount         AggregationMethod = "count"
	AggregateAverage       AggregationMethod = "average"
	AggregateDistinctCount AggregationMethod = "distinctCount"
)

// Validate reports whether the aggregation method is known to the service.
func (a AggregationMethod) Validate() error {
	return oneOf("aggregation method", a,
		AggregateDefault, AggregateNone, AggregateSum, AggregateMin,
		AggregateMax, AggregateCount, AggregateAverage, AggregateDistinctCount)
}

// Mode is the storage mode of a dataset.
type Mode string

const (
	ModeAsAzure       Mode = "AsAzure"
	ModeAsOnPrem      Mode = "AsOnPrem"
	ModePush          Mode = "Push"
	ModePushStreaming Mode = "PushStreaming"
	ModeStreaming     Mode = "Streaming"
)

// Validate reports whether the mode is known to the service.
func (m Mode) Validate() error {
	return oneOf("dataset mode", m, ModeAsAzure, ModeAsOnPrem, ModePush, ModePushStreaming, ModeStreaming)
}

// CrossFilteringBehavior of a relationship.
type CrossFilteringBehavior string

const (
	CrossFilterOneDirection   CrossFilteringBehavior = "OneDirection"
	CrossFilterBothDirections CrossFilteringBehavior = "BothDirections"
	CrossFilterAutomatic      CrossFilteringBehavior = "Automatic"
)

// Validate reports whether the behavior is known to the service.
func (c CrossFilteringBehavior) Validate() error {
	return oneOf("cross filtering behavior", c, CrossFilterOneDirection, CrossFilterBothDirections, CrossFilterAutomatic)
}

// DatasourceType is the kind of a dataset datasource.
type DatasourceType string

const (
	DatasourceAnalysisServices DatasourceType = "AnalysisServices"
	DatasourceSQL              DatasourceType = "Sql"
	DatasourceFile             DatasourceType = "File"
	DatasourceOData            DatasourceType = "OData"
	DatasourceOracle           DatasourceType = "Oracle"
	DatasourceSAPHana          DatasourceType = "SAPHana"
	DatasourceSharePointList   DatasourceType = "SharePointList"
)

// Validate reports whether the datasource type is known to the service.
func (d DatasourceType) Validate() error {
	return oneOf("datasource type", d,
		DatasourceAnalysisServices, DatasourceSQL, DatasourceFile, DatasourceOData,
		DatasourceOracle, DatasourceSAPHana, DatasourceSharePointList)
}

func oneOf[T ~string](kind string, value T, allowed ...T) error {
	if slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValue, string(value), kind)
}
