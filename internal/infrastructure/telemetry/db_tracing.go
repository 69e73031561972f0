// Package telemetry attaches OpenTelemetry instrumentation to the
// infrastructure layer.
package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// RegisterDBTracing registers the otelgorm plugin on db so every statement
// runs inside a span, then adds callbacks that tag each span with its table
// and mark failed statements. Query variables are stripped from the recorded
// SQL.
func RegisterDBTracing(db *gorm.DB, dbName string) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}
	return registerSpanCallbacks(db)
}

// registerSpanCallbacks hooks markStatement after every statement kind.
// The callbacks run after otelgorm's, while its span is still recording.
func registerSpanCallbacks(db *gorm.DB) error {
	if err := db.Callback().Create().After("gorm:create").Register("tracing:after_create", markStatement); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("tracing:after_query", markStatement); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("tracing:after_update", markStatement); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("tracing:after_delete", markStatement); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register("tracing:after_row", markStatement); err != nil {
		return err
	}
	return db.Callback().Raw().After("gorm:raw").Register("tracing:after_raw", markStatement)
}

// markStatement tags the statement span with the table touched and records
// any statement error. ErrRecordNotFound is an expected lookup outcome, not
// a span error.
func markStatement(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}
