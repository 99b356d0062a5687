package testutil

import (
	"database/sql"
	configlibsql "salamyar/lib/configutil/libsql"
	"salamyar/lib/telemetry"
	"testing"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type ServiceParams struct {
	// if unspecified, it will skip setting up a db
	DbSchema string
}

type ServiceResult struct {
	DB    *sql.DB
	Spans *tracetest.SpanRecorder
}

// SetupService gives a test an in-memory sqlite database with `DbSchema`
// applied and the shared span recorder. The database is closed when the test
// ends.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	t.Helper()
	result := ServiceResult{Spans: telemetry.SetupForTesting(t)}
	if params.DbSchema == "" {
		return result
	}

	database, err := configlibsql.Struct{File: ":memory:"}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}
	result.DB = database
	return result
}

// SpanNames lists the names of every ended span, oldest first.
func SpanNames(recorder *tracetest.SpanRecorder) []string {
	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	return names
}
