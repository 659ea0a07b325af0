package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"genealogy3d/application/commands"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func spansNamed(recorder *tracetest.SpanRecorder, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func TestLoadTracesBackendCalls(t *testing.T) {
	recorder := recordSpans(t)
	newService(t)

	loads := spansNamed(recorder, "FamilyService.Load")
	require.Len(t, loads, 1)
	assert.Equal(t, codes.Unset, loads[0].Status().Code)

	for _, name := range []string{"DataBackend.listPersons", "DataBackend.listRelations"} {
		spans := spansNamed(recorder, name)
		require.Len(t, spans, 1, name)
		assert.Equal(t, loads[0].SpanContext().SpanID(), spans[0].Parent().SpanID())
	}
}

func TestTransportFailureMarksSpans(t *testing.T) {
	recorder := recordSpans(t)
	svc, backend, _ := newService(t)
	root := addRoot(t, svc)
	backend.FailNext("createRelationPair", errors.New("connection refused"))

	_, err := svc.AddMember(context.Background(), commands.AddMemberCommand{
		FirstName: "Paul", LastName: "Dupont", ReferenceID: root.ID.String(), Label: "son",
	})
	require.Error(t, err)

	adds := spansNamed(recorder, "FamilyService.AddMember")
	require.Len(t, adds, 2)
	failed := adds[1]
	assert.Equal(t, codes.Error, failed.Status().Code)

	pairs := spansNamed(recorder, "DataBackend.createRelationPair")
	require.Len(t, pairs, 1)
	assert.Equal(t, codes.Error, pairs[0].Status().Code)
	assert.Equal(t, failed.SpanContext().SpanID(), pairs[0].Parent().SpanID())
	require.NotEmpty(t, pairs[0].Events())
	assert.Equal(t, "exception", pairs[0].Events()[0].Name)

	deletes := spansNamed(recorder, "DataBackend.deletePerson")
	require.Len(t, deletes, 1, "compensation is traced under the same operation")
	assert.Equal(t, codes.Unset, deletes[0].Status().Code)
}

func TestDomainRejectionIsNotABackendFailure(t *testing.T) {
	recorder := recordSpans(t)
	svc, _, _ := newService(t)

	err := svc.DeletePerson(context.Background(), "missing")
	require.Error(t, err)

	deletes := spansNamed(recorder, "FamilyService.DeletePerson")
	require.Len(t, deletes, 1)
	assert.Equal(t, codes.Error, deletes[0].Status().Code)
	assert.Empty(t, spansNamed(recorder, "DataBackend.deletePerson"), "rejected before reaching the backend")
}
