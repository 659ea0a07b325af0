package services

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"genealogy3d/application/commands"
	"genealogy3d/application/ports"
	"genealogy3d/domain/core/aggregates"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
)

const tracerName = "genealogy3d/application/services"

// BackendConfig tunes the calls made to the data backend.
type BackendConfig struct {
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0,lte=1"`
	MinRequests      uint32        `koanf:"min_requests"`
}

// DefaultBackendConfig returns the standard timeouts and breaker thresholds.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		Timeout:          5 * time.Second,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		OpenTimeout:      60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// FamilyService applies user mutations: it awaits the data backend and only
// mutates the family graph after the backend call succeeded.
type FamilyService struct {
	backend   ports.DataBackend
	publisher ports.EventPublisher
	breaker   *gobreaker.CircuitBreaker
	config    BackendConfig
	logger    *zap.Logger
	metrics   ports.Metrics
	tracer    trace.Tracer

	graph *aggregates.FamilyGraph
}

// NewFamilyService creates a new family service
func NewFamilyService(
	backend ports.DataBackend,
	publisher ports.EventPublisher,
	config BackendConfig,
	logger *zap.Logger,
	metrics ports.Metrics,
) *FamilyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	s := &FamilyService{
		backend:   backend,
		publisher: publisher,
		config:    config,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
		graph:     aggregates.NewFamilyGraph(),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "data-backend",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// domain rejections are answers, not backend failures
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err)
		},
	})
	return s
}

// SetPublisher replaces the event publisher.
func (s *FamilyService) SetPublisher(p ports.EventPublisher) {
	s.publisher = p
}

// Graph returns the current family graph. Callers must not mutate it.
func (s *FamilyService) Graph() *aggregates.FamilyGraph {
	return s.graph
}

// BreakerState reports the circuit breaker state, e.g. "closed".
func (s *FamilyService) BreakerState() string {
	return s.breaker.State().String()
}

// Load replaces the graph with the backend's persons and relations.
func (s *FamilyService) Load(ctx context.Context) (_ *aggregates.FamilyGraph, err error) {
	ctx, span := s.tracer.Start(ctx, "FamilyService.Load", trace.WithSpanKind(trace.SpanKindInternal))
	defer func() { endSpan(span, err) }()

	persons, err := call(ctx, s, "listPersons", s.backend.ListPersons)
	if err != nil {
		return nil, err
	}
	relations, err := call(ctx, s, "listRelations", s.backend.ListRelations)
	if err != nil {
		return nil, err
	}

	graph, err := aggregates.ReconstructFamilyGraph(persons, relations)
	if err != nil {
		s.logger.Error("Backend data failed graph validation", zap.Error(err))
		return nil, err
	}
	s.graph = graph

	s.logger.Info("Family graph loaded",
		zap.Int("persons", graph.Len()),
		zap.Int("relations", graph.RelationCount()),
	)
	return graph, nil
}

// AddMember creates a person and, unless it is the first member, the
// relation pair linking it to the reference person. The label describes
// the new person relative to the reference and fixes both the generation
// and the stored relation type.
func (s *FamilyService) AddMember(ctx context.Context, cmd commands.AddMemberCommand) (_ *entities.Person, err error) {
	ctx, span := s.tracer.Start(ctx, "FamilyService.AddMember",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("member.reference_id", cmd.ReferenceID),
			attribute.String("member.label", cmd.Label),
		),
	)
	defer func() { endSpan(span, err) }()

	first := s.graph.Len() == 0
	if err := cmd.Validate(first); err != nil {
		return nil, err
	}

	if first {
		person, err := s.createPerson(ctx, cmd.Fields(0))
		if err != nil {
			return nil, err
		}
		if err := s.graph.AddPerson(person); err != nil {
			return nil, err
		}
		s.publish(ctx)
		return person, nil
	}

	refID := valueobjects.PersonID(cmd.ReferenceID)
	ref, ok := s.graph.Person(refID)
	if !ok {
		return nil, apperrors.NewReferenceError("person", refID.String())
	}
	label := valueobjects.RelationLabel(cmd.Label)
	generation, err := valueobjects.ComputeGeneration(ref.Generation, label)
	if err != nil {
		return nil, err
	}
	stored, err := label.StoredType()
	if err != nil {
		return nil, err
	}

	person, err := s.createPerson(ctx, cmd.Fields(generation))
	if err != nil {
		return nil, err
	}

	type pair struct{ forward, inverse *entities.Relation }
	rows, err := call(ctx, s, "createRelationPair", func(ctx context.Context) (pair, error) {
		f, i, err := s.backend.CreateRelationPair(ctx, refID, person.ID, stored)
		return pair{f, i}, err
	})
	if err != nil {
		s.compensate(ctx, person.ID)
		return nil, err
	}

	if err := s.graph.AddPerson(person); err != nil {
		return nil, err
	}
	if err := s.graph.AddRelationRows(rows.forward, rows.inverse); err != nil {
		_ = s.graph.RemovePerson(person.ID)
		s.graph.MarkEventsAsCommitted()
		return nil, err
	}

	s.logger.Info("Member added",
		zap.String("personID", person.ID.String()),
		zap.String("referenceID", refID.String()),
		zap.String("label", label.String()),
		zap.Int("generation", generation),
	)
	s.publish(ctx)
	return person, nil
}

// UpdatePerson applies a partial update through the backend.
func (s *FamilyService) UpdatePerson(ctx context.Context, cmd commands.UpdatePersonCommand) (_ *entities.Person, err error) {
	ctx, span := s.tracer.Start(ctx, "FamilyService.UpdatePerson",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("person.id", cmd.PersonID)),
	)
	defer func() { endSpan(span, err) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	id := valueobjects.PersonID(cmd.PersonID)
	if !s.graph.HasPerson(id) {
		return nil, apperrors.NewNotFoundError("person", id.String())
	}

	updated, err := call(ctx, s, "updatePerson", func(ctx context.Context) (*entities.Person, error) {
		return s.backend.UpdatePerson(ctx, id, cmd.Patch)
	})
	if err != nil {
		return nil, err
	}
	if err := s.graph.UpdatePerson(updated); err != nil {
		return nil, err
	}
	s.publish(ctx)
	return updated, nil
}

// DeletePerson removes a person and their relations through the backend.
func (s *FamilyService) DeletePerson(ctx context.Context, id valueobjects.PersonID) (err error) {
	ctx, span := s.tracer.Start(ctx, "FamilyService.DeletePerson",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("person.id", id.String())),
	)
	defer func() { endSpan(span, err) }()

	if !s.graph.HasPerson(id) {
		return apperrors.NewNotFoundError("person", id.String())
	}
	if _, err := call(ctx, s, "deletePerson", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.backend.DeletePerson(ctx, id)
	}); err != nil {
		return err
	}
	if err := s.graph.RemovePerson(id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Search matches persons of the current graph.
func (s *FamilyService) Search(query string) []*entities.Person {
	return Search(s.graph.Persons(), query)
}

func (s *FamilyService) createPerson(ctx context.Context, fields entities.PersonFields) (*entities.Person, error) {
	return call(ctx, s, "createPerson", func(ctx context.Context) (*entities.Person, error) {
		return s.backend.CreatePerson(ctx, fields)
	})
}

// compensate deletes a person whose relation pair could not be created.
func (s *FamilyService) compensate(ctx context.Context, id valueobjects.PersonID) {
	if _, err := call(ctx, s, "deletePerson", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.backend.DeletePerson(ctx, id)
	}); err != nil {
		s.logger.Error("Failed to delete orphaned person",
			zap.String("personID", id.String()),
			zap.Error(err),
		)
	}
}

func (s *FamilyService) publish(ctx context.Context) {
	evs := s.graph.GetUncommittedEvents()
	s.graph.MarkEventsAsCommitted()
	if s.publisher == nil || len(evs) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evs); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err), zap.Int("events", len(evs)))
	}
}

// call runs one backend operation under the timeout and circuit breaker.
// Failures other than domain rejections come back as transport errors.
func call[T any](ctx context.Context, s *FamilyService, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, "DataBackend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("backend.operation", op)),
	)
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	s.metrics.ObserveBackendCall(op, time.Since(start), err)
	span.SetAttributes(attribute.String("breaker.state", s.breaker.State().String()))

	var zero T
	if err != nil {
		span.RecordError(err)
		if isDomainError(err) {
			return zero, err
		}
		span.SetStatus(codes.Error, "backend call failed")
		s.logger.Warn("Backend call failed", zap.String("operation", op), zap.Error(err))
		terr := apperrors.NewTransportError(op, err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			terr = terr.WithDetail("breaker", s.breaker.State().String())
		}
		return zero, terr
	}
	out, _ := res.(T)
	return out, nil
}

// endSpan records err on a service span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if appErr := apperrors.GetAppError(err); appErr != nil {
			span.SetAttributes(attribute.String("error.type", string(appErr.Type)))
		}
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isDomainError(err error) bool {
	return apperrors.IsValidation(err) || apperrors.IsNotFound(err) ||
		apperrors.IsReference(err) || apperrors.IsConflict(err) || apperrors.IsIntegrity(err)
}
