package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genealogy3d/application/commands"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/domain/events"
	"genealogy3d/infrastructure/persistence/memory"
	apperrors "genealogy3d/pkg/errors"
)

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evs []events.DomainEvent) error {
	p.events = append(p.events, evs...)
	return nil
}

func (p *recordingPublisher) types() []string {
	var out []string
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

func newService(t *testing.T) (*FamilyService, *memory.Backend, *recordingPublisher) {
	t.Helper()
	backend := memory.NewBackend()
	pub := &recordingPublisher{}
	cfg := DefaultBackendConfig()
	cfg.Timeout = time.Second
	svc := NewFamilyService(backend, pub, cfg, zap.NewNop(), nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc, backend, pub
}

func addRoot(t *testing.T, svc *FamilyService) *entities.Person {
	t.Helper()
	root, err := svc.AddMember(context.Background(), commands.AddMemberCommand{FirstName: "Jean", LastName: "Dupont"})
	require.NoError(t, err)
	return root
}

func TestAddFirstMember(t *testing.T) {
	svc, backend, pub := newService(t)

	root, err := svc.AddMember(context.Background(), commands.AddMemberCommand{
		FirstName: "Jean", LastName: "Dupont", ReferenceID: "ignored", Label: "mother",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, root.Generation)
	assert.Equal(t, 1, svc.Graph().Len())
	assert.Equal(t, 0, svc.Graph().RelationCount())
	_, rel := backend.Len()
	assert.Equal(t, 0, rel)
	assert.Equal(t, []string{events.TypePersonAdded}, pub.types())
}

func TestAddMemberWithLabel(t *testing.T) {
	svc, _, pub := newService(t)
	root := addRoot(t, svc)

	mother, err := svc.AddMember(context.Background(), commands.AddMemberCommand{
		FirstName: "Anne", LastName: "Martin", ReferenceID: root.ID.String(), Label: "mother",
	})
	require.NoError(t, err)

	assert.Equal(t, root.Generation-1, mother.Generation)
	out := svc.Graph().RelationsOf(root.ID)
	require.Len(t, out, 1)
	assert.Equal(t, valueobjects.RelationParent, out[0].Type)
	assert.Equal(t, mother.ID, out[0].TargetID)
	back := svc.Graph().RelationsOf(mother.ID)
	require.Len(t, back, 1)
	assert.Equal(t, valueobjects.RelationChild, back[0].Type)
	assert.NoError(t, svc.Graph().Validate())
	assert.Contains(t, pub.types(), events.TypeRelationPairAdded)
}

func TestAddMemberUnknownReference(t *testing.T) {
	svc, backend, _ := newService(t)
	addRoot(t, svc)

	_, err := svc.AddMember(context.Background(), commands.AddMemberCommand{
		FirstName: "Anne", LastName: "Martin", ReferenceID: "ghost", Label: "sister",
	})

	assert.True(t, apperrors.IsReference(err))
	persons, _ := backend.Len()
	assert.Equal(t, 1, persons, "nothing was sent to the backend")
}

func TestAddMemberTransportFailureLeavesGraphUntouched(t *testing.T) {
	svc, backend, _ := newService(t)
	root := addRoot(t, svc)
	version := svc.Graph().Version()
	backend.FailNext("createRelationPair", errors.New("connection refused"))

	_, err := svc.AddMember(context.Background(), commands.AddMemberCommand{
		FirstName: "Paul", LastName: "Dupont", ReferenceID: root.ID.String(), Label: "son",
	})

	assert.True(t, apperrors.IsTransport(err))
	assert.Equal(t, version, svc.Graph().Version())
	assert.Equal(t, 1, svc.Graph().Len())
	persons, _ := backend.Len()
	assert.Equal(t, 1, persons, "orphaned person was compensated")
}

func TestUpdateAndDeletePerson(t *testing.T) {
	svc, _, pub := newService(t)
	root := addRoot(t, svc)
	child, err := svc.AddMember(context.Background(), commands.AddMemberCommand{
		FirstName: "Lucas", LastName: "Dupont", ReferenceID: root.ID.String(), Label: "child",
	})
	require.NoError(t, err)

	name := "Luc"
	updated, err := svc.UpdatePerson(context.Background(), commands.UpdatePersonCommand{
		PersonID: child.ID.String(),
		Patch:    entities.PersonPatch{FirstName: &name},
	})
	require.NoError(t, err)
	assert.Equal(t, "Luc", updated.FirstName)
	p, _ := svc.Graph().Person(child.ID)
	assert.Equal(t, "Luc", p.FirstName)

	require.NoError(t, svc.DeletePerson(context.Background(), child.ID))
	assert.False(t, svc.Graph().HasPerson(child.ID))
	assert.Equal(t, 0, svc.Graph().RelationCount())
	assert.Contains(t, pub.types(), events.TypePersonRemoved)

	assert.True(t, apperrors.IsNotFound(svc.DeletePerson(context.Background(), child.ID)))
}

func TestUpdatePersonRejectsBlankNames(t *testing.T) {
	svc, backend, _ := newService(t)
	root := addRoot(t, svc)
	version := svc.Graph().Version()

	blank := "   "
	_, err := svc.UpdatePerson(context.Background(), commands.UpdatePersonCommand{
		PersonID: root.ID.String(),
		Patch:    entities.PersonPatch{FirstName: &blank, LastName: &blank},
	})

	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, version, svc.Graph().Version())
	p, _ := svc.Graph().Person(root.ID)
	assert.Equal(t, "Jean Dupont", p.DisplayName())
	stored, err := backend.ListPersons(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Jean", stored[0].FirstName)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	backend := memory.NewBackend()
	cfg := DefaultBackendConfig()
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	svc := NewFamilyService(backend, nil, cfg, zap.NewNop(), nil)

	for i := 0; i < 2; i++ {
		backend.FailNext("listPersons", errors.New("timeout"))
		_, err := svc.Load(context.Background())
		require.True(t, apperrors.IsTransport(err))
	}
	assert.Equal(t, "open", svc.BreakerState())

	_, err := svc.Load(context.Background())
	require.True(t, apperrors.IsTransport(err))
	app := apperrors.GetAppError(err)
	assert.Equal(t, "open", app.Details["breaker"])
}

func TestDomainRejectionsDoNotTripBreaker(t *testing.T) {
	backend := memory.NewBackend()
	cfg := DefaultBackendConfig()
	cfg.MinRequests = 1
	svc := NewFamilyService(backend, nil, cfg, zap.NewNop(), nil)

	for i := 0; i < 3; i++ {
		backend.FailNext("listPersons", apperrors.NewValidationError("bad request"))
		_, err := svc.Load(context.Background())
		assert.True(t, apperrors.IsValidation(err))
	}
	assert.Equal(t, "closed", svc.BreakerState())
}

func TestLoadRejectsBrokenBackendData(t *testing.T) {
	backend := memory.NewBackend()
	backend.Seed(
		[]*entities.Person{{ID: "a", FirstName: "A", LastName: "A"}, {ID: "b", FirstName: "B", LastName: "B"}},
		[]*entities.Relation{{ID: "r1", OwnerID: "a", TargetID: "b", Type: valueobjects.RelationSpouse}},
	)
	svc := NewFamilyService(backend, nil, DefaultBackendConfig(), zap.NewNop(), nil)

	_, err := svc.Load(context.Background())
	assert.True(t, apperrors.IsIntegrity(err))
	assert.Equal(t, 0, svc.Graph().Len())
}
