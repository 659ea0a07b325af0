package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"genealogy3d/application/scene"
	"genealogy3d/application/services"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	domainservices "genealogy3d/domain/services"
	apperrors "genealogy3d/pkg/errors"
)

// PersonView is a person with its position in the scene.
type PersonView struct {
	*entities.Person
	Name     string     `json:"name"`
	Position [3]float32 `json:"position"`
}

// PersonDetail is a person with the rows it owns.
type PersonDetail struct {
	*entities.Person
	Relations []*entities.Relation `json:"relations"`
}

// ConnectionsView is the outcome of a connection highlight.
type ConnectionsView struct {
	Start      valueobjects.PersonID      `json:"start"`
	Discovered []valueobjects.PersonID    `json:"discovered"`
	Edges      [][2]valueobjects.PersonID `json:"edges"`
}

// FamilyHandler serves read-only views of the family graph. The service
// must not be mutated while requests are in flight.
type FamilyHandler struct {
	service      *services.FamilyService
	layout       domainservices.LayoutConfig
	maxNeighbors int
	errors       *apperrors.ErrorHandler
	logger       *zap.Logger
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(
	service *services.FamilyService,
	layout domainservices.LayoutConfig,
	maxNeighbors int,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *FamilyHandler {
	return &FamilyHandler{
		service:      service,
		layout:       layout,
		maxNeighbors: maxNeighbors,
		errors:       errorHandler,
		logger:       logger,
	}
}

// ListPersons handles GET /persons. With q set it returns search matches.
func (h *FamilyHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var persons []*entities.Person
	if q == "" {
		persons = h.service.Graph().Persons()
	} else {
		persons = h.service.Search(q)
	}
	if persons == nil {
		persons = []*entities.Person{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"persons":       persons,
		"total":         len(persons),
		"searchVisible": services.ShowSearch(h.service.Graph().Len()),
	})
}

// GetPerson handles GET /persons/{personID}
func (h *FamilyHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := valueobjects.PersonID(chi.URLParam(r, "personID"))
	graph := h.service.Graph()
	p, ok := graph.Person(id)
	if !ok {
		h.errors.Handle(w, r, apperrors.NewNotFoundError("person", id.String()))
		return
	}
	rels := graph.RelationsOf(id)
	if rels == nil {
		rels = []*entities.Relation{}
	}
	h.respondJSON(w, http.StatusOK, PersonDetail{Person: p, Relations: rels})
}

// GetLayout handles GET /layout
func (h *FamilyHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	persons := h.service.Graph().Persons()
	positions := domainservices.Layout(persons, h.layout)

	out := make([]PersonView, 0, len(persons))
	for _, p := range persons {
		pos := positions[p.ID]
		out = append(out, PersonView{
			Person:   p,
			Name:     p.DisplayName(),
			Position: [3]float32{pos.X, pos.Y, pos.Z},
		})
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"nodes": out})
}

// GetConnections handles GET /connections/{personID}?max=N
func (h *FamilyHandler) GetConnections(w http.ResponseWriter, r *http.Request) {
	id := valueobjects.PersonID(chi.URLParam(r, "personID"))
	graph := h.service.Graph()
	if !graph.HasPerson(id) {
		h.errors.Handle(w, r, apperrors.NewNotFoundError("person", id.String()))
		return
	}

	limit := h.maxNeighbors
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errors.Handle(w, r, apperrors.NewValidationError("max must be a positive integer"))
			return
		}
		limit = n
	}

	res := scene.Highlight(id, graph, &edgeRecorder{}, limit)
	view := ConnectionsView{
		Start:      res.Start,
		Discovered: res.Discovered,
		Edges:      make([][2]valueobjects.PersonID, 0, len(res.Shown)),
	}
	if view.Discovered == nil {
		view.Discovered = []valueobjects.PersonID{}
	}
	for _, k := range res.Shown {
		view.Edges = append(view.Edges, [2]valueobjects.PersonID{k.A, k.B})
	}
	h.respondJSON(w, http.StatusOK, view)
}

// edgeRecorder accepts every edge the walk traverses.
type edgeRecorder struct{}

func (*edgeRecorder) HideAllEdges() {}

func (*edgeRecorder) ShowEdge(a, b valueobjects.PersonID) bool { return true }

func (h *FamilyHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
