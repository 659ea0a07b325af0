package scene

import "genealogy3d/domain/core/valueobjects"

// DefaultMaxNeighbors caps how many persons a connection highlight admits.
const DefaultMaxNeighbors = 10

// Adjacency yields the targets of a person's relation rows. Duplicates are
// allowed.
type Adjacency interface {
	Neighbors(id valueobjects.PersonID) []valueobjects.PersonID
}

// EdgeVisibility toggles edge lines by unordered endpoint pair.
type EdgeVisibility interface {
	HideAllEdges()
	ShowEdge(a, b valueobjects.PersonID) bool
}

// HighlightResult reports what a highlight touched.
type HighlightResult struct {
	Start      valueobjects.PersonID
	Discovered []valueobjects.PersonID
	Shown      []valueobjects.PairKey
}

// Highlight hides every edge, then walks the graph breadth-first from start
// and shows the edge of every adjacency it traverses. At most maxNeighbors
// persons besides start are admitted to the walk; once the cap is reached
// the queue is still drained so the edges of already admitted persons show.
func Highlight(start valueobjects.PersonID, adj Adjacency, edges EdgeVisibility, maxNeighbors int) HighlightResult {
	edges.HideAllEdges()
	res := HighlightResult{Start: start}

	visited := map[valueobjects.PersonID]bool{start: true}
	shown := map[valueobjects.PairKey]bool{}
	queue := []valueobjects.PersonID{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adj.Neighbors(current) {
			if !visited[next] && len(res.Discovered) < maxNeighbors {
				visited[next] = true
				res.Discovered = append(res.Discovered, next)
				queue = append(queue, next)
			}

			key := valueobjects.NewPairKey(current, next)
			if shown[key] {
				continue
			}
			if edges.ShowEdge(current, next) {
				shown[key] = true
				res.Shown = append(res.Shown, key)
			}
		}
	}
	return res
}
