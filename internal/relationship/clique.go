package relationship

import (
	"sort"

	"github.com/rawblock/tenderguard/pkg/models"
)

// bronKerbosch enumerates all maximal cliques within nodes using the
// classic Bron-Kerbosch algorithm with pivoting, scoped to a single
// connected component of g. Only cliques of at least minSize are reported
// (min_clique_size in the configuration, default 3).
func bronKerbosch(g *models.RelationshipGraph, nodes []string, minSize int) [][]string {
	if len(nodes) < minSize {
		return nil
	}

	neighbors := make(map[string]map[string]bool, len(nodes))
	nodeSet := make(map[string]bool, len(nodes))
	for _, id := range nodes {
		nodeSet[id] = true
	}
	for _, id := range nodes {
		set := make(map[string]bool)
		for _, n := range g.Neighbors(id) {
			if nodeSet[n] {
				set[n] = true
			}
		}
		neighbors[id] = set
	}

	var cliques [][]string
	r := make(map[string]bool)
	p := make(map[string]bool, len(nodes))
	for _, id := range nodes {
		p[id] = true
	}
	x := make(map[string]bool)

	var bk func(r, p, x map[string]bool)
	bk = func(r, p, x map[string]bool) {
		if len(p) == 0 && len(x) == 0 {
			if len(r) >= minSize {
				members := make([]string, 0, len(r))
				for id := range r {
					members = append(members, id)
				}
				sort.Strings(members)
				cliques = append(cliques, members)
			}
			return
		}

		pivot := choosePivot(p, x, neighbors)
		candidates := make([]string, 0, len(p))
		for id := range p {
			if !neighbors[pivot][id] {
				candidates = append(candidates, id)
			}
		}
		sort.Strings(candidates)

		for _, v := range candidates {
			newR := copySet(r)
			newR[v] = true

			newP := make(map[string]bool)
			for u := range p {
				if neighbors[v][u] {
					newP[u] = true
				}
			}
			newX := make(map[string]bool)
			for u := range x {
				if neighbors[v][u] {
					newX[u] = true
				}
			}

			bk(newR, newP, newX)

			delete(p, v)
			x[v] = true
		}
	}

	bk(r, p, x)

	sort.Slice(cliques, func(i, j int) bool {
		if len(cliques[i]) != len(cliques[j]) {
			return len(cliques[i]) > len(cliques[j])
		}
		return cliques[i][0] < cliques[j][0]
	})
	return cliques
}

func choosePivot(p, x map[string]bool, neighbors map[string]map[string]bool) string {
	best := ""
	bestCount := -1
	for id := range p {
		count := countIntersection(neighbors[id], p)
		if count > bestCount {
			bestCount = count
			best = id
		}
	}
	for id := range x {
		count := countIntersection(neighbors[id], p)
		if count > bestCount {
			bestCount = count
			best = id
		}
	}
	return best
}

func countIntersection(a, b map[string]bool) int {
	count := 0
	for id := range a {
		if b[id] {
			count++
		}
	}
	return count
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
