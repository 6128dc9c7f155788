package relationship

import (
	"sort"

	"github.com/rawblock/tenderguard/pkg/models"
)

// greedyModularityCommunities implements the Clauset-Newman-Moore greedy
// modularity-maximization algorithm (agglomerative: start with every node
// in its own community, repeatedly merge the pair of communities giving
// the largest modularity gain, stop when no merge improves modularity),
// scoped to one connected component. Communities of size 1 are dropped
// per spec.md §4.5 ("retain those of size >= 2").
func greedyModularityCommunities(g *models.RelationshipGraph, nodes []string) [][]string {
	if len(nodes) < 2 {
		return nil
	}

	totalWeight := 0.0
	weight := make(map[string]map[string]float64)
	degree := make(map[string]float64)
	for _, id := range nodes {
		weight[id] = make(map[string]float64)
	}
	for _, e := range g.EdgeList() {
		if _, ok := weight[e.BidderA]; !ok {
			continue
		}
		if _, ok := weight[e.BidderB]; !ok {
			continue
		}
		weight[e.BidderA][e.BidderB] += e.Weight
		weight[e.BidderB][e.BidderA] += e.Weight
		degree[e.BidderA] += e.Weight
		degree[e.BidderB] += e.Weight
		totalWeight += e.Weight
	}

	if totalWeight == 0 {
		return nil
	}

	// community[id] = current community ID; members[communityID] = node set
	community := make(map[string]string, len(nodes))
	members := make(map[string]map[string]bool, len(nodes))
	for _, id := range nodes {
		community[id] = id
		members[id] = map[string]bool{id: true}
	}

	// Modularity gain from merging communities ca and cb:
	// deltaQ = e_ij/m - (a_i * a_j) / (2*m^2), e_ij = inter-community edge
	// weight, a_i/a_j = summed degree within each community, m = total
	// edge weight.
	modularityGain := func(ca, cb string) float64 {
		var edgeWeight float64
		for a := range members[ca] {
			for b, w := range weight[a] {
				if members[cb][b] {
					edgeWeight += w
				}
			}
		}
		var degA, degB float64
		for a := range members[ca] {
			degA += degree[a]
		}
		for b := range members[cb] {
			degB += degree[b]
		}
		return edgeWeight/totalWeight - (degA*degB)/(2*totalWeight*totalWeight)
	}

	for {
		bestGain := 0.0
		var bestA, bestB string
		found := false

		communityIDs := make([]string, 0, len(members))
		for id := range members {
			communityIDs = append(communityIDs, id)
		}
		sort.Strings(communityIDs)

		for i := 0; i < len(communityIDs); i++ {
			for j := i + 1; j < len(communityIDs); j++ {
				ca, cb := communityIDs[i], communityIDs[j]
				if !adjacentCommunities(members[ca], members[cb], weight) {
					continue
				}
				gain := modularityGain(ca, cb)
				if gain > bestGain {
					bestGain = gain
					bestA, bestB = ca, cb
					found = true
				}
			}
		}

		if !found {
			break
		}

		for id := range members[bestB] {
			members[bestA][id] = true
			community[id] = bestA
		}
		delete(members, bestB)
	}

	var communities [][]string
	for _, set := range members {
		if len(set) < 2 {
			continue
		}
		var ids []string
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		communities = append(communities, ids)
	}
	sort.Slice(communities, func(i, j int) bool {
		if len(communities[i]) != len(communities[j]) {
			return len(communities[i]) > len(communities[j])
		}
		return communities[i][0] < communities[j][0]
	})
	return communities
}

func adjacentCommunities(a, b map[string]bool, weight map[string]map[string]float64) bool {
	for nodeA := range a {
		for nodeB := range weight[nodeA] {
			if b[nodeB] {
				return true
			}
		}
	}
	return false
}
