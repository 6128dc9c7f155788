// Package relationship builds a weighted bidder graph from cross-bidder
// document similarities and shared contact fields, then runs community
// detection, clique enumeration, centrality, and density analyses over it.
package relationship

import (
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rawblock/tenderguard/internal/notify"
	"github.com/rawblock/tenderguard/pkg/models"
)

const sharedContactWeight = 0.80

// Engine runs the relationship-graph analysis.
type Engine struct {
	cfg models.Config
}

// New creates a relationship engine bound to the given configuration.
func New(cfg models.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze builds the bidder graph and runs community/clique/centrality
// analyses over it, emitting one relationship_network signal per
// high-risk group (no deduplication between community- and
// clique-derived groups — see DESIGN.md Open Question 2).
func (e *Engine) Analyze(bidders []models.Bidder, highRiskPairs []models.SimilarityPair) (models.RelationshipAnalysisResult, []models.RiskSignal) {
	g := models.NewRelationshipGraph()
	for _, b := range bidders {
		g.AddNode(b.BidderID)
	}

	for _, pair := range highRiskPairs {
		b1 := bidderIDOf(pair.Doc1)
		b2 := bidderIDOf(pair.Doc2)
		if b1 == "" || b2 == "" || b1 == b2 {
			continue
		}
		g.AddEdge(b1, b2, pair.Score, "document_similarity", map[string]interface{}{"similarityScore": pair.Score})
	}

	addContactEdges(g, bidders, func(b models.Bidder) string { return b.Email }, "shared_email")
	addContactEdges(g, bidders, func(b models.Bidder) string { return b.Phone }, "shared_phone")
	addContactEdges(g, bidders, func(b models.Bidder) string { return b.Address }, "shared_address")

	minCliqueSize := e.cfg.MinCliqueSize
	if minCliqueSize == 0 {
		minCliqueSize = 3
	}

	components := NewComponentEngine()
	components.MergeFromGraph(g)

	var groups []models.HighRiskGroup
	for _, component := range components.Components() {
		if len(component) < 2 {
			continue
		}
		// greedyModularityCommunities already retains only communities of
		// size >= 2 per spec; a high_risk_group is emitted for size >= 3.
		for _, community := range greedyModularityCommunities(g, component) {
			if len(community) >= 3 {
				groups = append(groups, models.HighRiskGroup{Kind: "community", Members: sortedCopy(community)})
			}
		}
		for _, clique := range bronKerbosch(g, component, minCliqueSize) {
			groups = append(groups, models.HighRiskGroup{Kind: "clique", Members: sortedCopy(clique)})
		}
	}

	centrality := degreeCentrality(g)
	density := g.Density()

	var signals []models.RiskSignal
	n := len(g.Nodes)
	for _, group := range groups {
		score := 1.0
		if n > 0 {
			score = float64(len(group.Members)) / float64(n)
			if score > 1.0 {
				score = 1.0
			}
		}
		signals = append(signals, models.RiskSignal{
			ID:              uuid.NewString(),
			SignalType:      models.SignalRelationshipGraph,
			Severity:        notify.GroupSeverity(len(group.Members)),
			Score:           score,
			Description:     "Suspicious bidder " + group.Kind + " detected in relationship graph",
			Evidence:        map[string]interface{}{"kind": group.Kind, "members": group.Members},
			AffectedBidders: group.Members,
		})
	}

	log.Printf("[RelationshipEngine] %d nodes, %d edges, %d high-risk groups, density=%.3f", n, len(g.Edges), len(groups), density)

	return models.RelationshipAnalysisResult{
		Graph:          g,
		HighRiskGroups: groups,
		Centrality:     centrality,
		Density:        density,
	}, signals
}

// bidderIDOf splits a "{bidderId}:{handle}" pseudo-ID.
func bidderIDOf(pseudoID string) string {
	parts := strings.SplitN(pseudoID, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[0]
}

// addContactEdges groups bidders by a verbatim contact field value and
// connects every pair sharing a value with ≥2 bidders.
func addContactEdges(g *models.RelationshipGraph, bidders []models.Bidder, field func(models.Bidder) string, relationshipType string) {
	byValue := make(map[string][]string)
	for _, b := range bidders {
		v := field(b)
		if v == "" {
			continue
		}
		byValue[v] = append(byValue[v], b.BidderID)
	}
	for value, group := range byValue {
		if len(group) < 2 {
			continue
		}
		sorted := sortedCopy(group)
		for i := 0; i < len(sorted); i++ {
			for j := i + 1; j < len(sorted); j++ {
				evidenceKey := strings.TrimPrefix(relationshipType, "shared_")
				g.AddEdge(sorted[i], sorted[j], sharedContactWeight, relationshipType, map[string]interface{}{evidenceKey: value})
			}
		}
	}
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// degreeCentrality returns nx-style normalized degree centrality:
// deg(v) / (|V|-1).
func degreeCentrality(g *models.RelationshipGraph) map[string]float64 {
	n := len(g.Nodes)
	centrality := make(map[string]float64, n)
	if n <= 1 {
		for _, id := range g.Nodes {
			centrality[id] = 0
		}
		return centrality
	}
	for _, id := range g.Nodes {
		centrality[id] = float64(len(g.Neighbors(id))) / float64(n-1)
	}
	return centrality
}
