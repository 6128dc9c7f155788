package models

import (
	"encoding/json"
	"testing"
)

func TestRelationshipGraph_AddEdgeMergeIdempotence(t *testing.T) {
	g := NewRelationshipGraph()
	g.AddEdge("B1", "B2", 0.5, "shared_email", map[string]interface{}{"email": "a@x.com"})
	g.AddEdge("B1", "B2", 0.9, "shared_phone", map[string]interface{}{"phone": "555"})

	if g.Weight("B1", "B2") != 0.9 {
		t.Fatalf("expected merged weight to be max(0.5, 0.9)=0.9, got %v", g.Weight("B1", "B2"))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected a single merged edge, got %d", len(g.Edges))
	}
	e := g.Edges[edgeKey("B1", "B2")]
	if len(e.RelationshipTypes) != 2 || e.RelationshipTypes[0] != "shared_email" || e.RelationshipTypes[1] != "shared_phone" {
		t.Fatalf("expected both relationship types appended in insertion order, got %v", e.RelationshipTypes)
	}
}

func TestRelationshipGraph_AddEdgeUndirected(t *testing.T) {
	g := NewRelationshipGraph()
	g.AddEdge("B1", "B2", 0.5, "shared_email", nil)

	if !g.HasEdge("B2", "B1") {
		t.Fatal("expected edge to be undirected")
	}
	if g.Weight("B2", "B1") != 0.5 {
		t.Fatalf("expected symmetric weight lookup, got %v", g.Weight("B2", "B1"))
	}
}

func TestRelationshipGraph_DensityEmptyAndSingleton(t *testing.T) {
	g := NewRelationshipGraph()
	if g.Density() != 0 {
		t.Fatalf("expected density 0 for empty graph, got %v", g.Density())
	}
	g.AddNode("B1")
	if g.Density() != 0 {
		t.Fatalf("expected density 0 for single-node graph, got %v", g.Density())
	}
}

func TestRelationshipGraph_MarshalJSONIncludesEdges(t *testing.T) {
	g := NewRelationshipGraph()
	g.AddEdge("B1", "B2", 1.0, "document_similarity", map[string]interface{}{"documentPair": "d1,d2"})

	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	var decoded struct {
		Nodes []string `json:"nodes"`
		Edges []struct {
			BidderA           string                   `json:"bidderA"`
			BidderB           string                   `json:"bidderB"`
			Weight            float64                  `json:"weight"`
			RelationshipTypes []string                 `json:"relationshipTypes"`
			Evidence          []map[string]interface{} `json:"evidence"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}

	if len(decoded.Edges) != 1 {
		t.Fatalf("expected 1 serialized edge, got %d", len(decoded.Edges))
	}
	e := decoded.Edges[0]
	if e.Weight != 1.0 {
		t.Fatalf("expected serialized weight 1.0, got %v", e.Weight)
	}
	if len(e.RelationshipTypes) != 1 || e.RelationshipTypes[0] != "document_similarity" {
		t.Fatalf("expected relationshipTypes to survive serialization, got %v", e.RelationshipTypes)
	}
	if len(e.Evidence) != 1 || e.Evidence[0]["documentPair"] != "d1,d2" {
		t.Fatalf("expected evidence to survive serialization, got %v", e.Evidence)
	}
}

func TestRelationshipGraph_AddNodeDeduplicates(t *testing.T) {
	g := NewRelationshipGraph()
	g.AddNode("B1")
	g.AddNode("B1")
	if len(g.Nodes) != 1 {
		t.Fatalf("expected AddNode to dedupe, got %d nodes", len(g.Nodes))
	}
}
