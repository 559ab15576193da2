package datastructure

import (
	"testing"
)

func TestMinHeapExtractOrder(t *testing.T) {
	h := NewMinHeap[string]()
	ranks := []float64{5, 1, 9, 3, 7, 2}
	items := []string{"e", "a", "i", "c", "g", "b"}
	for i := range ranks {
		h.Insert(NewPriorityQueueNode(ranks[i], items[i]))
	}

	if h.Size() != len(ranks) {
		t.Fatalf("size = %d, expected %d", h.Size(), len(ranks))
	}

	expected := []string{"a", "b", "c", "e", "g", "i"}
	for i, want := range expected {
		node, err := h.ExtractMin()
		if err != nil {
			t.Fatalf("extract %d: %v", i, err)
		}
		if node.GetItem() != want {
			t.Errorf("extract %d = %s, expected %s", i, node.GetItem(), want)
		}
	}

	if !h.IsEmpty() {
		t.Error("heap should be empty after extracting everything")
	}
	if _, err := h.ExtractMin(); err == nil {
		t.Error("extracting from an empty heap should error")
	}
}

func TestMinHeapDecreaseKey(t *testing.T) {
	h := NewMinHeap[string]()
	a := NewPriorityQueueNode(10.0, "a")
	b := NewPriorityQueueNode(20.0, "b")
	h.Insert(a)
	h.Insert(b)

	if err := h.DecreaseKey(b, 5); err != nil {
		t.Fatalf("decrease key: %v", err)
	}
	node, _ := h.ExtractMin()
	if node.GetItem() != "b" {
		t.Errorf("min after decrease = %s, expected b", node.GetItem())
	}

	// increasing a rank through DecreaseKey must be rejected.
	if err := h.DecreaseKey(a, 100); err == nil {
		t.Error("increasing rank should error")
	}
}

func TestParseOneway(t *testing.T) {
	testCases := []struct {
		raw      string
		expected Oneway
	}{
		{raw: "yes", expected: ONEWAY_FORWARD},
		{raw: "true", expected: ONEWAY_FORWARD},
		{raw: "1", expected: ONEWAY_FORWARD},
		{raw: " YES ", expected: ONEWAY_FORWARD},
		{raw: "-1", expected: ONEWAY_BACKWARD},
		{raw: "reverse", expected: ONEWAY_BACKWARD},
		{raw: "no", expected: ONEWAY_BOTH},
		{raw: "", expected: ONEWAY_BOTH},
		{raw: "garbage", expected: ONEWAY_BOTH},
	}

	for _, tt := range testCases {
		if got := ParseOneway(tt.raw); got != tt.expected {
			t.Errorf("ParseOneway(%q) = %d, expected %d", tt.raw, got, tt.expected)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	frame := NewBoundingBox(0, 0, 0.01, 0.01)

	if !frame.Contains(0.005, 0.005) {
		t.Error("center should be contained")
	}
	if frame.Contains(0.02, 0.005) {
		t.Error("point north of the frame should not be contained")
	}

	lat, lon := frame.Center()
	if lat != 0.005 || lon != 0.005 {
		t.Errorf("center = (%f, %f), expected (0.005, 0.005)", lat, lon)
	}

	// the frame is ~1.1km square; the center is ~556m from every edge.
	d := frame.DistanceToEdgeM(0.005, 0.005)
	if d < 500 || d > 600 {
		t.Errorf("center distance to edge = %f, expected ~556", d)
	}

	// a point near the west edge is much closer.
	d = frame.DistanceToEdgeM(0.005, 0.0005)
	if d > 100 {
		t.Errorf("near-edge distance = %f, expected < 100", d)
	}
}

func TestGraphNodeIDsSortedAndStable(t *testing.T) {
	g := NewGraph()
	g.AddNode("c", 0, 2)
	g.AddNode("a", 0, 0)
	g.AddNode("b", 0, 1)
	g.AddNode("a", 9, 9) // duplicate id is a no-op

	ids := g.NodeIDs()
	expected := []string{"a", "b", "c"}
	if len(ids) != len(expected) {
		t.Fatalf("got %d ids, expected %d", len(ids), len(expected))
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("ids[%d] = %s, expected %s", i, ids[i], expected[i])
		}
	}

	node, _ := g.Node("a")
	if node.Lon != 0 {
		t.Error("duplicate AddNode must not overwrite the original")
	}
}

func TestGraphEdgeAdjacency(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 0, 0.001)

	id := g.AddEdge(&GraphEdge{From: "a", To: "b", Weight: 1})
	if id != 0 {
		t.Errorf("first edge id = %d, expected 0", id)
	}

	if out := g.OutEdges("a"); len(out) != 1 || out[0] != id {
		t.Errorf("OutEdges(a) = %v, expected [%d]", out, id)
	}
	if in := g.InEdges("b"); len(in) != 1 || in[0] != id {
		t.Errorf("InEdges(b) = %v, expected [%d]", in, id)
	}
	if len(g.OutEdges("b")) != 0 {
		t.Error("b should have no outgoing edges")
	}
}
