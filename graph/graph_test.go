package graph

import "testing"

func TestPrefixMappingSetGetRemove(t *testing.T) {
	m := NewPrefixMapping()
	if m.Len() != 0 {
		t.Fatalf("new mapping Len() = %d, want 0", m.Len())
	}
	m.Set("foaf", "http://xmlns.com/foaf/0.1/")
	ns, ok := m.Get("foaf")
	if !ok || ns != "http://xmlns.com/foaf/0.1/" {
		t.Errorf("Get(foaf) = %q, %v; want the bound namespace, true", ns, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	m.Set("foaf", "http://xmlns.com/foaf/0.2/")
	ns, _ = m.Get("foaf")
	if ns != "http://xmlns.com/foaf/0.2/" {
		t.Errorf("Set should replace a prior binding, got %q", ns)
	}

	m.Remove("foaf")
	if _, ok := m.Get("foaf"); ok {
		t.Error("Remove should delete the binding")
	}
	if m.Len() != 0 {
		t.Errorf("Len() after Remove = %d, want 0", m.Len())
	}
}

func TestPrefixMappingEach(t *testing.T) {
	m := NewPrefixMapping()
	m.Set("a", "urn:a")
	m.Set("b", "urn:b")

	seen := make(map[string]string)
	m.Each(func(prefix, namespace string) {
		seen[prefix] = namespace
	})
	if len(seen) != 2 || seen["a"] != "urn:a" || seen["b"] != "urn:b" {
		t.Errorf("Each visited %v, want {a: urn:a, b: urn:b}", seen)
	}
}

func TestEventKindValues(t *testing.T) {
	if AddedTriple == DeletedTriple || AddedTriple == AddedGraph || AddedTriple == DeletedGraph {
		t.Error("EventKind constants must be distinct")
	}
}

func TestLookupOptionsDefault(t *testing.T) {
	if DefaultLookup == nil {
		t.Fatal("DefaultLookup must not be nil")
	}
	if DefaultLookup.MaxElements != 0 {
		t.Errorf("DefaultLookup.MaxElements = %d, want 0 (unbounded)", DefaultLookup.MaxElements)
	}
}
