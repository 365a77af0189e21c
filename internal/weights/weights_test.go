package weights

import (
	"math"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
	if r.Get(NamespaceContext, "content_optimization") != 0.45 {
		t.Errorf("expected content_optimization 0.45, got %f", r.Get(NamespaceContext, "content_optimization"))
	}
}

func TestUnknownIdentifierWeighsZero(t *testing.T) {
	r := MustDefault()
	for _, ns := range Namespaces() {
		if w := r.Get(ns, "does_not_exist"); w != 0 {
			t.Errorf("%s: expected 0 for unknown id, got %f", ns, w)
		}
	}
	if w := r.Get(Namespace("bogus"), "technical_seo"); w != 0 {
		t.Errorf("expected 0 for unknown namespace, got %f", w)
	}
	var nilReg *Registry
	if w := nilReg.Get(NamespaceFactor, "meta_tags"); w != 0 {
		t.Errorf("expected 0 from nil registry, got %f", w)
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	r, err := New(Overrides{NamespaceFactor: {"technical_seo": 0.9}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Get(NamespaceContext, "technical_seo") != 0.30 {
		t.Errorf("context weight changed by factor override: %f", r.Get(NamespaceContext, "technical_seo"))
	}
	if r.Get(NamespaceFactor, "technical_seo") != 0.9 {
		t.Errorf("expected factor override 0.9, got %f", r.Get(NamespaceFactor, "technical_seo"))
	}
}

func TestOverridesApplied(t *testing.T) {
	r, err := New(Overrides{NamespaceOperation: {"keyword_density": 0.5}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Get(NamespaceOperation, "keyword_density") != 0.5 {
		t.Errorf("expected 0.5, got %f", r.Get(NamespaceOperation, "keyword_density"))
	}
	// defaults must not be mutated
	if Defaults()[NamespaceOperation]["keyword_density"] != 0.35 {
		t.Error("override leaked into defaults")
	}
}

func TestValidateRejectsNegativeAndNaN(t *testing.T) {
	if _, err := New(Overrides{NamespaceContext: {"media": -0.1}}); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := New(Overrides{NamespaceContext: {"media": math.NaN()}}); err == nil {
		t.Error("expected error for NaN weight")
	}
	if _, err := New(Overrides{Namespace("other"): {"x": 1}}); err == nil {
		t.Error("expected error for unknown namespace")
	}
}

func TestFromTablesHasNoDefaults(t *testing.T) {
	r, err := FromTables(Overrides{NamespaceOperation: {"a": 0.5, "b": 0.5}})
	if err != nil {
		t.Fatalf("FromTables: %v", err)
	}
	if r.Get(NamespaceContext, "technical_seo") != 0 {
		t.Error("expected no default context weights")
	}
	if got := r.Sum(NamespaceOperation, "a", "b", "c"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected sum 1.0, got %f", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := MustDefault()
	snap := r.Snapshot(NamespaceContext)
	snap["media"] = 99
	if r.Get(NamespaceContext, "media") != 0.15 {
		t.Error("snapshot mutation leaked into registry")
	}
}
