package importer

import (
	"context"
	"errors"
	"testing"
)

func containersDef(t *testing.T) CategoryDefinition {
	t.Helper()
	def, ok := Lookup(CategoryContainers)
	if !ok {
		t.Fatal("containers category not registered")
	}
	return def
}

func TestBuildIndex_CountryLookupNormalized(t *testing.T) {
	ix, err := BuildIndex(context.Background(), referenceData(), companiesDef(t))
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	for _, token := range []string{"Denmark", "denmark", "  DENMARK  ", "DenMark"} {
		c, ok := ix.Country(token)
		if !ok {
			t.Errorf("Country(%q) not found", token)
			continue
		}
		if c.ID != 1 {
			t.Errorf("Country(%q).ID = %d, want 1", token, c.ID)
		}
	}

	if _, ok := ix.Country("Atlantis"); ok {
		t.Error("Country(Atlantis) resolved, want miss")
	}
}

func TestBuildIndex_PortLookupOrder(t *testing.T) {
	ix, err := BuildIndex(context.Background(), referenceData(), containersDef(t))
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	tests := []struct {
		token  string
		wantID int
	}{
		{"10", 10},          // numeric id
		{"aarhus", 10},      // name, case-insensitive
		{" DKAAR ", 10},     // code, trimmed
		{"Nhava Sheva", 20}, // multi-word name
	}
	for _, tt := range tests {
		p, ok := ix.Port(tt.token)
		if !ok {
			t.Errorf("Port(%q) not found", tt.token)
			continue
		}
		if p.ID != tt.wantID {
			t.Errorf("Port(%q).ID = %d, want %d", tt.token, p.ID, tt.wantID)
		}
	}
}

func TestBuildIndex_CompanyLookup(t *testing.T) {
	ix, err := BuildIndex(context.Background(), referenceData(), containersDef(t))
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	if e, ok := ix.Company("200"); !ok || e.ID != 200 {
		t.Errorf("Company(200) = %v, %v, want id 200", e, ok)
	}
	if e, ok := ix.Company("seaco global"); !ok || e.ID != 100 {
		t.Errorf("Company(seaco global) = %v, %v, want id 100", e, ok)
	}
}

func TestBuildIndex_SkipsCollectionsTheCategoryDoesNotNeed(t *testing.T) {
	src := referenceData()
	src.portsErr = errors.New("should not be called")
	src.addressErr = errors.New("should not be called")

	// Companies only need countries.
	if _, err := BuildIndex(context.Background(), src, companiesDef(t)); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
}

func TestBuildIndex_FetchFailureAbortsRun(t *testing.T) {
	src := referenceData()
	src.portsErr = errors.New("connection refused")

	_, err := BuildIndex(context.Background(), src, containersDef(t))
	var gen *GeneralError
	if !errors.As(err, &gen) {
		t.Fatalf("error = %v, want *GeneralError", err)
	}
	if MapError(err).Code != "REF001" {
		t.Errorf("MapError code = %q, want REF001", MapError(err).Code)
	}
}

func TestBuildIndex_Idempotent(t *testing.T) {
	src := referenceData()

	first, err := BuildIndex(context.Background(), src, containersDef(t))
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	second, err := BuildIndex(context.Background(), src, containersDef(t))
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	tokens := []string{"Denmark", "10", "aarhus", "DKAAR", "Seaco Global", "200"}
	for _, token := range tokens {
		c1, ok1 := first.Country(token)
		c2, ok2 := second.Country(token)
		if ok1 != ok2 || c1 != c2 {
			t.Errorf("Country(%q) differs between builds", token)
		}
		p1, ok1 := first.Port(token)
		p2, ok2 := second.Port(token)
		if ok1 != ok2 || p1 != p2 {
			t.Errorf("Port(%q) differs between builds", token)
		}
		e1, ok1 := first.Company(token)
		e2, ok2 := second.Company(token)
		if ok1 != ok2 || e1 != e2 {
			t.Errorf("Company(%q) differs between builds", token)
		}
	}
}
