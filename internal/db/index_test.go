package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder(t *testing.T) {
	def, err := NewIndex("tasknest:task:idx").
		Prefix("tasknest:task:").
		Tag("user_id").
		Numeric("created_at").
		VectorHNSW("embedding", 1536, DistanceCosine, 16, 200).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if def.Name != "tasknest:task:idx" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "tasknest:task:" {
		t.Errorf("prefixes = %v", def.Prefixes)
	}
	if len(def.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(def.Fields))
	}

	vec := def.Fields[2]
	if vec.Type != IndexFieldVector || vec.VectorAlgo != VectorHNSW {
		t.Errorf("vector field = %+v", vec)
	}
	if vec.VectorDim != 1536 || vec.VectorDistance != DistanceCosine {
		t.Errorf("vector dim/distance = %d/%s", vec.VectorDim, vec.VectorDistance)
	}
	if vec.VectorM != 16 || vec.VectorEFConstruct != 200 {
		t.Errorf("vector M/EF = %d/%d", vec.VectorM, vec.VectorEFConstruct)
	}
}

func TestIndexValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     IndexDefinition
		wantSub string
	}{
		{
			name:    "missing name",
			def:     IndexDefinition{Fields: []IndexField{{Name: "user_id", Type: IndexFieldTag}}},
			wantSub: "name",
		},
		{
			name:    "no fields",
			def:     IndexDefinition{Name: "idx"},
			wantSub: "field",
		},
		{
			name:    "unnamed field",
			def:     IndexDefinition{Name: "idx", Fields: []IndexField{{Type: IndexFieldTag}}},
			wantSub: "field name",
		},
		{
			name: "vector without dim",
			def: IndexDefinition{Name: "idx", Fields: []IndexField{
				{Name: "embedding", Type: IndexFieldVector, VectorAlgo: VectorHNSW},
			}},
			wantSub: "DIM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	if _, err := NewIndex("").Tag("user_id").Build(); err == nil {
		t.Error("Build() with empty name = nil, want error")
	}
}
