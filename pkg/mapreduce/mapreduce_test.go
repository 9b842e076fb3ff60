package mapreduce

import (
	"testing"

	"github.com/dtnitsch/levelwatch/models"
	"github.com/google/go-cmp/cmp"
)

func TestMap(t *testing.T) {
	got := Map([]models.Record{
		{Name: "Rin", Level: 40},
		{Name: "Kai", Level: 12},
		{Name: "Rin", Level: 42},
		{Name: "Rin", Level: 41},
	})
	want := models.Snapshot{"Rin": 42, "Kai": 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name  string
		input []models.Snapshot
		want  models.Snapshot
	}{
		{
			name:  "max wins across sources",
			input: []models.Snapshot{{"a": 5}, {"a": 7}, {"b": 3}},
			want:  models.Snapshot{"a": 7, "b": 3},
		},
		{
			name:  "zero level contributes nothing",
			input: []models.Snapshot{{"a": 0}},
			want:  models.Snapshot{},
		},
		{
			name:  "zero does not mask another source",
			input: []models.Snapshot{{"a": 0}, {"a": 4}},
			want:  models.Snapshot{"a": 4},
		},
		{
			name:  "names are case sensitive",
			input: []models.Snapshot{{"Rin": 3}, {"rin": 9}},
			want:  models.Snapshot{"Rin": 3, "rin": 9},
		},
		{
			name:  "no sources",
			input: nil,
			want:  models.Snapshot{},
		},
		{
			name:  "empty source next to a full one",
			input: []models.Snapshot{{}, {"a": 2}},
			want:  models.Snapshot{"a": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduce_OrderIndependent(t *testing.T) {
	a := models.Snapshot{"x": 1, "y": 9}
	b := models.Snapshot{"x": 4, "z": 2}

	if diff := cmp.Diff(Reduce([]models.Snapshot{a, b}), Reduce([]models.Snapshot{b, a})); diff != "" {
		t.Errorf("Reduce() depends on input order:\n%s", diff)
	}
}
