package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/levelwatch/models"
	"github.com/dtnitsch/levelwatch/pkg/storage"
	"github.com/google/go-cmp/cmp"
)

func TestNew_DedupesCaseInsensitively(t *testing.T) {
	r := New("rin", "Kai", "  ", "RIN", "alex", "Rin")

	want := []string{"alex", "Kai", "RIN"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if !r.Contains("rIn") {
		t.Error("Contains(rIn) = false, want true")
	}
}

func TestEncode(t *testing.T) {
	got := string(New("zed", "Alex", "bob").Encode())
	want := "Alex\nbob\nzed\n"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	if got := string(New().Encode()); got != "" {
		t.Errorf("Encode() on empty roster = %q, want empty", got)
	}
}

func TestTrack(t *testing.T) {
	r := New("Rin", "Kai")

	tests := []struct {
		name      string
		current   models.Snapshot
		wantAdded []string
		wantNames []string
	}{
		{
			name:      "nothing new",
			current:   models.Snapshot{"Rin": 3, "Kai": 4},
			wantAdded: nil,
			wantNames: []string{"Kai", "Rin"},
		},
		{
			name:      "different casing is not new",
			current:   models.Snapshot{"rin": 3, "KAI": 4},
			wantAdded: nil,
			wantNames: []string{"Kai", "Rin"},
		},
		{
			name:      "new names are added and reported",
			current:   models.Snapshot{"Rin": 3, "Zed": 1, "alex": 2},
			wantAdded: []string{"Zed", "alex"},
			wantNames: []string{"alex", "Kai", "Rin", "Zed"},
		},
		{
			name:      "absent names are kept",
			current:   models.Snapshot{},
			wantAdded: nil,
			wantNames: []string{"Kai", "Rin"},
		},
		{
			name:      "casing variants within one snapshot reported once",
			current:   models.Snapshot{"Nova": 1, "nova": 2},
			wantAdded: []string{"Nova"},
			wantNames: []string{"Kai", "Nova", "Rin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, added := Track(r, tt.current)
			if diff := cmp.Diff(tt.wantAdded, added); diff != "" {
				t.Errorf("Track() added mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantNames, updated.Names()); diff != "" {
				t.Errorf("Track() roster mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if r.Len() != 2 {
		t.Errorf("Track() mutated the input roster: %v", r.Names())
	}
}

func TestLoadSave(t *testing.T) {
	s := &storage.Storage{}
	path := filepath.Join(t.TempDir(), "members.txt")

	r, err := Load(s, path)
	if err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Load() on missing file = %v, want empty", r.Names())
	}

	if err := os.WriteFile(path, []byte("Rin\n\n  kai \nrin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	r, err = Load(s, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"kai", "Rin"}, r.Names()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if err := Save(s, path, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "kai\nRin\n" {
		t.Errorf("saved file = %q, want %q", data, "kai\nRin\n")
	}
}

func TestDecode_LongLine(t *testing.T) {
	long := strings.Repeat("x", 70*1024)
	data := []byte(long + "\r\nRin\r\n\nKai")

	got := Decode(data).Names()
	if diff := cmp.Diff([]string{"Kai", "Rin", long}, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}
