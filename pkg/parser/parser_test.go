package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/levelwatch/models"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestExtractRow(t *testing.T) {
	want := models.Record{Name: "Rin", Level: 42, Guild: "beQuiet"}

	tests := []struct {
		name   string
		cells  []string
		strip  bool
		want   models.Record
		wantOK bool
	}{
		{
			name:   "online layout",
			cells:  []string{"", "Rin", "42", "Mage", "10%", "beQuiet"},
			want:   want,
			wantOK: true,
		},
		{
			name:   "online layout with trailing cells",
			cells:  []string{"*", "Rin", "42", "Mage", "10%", "beQuiet", "extra"},
			want:   want,
			wantOK: true,
		},
		{
			name:   "plain layout",
			cells:  []string{"Rin", "42", "Mage", "10%", "beQuiet clan"},
			want:   models.Record{Name: "Rin", Level: 42, Guild: "beQuiet clan"},
			wantOK: true,
		},
		{
			name:   "home page layout",
			cells:  []string{"Rin", "42", "Mage", "beQuiet"},
			want:   want,
			wantOK: true,
		},
		{
			name:   "home page layout with suffix",
			cells:  []string{"Rin", "42 Lv", "Archer", "beQuiet"},
			strip:  true,
			want:   want,
			wantOK: true,
		},
		{
			name:   "home page layout with numeric name",
			cells:  []string{"1337", "50", "Archer", "beQuiet"},
			want:   models.Record{Name: "1337", Level: 50, Guild: "beQuiet"},
			wantOK: true,
		},
		{
			name:   "degenerate layout",
			cells:  []string{"Rin", "42", "beQuiet"},
			want:   want,
			wantOK: true,
		},
		{
			name:   "degenerate layout with suffix",
			cells:  []string{"Rin", "42 Lv", "beQuiet"},
			strip:  true,
			want:   want,
			wantOK: true,
		},
		{
			name:   "degenerate layout with suffix skips names containing digits",
			cells:  []string{"Rin2", "42 Lv", "beQuiet"},
			strip:  true,
			want:   models.Record{Name: "Rin2", Level: 42, Guild: "beQuiet"},
			wantOK: true,
		},
		{
			name:   "degenerate layout suffix rejected by default",
			cells:  []string{"Rin", "42 Lv", "beQuiet"},
			wantOK: false,
		},
		{
			name:   "degenerate without name",
			cells:  []string{"42", "beQuiet"},
			wantOK: false,
		},
		{
			name:   "no numeric cell",
			cells:  []string{"Rin", "Mage", "beQuiet"},
			wantOK: false,
		},
		{
			name:   "online layout with non numeric level is skipped",
			cells:  []string{"", "Advertisement", "n/a", "", "", ""},
			wantOK: false,
		},
		{
			name:   "online layout with empty name",
			cells:  []string{"", "", "42", "Mage", "10%", "beQuiet"},
			wantOK: false,
		},
		{
			name:   "suffix rejected by default",
			cells:  []string{"Rin", "42 Lv", "Mage", "10%", "beQuiet"},
			wantOK: false,
		},
		{
			name:   "suffix stripped when enabled",
			cells:  []string{"Rin", "42 Lv", "Mage", "10%", "beQuiet"},
			strip:  true,
			want:   models.Record{Name: "Rin", Level: 42, Guild: "beQuiet"},
			wantOK: true,
		},
		{
			name:   "empty row",
			cells:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractRow(tt.cells, tt.strip)
			if ok != tt.wantOK {
				t.Fatalf("ExtractRow() ok = %v, want %v (record %+v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

const zonesPage = `<html><body>
<h3>Underworld</h3>
<table id="under"><tbody><tr><td>Ann</td><td>10</td><td>Mage</td><td>1%</td><td>beQuiet</td></tr></tbody></table>
<h3>  NETHERWORLD ranking </h3>
<div><table id="nether"><tbody><tr><td>Bob</td><td>20</td><td>Mage</td><td>1%</td><td>beQuiet</td></tr></tbody></table></div>
<h4>Netherworld Classic</h4>
<table id="classic"></table>
</body></html>`

func TestFindTable(t *testing.T) {
	doc := mustDoc(t, zonesPage)

	tests := []struct {
		name   string
		label  string
		wantID string
	}{
		{name: "matching heading", label: "Netherworld", wantID: "nether"},
		{name: "first zone", label: "underworld", wantID: "under"},
		{name: "no heading falls back to last table", label: "Overworld", wantID: "classic"},
		{name: "empty label falls back to last table", label: "", wantID: "classic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, ok := FindTable(doc, tt.label)
			if !ok {
				t.Fatal("FindTable() found no table")
			}
			if id, _ := table.Attr("id"); id != tt.wantID {
				t.Errorf("FindTable(%q) = table #%s, want #%s", tt.label, id, tt.wantID)
			}
		})
	}
}

func TestFindTable_DoesNotMatchNeighbourZone(t *testing.T) {
	doc := mustDoc(t, `<h3>Nether</h3><table id="a"></table><h3>Other</h3><table id="b"></table>`)

	table, ok := FindTable(doc, "Netherworld")
	if !ok {
		t.Fatal("FindTable() found no table")
	}
	if id, _ := table.Attr("id"); id != "b" {
		t.Errorf("FindTable() = #%s, want fallback #b", id)
	}
}

func TestFindTable_NoTables(t *testing.T) {
	doc := mustDoc(t, `<h3>Netherworld</h3><p>maintenance</p>`)
	if _, ok := FindTable(doc, "Netherworld"); ok {
		t.Error("FindTable() ok = true on a page without tables")
	}
}

func TestExtract(t *testing.T) {
	doc := mustDoc(t, `<table>
<thead><tr><th>Name</th><th>Level</th></tr></thead>
<tbody>
  <tr><td><span class="on"></span></td><td> Rin </td><td>42</td><td>Mage</td><td>10%</td><td>
     <img src="x.png"> Guild:
     BEQUIET  #1 </td></tr>
  <tr><td colspan="6">advertisement</td></tr>
  <tr><td>Kai</td><td>7</td><td>Archer</td><td>3%</td><td>Other</td></tr>
</tbody></table>`)

	table, ok := FindTable(doc, "")
	if !ok {
		t.Fatal("FindTable() found no table")
	}

	got := Extract(table, false)
	want := []models.Record{
		{Name: "Rin", Level: 42, Guild: "Guild: BEQUIET #1"},
		{Name: "Kai", Level: 7, Guild: "Other"},
	}
	if len(got) != len(want) {
		t.Fatalf("Extract() returned %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extract()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRows_WithoutExplicitTbody(t *testing.T) {
	doc := mustDoc(t, `<table><tr><th>h</th></tr><tr><td>a</td><td>1</td></tr></table>`)
	table, _ := FindTable(doc, "")

	rows := Rows(table)
	if len(rows) != 1 {
		t.Fatalf("Rows() = %v, want a single data row", rows)
	}
	if rows[0][0] != "a" || rows[0][1] != "1" {
		t.Errorf("Rows()[0] = %v, want [a 1]", rows[0])
	}
}
