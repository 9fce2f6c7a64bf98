package picker

import (
	"strings"
	"testing"
)

func testListing() []Entry {
	return []Entry{
		{Path: "/Documents", Name: "Documents", IsDir: true, MimeType: "httpd/unix-directory"},
		{Path: "/.hidden", Name: ".hidden", IsDir: true, MimeType: "httpd/unix-directory"},
		{Path: "/photo.jpg", Name: "photo.jpg", MimeType: "image/jpeg"},
		{Path: "/scan.png", Name: "scan.png", MimeType: "image/png"},
		{Path: "/notes.txt", Name: "notes.txt", MimeType: "text/plain"},
		{Path: "/.profile", Name: ".profile", MimeType: "text/plain"},
		{Path: "/Report.PDF", Name: "Report.PDF", MimeType: "application/pdf"},
	}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestApplyFilters_HiddenDefault(t *testing.T) {
	got := ApplyFilters(testListing(), Criteria{})
	for _, e := range got {
		if strings.HasPrefix(e.Name, ".") {
			t.Errorf("hidden entry %q not filtered", e.Name)
		}
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5 (%v)", len(got), names(got))
	}
}

func TestApplyFilters_ShowHidden(t *testing.T) {
	got := ApplyFilters(testListing(), Criteria{ShowHidden: true})
	if len(got) != len(testListing()) {
		t.Errorf("len = %d, want %d", len(got), len(testListing()))
	}
}

func TestApplyFilters_MimePrefixPattern(t *testing.T) {
	got := ApplyFilters(testListing(), Criteria{MimeFilter: []string{"image/*"}})

	wantNames := map[string]bool{"Documents": true, "photo.jpg": true, "scan.png": true}
	if len(got) != len(wantNames) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(wantNames), names(got))
	}
	for _, e := range got {
		if !wantNames[e.Name] {
			t.Errorf("unexpected entry %q", e.Name)
		}
	}
}

func TestApplyFilters_MimeExact(t *testing.T) {
	got := ApplyFilters(testListing(), Criteria{MimeFilter: []string{"text/plain"}})
	for _, e := range got {
		if !e.IsDir && e.MimeType != "text/plain" {
			t.Errorf("entry %q has mime %q, want text/plain", e.Name, e.MimeType)
		}
	}
	// "image" must not prefix-match "image/jpeg" without the /* form
	got = ApplyFilters(testListing(), Criteria{MimeFilter: []string{"image"}})
	for _, e := range got {
		if !e.IsDir {
			t.Errorf("bare pattern matched file %q", e.Name)
		}
	}
}

func TestApplyFilters_FoldersExemptFromMime(t *testing.T) {
	got := ApplyFilters(testListing(), Criteria{MimeFilter: []string{"application/pdf"}})
	foundDir := false
	for _, e := range got {
		if e.IsDir {
			foundDir = true
		}
	}
	if !foundDir {
		t.Error("folders should pass the mime filter")
	}
}

func TestApplyFilters_QueryCaseInsensitive(t *testing.T) {
	got := ApplyFilters(testListing(), Criteria{Query: "report"})
	if len(got) != 1 || got[0].Name != "Report.PDF" {
		t.Errorf("got %v, want [Report.PDF]", names(got))
	}
}

func TestApplyFilters_QueryIsLiteral(t *testing.T) {
	// Regex metacharacters must be matched literally, not interpreted.
	got := ApplyFilters(testListing(), Criteria{Query: ".*"})
	if len(got) != 0 {
		t.Errorf("got %v, want no matches for literal \".*\"", names(got))
	}

	got = ApplyFilters(testListing(), Criteria{Query: ".pro", ShowHidden: true})
	if len(got) != 1 || got[0].Name != ".profile" {
		t.Errorf("got %v, want [.profile]", names(got))
	}
}

func TestApplyFilters_PredicateConjunction(t *testing.T) {
	c := Criteria{
		MimeFilter: []string{"image/*"},
		Predicate:  func(e Entry) bool { return !e.IsDir },
	}
	got := ApplyFilters(testListing(), c)
	if len(got) != 2 {
		t.Fatalf("got %v, want [photo.jpg scan.png]", names(got))
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	c := Criteria{MimeFilter: []string{"image/*", "text/plain"}, Query: "s"}
	once := ApplyFilters(testListing(), c)
	twice := ApplyFilters(once, c)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Path != twice[i].Path {
			t.Errorf("entry %d changed: %q != %q", i, once[i].Path, twice[i].Path)
		}
	}
}

func TestApplyFilters_InputNotModified(t *testing.T) {
	in := testListing()
	ApplyFilters(in, Criteria{Query: "photo"})
	if len(in) != len(testListing()) {
		t.Error("input slice was modified")
	}
}

func TestMimeMatches(t *testing.T) {
	tests := []struct {
		mime     string
		patterns []string
		want     bool
	}{
		{"image/jpeg", []string{"image/*"}, true},
		{"image/jpeg", []string{"image/jpeg"}, true},
		{"image/jpeg", []string{"text/*"}, false},
		{"imagex/foo", []string{"image/*"}, false},
		{"", []string{"image/*"}, false},
		{"application/pdf", []string{"image/*", "application/pdf"}, true},
	}
	for _, tt := range tests {
		if got := mimeMatches(tt.mime, tt.patterns); got != tt.want {
			t.Errorf("mimeMatches(%q, %v) = %v, want %v", tt.mime, tt.patterns, got, tt.want)
		}
	}
}
