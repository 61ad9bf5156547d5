package locale

import "testing"

func TestGet(t *testing.T) {
	if got := Get("no").Days["d1"]; got != "Mandag" {
		t.Errorf("Get(no).Days[d1] = %q, want Mandag", got)
	}
	if got := Get("nn").Days["d1"]; got != "Måndag" {
		t.Errorf("Get(nn).Days[d1] = %q, want Måndag", got)
	}
	// unknown codes fall back to English
	if got := Get("de").Days["d1"]; got != "Monday" {
		t.Errorf("Get(de).Days[d1] = %q, want Monday", got)
	}
}

func TestTablesComplete(t *testing.T) {
	labels := []string{
		"cancelled", "orphan", "date", "time", "title", "place", "staff",
		"resources", "showMore", "toc", "noData", "renderError", "editText",
	}
	for _, code := range []string{"no", "nn", "en"} {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false", code)
		}
		tbl := Get(code)
		if len(tbl.Months) != 12 {
			t.Errorf("%s: %d months", code, len(tbl.Months))
		}
		if len(tbl.Days) != 7 {
			t.Errorf("%s: %d days", code, len(tbl.Days))
		}
		for _, lbl := range labels {
			if tbl.Labels[lbl] == "" {
				t.Errorf("%s: missing label %q", code, lbl)
			}
		}
	}
}

func TestNewTranslator(t *testing.T) {
	tests := []struct {
		code string
		want string // nb backs "no", unknown codes fall back to en
	}{
		{"no", "nb"},
		{"nn", "nn"},
		{"en", "en"},
		{"xx", "en"},
	}
	for _, tt := range tests {
		trans := NewTranslator(tt.code)
		if trans == nil {
			t.Fatalf("NewTranslator(%q) = nil", tt.code)
		}
		if got := trans.Locale(); got != tt.want {
			t.Errorf("NewTranslator(%q).Locale() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if Supported("xx") {
		t.Error(`Supported("xx") = true`)
	}
}
