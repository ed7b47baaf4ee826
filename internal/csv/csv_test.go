package csv

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		header string
		want   rune
	}{
		{"studentId,fullName,programme", Comma},
		{"studentId;fullName;programme", Semicolon},
		{"studentId", Comma},
		{"a;b,c", Comma},
		{"a;b;c,d", Semicolon},
	}
	for _, tt := range tests {
		if got := DetectDelimiter(tt.header); got != tt.want {
			t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim rune
		want  []string
	}{
		{"plain", "a,b,c", Comma, []string{"a", "b", "c"}},
		{"trims", " a , b ,c ", Comma, []string{"a", "b", "c"}},
		{"empty fields", "a,,c,", Comma, []string{"a", "", "c", ""}},
		{"quoted delimiter", `x,"Smith, Jr.",y`, Comma, []string{"x", "Smith, Jr.", "y"}},
		{"escaped quote", `"say ""hi""",z`, Comma, []string{`say "hi"`, "z"}},
		{"semicolon", `a;"b;c";d`, Semicolon, []string{"a", "b;c", "d"}},
		{"comma inside semicolon file", "a,b;c", Semicolon, []string{"a,b", "c"}},
		{"unterminated quote", `a,"b,c`, Comma, []string{"a", "b,c"}},
		{"empty line", "", Comma, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLine(tt.line, tt.delim)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("SplitLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"\ufeffStudent Id", "FULL NAME", "", "gpa", "GPA"})

	if i, ok := idx.Lookup("studentId"); !ok || i != 0 {
		t.Errorf("Lookup(studentId) = %d, %v", i, ok)
	}
	if i, ok := idx.Lookup("fullname"); !ok || i != 1 {
		t.Errorf("Lookup(fullname) = %d, %v", i, ok)
	}
	if i, _ := idx.Lookup("gpa"); i != 3 {
		t.Errorf("duplicate column: got index %d, want first occurrence 3", i)
	}
	if _, ok := idx.Lookup("date", "enrolledDate"); ok {
		t.Error("Lookup found a column that is not in the header")
	}

	row := []string{"UMAT001", " Alice "}
	if v, ok := idx.Field(row, "fullName"); !ok || v != "Alice" {
		t.Errorf("Field(fullName) = %q, %v", v, ok)
	}
	if _, ok := idx.Field(row, "gpa"); ok {
		t.Error("Field on a short row should report missing")
	}
}

func TestQuoteField(t *testing.T) {
	tests := map[string]string{
		"plain":      "plain",
		"Smith, Jr.": `"Smith, Jr."`,
		`say "hi"`:   `"say ""hi"""`,
		"two\nlines": "\"two\nlines\"",
		"":           "",
	}
	for in, want := range tests {
		if got := QuoteField(in); got != want {
			t.Errorf("QuoteField(%q) = %q, want %q", in, got, want)
		}
	}

	if got := JoinRow([]string{"UMAT001", "Smith, Jr.", "3.5"}); got != `UMAT001,"Smith, Jr.",3.5` {
		t.Errorf("JoinRow = %q", got)
	}
}

func TestQuoteSplitRoundTrip(t *testing.T) {
	cells := []string{"UMAT001", "Smith, Jr.", `Law "Hons"`, "x;y"}
	got := SplitLine(JoinRow(cells), Comma)
	if strings.Join(got, "|") != strings.Join(cells, "|") {
		t.Errorf("round trip = %q, want %q", got, cells)
	}
}

func TestLineReader(t *testing.T) {
	src := "\xEF\xBB\xBFh1,h2\r\n\r\nbad\xffbyte,x\nlast"
	lr := NewLineReader(strings.NewReader(src))

	var lines []string
	for {
		l, ok := lr.Next()
		if !ok {
			break
		}
		lines = append(lines, l)
	}
	if err := lr.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	want := []string{"h1,h2", "", "bad?byte,x", "last"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", lines, want)
	}
	if lr.Line() != 4 {
		t.Errorf("Line() = %d, want 4", lr.Line())
	}
	if lr.BytesRead() != int64(len(src)) {
		t.Errorf("BytesRead() = %d, want %d", lr.BytesRead(), len(src))
	}
}

func TestLineReaderError(t *testing.T) {
	boom := errors.New("boom")
	lr := NewLineReader(iotest.ErrReader(boom))
	if _, ok := lr.Next(); ok {
		t.Fatal("Next() succeeded on a failing reader")
	}
	if !errors.Is(lr.Err(), boom) {
		t.Errorf("Err() = %v, want %v", lr.Err(), boom)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t ") {
		t.Error("IsBlank(whitespace) = false")
	}
	if IsBlank(" , ") {
		t.Error("IsBlank(\" , \") = true")
	}
}
