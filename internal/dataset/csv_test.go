package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestReadCSVTypesColumns(t *testing.T) {
	p := writeFile(t, "people.csv", strings.Join([]string{
		"age,city,score,notes",
		"25,A,1.5,",
		"30,B,NA,hello",
		",A,2.5,NULL",
		"40,B,3,world",
	}, "\n"))
	ds, err := ReadCSV(p, LoadOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Name != "people.csv" || ds.Rows() != 4 {
		t.Fatalf("unexpected dataset %s rows=%d", ds.Name, ds.Rows())
	}
	want := map[string]Kind{"age": Numeric, "city": Categorical, "score": Numeric, "notes": Categorical}
	for name, k := range want {
		c, ok := ds.Column(name)
		if !ok || c.Kind() != k {
			t.Fatalf("column %s: kind %v, want %v", name, c.Kind(), k)
		}
	}
	age, _ := ds.Column("age")
	if !age.IsNull(2) || age.NullCount() != 1 {
		t.Fatalf("age nulls = %d", age.NullCount())
	}
	if v, ok := age.Float(3); !ok || v != 40 {
		t.Fatalf("age[3] = %v", v)
	}
	notes, _ := ds.Column("notes")
	if notes.NullCount() != 2 {
		t.Fatalf("notes nulls = %d", notes.NullCount())
	}
	if got := strings.Join(notes.Texts(), "|"); got != "hello|world" {
		t.Fatalf("notes texts = %q", got)
	}
}

func TestReadCSVLocaleAndDelimiter(t *testing.T) {
	p := writeFile(t, "eu.csv", "Group;Amount\nA;1.000,5\nB;2,25\n")
	ds, err := ReadCSV(p, LoadOptions{Delimiter: ';', DecimalSeparator: ',', ThousandsSeparator: '.'})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	amt, _ := ds.Column("Amount")
	if amt.Kind() != Numeric {
		t.Fatal("Amount should parse as numeric")
	}
	if v, _ := amt.Float(0); v != 1000.5 {
		t.Fatalf("Amount[0] = %v", v)
	}
	if v, _ := amt.Float(1); v != 2.25 {
		t.Fatalf("Amount[1] = %v", v)
	}
}

func TestReadCSVSniffsTSV(t *testing.T) {
	p := writeFile(t, "data.tsv", "a\tb\n1\tx\n2\ty\n")
	ds, err := LoadFile(p, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := strings.Join(ds.Names(), ","); got != "a,b" {
		t.Fatalf("names = %s", got)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	if _, err := ReadCSV(p, LoadOptions{}); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-file error, got %v", err)
	}
}

func TestFromRecordsHeaderCleanup(t *testing.T) {
	ds, err := FromRecords("t", []string{"x", "", "x"}, [][]string{{"1", "a"}, {"2", "b", "3", "extra"}}, LoadOptions{})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if got := strings.Join(ds.Names(), ","); got != "x,Unnamed: 1,x.1" {
		t.Fatalf("names = %q", got)
	}
	short, _ := ds.Column("x.1")
	if !short.IsNull(0) {
		t.Fatal("short rows must be padded with nulls")
	}
}

func TestAllNullColumnIsNumeric(t *testing.T) {
	ds, err := FromRecords("t", []string{"a", "b"}, [][]string{{"", "1"}, {"NA", "2"}}, LoadOptions{})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	a, _ := ds.Column("a")
	if a.Kind() != Numeric || a.NullCount() != 2 {
		t.Fatalf("kind=%v nulls=%d", a.Kind(), a.NullCount())
	}
}

func TestIsNullToken(t *testing.T) {
	for _, s := range []string{"", " ", "NA", "N/A", "NaN", "null", "None", "#N/A", "<NA>"} {
		if !IsNullToken(s) {
			t.Fatalf("%q should be null", s)
		}
	}
	for _, s := range []string{"0", "none?", "x"} {
		if IsNullToken(s) {
			t.Fatalf("%q should not be null", s)
		}
	}
}
