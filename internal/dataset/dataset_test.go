package dataset

import (
	"testing"
	"time"
)

func TestNewRejectsUnequalLengths(t *testing.T) {
	_, err := New(Ints("id", 1, 2), Strings("name", "a"))
	if err == nil {
		t.Fatal("expected error for unequal column lengths")
	}
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(Ints("id", 1), Ints("id", 2))
	if err == nil {
		t.Fatal("expected error for duplicate column name")
	}
}

func TestNewRejectsUnnamedColumn(t *testing.T) {
	_, err := New(Ints("", 1))
	if err == nil {
		t.Fatal("expected error for unnamed column")
	}
}

func TestColumnLookup(t *testing.T) {
	ds, err := New(Ints("id", 1, 2), Strings("name", "a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	if ds.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.RowCount())
	}
	col, ok := ds.Column("name")
	if !ok || col.Kind != KindString {
		t.Fatalf("expected string column name, got %+v ok=%v", col, ok)
	}
	if _, ok := ds.Column("missing"); ok {
		t.Fatal("expected lookup miss for unknown column")
	}
	names := ds.ColumnNames()
	if len(names) != 2 || names[0] != "id" || names[1] != "name" {
		t.Fatalf("unexpected column names: %v", names)
	}
}

func TestEmptyDataset(t *testing.T) {
	ds, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if ds.RowCount() != 0 {
		t.Fatalf("expected 0 rows, got %d", ds.RowCount())
	}
}

func TestRender(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	cases := []struct {
		col  Column
		want string
	}{
		{Ints("c", 42), "42"},
		{Floats("c", 2.5), "2.5"},
		{Bools("c", true), "true"},
		{Strings("c", "x"), "x"},
		{Times("c", ts), "2025-06-15T12:30:00Z"},
		{NewColumn("c", KindString, Null()), "null"},
	}
	for _, tc := range cases {
		if got := tc.col.Render(0); got != tc.want {
			t.Fatalf("Render(%s) = %q, want %q", tc.col.Kind, got, tc.want)
		}
	}
}

func TestNullKeyIsDistinct(t *testing.T) {
	col := NewColumn("c", KindString, Null(), String("null"))
	if col.Key(0) == col.Key(1) {
		t.Fatal("null cell key must differ from the literal string \"null\"")
	}
}

func TestNumber(t *testing.T) {
	ints := Ints("c", 3)
	if v, ok := ints.Number(0); !ok || v != 3 {
		t.Fatalf("expected 3, got %v ok=%v", v, ok)
	}
	floats := Floats("c", 2.5)
	if v, ok := floats.Number(0); !ok || v != 2.5 {
		t.Fatalf("expected 2.5, got %v ok=%v", v, ok)
	}
	nulls := NewColumn("c", KindFloat, Null())
	if _, ok := nulls.Number(0); ok {
		t.Fatal("null cell must not be numeric")
	}
	strs := Strings("c", "x")
	if _, ok := strs.Number(0); ok {
		t.Fatal("string cell must not be numeric")
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"string", "integer", "float", "datetime", "boolean"} {
		if _, err := ParseKind(s); err != nil {
			t.Fatalf("ParseKind(%s): %v", s, err)
		}
	}
	if _, err := ParseKind("varchar"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
