package urls

import (
	"reflect"
	"testing"
)

func TestParseBulk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "commas", input: "a.com,b.com", want: []string{"a.com", "b.com"}},
		{name: "newlines and spaces", input: " a.com \n\n b.com ,\n", want: []string{"a.com", "b.com"}},
		{name: "keeps duplicates", input: "a.com,a.com", want: []string{"a.com", "a.com"}},
		{name: "empty", input: " , \n ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBulk(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBulk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestList_Add(t *testing.T) {
	l := NewList("https://a.com")

	l2, added := l.Add("  https://b.com ")
	if !added {
		t.Fatal("Add() should add a new URL")
	}
	if got := l2.URLs(); !reflect.DeepEqual(got, []string{"https://a.com", "https://b.com"}) {
		t.Errorf("URLs() = %v", got)
	}
	if l.Len() != 1 {
		t.Error("Add() must not modify the receiver")
	}

	if _, added := l2.Add("https://a.com"); added {
		t.Error("Add() should reject duplicates")
	}
	if _, added := l2.Add("   "); added {
		t.Error("Add() should reject blank input")
	}
}

func TestList_AddBulk(t *testing.T) {
	l := NewList("a").AddBulk("b, a\nc,b")

	if got := l.URLs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("URLs() = %v, want [a b c]", got)
	}
}

func TestList_Remove(t *testing.T) {
	l := NewList("a", "b", "c")

	if got := l.Remove(1).URLs(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Remove(1) = %v", got)
	}
	if got := l.Remove(5).URLs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Remove(5) = %v", got)
	}
	if got := l.URLs(); len(got) != 3 {
		t.Error("Remove() must not modify the receiver")
	}
}

func TestList_Set(t *testing.T) {
	l := NewList("a").Set([]string{"x", "y", "x"})
	if got := l.URLs(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Set() = %v", got)
	}
}

func TestEntry_ToggleToBulkCopiesSingle(t *testing.T) {
	e := Entry{Single: "https://a.com"}
	list := NewList()

	e, list = e.Toggle(list)
	if e.Mode != ModeBulk || e.Bulk != "https://a.com" {
		t.Errorf("Toggle() = %+v, want bulk with copied text", e)
	}
	if list.Len() != 0 {
		t.Error("entering bulk mode must not add URLs")
	}
}

func TestEntry_ToggleToSingleKeepsLast(t *testing.T) {
	e := Entry{Mode: ModeBulk, Bulk: "a.com\nb.com, c.com"}
	list := NewList("z.com")

	e, list = e.Toggle(list)
	if e.Mode != ModeSingle {
		t.Fatalf("Mode = %v, want single", e.Mode)
	}
	if e.Single != "c.com" || e.Bulk != "" {
		t.Errorf("Entry = %+v, want single c.com and empty bulk", e)
	}
	if got := list.URLs(); !reflect.DeepEqual(got, []string{"z.com", "a.com", "b.com"}) {
		t.Errorf("URLs() = %v", got)
	}
}

func TestEntry_ToggleEmptyBulk(t *testing.T) {
	e := Entry{Mode: ModeBulk, Single: "kept"}
	e, _ = e.Toggle(NewList())
	if e.Single != "kept" {
		t.Errorf("Single = %q, want kept", e.Single)
	}
}

func TestEntry_Submit(t *testing.T) {
	list := NewList("a")

	e, list, changed := Entry{Single: "a"}.Submit(list)
	if changed || e.Single != "a" {
		t.Errorf("duplicate submit: changed=%v entry=%+v", changed, e)
	}

	e, list, changed = Entry{Single: " b "}.Submit(list)
	if !changed || e.Single != "" {
		t.Errorf("single submit: changed=%v entry=%+v", changed, e)
	}

	e, list, changed = Entry{Mode: ModeBulk, Bulk: "b,c\nd"}.Submit(list)
	if !changed || e.Bulk != "" {
		t.Errorf("bulk submit: changed=%v entry=%+v", changed, e)
	}
	if got := list.URLs(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("URLs() = %v", got)
	}
}
