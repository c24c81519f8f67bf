package render

import "testing"

func TestCell_IntFamily(t *testing.T) {
	if got := Cell("int4", int64(42)); got != "42" {
		t.Fatalf("got %q", got)
	}
}

func TestCell_Numeric(t *testing.T) {
	if got := Cell("numeric", []byte("12.3400")); got != "12.34" {
		t.Fatalf("got %q", got)
	}
}

func TestCell_Bool(t *testing.T) {
	if got := Cell("bool", true); got != "true" {
		t.Fatalf("got %q", got)
	}
	if got := Cell("bool", false); got != "false" {
		t.Fatalf("got %q", got)
	}
}

func TestCell_UUID(t *testing.T) {
	got := Cell("uuid", []byte("550e8400-e29b-41d4-a716-446655440000"))
	if got != "550e8400-e29b-41d4-a716-446655440000" {
		t.Fatalf("got %q", got)
	}
}

func TestCell_PlaceholderTypes(t *testing.T) {
	if got := Cell("money", []byte("$1.00")); got != "?money?" {
		t.Fatalf("got %q", got)
	}
	if got := Cell("bytea", []byte{1, 2}); got != "?bytea?" {
		t.Fatalf("got %q", got)
	}
}

func TestCell_UnknownTypeFallsBackToQuestionMark(t *testing.T) {
	if got := Cell("box", "anything"); got != "?" {
		t.Fatalf("got %q", got)
	}
}

func TestCell_NullIsDistinguished(t *testing.T) {
	if got := Cell("int4", nil); got != "<null>" {
		t.Fatalf("got %q", got)
	}
}

func TestHeader_WithAndWithoutTypes(t *testing.T) {
	cols := []Column{{Name: "id", Type: "int4"}, {Name: "name", Type: "text"}}

	withTypes := Header(cols, true)
	if withTypes[1] != "id:int4" || withTypes[2] != "name:text" {
		t.Fatalf("got %v", withTypes)
	}

	withoutTypes := Header(cols, false)
	if withoutTypes[1] != "id" || withoutTypes[2] != "name" {
		t.Fatalf("got %v", withoutTypes)
	}
	if withoutTypes[0] != "" {
		t.Fatal("expected leading blank cell")
	}
}

func TestRow_PrefixedWithZeroBasedIndex(t *testing.T) {
	cols := []Column{{Name: "id", Type: "int4"}}
	row := Row(cols, []any{int64(7)}, 0)
	if row[0] != "0" || row[1] != "7" {
		t.Fatalf("got %v", row)
	}
}

func TestCommandSummary_Format(t *testing.T) {
	got := CommandSummary("h1", "orders", 3)
	if got != "[h1:orders]: rows 3" {
		t.Fatalf("got %q", got)
	}
}
