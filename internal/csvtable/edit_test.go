package csvtable

import (
	"errors"
	"slices"
	"testing"
)

func products() *Table {
	return Decode("id,Product,Price\n1,Laptop,1200\n2,Mouse,25")
}

func TestTable_SetCell(t *testing.T) {
	tests := []struct {
		name   string
		row    int
		column string
		want   bool
	}{
		{"valid", 1, "Price", true},
		{"negative row", -1, "Price", false},
		{"row out of range", 2, "Price", false},
		{"unknown column", 0, "Cost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := products()
			before := Encode(tbl)
			got := tbl.SetCell(tt.row, tt.column, Number(30))
			if got != tt.want {
				t.Fatalf("SetCell() = %v, want %v", got, tt.want)
			}
			if !tt.want {
				if after := Encode(tbl); after != before {
					t.Errorf("table changed on rejected SetCell: %q", after)
				}
				return
			}
			if v := tbl.Rows[tt.row][tt.column]; !v.Equal(Number(30)) {
				t.Errorf("cell = %v, want 30", v)
			}
		})
	}
}

func TestTable_RenameColumn(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		tbl := products()
		if err := tbl.RenameColumn("Price", "Cost"); err != nil {
			t.Fatalf("RenameColumn() error = %v", err)
		}
		if want := []string{"id", "Product", "Cost"}; !slices.Equal(tbl.Columns, want) {
			t.Errorf("Columns = %v, want %v", tbl.Columns, want)
		}
		for i, want := range []float64{1200, 25} {
			r := tbl.Rows[i]
			if _, ok := r["Price"]; ok {
				t.Errorf("row %d still has Price", i)
			}
			if got := r["Cost"]; !got.Equal(Number(want)) {
				t.Errorf("row %d Cost = %v, want %v", i, got, want)
			}
		}
		if got, want := Encode(tbl), "id,Product,Cost\n1,Laptop,1200\n2,Mouse,25"; got != want {
			t.Errorf("Encode() = %q, want %q", got, want)
		}
	})

	errTests := []struct {
		name     string
		old, new string
		want     error
	}{
		{"to existing", "Price", "Product", ErrColumnExists},
		{"empty", "Price", "", ErrEmptyName},
		{"unknown", "Cost", "Amount", ErrUnknownColumn},
		{"same name", "Price", "Price", nil},
		{"same name padded", "Price", " Price ", nil},
		{"existing once trimmed", "Price", "id ", ErrColumnExists},
		{"existing once unquoted", "Price", `"Product"`, ErrColumnExists},
		{"only quotes", "Price", `" "`, ErrEmptyName},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := products()
			before := Encode(tbl)
			if err := tbl.RenameColumn(tt.old, tt.new); !errors.Is(err, tt.want) {
				t.Fatalf("RenameColumn() error = %v, want %v", err, tt.want)
			}
			if after := Encode(tbl); after != before {
				t.Errorf("table changed: %q", after)
			}
		})
	}
}

func TestTable_AddColumn(t *testing.T) {
	t.Run("rows gain empty cell", func(t *testing.T) {
		tbl := products()
		if err := tbl.AddColumn("Email"); err != nil {
			t.Fatalf("AddColumn() error = %v", err)
		}
		if len(tbl.Rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(tbl.Rows))
		}
		for i, r := range tbl.Rows {
			if v, ok := r["Email"]; !ok || !v.Equal(String("")) {
				t.Errorf("row %d Email = %v (present %v), want empty", i, v, ok)
			}
		}
		if err := tbl.AddColumn("Email"); !errors.Is(err, ErrColumnExists) {
			t.Errorf("duplicate AddColumn() error = %v, want %v", err, ErrColumnExists)
		}
	})
	t.Run("empty name", func(t *testing.T) {
		if err := products().AddColumn(""); !errors.Is(err, ErrEmptyName) {
			t.Errorf("AddColumn(\"\") error = %v, want %v", err, ErrEmptyName)
		}
	})
	t.Run("name is cleaned", func(t *testing.T) {
		tests := []struct {
			name string
			want error
			col  string
		}{
			{"Price ", ErrColumnExists, ""},
			{" id", ErrColumnExists, ""},
			{`""`, ErrEmptyName, ""},
			{`say "hi"`, nil, "say hi"},
			{"  Email\t", nil, "Email"},
		}
		for _, tt := range tests {
			tbl := products()
			if err := tbl.AddColumn(tt.name); !errors.Is(err, tt.want) {
				t.Errorf("AddColumn(%q) error = %v, want %v", tt.name, err, tt.want)
				continue
			}
			if tt.want != nil {
				continue
			}
			if !tbl.HasColumn(tt.col) {
				t.Errorf("AddColumn(%q) columns = %v, want %q", tt.name, tbl.Columns, tt.col)
			}
			if got := Decode(Encode(tbl)).Columns; !slices.Equal(got, tbl.Columns) {
				t.Errorf("AddColumn(%q) reads back as %v, want %v", tt.name, got, tbl.Columns)
			}
		}
	})
	t.Run("row-less table", func(t *testing.T) {
		tbl := New("a")
		if err := tbl.AddColumn("b"); err != nil {
			t.Fatalf("AddColumn() error = %v", err)
		}
		if want := []string{"a", "b"}; !slices.Equal(tbl.Columns, want) {
			t.Errorf("Columns = %v, want %v", tbl.Columns, want)
		}
		if !tbl.IsEmpty() {
			t.Errorf("got %d rows, want 0", len(tbl.Rows))
		}
	})
}

func TestTable_AddRow(t *testing.T) {
	t.Run("no columns", func(t *testing.T) {
		tbl := Decode("")
		if err := tbl.AddRow(); !errors.Is(err, ErrNoColumns) {
			t.Fatalf("AddRow() error = %v, want %v", err, ErrNoColumns)
		}
		if !tbl.IsEmpty() {
			t.Error("rejected AddRow added a row")
		}
	})
	t.Run("appends empty row", func(t *testing.T) {
		tbl := products()
		if err := tbl.AddRow(); err != nil {
			t.Fatalf("AddRow() error = %v", err)
		}
		if len(tbl.Rows) != 3 {
			t.Fatalf("got %d rows, want 3", len(tbl.Rows))
		}
		last := tbl.Rows[2]
		if len(last) != len(tbl.Columns) {
			t.Errorf("new row has %d cells, want %d", len(last), len(tbl.Columns))
		}
		for _, c := range tbl.Columns {
			if v := last[c]; !v.Equal(String("")) {
				t.Errorf("%s = %v, want empty", c, v)
			}
		}
		if got, want := Encode(tbl), "id,Product,Price\n1,Laptop,1200\n2,Mouse,25\n,,"; got != want {
			t.Errorf("Encode() = %q, want %q", got, want)
		}
	})
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{-1, ""},
		{0, "A"},
		{3, "D"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tt := range tests {
		if got := ColumnName(tt.in); got != tt.want {
			t.Errorf("ColumnName(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable_Normalize(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a", "b"},
		Rows:    []Row{{"a": Number(1), "zzz": String("drop")}, nil},
	}
	tbl.Normalize()
	for i, r := range tbl.Rows {
		if len(r) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(r))
		}
		if _, ok := r["zzz"]; ok {
			t.Errorf("row %d kept unknown key", i)
		}
	}
	if got, want := Encode(tbl), "a,b\n1,\n,"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestTable_AddRow_singleColumn(t *testing.T) {
	tbl := Decode("a\n1")
	if err := tbl.AddRow(); err != nil {
		t.Fatalf("AddRow() error = %v", err)
	}
	got := Decode(Encode(tbl))
	if len(got.Rows) != 2 {
		t.Fatalf("empty row lost in round-trip: %q", Encode(tbl))
	}
}
