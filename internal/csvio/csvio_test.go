package csvio

import (
	"encoding/csv"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)

	records, err := DecodeCSV(data)
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0][0] != "a" {
		t.Errorf("first header = %q, want %q", records[0][0], "a")
	}
}

func TestDecodeCSV_RaggedRows(t *testing.T) {
	records, err := DecodeCSV([]byte("a,b,c\n1,2\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if len(records[1]) != 2 || len(records[2]) != 4 {
		t.Errorf("ragged row lengths = %d, %d, want 2, 4", len(records[1]), len(records[2]))
	}
}

func TestDecodeCSV_ParseErrorCarriesLine(t *testing.T) {
	// Bare quote inside an unquoted field on line 3.
	_, err := DecodeCSV([]byte("a,b\n1,2\n3,\"broken\n"))
	if err == nil {
		t.Fatal("DecodeCSV() expected error for malformed quoting")
	}

	var parseErr *csv.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *csv.ParseError", err)
	}
	if parseErr.Line != 3 {
		t.Errorf("ParseError.Line = %d, want 3", parseErr.Line)
	}
}

func TestDecode_UnsupportedExtension(t *testing.T) {
	_, err := Decode("inventory.pdf", []byte("whatever"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Company Name", "Country"}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"Maersk Logistics", "Denmark"}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}

	records, err := Decode("companies.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[1][0] != "Maersk Logistics" {
		t.Errorf("cell = %q, want %q", records[1][0], "Maersk Logistics")
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in := [][]string{{"a", "b"}, {"1", "with,comma"}}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := DecodeCSV(data)
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if len(out) != 2 || out[1][1] != "with,comma" {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Company Name ", "Company Name"},
		{"=\"PORT_Code\"", "PORT_Code"},
		{" Country ", "Country"},
		{`"remarks"`, "remarks"},
	}

	for _, tt := range tests {
		if got := CleanHeader(tt.in); got != tt.want {
			t.Errorf("CleanHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsEmptyRow(t *testing.T) {
	if !IsEmptyRow([]string{"", "  ", "\t"}) {
		t.Error("IsEmptyRow() = false for blank row, want true")
	}
	if IsEmptyRow([]string{"", "x"}) {
		t.Error("IsEmptyRow() = true for non-blank row, want false")
	}
}
