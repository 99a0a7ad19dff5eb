package contacts

import (
	"strings"
	"testing"
)

func TestEncodeVCards(t *testing.T) {
	accepted := []Accepted{
		{Name: "Ana Souza", Canonical: "5531987654321", Display: "+55 (31) 98765-4321"},
		{Name: "Bruno Lima", Canonical: "5511912345678", Display: "+55 (11) 91234-5678"},
	}
	got := EncodeVCards(accepted)

	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:Ana Souza\n" +
		"N:;Ana Souza;;;\n" +
		"TEL;TYPE=CELL:+55 (31) 98765-4321\n" +
		"END:VCARD\n" +
		"\n" +
		"BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:Bruno Lima\n" +
		"N:;Bruno Lima;;;\n" +
		"TEL;TYPE=CELL:+55 (11) 91234-5678\n" +
		"END:VCARD\n"
	if got != want {
		t.Fatalf("vcard mismatch:\n%q\nwant:\n%q", got, want)
	}
	if strings.Count(got, "BEGIN:VCARD") != 2 {
		t.Fatalf("expected 2 card blocks")
	}
}

func TestEncodeVCardsEmpty(t *testing.T) {
	if got := EncodeVCards(nil); got != "" {
		t.Fatalf("empty input should yield empty blob, got %q", got)
	}
}
