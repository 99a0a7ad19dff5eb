package contacts

import "strings"

// EncodeVCards renders one vCard 3.0 block per accepted record, separated by
// a blank line. Field order and keyword casing match what contact-import
// tools expect. An empty input yields an empty string.
func EncodeVCards(accepted []Accepted) string {
	if len(accepted) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(accepted))
	for _, a := range accepted {
		var b strings.Builder
		b.WriteString("BEGIN:VCARD\n")
		b.WriteString("VERSION:3.0\n")
		b.WriteString("FN:" + a.Name + "\n")
		b.WriteString("N:;" + a.Name + ";;;\n")
		b.WriteString("TEL;TYPE=CELL:" + a.Display + "\n")
		b.WriteString("END:VCARD")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
