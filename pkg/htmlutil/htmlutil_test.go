package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Hamlet", expected: "Hamlet"},
		{input: "  \n\tHamlet  ", expected: "Hamlet"},
		{input: "La   casa\n\nde   Bernarda", expected: "La casa de Bernarda"},
		{input: "Tango\u200b Feroz", expected: "Tango Feroz"},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, NormalizeText(row.input))
	}
}

func TestVisibleText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<select><option value="/Obras/HAM">
			Hamlet <b>(reestreno)</b>
		</option></select>`,
	))
	require.NoError(t, err)

	require.Equal(t, "Hamlet (reestreno)", VisibleText(doc.Find("option")))
	require.Equal(t, "", VisibleText(doc.Find("table")))
}
