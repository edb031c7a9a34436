package windows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dgb/export"
)

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "people.csv.xlsx", exportFileName("people.csv", export.FormatXLSX))
	assert.Equal(t, "sales_orders.txt", exportFileName("sales orders", export.FormatText))
}

func TestFormatNamesParse(t *testing.T) {
	names := formatNames()
	assert.Len(t, names, len(export.Formats()))
	for _, n := range names {
		_, err := export.ParseFormat(n)
		assert.NoError(t, err, n)
	}
}
