package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cltpj/cltpj/internal/report"
)

var testRows = []report.FieldRow{
	{Label: "Salário líquido CLT", Value: "4.100,00"},
	{Label: "Salário líquido PJ", Value: "4.800,10"},
	{Label: "Reserva de emergência sugerida", Value: "480,01"},
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulacao.pdf")

	require.NoError(t, WritePDF(path, "Simulação CLT vs PJ", testRows))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulacao.xlsx")

	require.NoError(t, WriteXLSX(path, testRows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	label, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Salário líquido CLT", label)

	value, err := f.GetCellValue(sheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "480,01", value)
}
