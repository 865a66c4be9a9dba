package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Jadwal GANJIL 2024/2025",
		Headers: []string{"Mata Kuliah", "Kelas", "Hari"},
		Rows: []map[string]string{
			{"Mata Kuliah": "Algoritma", "Kelas": "A", "Hari": "SENIN"},
			{"Mata Kuliah": "Basis Data", "Kelas": "B"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Mata Kuliah,Kelas,Hari\nAlgoritma,A,SENIN\nBasis Data,B,\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	renderers := []Renderer{NewCSVExporter(), NewPDFExporter(), NewXLSXExporter()}
	for _, r := range renderers {
		_, err := r.Render(Dataset{})
		assert.Error(t, err, r.Extension())
	}
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Jadwal GANJIL 2024/2025", title)

	header, err := f.GetCellValue(xlsxSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Kelas", header)

	day, err := f.GetCellValue(xlsxSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "SENIN", day)
}
