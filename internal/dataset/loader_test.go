package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	loader := NewLoader("InvoiceDate", nil)

	data := []byte("InvoiceDate,Quantity,UnitPrice\n2011-01-03 10:00:00,2,1.5\n2011-01-04 11:00:00,1,3\n")
	raw, err := loader.Load("orders.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"InvoiceDate", "Quantity", "UnitPrice"}, raw.Header)
	require.Len(t, raw.Rows, 2)
	assert.Equal(t, "2", raw.Rows[0][1])
}

func TestLoadCSVStripsBOM(t *testing.T) {
	loader := NewLoader("InvoiceDate", nil)

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("InvoiceDate,Quantity\n2011-01-03,2\n")...)
	raw, err := loader.Load("orders.csv", data)
	require.NoError(t, err)
	assert.Equal(t, "InvoiceDate", raw.Header[0])
}

func TestLoadCSVPadsShortRows(t *testing.T) {
	loader := NewLoader("InvoiceDate", nil)

	data := []byte("InvoiceDate,Quantity,UnitPrice\n2011-01-03\n")
	raw, err := loader.Load("orders.csv", data)
	require.NoError(t, err)
	require.Len(t, raw.Rows, 1)
	assert.Len(t, raw.Rows[0], 3)
	assert.Equal(t, "", raw.Rows[0][2])
}

func TestLoadUnsupportedFormat(t *testing.T) {
	loader := NewLoader("InvoiceDate", nil)

	tests := []string{"report.pdf", "orders.json", "noextension"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loader.Load(name, []byte("data"))
			require.Error(t, err)
			var formatErr *UnsupportedFormatError
			assert.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestLoadExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"InvoiceDate", "Quantity", "UnitPrice"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2011-01-03 10:00:00", 2, 1.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	loader := NewLoader("InvoiceDate", nil)
	raw, err := loader.Load("orders.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "InvoiceDate", raw.Header[0])
	require.Len(t, raw.Rows, 1)
}

func TestLoadExcelSkipsTitleRows(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Quarterly sales export"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"InvoiceDate", "Quantity", "UnitPrice"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"2011-01-03", 1, 2.0}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	loader := NewLoader("InvoiceDate", nil)
	raw, err := loader.Load("orders.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "InvoiceDate", raw.Header[0])
	require.Len(t, raw.Rows, 1)
}

func TestLoadExcelWithoutDateColumn(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Foo", "Bar"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	loader := NewLoader("InvoiceDate", nil)
	_, err = loader.Load("orders.xlsx", buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvoiceDate")
}
