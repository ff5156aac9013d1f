package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/dental-pro/internal/domain/entity"
)

func sampleItems() []entity.InvoiceLineItem {
	return []entity.InvoiceLineItem{
		{
			ID:            "trt-001",
			Name:          "Limpieza dental",
			Date:          time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			BasePrice:     decimal.NewFromInt(100),
			IncludeVAT:    true,
			VATPercent:    decimal.NewFromInt(15),
			VATAmount:     decimal.NewFromInt(15),
			PaymentStatus: entity.LinePaymentUnpaid,
			PaidAmount:    decimal.Zero,
			TotalAmount:   decimal.NewFromInt(115),
		},
	}
}

func TestLineItemsCodec_RoundTripVersionado(t *testing.T) {
	data, err := encodeLineItems(sampleItems())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`, "el documento lleva su versión de esquema")

	items, err := decodeLineItems(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "trt-001", items[0].ID)
	assert.True(t, decimal.NewFromInt(115).Equal(items[0].TotalAmount))
}

// Las facturas anteriores a la envoltura versionada guardaron las líneas como
// arreglo plano; siguen siendo legibles sin migración de datos.
func TestLineItemsCodec_LeeFormatoHeredado(t *testing.T) {
	legacy := []byte(`[{"id":"trt-009","name":"Extracción","date":"2024-11-20T00:00:00Z",` +
		`"base_price":"80","include_vat":false,"vat_percent":"0","vat_amount":"0",` +
		`"payment_status":"full","paid_amount":"80","total_amount":"80"}]`)

	items, err := decodeLineItems(legacy)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "trt-009", items[0].ID)
	assert.Equal(t, entity.LinePaymentFull, items[0].PaymentStatus)
	assert.True(t, decimal.NewFromInt(80).Equal(items[0].PaidAmount))
}

func TestLineItemsCodec_VacioYNulo(t *testing.T) {
	items, err := decodeLineItems(nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	data, err := encodeLineItems(nil)
	require.NoError(t, err)
	items, err = decodeLineItems(data)
	require.NoError(t, err)
	assert.Empty(t, items)
}
