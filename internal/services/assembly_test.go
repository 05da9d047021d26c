package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hgl-backend/internal/models"
)

func TestAssembleIntake(t *testing.T) {
	t.Run("drops rows with zero or non-numeric quantity", func(t *testing.T) {
		rec, err := AssembleIntake(&models.CreateIntakeRequest{
			Name: "  Lakshmi  ",
			Items: []models.IntakeItemRow{
				{Item: "Ring", Qty: "2"},
				{Item: "Chain", Qty: "0"},
				{Item: "Bangle", Qty: "two"},
				{Item: "", Qty: "5"},
				{Item: "Coin", Qty: "-1"},
			},
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Lakshmi", rec.Name)
		assert.Equal(t, "Ring x2", rec.Items.Summary())
		assert.Equal(t, 2, rec.Total)
	})

	t.Run("quantity uses leading digits", func(t *testing.T) {
		rec, err := AssembleIntake(&models.CreateIntakeRequest{
			Name: "Meena",
			Items: []models.IntakeItemRow{
				{Item: "Ring", Qty: "2 pcs"},
				{Item: "Chain", Qty: "2.5"},
				{Item: "Coin", Qty: " 3"},
			},
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Ring x2, Chain x2, Coin x3", rec.Items.Summary())
		assert.Equal(t, 7, rec.Total)
	})

	t.Run("stamps date and time in IST", func(t *testing.T) {
		rec, err := AssembleIntake(&models.CreateIntakeRequest{
			Name:  "Arun",
			Items: []models.IntakeItemRow{{Item: "Chain", Qty: "1"}},
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "16/10/2026", rec.Date)
		assert.Equal(t, "02:05 pm", rec.Time)
	})

	t.Run("optional fields become placeholders", func(t *testing.T) {
		rec, err := AssembleIntake(&models.CreateIntakeRequest{
			Name:    "Arun",
			Mobile:  "   ",
			Items:   []models.IntakeItemRow{{Item: "Chain", Qty: "1"}},
			Remarks: "",
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, models.Placeholder, rec.Mobile)
		assert.Equal(t, models.Placeholder, rec.Address)
		assert.Equal(t, models.Placeholder, rec.Remarks)
		assert.Equal(t, models.StatusReceived, rec.Status)
	})

	t.Run("other uses custom name or falls back", func(t *testing.T) {
		rec, err := AssembleIntake(&models.CreateIntakeRequest{
			Name: "Arun",
			Items: []models.IntakeItemRow{
				{Item: models.ItemOther, CustomItem: "Waist Belt", Qty: "1"},
				{Item: models.ItemOther, Qty: "3"},
			},
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Waist Belt, Custom x3", rec.Items.Summary())
		assert.Equal(t, 4, rec.Total)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := AssembleIntake(&models.CreateIntakeRequest{
			Name:  " ",
			Items: []models.IntakeItemRow{{Item: "Ring", Qty: "1"}},
		}, fixedNow)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("no usable rows rejected", func(t *testing.T) {
		_, err := AssembleIntake(&models.CreateIntakeRequest{
			Name:  "Arun",
			Items: []models.IntakeItemRow{{Item: "Ring", Qty: "0"}},
		}, fixedNow)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "items", ve.Field)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := AssembleIntake(&models.CreateIntakeRequest{
			Name:   "Arun",
			Items:  []models.IntakeItemRow{{Item: "Ring", Qty: "1"}},
			Status: "Lost",
		}, fixedNow)
		assert.True(t, IsValidation(err))
	})
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{"12 pieces", 12, true},
		{"2.9", 2, true},
		{"+5", 5, true},
		{"-1", -1, true},
		{"", 0, false},
		{"pcs 2", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := leadingInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestAssembleCertificate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		rec, err := AssembleCertificate(&models.CreateCertificateRequest{
			Item:   "Necklace",
			Purity: string(models.Purity18K),
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Necklace", rec.Item)
		assert.Equal(t, "18K (750)", rec.Karat)
		assert.Equal(t, models.Placeholder, rec.Weight)
		assert.Equal(t, "1", rec.Pieces)
		assert.Equal(t, string(models.MarkingLSFS), rec.Type)
		assert.Equal(t, models.Placeholder, rec.Desc)
		assert.Equal(t, "Issued", rec.Status)
		assert.Equal(t, "16/10/2026", rec.Date)
		assert.Zero(t, rec.JobNo)
	})

	t.Run("custom article", func(t *testing.T) {
		rec, err := AssembleCertificate(&models.CreateCertificateRequest{
			Item:       models.ItemOther,
			CustomItem: "Toe Ring",
			Purity:     string(models.PuritySilver925),
			Type:       string(models.MarkingBoth),
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Toe Ring", rec.Item)
		assert.Equal(t, "Both", rec.Type)
	})

	tests := []struct {
		name  string
		req   models.CreateCertificateRequest
		field string
	}{
		{"missing item", models.CreateCertificateRequest{Purity: "22K (916)"}, "item"},
		{"unknown item", models.CreateCertificateRequest{Item: "Crown", Purity: "22K (916)"}, "item"},
		{"other without name", models.CreateCertificateRequest{Item: models.ItemOther, Purity: "22K (916)"}, "customItem"},
		{"missing purity", models.CreateCertificateRequest{Item: "Ring"}, "purity"},
		{"unknown purity", models.CreateCertificateRequest{Item: "Ring", Purity: "21K"}, "purity"},
		{"unknown marking", models.CreateCertificateRequest{Item: "Ring", Purity: "22K (916)", Type: "Laser"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssembleCertificate(&tt.req, fixedNow)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
