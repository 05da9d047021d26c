package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobID(t *testing.T) {
	assert.Equal(t, "HGL00001", JobID("HGL", 1))
	assert.Equal(t, "HGL00007", JobID("HGL", 7))
	assert.Equal(t, "HGL99999", JobID("HGL", 99999))
	assert.Equal(t, "HGL123456", JobID("HGL", 123456))
}

func TestJobIDProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("job id keeps the number and pads to five digits", prop.ForAll(
		func(n int) bool {
			id := JobID("HGL", n)
			digits := strings.TrimPrefix(id, "HGL")
			parsed, err := strconv.Atoi(digits)
			if err != nil || parsed != n {
				return false
			}
			return len(digits) == max(5, len(strconv.Itoa(n)))
		},
		gen.IntRange(1, 10_000_000),
	))

	properties.TestingRun(t)
}

func TestVerifyPayloadUsesRawNumber(t *testing.T) {
	assert.Equal(t, "https://hgl.example/verify?job=7", VerifyPayload("https://hgl.example/verify?job=", 7))
}

func TestLabProfileView(t *testing.T) {
	lab := LabProfile{JobPrefix: "HGL", VerifyURL: "https://v/?job=", Website: "w", Email: "e", Phone: "p"}
	v := lab.View(CertificateRecord{JobNo: 42, Item: "Ring"})

	assert.Equal(t, "HGL00042", v.DisplayID)
	assert.Equal(t, "https://v/?job=42", v.QRPayload)
	assert.Equal(t, CertificateStatusIssued, v.Status)
	assert.Equal(t, "w | e | p", lab.ContactLine())
}

func TestItemLinesSummary(t *testing.T) {
	lines := ItemLines{{Name: "Ring", Qty: 2}, {Name: "Chain", Qty: 1}}
	assert.Equal(t, "Ring x2, Chain", lines.Summary())
	assert.Equal(t, 3, lines.TotalPieces())
	assert.Equal(t, "", ItemLines(nil).Summary())
}

func TestItemLinesDecodesLegacySummary(t *testing.T) {
	var r IntakeRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","items":"Ring x2, Nose Pin, Bangle x10"}`), &r))

	assert.Equal(t, ItemLines{
		{Name: "Ring", Qty: 2},
		{Name: "Nose Pin", Qty: 1},
		{Name: "Bangle", Qty: 10},
	}, r.Items)
	assert.Equal(t, StatusReceived, r.DisplayStatus())
}

func TestItemLinesDecodesArray(t *testing.T) {
	var ls ItemLines
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"Coin","qty":4}]`), &ls))
	assert.Equal(t, ItemLines{{Name: "Coin", Qty: 4}}, ls)

	require.NoError(t, json.Unmarshal([]byte(`null`), &ls))
	assert.Nil(t, ls)
}

func TestParseItemsSummaryRoundTrip(t *testing.T) {
	lines := ItemLines{{Name: "Ring", Qty: 3}, {Name: "Chain", Qty: 1}, {Name: "Tops", Qty: 12}}
	assert.Equal(t, lines, ParseItemsSummary(lines.Summary()))
	assert.Nil(t, ParseItemsSummary(Placeholder))
}

func TestFieldText(t *testing.T) {
	tests := []struct {
		raw  string
		want FieldText
	}{
		{`"12.5"`, "12.5"},
		{`12.5`, "12.5"},
		{`3`, "3"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f FieldText
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.want, f)
		})
	}

	var f FieldText
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, OrPlaceholder("   "))
	assert.Equal(t, "Jaipur", OrPlaceholder(" Jaipur "))
}

func TestClosedSets(t *testing.T) {
	for _, it := range Items {
		assert.True(t, IsCatalogItem(it), it)
	}
	assert.False(t, IsCatalogItem("ring"))

	p, ok := ParsePurity("22K (916)")
	assert.True(t, ok)
	assert.Equal(t, Purity22K, p)
	_, ok = ParsePurity("21K")
	assert.False(t, ok)

	m, ok := ParseMarkingType(string(DefaultMarkingType))
	assert.True(t, ok)
	assert.Equal(t, MarkingLSFS, m)

	_, ok = ParseIntakeStatus("Lost")
	assert.False(t, ok)

	c := NewCatalog()
	assert.Len(t, c.Purities, 6)
	assert.Len(t, c.Statuses, 5)
	assert.Contains(t, fmt.Sprint(c.Items), ItemOther)
}
