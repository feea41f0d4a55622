package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetops/entitlements/model"
)

func TestExtract_AssetListShape(t *testing.T) {
	n := New(nil)
	raw := []byte(`[
		{
			"serviceTag": "ABC123",
			"productLineDescription": "Latitude 7420",
			"countryCode": "US",
			"shipDate": "2023-06-15",
			"entitlements": [
				{
					"itemNumber": "123-4567",
					"serviceLevelDescription": "ProSupport",
					"startDate": "2024-01-01",
					"endDate": "2025-01-01"
				}
			]
		}
	]`)

	records := n.Extract(raw)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "ABC123", rec["serviceTag"])
	assert.Equal(t, "Latitude 7420", rec["productLineDescription"])
	assert.Equal(t, "ProSupport", rec["serviceLevelDescription"])
	assert.Equal(t, "2024-01-01", rec["startDate"])
	assert.Equal(t, "2025-01-01", rec["endDate"])
	assert.Equal(t, "2023-06-15", rec["shipDate"])
}

func TestExtract_WrappedDataShape(t *testing.T) {
	n := New(nil)
	raw := []byte(`{
		"data": [
			{
				"serviceTag": "XYZ789",
				"countryCode": "DE",
				"duplicated": false,
				"entitlements": [
					{"serviceLevelCode": "ND", "serviceLevelDescription": "Next Business Day",
					 "startDate": "2022-03-01", "endDate": "2024-03-01"}
				]
			}
		]
	}`)

	records := n.Extract(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "XYZ789", records[0]["serviceTag"])
	assert.Equal(t, "false", records[0]["duplicated"])
	assert.Equal(t, "Next Business Day", records[0]["serviceLevelDescription"])
}

func TestExtract_FlatEntitlementsShape(t *testing.T) {
	n := New(nil)
	raw := []byte(`{
		"entitlements": [
			{"itemNumber": "111", "entitlementType": "INITIAL", "startDate": "2021-01-01"},
			{"itemNumber": "222", "entitlementType": "EXTENDED", "endDate": "2026-01-01"}
		]
	}`)

	records := n.Extract(raw)
	require.Len(t, records, 2)
	assert.Equal(t, "111", records[0]["itemNumber"])
	assert.Equal(t, "EXTENDED", records[1]["entitlementType"])
	_, present := records[0]["endDate"]
	assert.False(t, present, "absent fields must stay absent, not default")
}

func TestExtract_FallbackShape(t *testing.T) {
	n := New(nil)
	raw := []byte(`{
		"assets": [
			{
				"serviceTag": "FALL01",
				"entitlements": [
					{"serviceLevelDescription": "Basic", "startDate": "2020-01-01", "endDate": "2021-01-01"}
				]
			}
		]
	}`)

	records := n.Extract(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "FALL01", records[0]["serviceTag"])
	assert.Equal(t, "Basic", records[0]["serviceLevelDescription"])
}

func TestExtract_FallbackObjectValue(t *testing.T) {
	n := New(nil)
	raw := []byte(`{
		"warranty": {"serviceLevelDescription": "ProSupport Plus", "endDate": "2027-05-01"}
	}`)

	records := n.Extract(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "ProSupport Plus", records[0]["serviceLevelDescription"])
}

func TestExtract_AssetWithoutEntitlements(t *testing.T) {
	n := New(nil)
	raw := []byte(`[{"serviceTag": "NOENT1", "countryCode": "FR"}]`)

	records := n.Extract(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "NOENT1", records[0]["serviceTag"])
	_, present := records[0]["serviceLevelDescription"]
	assert.False(t, present)
}

func TestExtract_DegenerateInputs(t *testing.T) {
	n := New(nil)

	for name, raw := range map[string][]byte{
		"empty object":   []byte(`{}`),
		"null":           []byte(`null`),
		"bare string":    []byte(`"nope"`),
		"bare number":    []byte(`42`),
		"invalid json":   []byte(`{not json`),
		"empty array":    []byte(`[]`),
		"scalar members": []byte(`[1, "two", null]`),
	} {
		records := n.Extract(raw)
		assert.NotNil(t, records, name)
		assert.Empty(t, records, name)
	}
}

func TestScanEntitlements_StopsOnceHeadlineFieldsSeen(t *testing.T) {
	asset := model.Record{"serviceTag": "MULTI1"}
	ents := []any{
		map[string]any{
			"serviceLevelDescription": "ProSupport",
			"startDate":               "2024-01-01",
			"endDate":                 "2025-01-01",
		},
		map[string]any{
			"serviceLevelDescription": "Keep Your Hard Drive",
			"startDate":               "2024-01-01",
			"endDate":                 "2029-01-01",
		},
	}

	records := scanEntitlements(asset, ents)
	// The first entry completes the headline trio, so the second is never
	// emitted. Pinned deliberately: this is the observed upstream contract.
	require.Len(t, records, 1)
	assert.Equal(t, "ProSupport", records[0]["serviceLevelDescription"])
}

func TestScanEntitlements_ContinuesUntilHeadlineComplete(t *testing.T) {
	asset := model.Record{"serviceTag": "PART01"}
	ents := []any{
		map[string]any{"serviceLevelDescription": "Basic"},
		map[string]any{"startDate": "2024-01-01", "endDate": "2025-01-01"},
		map[string]any{"serviceLevelDescription": "Never reached"},
	}

	records := scanEntitlements(asset, ents)
	require.Len(t, records, 2)
	assert.Equal(t, "Basic", records[0]["serviceLevelDescription"])
	assert.Equal(t, "2024-01-01", records[1]["startDate"])
}

func TestExtract_NumericAndBoolCoercion(t *testing.T) {
	n := New(nil)
	raw := []byte(`[{"serviceTag": "NUM001", "orderBuid": 11, "invalid": true}]`)

	records := n.Extract(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "11", records[0]["orderBuid"])
	assert.Equal(t, "true", records[0]["invalid"])
}

func TestExtract_RecordsAreIndependentCopies(t *testing.T) {
	n := New(nil)
	raw := []byte(`[{"serviceTag": "CPY001", "entitlements": [{"startDate": "2024-01-01"}]}]`)

	first := n.Extract(raw)
	first[0]["serviceTag"] = "mutated"

	second := n.Extract(raw)
	assert.Equal(t, "CPY001", second[0]["serviceTag"])
}
