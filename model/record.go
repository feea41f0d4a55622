// model/record.go
package model

// AssetTargetFields are the asset-level fields extracted from upstream
// responses, in the order they appear in exported CSV files.
var AssetTargetFields = []string{
	"id", "serviceTag", "orderBuid", "shipDate", "productCode",
	"localChannel", "productId", "productLineDescription",
	"productFamily", "systemDescription", "productLobDescription",
	"countryCode", "duplicated", "invalid",
}

// EntitlementTargetFields are the entitlement-level fields extracted from
// upstream responses, in CSV column order.
var EntitlementTargetFields = []string{
	"itemNumber", "startDate", "endDate", "entitlementType",
	"serviceLevelCode", "serviceLevelDescription", "serviceLevelGroup",
}

// MetadataFields are caller-supplied columns carried through from the batch
// input file into the export.
var MetadataFields = []string{"warranty", "acquisition_date", "warranty_expiry_date"}

// Record is one flattened export row: a merge of one asset's fields with one
// of its entitlements (or the asset fields alone when no entitlements exist).
// Fields absent upstream are absent from the map; they are rendered as empty
// strings only when the record is serialized.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ExportColumns returns the fixed CSV column order: a leading name column
// when withName is set, then asset fields, entitlement fields, and the
// metadata columns when withMetadata is set.
func ExportColumns(withName, withMetadata bool) []string {
	var cols []string
	if withName {
		cols = append(cols, "name")
	}
	cols = append(cols, AssetTargetFields...)
	cols = append(cols, EntitlementTargetFields...)
	if withMetadata {
		cols = append(cols, MetadataFields...)
	}
	return cols
}
