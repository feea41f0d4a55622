// normalize/extract.go

// Package normalize flattens the upstream entitlement responses into export
// records. The upstream service returns several structurally different JSON
// shapes for the same data; extraction tolerates all of them and never fails.
// Malformed or missing fields degrade to omission, because partial
// entitlement data is more useful than a hard failure.
package normalize

import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/assetops/entitlements/model"
)

// shape is the recognized top-level layout of an upstream response, decided
// once per extraction and then dispatched.
type shape int

const (
	shapeUnknown shape = iota
	// shapeAssetList is a top-level array of asset objects, each optionally
	// holding a nested "entitlements" array.
	shapeAssetList
	// shapeWrappedData is an object whose "data" key holds such an array.
	shapeWrappedData
	// shapeFlatEntitlements is an object whose "entitlements" key holds
	// entitlement objects directly, with no asset wrapping.
	shapeFlatEntitlements
	// shapeFallback is any other object; its values are scanned for arrays
	// of assets or entitlement-shaped objects.
	shapeFallback
)

// Normalizer turns raw upstream payloads into flat export records. The
// logger is a capability for debug tracing; pass nil for silence.
type Normalizer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// Extract parses raw JSON and returns one record per asset/entitlement pair.
// Unparseable input and unrecognized shapes yield an empty, non-nil slice.
func (n *Normalizer) Extract(raw []byte) []model.Record {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		n.log.Debug("Payload is not valid JSON", zap.Error(err))
		return []model.Record{}
	}
	return n.ExtractValue(v)
}

// ExtractValue flattens an already-decoded JSON value.
func (n *Normalizer) ExtractValue(v any) []model.Record {
	records := []model.Record{}

	switch detectShape(v) {
	case shapeAssetList:
		records = n.extractAssetList(v.([]any))
	case shapeWrappedData:
		records = n.extractAssetList(v.(map[string]any)["data"].([]any))
	case shapeFlatEntitlements:
		records = n.extractFlatEntitlements(v.(map[string]any)["entitlements"].([]any))
	case shapeFallback:
		records = n.extractFallback(v.(map[string]any))
	default:
		n.log.Debug("Unrecognized payload shape")
	}

	n.log.Debug("Extraction complete", zap.Int("records", len(records)))
	return records
}

func detectShape(v any) shape {
	switch t := v.(type) {
	case []any:
		return shapeAssetList
	case map[string]any:
		if _, ok := t["data"].([]any); ok {
			return shapeWrappedData
		}
		if _, ok := t["entitlements"].([]any); ok {
			return shapeFlatEntitlements
		}
		return shapeFallback
	default:
		return shapeUnknown
	}
}

// extractAssetList handles the asset-array shapes: one record per nested
// entitlement, or the asset fields alone when no entitlements exist.
func (n *Normalizer) extractAssetList(items []any) []model.Record {
	records := []model.Record{}
	for _, item := range items {
		asset, ok := item.(map[string]any)
		if !ok {
			continue
		}
		assetData := collectFields(asset, model.AssetTargetFields)

		if ents, ok := asset["entitlements"].([]any); ok {
			n.log.Debug("Scanning nested entitlements",
				zap.String("serviceTag", assetData["serviceTag"]),
				zap.Int("count", len(ents)))
			records = append(records, scanEntitlements(assetData, ents)...)
		} else if len(assetData) > 0 {
			records = append(records, assetData)
		}
	}
	return records
}

// extractFlatEntitlements handles the shape where entitlement objects appear
// at the top level with no asset wrapping.
func (n *Normalizer) extractFlatEntitlements(ents []any) []model.Record {
	records := []model.Record{}
	for _, e := range ents {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		fields := collectFields(obj, model.EntitlementTargetFields)
		if len(fields) > 0 {
			records = append(records, fields)
		}
	}
	return records
}

// extractFallback scans an arbitrary object: array values are treated as
// asset lists, object values are probed for entitlement-shaped fields.
func (n *Normalizer) extractFallback(obj map[string]any) []model.Record {
	records := []model.Record{}
	for key, value := range obj {
		switch t := value.(type) {
		case []any:
			n.log.Debug("Fallback scan found array value", zap.String("key", key))
			records = append(records, n.extractAssetList(t)...)
		case map[string]any:
			fields := collectFields(t, model.EntitlementTargetFields)
			if len(fields) > 0 {
				records = append(records, fields)
			}
		}
	}
	return records
}

// scanEntitlements merges each entitlement's fields with the asset fields,
// one record per entitlement, and stops scanning the sequence as soon as the
// three headline fields (serviceLevelDescription, startDate, endDate) have
// each been seen at least once across already-processed entries. Multi-
// entitlement assets therefore usually yield a single record; this matches
// the observed upstream contract. A collect-all variant only needs to
// replace this function.
func scanEntitlements(assetData model.Record, ents []any) []model.Record {
	records := []model.Record{}
	var sawLevel, sawStart, sawEnd bool

	for _, e := range ents {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		rec := assetData.Clone()
		for k, v := range collectFields(obj, model.EntitlementTargetFields) {
			rec[k] = v
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}

		if _, ok := rec["serviceLevelDescription"]; ok {
			sawLevel = true
		}
		if _, ok := rec["startDate"]; ok {
			sawStart = true
		}
		if _, ok := rec["endDate"]; ok {
			sawEnd = true
		}
		if sawLevel && sawStart && sawEnd {
			break
		}
	}
	return records
}

// collectFields copies the target fields present in obj into a fresh record.
// Absent fields stay absent; scalar values are rendered as strings.
func collectFields(obj map[string]any, targets []string) model.Record {
	out := model.Record{}
	for _, key := range targets {
		v, ok := obj[key]
		if !ok {
			continue
		}
		if s, ok := stringify(v); ok {
			out[key] = s
		}
	}
	return out
}

// stringify renders a decoded JSON scalar as a string. Composite values are
// not extractable and report ok=false.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
