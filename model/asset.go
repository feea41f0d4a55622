// model/asset.go
package model

// Asset is one row of the batch input file: a display name, the service tag
// used for lookups, and optional warranty metadata carried into the export.
type Asset struct {
	Name               string `json:"name"`
	ServiceTag         string `json:"serviceTag"`
	Warranty           string `json:"warranty,omitempty"`
	AcquisitionDate    string `json:"acquisitionDate,omitempty"`
	WarrantyExpiryDate string `json:"warrantyExpiryDate,omitempty"`
}

// WarrantySummary is the condensed view served by the HTTP API: the headline
// warranty fields for a single service tag.
type WarrantySummary struct {
	ServiceTag              string `json:"serviceTag"`
	ProductLineDescription  string `json:"productLineDescription"`
	ServiceLevelDescription string `json:"serviceLevelDescription"`
	CountryCode             string `json:"countryCode"`
	StartDate               string `json:"startDate"`
	EndDate                 string `json:"endDate"`
	ShipDate                string `json:"shipDate"`
}

// SummaryFromRecord builds a WarrantySummary from the first flattened record
// of a response. The requested tag is back-filled when upstream omitted it.
func SummaryFromRecord(rec Record, requestedTag string) WarrantySummary {
	s := WarrantySummary{
		ServiceTag:              rec["serviceTag"],
		ProductLineDescription:  rec["productLineDescription"],
		ServiceLevelDescription: rec["serviceLevelDescription"],
		CountryCode:             rec["countryCode"],
		StartDate:               rec["startDate"],
		EndDate:                 rec["endDate"],
		ShipDate:                rec["shipDate"],
	}
	if s.ServiceTag == "" {
		s.ServiceTag = requestedTag
	}
	return s
}
