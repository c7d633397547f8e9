package catalog

import (
	"encoding/json"
	"fmt"
)

// ParseCatalog decodes the flat JSON array returned by the catalog endpoint.
// Rows without a hostname cannot be grouped and are dropped; dropped reports
// how many.
func ParseCatalog(data []byte) (rows []Row, dropped int, err error) {
	var raw []Row
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("unmarshal catalog JSON: %w", err)
	}

	rows = make([]Row, 0, len(raw))
	for _, r := range raw {
		if r.Hostname == "" {
			dropped++
			continue
		}
		rows = append(rows, r)
	}
	return rows, dropped, nil
}

// filterResponse is the envelope of the combined filter endpoint. The
// service encodes filtered_data as a JSON string holding the array.
type filterResponse struct {
	FilteredData json.RawMessage `json:"filtered_data"`
}

type filteredPlanet struct {
	Name string `json:"pl_name"`
}

// ParseFilterResponse extracts planet names from a filter response.
//
// Only an undecodable envelope is an error. A missing filtered_data field or
// an inner payload that is not a JSON array of objects yields an empty,
// non-nil name list: no matches is a renderable state.
func ParseFilterResponse(data []byte) ([]string, error) {
	var env filterResponse
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal filter response: %w", err)
	}

	names := []string{}
	if len(env.FilteredData) == 0 {
		return names, nil
	}

	inner := []byte(env.FilteredData)
	var encoded string
	if err := json.Unmarshal(inner, &encoded); err == nil {
		inner = []byte(encoded)
	}

	var planets []filteredPlanet
	if err := json.Unmarshal(inner, &planets); err != nil {
		return names, nil
	}
	for _, p := range planets {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names, nil
}
