package tool

import "encoding/json"

// PlacesSearch is a tool that finds places, venues, or restaurants via
// Serper's places endpoint and returns the results as a JSON string.
type PlacesSearch struct {
	opts SerperOptions
}

// NewPlacesSearch constructs the places search tool.
func NewPlacesSearch(optFns ...func(o *SerperOptions)) *PlacesSearch {
	return &PlacesSearch{opts: newSerperOptions(optFns)}
}

// Name implements Tool.
func (t *PlacesSearch) Name() string { return "google_places_search" }

// Description implements Tool.
func (t *PlacesSearch) Description() string {
	return "Finds places, venues, or restaurants using Serper's places endpoint."
}

// Parameters implements Tool.
func (t *PlacesSearch) Parameters() map[string]any {
	return queryOnlySchema("Search query for places, venues, or restaurants.")
}

// Call implements Tool.
func (t *PlacesSearch) Call(toolCtx *Context, args map[string]any) (string, error) {
	decoded, errText := serperPost(toolCtx, t.opts, "/places", stringArg(args, "query"), "places")
	if errText != "" {
		return errText, nil
	}
	places, ok := decoded["places"]
	if !ok || string(places) == "[]" || string(places) == "null" {
		out, _ := json.Marshal(map[string]any{"places": []any{}, "message": "No places returned."})
		return string(out), nil
	}
	return string(places), nil
}
