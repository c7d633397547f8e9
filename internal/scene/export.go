package scene

import (
	"encoding/json"
	"io"
	"time"
)

// SnapshotExport is the JSON-serializable representation of a render set.
type SnapshotExport struct {
	GeneratedAt    time.Time    `json:"generated_at"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	Sun            BodyExport   `json:"sun"`
	Stars          []BodyExport `json:"stars"`
	Planets        []BodyExport `json:"planets"`
}

// BodyExport is a JSON-friendly body.
type BodyExport struct {
	Key      string     `json:"key"`
	Name     string     `json:"name"`
	Host     string     `json:"host,omitempty"`
	Type     string     `json:"type,omitempty"`
	Position [3]float64 `json:"position"`
	Radius   float64    `json:"radius"`
	Color    string     `json:"color"`
	Glyph    string     `json:"glyph"`
}

// Export converts a render set to its exportable form.
func Export(rs RenderSet, at time.Time) *SnapshotExport {
	export := &SnapshotExport{
		GeneratedAt:    at,
		ElapsedSeconds: rs.Elapsed.Seconds(),
		Sun:            exportBody(rs.Sun),
		Stars:          make([]BodyExport, 0, len(rs.Stars)),
		Planets:        make([]BodyExport, 0, len(rs.Planets)),
	}
	for _, b := range rs.Stars {
		export.Stars = append(export.Stars, exportBody(b))
	}
	for _, b := range rs.Planets {
		export.Planets = append(export.Planets, exportBody(b))
	}
	return export
}

func exportBody(b Body) BodyExport {
	out := BodyExport{
		Key:      b.Key,
		Name:     b.Name,
		Host:     b.Host,
		Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
		Radius:   b.Radius,
		Color:    b.Color.Hex(),
		Glyph:    string(b.Glyph),
	}
	if b.Kind == BodyPlanet {
		out.Type = b.Type.String()
	}
	return out
}

// WriteJSON writes the snapshot as indented JSON.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
