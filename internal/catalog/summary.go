package catalog

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary holds aggregate figures for a SystemMap.
type Summary struct {
	Systems          int
	Planets          int
	Positioned       int // systems with a full position triple
	MeanPlanets      float64
	MeanStarTemp     float64 // NaN when no temperatures are known
	MedianSemiMajor  float64 // NaN when no axes are known
	PlanetsByType    map[PlanetType]int
	LargestSystem    string
	LargestSystemLen int
}

// Summarize computes aggregate statistics for the systems.
func Summarize(m SystemMap) Summary {
	s := Summary{
		Systems:         m.Len(),
		PlanetsByType:   make(map[PlanetType]int),
		MeanStarTemp:    math.NaN(),
		MedianSemiMajor: math.NaN(),
	}

	var counts, temps, axes []float64
	for _, sys := range m.Systems() {
		counts = append(counts, float64(len(sys.Planets)))
		s.Planets += len(sys.Planets)
		if _, ok := sys.Star.Position(); ok {
			s.Positioned++
		}
		if finite(sys.Star.StarTemp) {
			temps = append(temps, *sys.Star.StarTemp)
		}
		if len(sys.Planets) > s.LargestSystemLen {
			s.LargestSystem = sys.Hostname()
			s.LargestSystemLen = len(sys.Planets)
		}
		for _, p := range sys.Planets {
			s.PlanetsByType[p.Type]++
			if finite(p.SemiMajorAxis) {
				axes = append(axes, *p.SemiMajorAxis)
			}
		}
	}

	if len(counts) > 0 {
		s.MeanPlanets = stat.Mean(counts, nil)
	}
	if len(temps) > 0 {
		s.MeanStarTemp = stat.Mean(temps, nil)
	}
	if len(axes) > 0 {
		sort.Float64s(axes)
		s.MedianSemiMajor = stat.Quantile(0.5, stat.Empirical, axes, nil)
	}
	return s
}

// WriteSummaryTable writes a text summary of the systems to w.
func WriteSummaryTable(w io.Writer, m SystemMap, timestamp time.Time) {
	s := Summarize(m)

	fmt.Fprintf(w, "Exoplanet Catalog @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if s.Systems == 0 {
		fmt.Fprintln(w, "No star systems")
		return
	}

	fmt.Fprintf(w, "%-28s %-8s %-10s %-8s %-10s\n", "Host", "Planets", "Teff (K)", "Type", "Position")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, sys := range m.Systems() {
		pos := "-"
		if p, ok := sys.Star.Position(); ok {
			pos = fmt.Sprintf("%.1f,%.1f,%.1f", p.X, p.Y, p.Z)
		}
		spec := "-"
		if sys.Star.SpectralType != nil && *sys.Star.SpectralType != "" {
			spec = *sys.Star.SpectralType
		}
		fmt.Fprintf(w, "%-28s %-8d %-10s %-8s %-10s\n",
			truncateStr(sys.Hostname(), 28),
			len(sys.Planets),
			formatOptional(sys.Star.StarTemp, "%.0f"),
			spec,
			pos,
		)
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "Total: %d systems, %d planets (%d positioned)\n", s.Systems, s.Planets, s.Positioned)
	fmt.Fprintf(w, "Mean planets/system: %.2f  Largest: %s (%d)\n", s.MeanPlanets, s.LargestSystem, s.LargestSystemLen)
	if !math.IsNaN(s.MeanStarTemp) {
		fmt.Fprintf(w, "Mean star temperature: %.0f K\n", s.MeanStarTemp)
	}
	if !math.IsNaN(s.MedianSemiMajor) {
		fmt.Fprintf(w, "Median semi-major axis: %.3f AU\n", s.MedianSemiMajor)
	}

	types := []PlanetType{GasGiant, NeptuneLike, SuperEarth, Terrestrial, UnknownType}
	parts := make([]string, 0, len(types))
	for _, t := range types {
		if n := s.PlanetsByType[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", t, n))
		}
	}
	fmt.Fprintf(w, "By type: %s\n", strings.Join(parts, ", "))
}

func formatOptional(v *float64, format string) string {
	if !finite(v) {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
