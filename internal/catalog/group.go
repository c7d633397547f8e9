package catalog

// Group builds one StarSystem per distinct hostname. The first row seen for
// a host supplies the star-level fields; every row, including that one, is
// appended to the host's planet list.
//
// Every row must carry a non-empty Hostname. Group does not check this.
func Group(rows []Row) SystemMap {
	m := SystemMap{byHost: make(map[string]*StarSystem)}
	for _, row := range rows {
		sys, ok := m.byHost[row.Hostname]
		if !ok {
			sys = &StarSystem{Star: row}
			m.byHost[row.Hostname] = sys
			m.hosts = append(m.hosts, row.Hostname)
		}
		sys.Planets = append(sys.Planets, row)
	}
	return m
}

// ApplyFilter keeps the rows whose planet name appears in names and groups
// the result. An empty name list yields an empty map, never the unfiltered
// catalog.
func ApplyFilter(rows []Row, names []string) SystemMap {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}

	subset := make([]Row, 0, len(names))
	for _, row := range rows {
		if _, ok := keep[row.Name]; ok {
			subset = append(subset, row)
		}
	}
	return Group(subset)
}
