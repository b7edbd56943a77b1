package cpio

// Session describes the outcome of one Extract call.
type Session struct {
	// Root is the absolute destination directory.
	Root string

	// Files maps each extracted record name, sanitized the same way as for
	// path resolution, to the absolute path it was written to. When several
	// records share a sanitized name the last one wins.
	Files map[string]string

	// Paths lists every written path once, in extraction order.
	Paths []string

	// Skipped lists the names of records excluded by a filter.
	Skipped []string
}

func newSession(root string) *Session {
	return &Session{Root: root, Files: make(map[string]string)}
}

// Lookup returns the path a sanitized record name was extracted to.
func (s *Session) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	p, ok := s.Files[name]
	return p, ok
}

// Len returns the number of distinct record names extracted.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Files)
}

func (s *Session) record(name, path string) {
	s.Files[name] = path
	for _, p := range s.Paths {
		if p == path {
			return
		}
	}
	s.Paths = append(s.Paths, path)
}
