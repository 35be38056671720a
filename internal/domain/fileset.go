package domain

// FilteredFileSet is the ordered, deduplicated result of a collection pass.
type FilteredFileSet struct {
	files       []string
	index       map[string]struct{}
	whitelisted []string
	blacklisted []string
}

// NewFilteredFileSet builds a set from paths, dropping repeats and keeping first-seen order.
func NewFilteredFileSet(paths ...string) FilteredFileSet {
	var set FilteredFileSet
	for _, p := range paths {
		set.add(p)
	}
	return set
}

func (s *FilteredFileSet) add(path string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[path]; ok {
		return false
	}
	s.index[path] = struct{}{}
	s.files = append(s.files, path)
	return true
}

// Files returns a copy of the paths in insertion order.
func (s FilteredFileSet) Files() []string {
	return append([]string(nil), s.files...)
}

func (s FilteredFileSet) Len() int {
	return len(s.files)
}

func (s FilteredFileSet) Contains(path string) bool {
	_, ok := s.index[path]
	return ok
}

// Whitelisted returns every path that matched a whitelist pattern.
func (s FilteredFileSet) Whitelisted() []string {
	return append([]string(nil), s.whitelisted...)
}

// Blacklisted returns every path that matched a blacklist pattern.
func (s FilteredFileSet) Blacklisted() []string {
	return append([]string(nil), s.blacklisted...)
}

// FileSetBuilder accumulates a FilteredFileSet during a single collection pass.
type FileSetBuilder struct {
	set         FilteredFileSet
	whitelisted map[string]struct{}
	blacklisted map[string]struct{}
}

func NewFileSetBuilder() *FileSetBuilder {
	return &FileSetBuilder{
		whitelisted: make(map[string]struct{}),
		blacklisted: make(map[string]struct{}),
	}
}

// Add records path as included. It returns false when the path was already present.
func (b *FileSetBuilder) Add(path string) bool {
	return b.set.add(path)
}

func (b *FileSetBuilder) MarkWhitelisted(path string) {
	if _, ok := b.whitelisted[path]; ok {
		return
	}
	b.whitelisted[path] = struct{}{}
	b.set.whitelisted = append(b.set.whitelisted, path)
}

func (b *FileSetBuilder) MarkBlacklisted(path string) {
	if _, ok := b.blacklisted[path]; ok {
		return
	}
	b.blacklisted[path] = struct{}{}
	b.set.blacklisted = append(b.set.blacklisted, path)
}

// Build returns the accumulated set. The builder must not be used afterwards.
func (b *FileSetBuilder) Build() FilteredFileSet {
	return b.set
}
