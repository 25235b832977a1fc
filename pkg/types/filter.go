package types

// FilterSpec describes the type/size/quality constraints for one evaluation.
// It is a pure value: the engine never reads live UI state mid-run, it gets
// an immutable spec and works only from that.
type FilterSpec struct {
	// Labels restricts matches to records whose detected label set intersects
	// this set. Empty means no type constraint.
	Labels []string

	// SizeEnabled gates the size range check.
	SizeEnabled bool
	MinSize     int64
	MaxSize     int64 // 0 means unbounded when SizeEnabled

	// MinQualityPct excludes records scoring below this percentage.
	// 0 disables the quality check.
	MinQualityPct int
}

// IsZero reports whether the spec constrains nothing.
func (f FilterSpec) IsZero() bool {
	return len(f.Labels) == 0 && !f.SizeEnabled && f.MinQualityPct == 0
}

// SearchField selects which record field a text search scans.
type SearchField string

const (
	SearchRepoName SearchField = "repo_name"
	SearchPath     SearchField = "path"
	SearchContent  SearchField = "content"
)

// SearchSpec describes a substring search over one record field.
type SearchSpec struct {
	Field         SearchField
	Term          string
	CaseSensitive bool
}

// SizeOption pairs a display label with its byte value for the size filter.
type SizeOption struct {
	Label string
	Bytes int64
}

// SizeOptions is the fixed menu of size filter bounds.
var SizeOptions = []SizeOption{
	{"1 KB", 1024},
	{"5 KB", 5 * 1024},
	{"10 KB", 10 * 1024},
	{"20 KB", 20 * 1024},
	{"30 KB", 30 * 1024},
	{"50 KB", 10 * 1024},
	{"75 KB", 75 * 1024},
	{"100 KB", 100 * 1024},
	{"200 KB", 200 * 1024},
	{"300 KB", 300 * 1024},
	{"500 KB", 500 * 1024},
	{"1 MB", 1024 * 1024},
	{"2 MB", 2 * 1024 * 1024},
	{"5 MB", 5 * 1024 * 1024},
	{"10 MB", 10 * 1024 * 1024},
	{"100 MB", 100 * 1024 * 1024},
}

// ParseSizeLabel resolves a size option label to bytes. Unknown labels
// resolve to 0.
func ParseSizeLabel(label string) int64 {
	for _, opt := range SizeOptions {
		if opt.Label == label {
			return opt.Bytes
		}
	}
	return 0
}
