package types

// Tier identifies the completeness level of a cached metrics entry.
// Tiers are monotonically non-decreasing: promotion adds fields, never
// removes them, and an entry is never demoted.
type Tier int

const (
	// TierNone means no entry exists for the record yet.
	TierNone Tier = 0
	// TierBasic has name and size only; cheap enough to compute on first touch.
	TierBasic Tier = 1
	// TierScanned adds line count, detected labels, and a coarse quality score.
	TierScanned Tier = 2
	// TierFull adds the complete per-criterion quality checklist.
	TierFull Tier = 3
)

// Checklist maps a quality criterion name to whether the content passed it.
type Checklist map[string]bool

// MetricsEntry holds the cached metrics for one record. It is a value type;
// the cache hands out copies so a reader never observes a concurrent
// promotion half-applied.
type MetricsEntry struct {
	Tier Tier

	// Tier 1
	Name      string // display name, truncated to 30 runes
	FullName  string // untruncated basename
	SizeBytes int64
	SizeLabel string // human-readable size, e.g. "2.0 KB"

	// Tier 2
	Lines        int
	Labels       []string // sorted detected type labels
	TypeLabel    string   // compact display form, e.g. "GUI, Testing +1"
	QualityScore int
	QualityPct   int
	Stars        int

	// Tier 3
	Checklist Checklist
}

// Clone returns a deep copy of the entry. Labels and Checklist are copied so
// the caller can hold the result across later promotions.
func (e MetricsEntry) Clone() MetricsEntry {
	out := e
	if e.Labels != nil {
		out.Labels = append([]string(nil), e.Labels...)
	}
	if e.Checklist != nil {
		out.Checklist = make(Checklist, len(e.Checklist))
		for k, v := range e.Checklist {
			out.Checklist[k] = v
		}
	}
	return out
}

// StarBand buckets a quality percentage into the 1-3 star rating.
func StarBand(pct int) int {
	switch {
	case pct >= 70:
		return 3
	case pct >= 40:
		return 2
	default:
		return 1
	}
}

// StarString renders a star band the way the record list displays it.
func StarString(stars int) string {
	switch stars {
	case 3:
		return "★★★"
	case 2:
		return "★★☆"
	default:
		return "★☆☆"
	}
}
