package domain

// Outcome of a single upstream lookup.
type ResultKind int

const (
	// Upstream returned at least one match.
	ResultOK ResultKind = iota
	// The lookup failed (network, status, decoding); Reason holds the description.
	ResultFailed
	// Upstream answered but had no match; the city is left out of published data.
	ResultNoMatch
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultFailed:
		return "failed"
	case ResultNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Tagged per-city lookup result. Only the field matching Kind is meaningful.
type CityResult struct {
	Kind        ResultKind
	Coordinates Coordinates
	Reason      string
}

func OK(c Coordinates) CityResult { return CityResult{Kind: ResultOK, Coordinates: c} }

func Failed(reason string) CityResult { return CityResult{Kind: ResultFailed, Reason: reason} }

func NoMatch() CityResult { return CityResult{Kind: ResultNoMatch} }
