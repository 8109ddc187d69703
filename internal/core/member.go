package core

// Member is one of the fixed group participants. The set is closed: nobody
// joins or leaves at runtime, and every structure keyed by member covers
// exactly this set.
type Member string

const (
	MemberVu    Member = "Vũ"
	MemberDuyen Member = "Duyên"
	MemberPhi   Member = "Phi"
	MemberTroi  Member = "Trổi"
)

var members = []Member{MemberVu, MemberDuyen, MemberPhi, MemberTroi}

// Members returns the registry in its canonical order.
func Members() []Member {
	out := make([]Member, len(members))
	copy(out, members)
	return out
}

// ParseMember resolves a raw name against the registry.
func ParseMember(s string) (Member, bool) {
	for _, m := range members {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// NormalizeSplit fills a possibly partial split mapping so that every member
// has an explicit flag. Missing means false; this is the only place that rule
// is applied, so consumers never see a partial map.
func NormalizeSplit(in map[Member]bool) map[Member]bool {
	out := make(map[Member]bool, len(members))
	for _, m := range members {
		out[m] = in[m]
	}
	return out
}
