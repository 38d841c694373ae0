// internal/discount/tiers.go
package discount

// Tier is one step of the discount ladder: Size members unlock Discount
// percent off.
type Tier struct {
	Size     int
	Discount int
	Label    string
}

// DefaultTiers is the standard ladder shown across the lobby, invite and
// business views.
var DefaultTiers = []Tier{
	{Size: 2, Discount: 0, Label: "Standard"},
	{Size: 4, Discount: 20, Label: "20% rabatt"},
	{Size: 6, Discount: 30, Label: "30% rabatt"},
	{Size: 8, Discount: 40, Label: "Beste pris!"},
}

// Selection is the result of resolving a member count against a tier ladder.
type Selection struct {
	// Current is the last tier whose Size <= the member count, or the lowest
	// tier when the group is below every threshold.
	Current Tier
	// Next is the first tier whose Size > the member count; nil once the
	// count meets or exceeds the top tier.
	Next *Tier
	// Progress is memberCount / top tier size, clamped to [0, 1]. Only for
	// the visual progress bar.
	Progress float64
}

// TierFor resolves memberCount against tiers. tiers must be ordered by
// strictly increasing Size and non-empty; DefaultTiers is used when tiers is
// nil or empty.
func TierFor(memberCount int, tiers []Tier) Selection {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}

	sel := Selection{Current: tiers[0]}
	for i, tier := range tiers {
		if tier.Size <= memberCount {
			sel.Current = tier
			continue
		}
		next := tiers[i]
		sel.Next = &next
		break
	}

	maxSize := tiers[len(tiers)-1].Size
	if maxSize > 0 {
		sel.Progress = float64(memberCount) / float64(maxSize)
	}
	if sel.Progress > 1 {
		sel.Progress = 1
	}
	if sel.Progress < 0 {
		sel.Progress = 0
	}
	return sel
}

// MembersToNext returns how many more members are needed to unlock the next
// tier, or 0 when the ladder is maxed out.
func MembersToNext(memberCount int, tiers []Tier) int {
	sel := TierFor(memberCount, tiers)
	if sel.Next == nil {
		return 0
	}
	return sel.Next.Size - memberCount
}
