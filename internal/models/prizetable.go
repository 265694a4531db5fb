package models

// PrizeTable resolves hit counts to the per-share payout of one draw.
// Tiers whose names are not hit labels are kept out of the table.
type PrizeTable struct {
	amounts map[Hits]int64
	skipped []string
}

// NewPrizeTable indexes tiers by their hit label. A name must be exactly the
// canonical label ("02+1 oikein" is skipped). If two tiers share a label the
// first one wins.
func NewPrizeTable(tiers []PrizeTier) *PrizeTable {
	t := &PrizeTable{amounts: make(map[Hits]int64, len(tiers))}
	for _, tier := range tiers {
		h, err := ParseLabel(tier.Name)
		if err != nil || h.Label() != tier.Name {
			t.skipped = append(t.skipped, tier.Name)
			continue
		}
		if _, exists := t.amounts[h]; exists {
			continue
		}
		t.amounts[h] = tier.ShareAmount
	}
	return t
}

// Lookup returns the share amount for h, or 0 when no tier pays for it.
func (t *PrizeTable) Lookup(h Hits) int64 {
	return t.amounts[h]
}

// LookupLabel is Lookup keyed by the published label string.
func (t *PrizeTable) LookupLabel(label string) int64 {
	h, err := ParseLabel(label)
	if err != nil || h.Label() != label {
		return 0
	}
	return t.Lookup(h)
}

// Len is the number of indexed tiers.
func (t *PrizeTable) Len() int {
	return len(t.amounts)
}

// Skipped lists tier names that are not canonical hit labels.
func (t *PrizeTable) Skipped() []string {
	return t.skipped
}
