// internal/catalog/catalog.go
package catalog

// PricingTier is one row of a business's group-pricing ladder. Size is the
// member count at which the tier applies; prices are NOK per person.
type PricingTier struct {
	Size           int    `json:"size"`
	PricePerPerson int    `json:"pricePerPerson"`
	DiscountLabel  string `json:"discountLabel"`
}

// Business is a catalog entry for an activity or restaurant offering group
// discounts. This is the canonical shape; the backend's /businesses endpoints
// serve the same fields.
type Business struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Category              string        `json:"category"`
	ImageURL              string        `json:"imageUrl"`
	MaxDiscount           string        `json:"maxDiscount"`
	MinGroupSize          int           `json:"minGroupSize"`
	CurrentlyActiveGroups int           `json:"currentlyActiveGroups"`
	Description           string        `json:"description,omitempty"`
	Address               string        `json:"address,omitempty"`
	PricingTiers          []PricingTier `json:"pricingTiers,omitempty"`
}

// PriceFor returns the pricing tier that applies for the given member count:
// the highest tier whose Size does not exceed the count, or the smallest tier
// when the group is below every threshold. ok is false only when the business
// has no pricing tiers at all.
func (b Business) PriceFor(memberCount int) (PricingTier, bool) {
	if len(b.PricingTiers) == 0 {
		return PricingTier{}, false
	}
	applicable := b.PricingTiers[0]
	for _, tier := range b.PricingTiers {
		if tier.Size <= memberCount {
			applicable = tier
		}
	}
	return applicable, true
}

// FindByID looks up a business in the embedded catalog.
func FindByID(id string) (Business, bool) {
	for _, b := range Businesses {
		if b.ID == id {
			return b, true
		}
	}
	return Business{}, false
}

// Businesses is the embedded catalog, used when the backend's /businesses
// endpoint is unavailable and as the single source of pricing tiers.
var Businesses = []Business{
	{
		ID:                    "1",
		Name:                  "Strike Zone Bowling",
		Category:              "Aktivitet",
		ImageURL:              "https://placehold.co/600x400?text=Bowling",
		MaxDiscount:           "Opptil 40% rabatt",
		MinGroupSize:          4,
		CurrentlyActiveGroups: 2,
		Description:           "Oslos beste bowlinghall med 24 baner, arkadespill og en fantastisk bar. Perfekt for vennegrupper, firmafester eller bursdager!",
		Address:               "Storgata 123, 0182 Oslo",
		PricingTiers: []PricingTier{
			{Size: 2, PricePerPerson: 250, DiscountLabel: "Standard"},
			{Size: 4, PricePerPerson: 200, DiscountLabel: "20% rabatt"},
			{Size: 6, PricePerPerson: 175, DiscountLabel: "30% rabatt"},
			{Size: 8, PricePerPerson: 150, DiscountLabel: "Beste pris!"},
		},
	},
	{
		ID:                    "2",
		Name:                  "Luigi's Wood Fired Pizza",
		Category:              "Restaurant",
		ImageURL:              "https://placehold.co/600x400?text=Pizza",
		MaxDiscount:           "Gratis forrett for grupper på 6+",
		MinGroupSize:          6,
		CurrentlyActiveGroups: 0,
		Description:           "Autentisk italiensk pizza bakt i steinovn. Vi bruker kun de beste ingrediensene importert direkte fra Italia.",
		Address:               "Karl Johans gate 45, 0162 Oslo",
		PricingTiers: []PricingTier{
			{Size: 2, PricePerPerson: 350, DiscountLabel: "Standard"},
			{Size: 4, PricePerPerson: 325, DiscountLabel: "Gratis drikke"},
			{Size: 6, PricePerPerson: 300, DiscountLabel: "Gratis forrett"},
			{Size: 10, PricePerPerson: 275, DiscountLabel: "VIP-pakke!"},
		},
	},
	{
		ID:                    "3",
		Name:                  "Velocity Go-Karting",
		Category:              "Adrenalin",
		ImageURL:              "https://placehold.co/600x400?text=Go-Karts",
		MaxDiscount:           "100 kr rabatt per person",
		MinGroupSize:          8,
		CurrentlyActiveGroups: 5,
		Description:           "Norges raskeste innendørs go-kart-bane! Opplev spenningen med profesjonelle elektriske go-karts som når 80 km/t.",
		Address:               "Industriveien 55, 0579 Oslo",
		PricingTiers: []PricingTier{
			{Size: 2, PricePerPerson: 500, DiscountLabel: "Standard"},
			{Size: 4, PricePerPerson: 450, DiscountLabel: "50 kr rabatt"},
			{Size: 8, PricePerPerson: 400, DiscountLabel: "100 kr rabatt"},
			{Size: 12, PricePerPerson: 350, DiscountLabel: "Beste pris!"},
		},
	},
	{
		ID:                    "4",
		Name:                  "The Escape Room Complex",
		Category:              "Aktivitet",
		ImageURL:              "https://placehold.co/600x400?text=Escape+Room",
		MaxDiscount:           "20% rabatt på hverdager",
		MinGroupSize:          3,
		CurrentlyActiveGroups: 1,
		Description:           "6 unike escape rooms med varierende vanskelighetsgrad. Kan du løse gåtene og rømme i tide?",
		Address:               "Grünerløkka 78, 0552 Oslo",
		PricingTiers: []PricingTier{
			{Size: 2, PricePerPerson: 400, DiscountLabel: "Standard"},
			{Size: 3, PricePerPerson: 350, DiscountLabel: "12% rabatt"},
			{Size: 5, PricePerPerson: 320, DiscountLabel: "20% rabatt"},
			{Size: 6, PricePerPerson: 300, DiscountLabel: "Fullt rom-rabatt!"},
		},
	},
}
