package topology

// Category is the tagged component category used to pick a cell shape.
type Category string

const (
	CategoryNode           Category = "node"
	CategoryStraight       Category = "straight"
	CategoryWaterToAir     Category = "water-to-air"
	CategoryWaterToWater   Category = "water-to-water"
	CategoryAirToAir       Category = "air-to-air"
	CategorySplitter       Category = "splitter"
	CategoryMixer          Category = "mixer"
	CategoryPlenumSplitter Category = "plenum-splitter"
	CategoryPlenumMixer    Category = "plenum-mixer"
	CategoryOutdoorAirMix  Category = "outdoor-air-mixer"
)

// Categories lists every category the layout engine knows how to shape.
var Categories = []Category{
	CategoryNode,
	CategoryStraight,
	CategoryWaterToAir,
	CategoryWaterToWater,
	CategoryAirToAir,
	CategorySplitter,
	CategoryMixer,
	CategoryPlenumSplitter,
	CategoryPlenumMixer,
	CategoryOutdoorAirMix,
}

// Known reports whether c is one of [Categories].
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// IsPlenum reports whether c is a supply or return plenum.
func (c Category) IsPlenum() bool {
	return c == CategoryPlenumSplitter || c == CategoryPlenumMixer
}

// Kind is the loop's medium. Only air loops host outdoor-air subsystems.
type Kind string

const (
	KindPlant         Kind = "plant"
	KindAir           Kind = "air"
	KindRefrigeration Kind = "refrigeration"
)

// Valid reports whether k is a known loop kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPlant, KindAir, KindRefrigeration:
		return true
	}
	return false
}
