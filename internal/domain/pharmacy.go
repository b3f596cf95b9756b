package domain

// Pharmacy is an on-duty pharmacy record as delivered by the duty API. The
// backend uses Turkish field names and provides no stable numeric id; the
// name is the identity key (see Favorites). Records are value objects,
// replaced wholesale on every fetch; only IsFavorite is derived locally.
type Pharmacy struct {
	Name         string  `json:"isim"`
	Address      string  `json:"adres"`
	Phone        string  `json:"telefon"`
	City         string  `json:"il"`
	District     string  `json:"ilce"`
	Neighborhood string  `json:"mahalle"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	IsFavorite bool `json:"isFavorite"`
}

// SameIdentity reports whether two records denote the same pharmacy.
// Identity is by name only; two same-named pharmacies in different
// neighborhoods collide. Known backend data-quality weakness.
func (p Pharmacy) SameIdentity(other Pharmacy) bool {
	return p.Name == other.Name
}
