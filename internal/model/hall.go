package model

// Halls is the fixed catalog of bookable venues.  The set is part of the
// deployment, not user data: there is no halls table, and events copy
// the display metadata from this list at write time.
var Halls = []HallRef{
	{ID: "BIG_1", Name: "Vrindavana Main Hall", Subname: "2nd Floor"},
	{ID: "BIG_2", Name: "Vrindavana Mini Hall", Subname: "2nd Floor"},
	{ID: "MINI_1", Name: "Kamadhenu Main Hall", Subname: "3rd Floor"},
	{ID: "MINI_2", Name: "Kamadhenu Mini Hall", Subname: "3rd Floor"},
	{ID: "HOMA_1", Name: "Homa Hall", Subname: "4th Floor"},
}

// HallByID looks a hall up in the catalog.  The second return value is
// false when the id is unknown.
func HallByID(id string) (HallRef, bool) {
	for _, h := range Halls {
		if h.ID == id {
			return h, true
		}
	}
	return HallRef{}, false
}
