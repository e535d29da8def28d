package catalog

// TrainerItem is a storefront catalog entry. The catalog is fixed at build
// time; prices are in satoshis.
type TrainerItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	InscriptionID string `json:"inscriptionId"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
}

var trainers = []TrainerItem{
	{
		ID:            "cum-trainer",
		Name:          "Cum Trainer",
		InscriptionID: "c1eeef12fd60553d15b3b77afaa521d9b0382957e168333f5c28e70b225732b8i0",
		Description:   "Interactive HTML Ordinal - An exclusive training experience on Bitcoin.",
		Price:         5000,
	},
	{
		ID:            "gag-trainer",
		Name:          "Gag Trainer",
		InscriptionID: "217bb301e32c4dd77f9e0a193f76f941d466a28a22d632755f90fce27e47aeebi0",
		Description:   "Interactive HTML Ordinal - Master the art with this unique trainer.",
		Price:         5000,
	},
	{
		ID:            "squirt-trainer",
		Name:          "Squirt Trainer",
		InscriptionID: "73901824d5c9b590a7b27bdda37ee4372acf1f4c36a429ed04dead590f020373i0",
		Description:   "Interactive HTML Ordinal - Advanced training techniques encoded on-chain.",
		Price:         5000,
	},
}

func Trainers() []TrainerItem {
	out := make([]TrainerItem, len(trainers))
	copy(out, trainers)
	return out
}

func Find(id string) (TrainerItem, bool) {
	for _, t := range trainers {
		if t.ID == id {
			return t, true
		}
	}
	return TrainerItem{}, false
}
