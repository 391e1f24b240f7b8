package domaingate

// agriKeywords and nonAgriKeywords are per-language whitelists/blacklists.
// Trimmed relative to the source validator's much larger lists, but keep
// the same category coverage (livestock species, strains, health,
// nutrition, husbandry, environment, economics) so the scoring model
// behaves the same way on realistic queries.
var agriKeywords = map[string][]string{
	"en": {
		"chicken", "chickens", "poultry", "broiler", "broilers", "layer", "layers",
		"rooster", "roosters", "hen", "hens", "chick", "chicks", "egg", "eggs",
		"flock", "flocks", "aviculture", "avian",
		"ross", "ross 308", "ross 708", "cobb", "cobb 500", "cobb 700", "hubbard",
		"isa", "lohmann", "strain", "strains", "breed", "breeds", "line", "lines",
		"veterinary", "vaccination", "vaccine", "vaccines", "disease", "diseases",
		"mortality", "symptom", "symptoms", "diagnosis", "treatment", "antibiotic",
		"antibiotics", "biosecurity", "coccidiosis", "newcastle", "gumboro",
		"nutrition", "feed", "feeding", "ration", "rations", "starter", "grower",
		"finisher", "protein", "vitamin", "fcr", "feed conversion",
		"farming", "farm", "husbandry", "livestock", "housing", "barn",
		"stocking density", "density", "ventilation", "temperature", "humidity",
		"lighting", "photoperiod", "litter",
		"body weight", "weight gain", "performance", "growth",
		"cost", "profitability", "margin",
	},
	"fr": {
		"poulet", "poulets", "poule", "poules", "volaille", "volailles", "coq", "coqs",
		"poussin", "poussins", "œuf", "œufs", "oeuf", "oeufs", "aviculture", "aviaire",
		"élevage", "elevage", "troupeau", "bande", "bandes", "lot", "lots",
		"ross", "ross 308", "cobb", "cobb 500", "hubbard", "isa", "lohmann",
		"souche", "souches", "lignée", "lignées", "race", "races",
		"vétérinaire", "vaccination", "vaccin", "vaccins", "maladie", "maladies",
		"mortalité", "symptôme", "symptômes", "diagnostic", "traitement",
		"antibiotique", "antibiotiques", "biosécurité", "coccidiose", "newcastle",
		"gumboro",
		"nutrition", "alimentation", "aliment", "aliments", "ration", "rations",
		"starter", "grower", "finisher", "protéine", "vitamine", "ic",
		"indice de consommation", "conversion alimentaire",
		"ferme", "fermes", "bâtiment", "poulailler", "poulaillers",
		"densité", "ventilation", "température", "humidité", "éclairage",
		"photopériode", "litière",
		"poids", "croissance", "performance", "performances", "grossir", "grossissent",
		"coût", "rentabilité", "marge",
	},
}

var nonAgriKeywords = map[string][]string{
	"en": {
		"finance", "bank", "banking", "investment", "stock", "stocks", "crypto",
		"bitcoin", "ethereum", "trading", "money",
		"beauty", "makeup", "cosmetic", "cosmetics", "fashion", "clothing", "style",
		"cooking", "recipe", "recipes", "restaurant", "gastronomy", "chef", "culinary",
		"sport", "sports", "football", "tennis", "basketball", "athlete", "competition",
		"technology", "computer", "smartphone", "software", "internet", "web",
		"politics", "election", "government", "president",
		"movie", "film", "music", "concert",
	},
	"fr": {
		"finance", "finances", "banque", "banques", "investissement", "investissements",
		"bourse", "action", "actions", "crypto", "bitcoin", "ethereum", "trading",
		"beauté", "maquillage", "cosmétique", "cosmétiques", "mode", "vêtement",
		"vêtements", "cuisine", "recette", "recettes", "restaurant", "gastronomie",
		"chef", "sport", "football", "tennis", "basketball", "athlète", "compétition",
		"technologie", "informatique", "ordinateur", "smartphone", "logiciel",
		"internet", "politique", "élection", "gouvernement", "président",
		"film", "musique", "concert",
	},
}
