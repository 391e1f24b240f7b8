package router

// Concept keyword tables. Each category maps a concept name to its
// surface-form keyword list; a category's score is the fraction of its
// concepts that have at least one keyword present in the query.

var performanceConcepts = map[string][]string{
	"weight":      {"weight", "poids", "bw", "body weight", "live weight", "masse"},
	"growth":      {"growth", "gain", "croissance", "adg", "daily gain", "gain quotidien"},
	"fcr":         {"fcr", "feed conversion", "conversion alimentaire", "ic", "indice consommation"},
	"mortality":   {"mortality", "mortalite", "mort", "death", "viabilite", "viability"},
	"feed_intake": {"intake", "consommation", "consumption", "ingestion"},
	"targets":     {"target", "objectif", "goal", "standard", "norme", "specification"},
	"performance": {"performance", "resultat", "result", "efficacite"},
}

var nutritionConcepts = map[string][]string{
	"protein":     {"protein", "proteine", "crude protein", "cp"},
	"energy":      {"energy", "energie", "me", "metabolizable energy", "kcal"},
	"amino_acids": {"lysine", "methionine", "threonine", "tryptophan", "acides amines"},
	"minerals":    {"calcium", "phosphorus", "sodium", "phosphore", "mineraux"},
	"vitamins":    {"vitamin", "vitamine", "vit", "supplement"},
	"feed":        {"feed", "aliment", "diet", "ration", "formulation"},
}

var healthConcepts = map[string][]string{
	"disease":     {"disease", "maladie", "pathology", "pathologie", "infection"},
	"vaccine":     {"vaccine", "vaccin", "vaccination", "immunization"},
	"treatment":   {"treatment", "traitement", "medication", "medicament", "antibiotic"},
	"biosecurity": {"biosecurity", "biosecurite", "hygiene", "disinfection"},
	"welfare":     {"welfare", "bien-etre", "stress", "comfort", "confort"},
}

var managementConcepts = map[string][]string{
	"housing":     {"housing", "logement", "cage", "aviary", "voliere", "density"},
	"environment": {"temperature", "humidity", "humidite", "ventilation"},
	"lighting":    {"light", "lumiere", "eclairage", "photoperiod", "photoperiode"},
	"water":       {"water", "eau", "drinking", "abreuvement", "nipple"},
}

var speciesIndicators = map[string][]string{
	"broiler": {"broiler", "poulet de chair", "chair", "meat", "viande"},
	"layer":   {"layer", "pondeuse", "laying", "ponte", "egg", "oeuf"},
	"breeder": {"breeder", "reproducteur", "parent", "breeding", "reproduction"},
	"duck":    {"duck", "canard", "waterfowl"},
	"turkey":  {"turkey", "dinde", "dindon"},
}

var lineIndicators = map[string][]string{
	"ross":     {"ross", "308", "708", "ap95"},
	"cobb":     {"cobb", "500", "700"},
	"hubbard":  {"hubbard", "jv", "classic"},
	"lohmann":  {"lohmann", "brown", "classic", "lite"},
	"hyline":   {"hyline", "hy-line", "w36", "w80", "brown"},
	"isabrown": {"isa", "brown", "warren"},
}

var sexMaleTerms = []string{"male", "males", "coq", "coqs", "rooster", "roosters"}
var sexFemaleTerms = []string{"female", "femelle", "hen", "poule"}
