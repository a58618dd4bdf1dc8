package artikel

// exceptions maps canonical nouns whose gender the rule cascade gets wrong
// or cannot reach. Keys are canonical forms (lower case, ß folded to ss).
var exceptions = map[string]Gender{
	// masculine nouns ending in -e
	"name": Masculine, "käse": Masculine, "junge": Masculine, "löwe": Masculine,
	"affe": Masculine, "hase": Masculine, "kunde": Masculine, "friede": Masculine,
	"glaube": Masculine, "gedanke": Masculine, "buchstabe": Masculine, "funke": Masculine,
	"wille": Masculine, "see": Masculine, "kollege": Masculine, "experte": Masculine,
	"franzose": Masculine, "neffe": Masculine, "bote": Masculine, "rabe": Masculine,

	// masculine nouns caught by a neuter rule
	"baum": Masculine, "raum": Masculine, "traum": Masculine, "schaum": Masculine,
	"irrtum": Masculine, "reichtum": Masculine, "moment": Masculine, "zement": Masculine,
	"kuchen": Masculine, "knochen": Masculine, "drachen": Masculine, "rachen": Masculine,
	"schlüssel": Masculine, "sessel": Masculine, "kessel": Masculine, "esel": Masculine,
	"pinsel": Masculine, "wechsel": Masculine, "gesang": Masculine, "geschmack": Masculine,
	"gewinn": Masculine, "geruch": Masculine, "gegner": Masculine, "geburtstag": Masculine,

	// masculine nouns caught by a feminine rule
	"termin": Masculine, "kamin": Masculine, "papagei": Masculine, "brei": Masculine,
	"schrei": Masculine, "skorpion": Masculine,

	// masculine nouns no rule reaches
	"tag": Masculine, "mann": Masculine, "tisch": Masculine, "stuhl": Masculine,
	"hund": Masculine, "zug": Masculine, "weg": Masculine, "platz": Masculine,
	"wein": Masculine, "monat": Masculine, "abend": Masculine, "morgen": Masculine,
	"regen": Masculine, "schnee": Masculine, "wind": Masculine, "apfel": Masculine,
	"vogel": Masculine, "kopf": Masculine, "fuss": Masculine, "arzt": Masculine,
	"gast": Masculine, "sohn": Masculine,

	// feminine nouns caught by a masculine or neuter rule
	"mutter": Feminine, "tochter": Feminine, "schwester": Feminine, "butter": Feminine,
	"feder": Feminine, "mauer": Feminine, "nummer": Feminine, "kammer": Feminine,
	"oper": Feminine, "insel": Feminine, "achsel": Feminine, "erlaubnis": Feminine,
	"kenntnis": Feminine, "erkenntnis": Feminine, "finsternis": Feminine, "wildnis": Feminine,
	"besorgnis": Feminine, "geschichte": Feminine, "gefahr": Feminine, "geduld": Feminine,
	"geburt": Feminine, "gestalt": Feminine, "gemeinde": Feminine, "gegend": Feminine,
	"gewalt": Feminine, "maus": Feminine, "laus": Feminine,

	// feminine nouns no rule reaches
	"frau": Feminine, "hand": Feminine, "stadt": Feminine, "nacht": Feminine,
	"welt": Feminine, "zeit": Feminine, "arbeit": Feminine, "wand": Feminine,
	"kuh": Feminine, "tür": Feminine, "uhr": Feminine, "milch": Feminine,
	"luft": Feminine, "kraft": Feminine, "angst": Feminine, "wurst": Feminine,
	"bank": Feminine, "kunst": Feminine, "burg": Feminine, "nuss": Feminine,
	"natur": Feminine, "temperatur": Feminine, "literatur": Feminine, "regel": Feminine,
	"tafel": Feminine, "gabel": Feminine,

	// tree species are feminine unless listed in the tree rule
	"eiche": Feminine, "birke": Feminine, "buche": Feminine, "fichte": Feminine,
	"tanne": Feminine, "linde": Feminine, "ulme": Feminine, "esche": Feminine,
	"erle": Feminine, "pappel": Feminine, "weide": Feminine,

	// neuter nouns ending in -e
	"auge": Neuter, "ende": Neuter, "interesse": Neuter, "knie": Neuter,

	// neuter nouns caught by a masculine or feminine rule
	"fenster": Neuter, "zimmer": Neuter, "wasser": Neuter, "messer": Neuter,
	"feuer": Neuter, "theater": Neuter, "abenteuer": Neuter, "ufer": Neuter,
	"muster": Neuter, "wetter": Neuter, "alter": Neuter, "opfer": Neuter,
	"kloster": Neuter, "lager": Neuter, "fieber": Neuter, "silber": Neuter,
	"kupfer": Neuter, "pulver": Neuter, "ruder": Neuter, "haus": Neuter,
	"virus": Neuter, "reich": Neuter, "benzin": Neuter, "magazin": Neuter,
	"vitamin": Neuter, "stadion": Neuter, "abitur": Neuter, "labor": Neuter,

	// neuter nouns no rule reaches
	"ergebnis": Neuter, "kind": Neuter, "buch": Neuter, "auto": Neuter,
	"jahr": Neuter, "land": Neuter, "wort": Neuter, "bild": Neuter,
	"geld": Neuter, "licht": Neuter, "herz": Neuter, "bett": Neuter,
	"brot": Neuter, "dorf": Neuter, "tier": Neuter, "bier": Neuter,
	"papier": Neuter, "klavier": Neuter, "spiel": Neuter, "ziel": Neuter,
	"radio": Neuter, "kino": Neuter, "büro": Neuter, "hotel": Neuter,
	"restaurant": Neuter, "problem": Neuter, "system": Neuter, "programm": Neuter,
	"thema": Neuter, "sofa": Neuter, "tor": Neuter, "ei": Neuter,
}

// Closed vocabularies used by the rule cascade.
var (
	weekdays = set("montag", "dienstag", "mittwoch", "donnerstag", "freitag",
		"samstag", "sonnabend", "sonntag")
	months = set("januar", "jänner", "februar", "märz", "april", "mai", "juni",
		"juli", "august", "september", "oktober", "november", "dezember")
	seasons = set("frühling", "sommer", "herbst", "winter")
	compass = set("norden", "süden", "osten", "westen",
		"nordosten", "nordwesten", "südosten", "südwesten")
	trees       = set("baum", "birke", "eiche", "buche", "fichte", "tanne", "linde", "ahorn", "ulme")
	eExceptions = set("name", "see", "auge", "ende", "interesse", "ergebnis")
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func in(m map[string]struct{}, w string) bool {
	_, ok := m[w]
	return ok
}

// lookupException consults the dictionary with the canonical form, then the base form.
func lookupException(f Form) (Gender, bool) {
	if g, ok := exceptions[f.Canonical]; ok {
		return g, true
	}
	if g, ok := exceptions[f.Base]; ok {
		return g, true
	}
	return Unknown, false
}

// ExceptionCount returns the number of built-in dictionary entries.
func ExceptionCount() int {
	return len(exceptions)
}
