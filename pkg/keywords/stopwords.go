package keywords

import "strings"

// Stopword sets keyed by language. The engine picks a set based on the
// detected corpus language; unknown languages fall back to English.

var englishStopwords = map[string]struct{}{
	"about": {}, "above": {}, "across": {}, "after": {}, "again": {},
	"against": {}, "all": {}, "almost": {}, "alone": {}, "along": {},
	"already": {}, "also": {}, "although": {}, "always": {}, "among": {},
	"and": {}, "another": {}, "any": {}, "anyone": {}, "anything": {},
	"are": {}, "aren't": {}, "around": {}, "back": {}, "became": {},
	"because": {}, "become": {}, "becomes": {}, "been": {}, "before": {},
	"behind": {}, "being": {}, "below": {}, "beside": {}, "between": {},
	"beyond": {}, "both": {}, "but": {}, "can": {}, "can't": {},
	"cannot": {}, "could": {}, "couldn't": {}, "did": {}, "didn't": {},
	"does": {}, "doesn't": {}, "doing": {}, "don't": {}, "done": {},
	"down": {}, "during": {}, "each": {}, "either": {}, "else": {},
	"enough": {}, "even": {}, "ever": {}, "every": {}, "everyone": {},
	"everything": {}, "few": {}, "for": {}, "from": {}, "further": {},
	"had": {}, "hadn't": {}, "has": {}, "hasn't": {}, "have": {},
	"haven't": {}, "having": {}, "he'd": {}, "he'll": {}, "he's": {},
	"her": {}, "here": {}, "hers": {}, "herself": {}, "him": {},
	"himself": {}, "his": {}, "how": {}, "however": {}, "i'd": {},
	"i'll": {}, "i'm": {}, "i've": {}, "indeed": {}, "into": {},
	"isn't": {}, "it's": {}, "its": {}, "itself": {}, "just": {},
	"last": {}, "least": {}, "less": {}, "let": {}, "like": {},
	"made": {}, "make": {}, "many": {}, "may": {}, "maybe": {},
	"might": {}, "mine": {}, "more": {}, "most": {}, "mostly": {},
	"much": {}, "must": {}, "mustn't": {}, "myself": {}, "neither": {},
	"never": {}, "next": {}, "nobody": {}, "none": {}, "nor": {},
	"not": {}, "nothing": {}, "now": {}, "off": {}, "often": {},
	"once": {}, "one": {}, "only": {}, "onto": {}, "other": {},
	"others": {}, "otherwise": {}, "our": {}, "ours": {}, "ourselves": {},
	"out": {}, "over": {}, "own": {}, "per": {}, "perhaps": {},
	"please": {}, "put": {}, "rather": {}, "same": {}, "see": {},
	"seem": {}, "seemed": {}, "seems": {}, "several": {}, "she'd": {},
	"she'll": {}, "she's": {}, "should": {}, "shouldn't": {}, "since": {},
	"some": {}, "somehow": {}, "someone": {}, "something": {},
	"sometimes": {}, "somewhere": {}, "still": {}, "such": {}, "take": {},
	"than": {}, "that": {}, "that's": {}, "the": {}, "their": {},
	"theirs": {}, "them": {}, "themselves": {}, "then": {}, "there": {},
	"there's": {}, "these": {}, "they": {}, "they'd": {}, "they'll": {},
	"they're": {}, "they've": {}, "this": {}, "those": {}, "through": {},
	"thus": {}, "together": {}, "too": {}, "toward": {}, "towards": {},
	"under": {}, "until": {}, "upon": {}, "use": {}, "very": {},
	"via": {}, "was": {}, "wasn't": {}, "we'd": {}, "we'll": {},
	"we're": {}, "we've": {}, "well": {}, "were": {}, "weren't": {},
	"what": {}, "what's": {}, "when": {}, "whenever": {}, "where": {},
	"whether": {}, "which": {}, "while": {}, "who": {}, "who's": {},
	"whose": {}, "why": {}, "will": {}, "with": {}, "within": {},
	"without": {}, "won't": {}, "would": {}, "wouldn't": {}, "yet": {},
	"you": {}, "you'd": {}, "you'll": {}, "you're": {}, "you've": {},
	"your": {}, "yours": {}, "yourself": {}, "yourselves": {},

	// Web/UI noise.
	"click": {}, "button": {}, "link": {}, "menu": {}, "page": {},
	"pages": {}, "website": {}, "site": {}, "home": {}, "homepage": {},
	"search": {}, "loading": {}, "read": {}, "share": {},
}

// ukrainianStopwords also carries the high-frequency Russian function words
// that show up on mixed-language pages.
var ukrainianStopwords = map[string]struct{}{
	"або": {}, "але": {}, "адже": {}, "більш": {}, "був": {}, "буде": {},
	"буду": {}, "будь": {}, "була": {}, "були": {}, "було": {}, "бути": {},
	"вам": {}, "вас": {}, "ваш": {}, "ваша": {}, "ваше": {}, "ваші": {},
	"вже": {}, "вона": {}, "вони": {}, "воно": {}, "всі": {}, "все": {},
	"втім": {}, "від": {}, "він": {}, "два": {}, "дві": {}, "для": {},
	"дуже": {}, "же": {}, "зараз": {}, "знову": {}, "його": {},
	"йому": {}, "каже": {}, "коли": {}, "крім": {}, "куди": {}, "лише": {},
	"люди": {}, "мене": {}, "мені": {}, "мій": {}, "моя": {}, "моє": {},
	"над": {}, "нам": {}, "нас": {}, "наш": {}, "наша": {}, "наше": {},
	"наші": {}, "невже": {}, "немає": {}, "нею": {}, "неї": {}, "ним": {},
	"них": {}, "ніж": {}, "ніколи": {}, "нічого": {}, "однак": {},
	"отже": {}, "переді": {}, "про": {}, "просто": {},
	"раз": {}, "сам": {}, "сама": {}, "саме": {}, "свого": {}, "своє": {},
	"свої": {}, "свій": {}, "себе": {}, "собі": {},
	"також": {}, "там": {}, "твій": {}, "теж": {}, "тепер": {}, "тобі": {},
	"тоді": {}, "той": {}, "тому": {}, "трохи": {}, "туди": {}, "тут": {},
	"уже": {}, "хоч": {}, "хоча": {}, "хіба": {}, "цей": {}, "цим": {},
	"цих": {}, "цього": {}, "цьому": {}, "ця": {}, "це": {},
	"чого": {}, "чому": {}, "щоб": {}, "щось": {}, "яка": {}, "який": {},
	"яких": {}, "які": {}, "якщо": {},

	// Russian function words.
	"был": {}, "была": {}, "были": {}, "было": {}, "быть": {},
	"весь": {}, "вот": {}, "всего": {}, "всех": {},
	"где": {}, "даже": {}, "его": {}, "ему": {}, "если": {}, "есть": {},
	"еще": {}, "ещё": {}, "ими": {}, "как": {}, "кто": {}, "мне": {},
	"мой": {}, "они": {}, "оно": {}, "она": {}, "под": {},
	"при": {}, "так": {}, "тем": {}, "того": {},
	"тоже": {}, "только": {}, "что": {}, "чтобы": {}, "это": {},
	"эта": {}, "эти": {}, "этот": {},
}

// ForLanguage returns the stopword set for an ISO 639-1 language code.
func ForLanguage(lang string) map[string]struct{} {
	switch strings.ToLower(lang) {
	case "uk", "ru":
		return ukrainianStopwords
	default:
		return englishStopwords
	}
}

// IsStopword checks a word against a stopword set.
func IsStopword(set map[string]struct{}, word string) bool {
	_, exists := set[strings.ToLower(word)]
	return exists
}
