package workflow

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"outfit-server/shared/models"
)

// Канонические значения поводов.
const (
	OccasionOffice      = "office"
	OccasionParty       = "party"
	OccasionWedding     = "wedding"
	OccasionDate        = "date"
	OccasionEveryday    = "everyday"
	OccasionSport       = "sport"
	OccasionBeach       = "beach"
	OccasionTravel      = "travel"
	OccasionFormalEvent = "formal_event"
)

// Канонические значения стилей.
const (
	StyleElegant    = "elegant"
	StyleCasual     = "casual"
	StyleSporty     = "sporty"
	StyleMinimalist = "minimalist"
	StyleBohemian   = "bohemian"
	StyleStreetwear = "streetwear"
	StyleClassic    = "classic"
	StyleRomantic   = "romantic"
)

type vocabEntry struct {
	value    string
	labels   map[string]string
	synonyms []string
}

type vocabulary struct {
	slot    models.Slot
	entries []vocabEntry
}

var vocabularies = []*vocabulary{
	{
		slot: models.SlotOccasion,
		entries: []vocabEntry{
			{OccasionOffice, map[string]string{"es": "la oficina", "en": "the office"},
				[]string{"oficina", "trabajo", "reunion", "negocios", "office", "work", "meeting", "business"}},
			{OccasionParty, map[string]string{"es": "una fiesta", "en": "a party"},
				[]string{"fiesta", "celebracion", "cumpleanos", "party", "celebration", "birthday", "night out"}},
			{OccasionWedding, map[string]string{"es": "una boda", "en": "a wedding"},
				[]string{"boda", "matrimonio", "casamiento", "wedding"}},
			{OccasionDate, map[string]string{"es": "una cita", "en": "a date"},
				[]string{"cita", "aniversario", "date", "anniversary"}},
			{OccasionEveryday, map[string]string{"es": "el día a día", "en": "everyday wear"},
				[]string{"diario", "dia a dia", "cotidiano", "everyday", "daily", "day to day"}},
			{OccasionSport, map[string]string{"es": "hacer deporte", "en": "sports"},
				[]string{"deporte", "gimnasio", "gym", "entrenamiento", "correr", "sport", "sports", "workout", "training"}},
			{OccasionBeach, map[string]string{"es": "la playa", "en": "the beach"},
				[]string{"playa", "piscina", "beach", "pool"}},
			{OccasionTravel, map[string]string{"es": "un viaje", "en": "a trip"},
				[]string{"viaje", "viajar", "vacaciones", "travel", "trip", "vacation"}},
			{OccasionFormalEvent, map[string]string{"es": "un evento formal", "en": "a formal event"},
				[]string{"evento formal", "gala", "ceremonia", "etiqueta", "formal event", "ceremony", "black tie"}},
		},
	},
	{
		slot: models.SlotStyle,
		entries: []vocabEntry{
			{StyleElegant, map[string]string{"es": "elegante", "en": "elegant"},
				[]string{"elegante", "sofisticado", "sofisticada", "chic", "elegant", "sophisticated"}},
			{StyleCasual, map[string]string{"es": "casual", "en": "casual"},
				[]string{"casual", "relajado", "relajada", "informal", "relaxed"}},
			{StyleSporty, map[string]string{"es": "deportivo", "en": "sporty"},
				[]string{"deportivo", "deportiva", "sporty", "athleisure"}},
			{StyleMinimalist, map[string]string{"es": "minimalista", "en": "minimalist"},
				[]string{"minimalista", "sencillo", "sencilla", "minimalist", "minimal", "simple"}},
			{StyleBohemian, map[string]string{"es": "bohemio", "en": "bohemian"},
				[]string{"bohemio", "bohemia", "boho", "bohemian"}},
			{StyleStreetwear, map[string]string{"es": "urbano", "en": "streetwear"},
				[]string{"urbano", "urbana", "streetwear", "street"}},
			{StyleClassic, map[string]string{"es": "clásico", "en": "classic"},
				[]string{"clasico", "clasica", "tradicional", "atemporal", "classic", "traditional", "timeless"}},
			{StyleRomantic, map[string]string{"es": "romántico", "en": "romantic"},
				[]string{"romantico", "romantica", "femenino", "femenina", "romantic", "feminine"}},
		},
	},
	{
		slot: models.SlotCategory,
		entries: []vocabEntry{
			{models.CategoryTop, map[string]string{"es": "un top", "en": "a top"},
				[]string{"top", "parte de arriba", "blusa", "camisa", "camiseta", "sueter", "jersey", "chaqueta", "blazer",
					"shirt", "blouse", "t shirt", "tshirt", "sweater", "jacket", "polo"}},
			{models.CategoryBottom, map[string]string{"es": "una prenda inferior", "en": "a bottom"},
				[]string{"bottom", "parte de abajo", "pantalon", "pantalones", "falda", "vaqueros", "jeans",
					"pants", "trousers", "skirt", "shorts"}},
			{models.CategoryShoes, map[string]string{"es": "unos zapatos", "en": "shoes"},
				[]string{"zapatos", "zapato", "zapatillas", "tenis", "botas", "sandalias", "tacones", "calzado",
					"shoes", "shoe", "sneakers", "boots", "sandals", "heels", "footwear"}},
		},
	},
}

func init() {
	// Синонимы сравниваются с нормализованным текстом, поэтому нормализуем их один раз.
	for _, v := range vocabularies {
		for i := range v.entries {
			for j, s := range v.entries[i].synonyms {
				v.entries[i].synonyms[j] = normalizeText(s)
			}
		}
	}
}

func vocabularyFor(slot models.Slot) *vocabulary {
	for _, v := range vocabularies {
		if v.slot == slot {
			return v
		}
	}
	return nil
}

// normalizeText приводит текст к нижнему регистру, убирает диакритику и
// заменяет все, кроме букв и цифр, одиночными пробелами.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	space := true
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// match ищет в нормализованном тексте самое раннее вхождение синонима целым словом.
// При равной позиции побеждает более длинная фраза.
func (v *vocabulary) match(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}
	padded := " " + normalized + " "
	bestPos, bestLen, best := -1, 0, ""
	for _, e := range v.entries {
		for _, syn := range e.synonyms {
			pos := strings.Index(padded, " "+syn+" ")
			if pos < 0 {
				continue
			}
			if bestPos < 0 || pos < bestPos || (pos == bestPos && len(syn) > bestLen) {
				bestPos, bestLen, best = pos, len(syn), e.value
			}
		}
	}
	return best, bestPos >= 0
}

// ExtractSlots распознает повод, стиль и категорию в свободном тексте.
// Нераспознанные слоты остаются пустыми.
func ExtractSlots(text string) models.CollectedSlots {
	var out models.CollectedSlots
	normalized := normalizeText(text)
	for _, v := range vocabularies {
		if value, ok := v.match(normalized); ok {
			out.Set(v.slot, value)
		}
	}
	return out
}

// Canonicalize приводит явное значение слота к каноническому.
// Для категории допускаются только известные значения; повод и стиль вне словаря
// принимаются как есть в нормализованном виде.
func Canonicalize(slot models.Slot, raw string) (string, bool) {
	normalized := normalizeText(raw)
	if normalized == "" {
		return "", false
	}
	v := vocabularyFor(slot)
	if v == nil {
		return "", false
	}
	for _, e := range v.entries {
		if normalizeText(e.value) == normalized {
			return e.value, true
		}
	}
	if value, ok := v.match(normalized); ok {
		return value, true
	}
	if slot == models.SlotCategory {
		return "", false
	}
	return strings.ReplaceAll(normalized, " ", "_"), true
}

// Label возвращает человекочитаемое название значения слота.
func Label(slot models.Slot, value, locale string) string {
	v := vocabularyFor(slot)
	if v != nil {
		for _, e := range v.entries {
			if e.value == value {
				if l, ok := e.labels[locale]; ok {
					return l
				}
				return e.labels[DefaultLocale]
			}
		}
	}
	return strings.ReplaceAll(value, "_", " ")
}
