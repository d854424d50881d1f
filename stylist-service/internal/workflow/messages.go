package workflow

import (
	"fmt"

	"golang.org/x/text/language"
)

// Поддерживаемые локали ответов.
const (
	LocaleES      = "es"
	LocaleEN      = "en"
	DefaultLocale = LocaleES
)

type messageKey int

const (
	msgStart messageKey = iota
	msgAskOccasion
	msgAskStyle
	msgAskCategory
	msgCostDisclosure
	msgCancelled
	msgAlreadyCancelled
	msgCancelAfterGenerated
	msgClosedGenerated
	msgClosedCancelled
	msgAlreadyGenerated
	msgInvalidConfirmation
	msgInsufficientCredits
	msgGenerationTimeout
	msgGenerationFailed
	msgGenerated
	msgGeneratedSaved
	msgOutfitNeedsItem
	msgOutfitReady
	msgOutfitExplanation
	msgAutosaveOn
	msgAutosaveOff
)

var catalogs = map[string]map[messageKey]string{
	LocaleES: {
		msgStart:                "¡Vamos a crear una prenda nueva para ti!",
		msgAskOccasion:          "¿Para qué ocasión la necesitas? Por ejemplo: oficina, fiesta, boda, cita, diario, deporte, playa, viaje o evento formal.",
		msgAskStyle:             "¿Qué estilo prefieres? Por ejemplo: elegante, casual, deportivo, minimalista, bohemio, urbano, clásico o romántico.",
		msgAskCategory:          "¿Qué tipo de prenda quieres: top, prenda inferior o zapatos?",
		msgCostDisclosure:       "Listo: generaré %s de estilo %s para %s. Esta generación cuesta %d créditos. ¿Confirmas?",
		msgCancelled:            "He cancelado la creación. Cuando quieras, empezamos de nuevo.",
		msgAlreadyCancelled:     "Esta sesión ya estaba cancelada.",
		msgCancelAfterGenerated: "La prenda ya se generó, no hay nada que cancelar. Puedes pedir un outfit completo o empezar de nuevo.",
		msgClosedGenerated:      "Tu prenda ya está lista. Puedes pedir un outfit completo o empezar una nueva creación.",
		msgClosedCancelled:      "Esta sesión está cancelada. Empieza una nueva creación para continuar.",
		msgAlreadyGenerated:     "Esta prenda ya se generó. No se han cobrado créditos adicionales.",
		msgInvalidConfirmation:  "La confirmación no es válida o ha caducado. Vuelve a confirmar la generación.",
		msgInsufficientCredits:  "No tienes créditos suficientes para esta generación. Recarga créditos o mejora tu plan e inténtalo de nuevo.",
		msgGenerationTimeout:    "La generación tardó demasiado. No se cobraron créditos; inténtalo de nuevo en unos momentos.",
		msgGenerationFailed:     "No pude generar la prenda. No se cobraron créditos; inténtalo de nuevo.",
		msgGenerated:            "¡Listo! He creado \"%s\". Se usaron %d créditos.",
		msgGeneratedSaved:       " La guardé en tu armario.",
		msgOutfitNeedsItem:      "Primero necesito generar una prenda. Completa y confirma la creación para pedir un outfit.",
		msgOutfitReady:          "Aquí tienes un outfit completo con tu nueva prenda.",
		msgOutfitExplanation:    "Combinamos \"%s\" con piezas neutras para un look %s ideal para %s.",
		msgAutosaveOn:           "Autoguardado activado.",
		msgAutosaveOff:          "Autoguardado desactivado.",
	},
	LocaleEN: {
		msgStart:                "Let's create a new piece for you!",
		msgAskOccasion:          "What occasion is it for? For example: office, party, wedding, date, everyday, sport, beach, travel or formal event.",
		msgAskStyle:             "Which style do you prefer? For example: elegant, casual, sporty, minimalist, bohemian, streetwear, classic or romantic.",
		msgAskCategory:          "What kind of item do you want: top, bottom or shoes?",
		msgCostDisclosure:       "All set: I'll generate %s in a %s style for %s. This generation costs %d credits. Do you confirm?",
		msgCancelled:            "I cancelled the creation. We can start again whenever you like.",
		msgAlreadyCancelled:     "This session was already cancelled.",
		msgCancelAfterGenerated: "The item has already been generated, there is nothing to cancel. You can ask for a full outfit or start over.",
		msgClosedGenerated:      "Your item is ready. You can ask for a full outfit or start a new creation.",
		msgClosedCancelled:      "This session is cancelled. Start a new creation to continue.",
		msgAlreadyGenerated:     "This item was already generated. No additional credits were charged.",
		msgInvalidConfirmation:  "The confirmation is invalid or has expired. Please confirm the generation again.",
		msgInsufficientCredits:  "You don't have enough credits for this generation. Top up or upgrade your plan and try again.",
		msgGenerationTimeout:    "The generation took too long. No credits were charged; please try again shortly.",
		msgGenerationFailed:     "I couldn't generate the item. No credits were charged; please try again.",
		msgGenerated:            "Done! I created \"%s\". %d credits were used.",
		msgGeneratedSaved:       " I saved it to your closet.",
		msgOutfitNeedsItem:      "I need to generate an item first. Complete and confirm the creation to ask for an outfit.",
		msgOutfitReady:          "Here is a complete outfit built around your new item.",
		msgOutfitExplanation:    "We paired \"%s\" with neutral pieces for a %s look that works for %s.",
		msgAutosaveOn:           "Autosave enabled.",
		msgAutosaveOff:          "Autosave disabled.",
	},
}

var (
	supportedLocales = []language.Tag{language.Spanish, language.English}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

// ResolveLocale выбирает локаль ответа по значению Accept-Language или коду языка.
// Неизвестные и пустые значения дают fallback.
func ResolveLocale(raw, fallback string) string {
	if fallback != LocaleEN {
		fallback = DefaultLocale
	}
	if raw == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	base, _ := supportedLocales[idx].Base()
	return base.String()
}

func text(locale string, key messageKey, args ...interface{}) string {
	catalog, ok := catalogs[locale]
	if !ok {
		catalog = catalogs[DefaultLocale]
	}
	format := catalog[key]
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
