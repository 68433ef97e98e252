// Package i18n translates user-facing error messages. The locale is taken
// from the Accept-Language header.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the client states no supported language.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header carrying language preferences.
	AcceptLanguageHeader = "Accept-Language"
)

// catalog maps locale to message key to text.
type catalog map[string]map[string]string

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator resolves message keys against a catalog.
type Translator struct {
	messages catalog
}

// NewTranslator returns a translator over the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: builtinMessages}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the text for key in locale, then in DefaultLocale, then
// the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether the catalog has messages for locale.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// Message translates key for the locale of the current request.
func Message(c *gin.Context, key string) string {
	return GetTranslator().Translate(key, GetLocale(c))
}

// GetLocale picks the supported language with the highest q-value from
// Accept-Language. Regions are ignored, so "nl-BE" selects "nl".
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	type preference struct {
		lang string
		q    float64
	}
	var prefs []preference
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		lang := strings.ToLower(strings.TrimSpace(fields[0]))
		if i := strings.IndexByte(lang, '-'); i > 0 {
			lang = lang[:i]
		}
		if lang == "" {
			continue
		}
		q := 1.0
		for _, param := range fields[1:] {
			if v, ok := strings.CutPrefix(strings.TrimSpace(param), "q="); ok {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil {
					q = parsed
				}
			}
		}
		if q > 0 {
			prefs = append(prefs, preference{lang: lang, q: q})
		}
	}
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].q > prefs[j].q })

	t := GetTranslator()
	for _, p := range prefs {
		if t.Supports(p.lang) {
			return p.lang
		}
	}
	return DefaultLocale
}

var builtinMessages = catalog{
	"en": {
		ErrKeyInvalidRequest:         "Invalid request",
		ErrKeyInvalidRequestBody:     "Invalid request body",
		ErrKeyInternalError:          "An unexpected error occurred",
		ErrKeyUnauthorized:           "Unauthorized",
		ErrKeyAPIKeyRequired:         "API key is required",
		ErrKeyInvalidAPIKey:          "Invalid API key",
		ErrKeyNotFound:               "Not found",
		ErrKeyRateLimitExceeded:      "Too many requests, please try again later",
		ErrKeyConflict:               "The advice changed concurrently, please retry",
		ErrKeyInvalidToken:           "Invalid or expired token",
		ErrKeyTokenRequired:          "Authentication token is required",
		ErrKeyTimeout:                "Request timed out",
		ErrKeyAdviceNotFound:         "Packaging advice not found",
		ErrKeyCostDataUnavailable:    "Cost data is currently unavailable",
		ErrKeyOrderSystemUnavailable: "Order system is unavailable",
		ErrKeyIdempotencyMismatch:    "Idempotency-Key was already used for a different request",
		ErrKeyValidationProducts:     "products: at least one product with a positive quantity is required",
		ErrKeyValidationCountry:      "countryCode: unsupported country",
	},
	"nl": {
		ErrKeyInvalidRequest:         "Ongeldig verzoek",
		ErrKeyInvalidRequestBody:     "Ongeldige aanvraag body",
		ErrKeyInternalError:          "Er is een onverwachte fout opgetreden",
		ErrKeyUnauthorized:           "Niet geautoriseerd",
		ErrKeyAPIKeyRequired:         "API-sleutel is vereist",
		ErrKeyInvalidAPIKey:          "Ongeldige API-sleutel",
		ErrKeyNotFound:               "Niet gevonden",
		ErrKeyRateLimitExceeded:      "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyConflict:               "Het advies is tegelijk gewijzigd, probeer het opnieuw",
		ErrKeyInvalidToken:           "Ongeldig of verlopen token",
		ErrKeyTokenRequired:          "Authenticatietoken is vereist",
		ErrKeyTimeout:                "Verzoek verlopen",
		ErrKeyAdviceNotFound:         "Verpakkingsadvies niet gevonden",
		ErrKeyCostDataUnavailable:    "Kostengegevens zijn momenteel niet beschikbaar",
		ErrKeyOrderSystemUnavailable: "Ordersysteem is niet bereikbaar",
		ErrKeyIdempotencyMismatch:    "Idempotency-Key is al gebruikt voor een ander verzoek",
		ErrKeyValidationProducts:     "products: minimaal een product met een positieve hoeveelheid is vereist",
		ErrKeyValidationCountry:      "countryCode: land wordt niet ondersteund",
	},
	"de": {
		ErrKeyInvalidRequest:         "Ungültige Anfrage",
		ErrKeyInvalidRequestBody:     "Ungültiger Anfragetext",
		ErrKeyInternalError:          "Ein unerwarteter Fehler ist aufgetreten",
		ErrKeyUnauthorized:           "Nicht autorisiert",
		ErrKeyAPIKeyRequired:         "API-Schlüssel erforderlich",
		ErrKeyInvalidAPIKey:          "Ungültiger API-Schlüssel",
		ErrKeyNotFound:               "Nicht gefunden",
		ErrKeyRateLimitExceeded:      "Zu viele Anfragen, bitte später erneut versuchen",
		ErrKeyConflict:               "Die Empfehlung wurde gleichzeitig geändert, bitte erneut versuchen",
		ErrKeyInvalidToken:           "Ungültiges oder abgelaufenes Token",
		ErrKeyTokenRequired:          "Authentifizierungstoken erforderlich",
		ErrKeyTimeout:                "Zeitüberschreitung der Anfrage",
		ErrKeyAdviceNotFound:         "Verpackungsempfehlung nicht gefunden",
		ErrKeyCostDataUnavailable:    "Kostendaten sind derzeit nicht verfügbar",
		ErrKeyOrderSystemUnavailable: "Bestellsystem ist nicht erreichbar",
		ErrKeyIdempotencyMismatch:    "Idempotency-Key wurde bereits für eine andere Anfrage verwendet",
		ErrKeyValidationProducts:     "products: mindestens ein Produkt mit positiver Menge ist erforderlich",
		ErrKeyValidationCountry:      "countryCode: Land wird nicht unterstützt",
	},
}
