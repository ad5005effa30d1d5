package domain

import (
	"fmt"
	"regexp"
)

// Pattern is the rule material for one intent. Keywords are lower-case
// substrings; Expressions are matched case-insensitively against the
// lower-cased utterance.
type Pattern struct {
	Intent      Intent
	Keywords    []string
	Expressions []*regexp.Regexp
}

var patterns = buildPatterns()

// Patterns returns the compiled rule table in intent table order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

func buildPatterns() []Pattern {
	out := make([]Pattern, 0, len(allIntents))
	for _, intent := range allIntents {
		keywords, expressions := patternFor(intent)
		compiled := make([]*regexp.Regexp, 0, len(expressions))
		for _, expr := range expressions {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				panic(fmt.Sprintf("domain: invalid pattern for %s: %v", intent, err))
			}
			compiled = append(compiled, re)
		}
		out = append(out, Pattern{Intent: intent, Keywords: keywords, Expressions: compiled})
	}
	return out
}

func patternFor(intent Intent) (keywords []string, expressions []string) {
	switch intent {
	case IntentServiceInquiry:
		return []string{"dienst", "diensten", "services", "aanbieden", "wat doen jullie", "bieden jullie", "leveren jullie", "oplossing"},
			[]string{`(bieden|leveren|doen) jullie`, `welke (diensten|services|oplossingen)`}
	case IntentServiceComparison:
		return []string{"verschil", "vergelijk", "vergelijken", "versus", " vs ", "beter dan", "alternatief"},
			[]string{`verschil tussen`, `(wat|welke) is (het )?beter`}
	case IntentPricingRequest:
		return []string{"prijs", "prijzen", "kost", "kosten", "tarief", "tarieven", "abonnement", "per maand", "betalen", "budget"},
			[]string{`wat kost`, `hoeveel (kost|betaal)`, `(prijs|prijzen|tarief|tarieven) (van|voor)`}
	case IntentTechnicalSupport:
		return []string{"probleem", "werkt niet", "fout", "error", "storing", "help", "support", "installeren", "crash", "traag", "server", "printer", "wifi"},
			[]string{`(werkt|doet) (het )?niet`, `foutmelding`, `help(en)? met`}
	case IntentUrgentIssue:
		return []string{"urgent", "spoed", "dringend", "noodgeval", "down", "ligt plat", "offline", "ligt eruit", "kritiek", "ransomware", "gehackt", "datalek"},
			[]string{`(server|netwerk|systeem|website|mail|internet)\b.*\b(down|plat|offline|eruit)`, `(alles|niemand) .*(werkt niet|kan niet)`}
	case IntentPasswordReset:
		return []string{"wachtwoord", "password", "vergeten", "reset", "inlogcode"},
			[]string{`wachtwoord.*(vergeten|kwijt|resetten|herstellen|wijzigen)`, `(reset|forgot).*password`}
	case IntentAccountIssue:
		return []string{"account", "inloggen", "login", "geblokkeerd", "toegang", "gebruikersnaam", "profiel", "tweestaps", "2fa"},
			[]string{`(kan|kom) (niet|er niet) (meer )?in(loggen)?`, `account.*(geblokkeerd|vergrendeld|verwijderd)`}
	case IntentQuoteRequest:
		return []string{"offerte", "prijsopgave", "voorstel", "quote", "begroting"},
			[]string{`offerte (aanvragen|ontvangen|opvragen)`, `(graag|wil) .*offerte`}
	case IntentDemoRequest:
		return []string{"demo", "demonstratie", "proefperiode", "trial", "uitproberen", "laten zien"},
			[]string{`(demo|demonstratie) (aanvragen|inplannen|zien)`, `(kan|mag) ik .*(uitproberen|testen)`}
	case IntentContactSales:
		return []string{"verkoop", "sales", "accountmanager", "contact opnemen", "bel mij", "bel me", "terugbellen", "adviseur"},
			[]string{`(neem|nemen) .*contact`, `bel (mij|me) (terug|op)`, `(spreken|spreek) .*(verkoop|sales|adviseur)`}
	case IntentGeneralInformation:
		return []string{"informatie", "info", "over jullie", "wie zijn", "bedrijf", "openingstijden", "adres", "vestiging"},
			[]string{`(wie|wat) (zijn|is) jullie`, `meer (informatie|info) over`}
	case IntentDocumentation:
		return []string{"documentatie", "handleiding", "handboek", "instructie", "whitepaper", "datasheet", "kennisbank", "manual"},
			[]string{`(waar|hoe) .*(handleiding|documentatie)`, `stappenplan`}
	case IntentFAQ:
		return []string{"veelgestelde vragen", "faq", "vraagje", "hoe werkt", "is het mogelijk"},
			[]string{`^(hoe|wat|waarom|wanneer|kan|is) .*\?$`, `is het mogelijk (om|dat)`}
	case IntentNavigation:
		return []string{"pagina", "menu", "link", "waar vind ik", "waar staat", "ga naar", "homepage"},
			[]string{`waar (vind|zie|staat)`, `(ga|breng me) naar`}
	case IntentSearch:
		return []string{"zoek", "zoeken", "search", "opzoeken", "resultaten"},
			[]string{`zoek (naar|een)`, `hebben jullie (iets|informatie) over`}
	case IntentScheduleMeeting:
		return []string{"afspraak", "meeting", "vergadering", "agenda", "inplannen", "kennismaking", "langskomen", "gesprek"},
			[]string{`(afspraak|gesprek|meeting) (maken|inplannen|plannen)`, `(wanneer|kunnen) .*(afspreken|langskomen)`}
	case IntentFileTicket:
		return []string{"ticket", "melding", "incident", "issue", "melden", "aanmaken"},
			[]string{`(ticket|melding|incident) (aanmaken|indienen|maken)`, `wil .*melden`}
	case IntentFeedback:
		return []string{"feedback", "klacht", "compliment", "tevreden", "ontevreden", "suggestie", "review", "beoordeling"},
			[]string{`(ik|wij|we) (ben|zijn) (erg |heel |niet )?(tevreden|ontevreden|blij)`, `wil (graag )?(feedback|een klacht)`}
	case IntentUnknown:
		return nil, nil
	default:
		return nil, nil
	}
}

var urgencyKeywords = map[Urgency][]string{
	UrgencyCritical: {"urgent", "spoed", "noodgeval", "kritiek", "down", "ligt plat", "ligt eruit", "gehackt", "ransomware", "datalek", "niemand kan werken", "emergency"},
	UrgencyHigh:     {"dringend", "zo snel mogelijk", "asap", "vandaag nog", "direct", "meteen", "belangrijk", "werkt niet", "storing"},
	UrgencyMedium:   {"snel", "binnenkort", "deze week", "morgen", "probleem", "fout"},
	UrgencyLow:      {"geen haast", "wanneer het uitkomt", "ooit", "later"},
}

// UrgencyKeywords returns the lower-case keywords that signal level u.
func UrgencyKeywords(u Urgency) []string {
	return append([]string(nil), urgencyKeywords[u]...)
}

// knownServices is matched in order; the extracted list keeps this order.
var knownServices = [...]string{
	"microsoft 365",
	"office 365",
	"azure",
	"cloud",
	"backup",
	"cybersecurity",
	"beveiliging",
	"firewall",
	"netwerk",
	"wifi",
	"werkplekbeheer",
	"managed services",
	"helpdesk",
	"voip",
	"telefonie",
	"website",
	"hosting",
	"sharepoint",
	"teams",
}

// KnownServices returns the lower-case service names recognised in text.
func KnownServices() []string {
	out := make([]string, len(knownServices))
	copy(out, knownServices[:])
	return out
}
