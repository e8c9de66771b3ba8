package security

import (
	"regexp"
	"strings"
)

// whitespaceClass widens \s to Unicode spaces so NBSP and friends cannot be
// used to split trigger phrases.
const whitespaceClass = `[\s\p{Z}\x{FEFF}]`

func compilePattern(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + strings.ReplaceAll(expr, `\s`, whitespaceClass))
}

// injectionRule matches one prompt-injection phrasing. When exemptions is set,
// a match is ignored if the rest of its line mentions any exemption term.
type injectionRule struct {
	group      string
	source     string
	re         *regexp.Regexp
	exemptions []string
}

func newInjectionRule(group, expr string, exemptions ...string) injectionRule {
	return injectionRule{group: group, source: expr, re: compilePattern(expr), exemptions: exemptions}
}

func (r injectionRule) matches(message string) bool {
	if len(r.exemptions) == 0 {
		return r.re.MatchString(message)
	}
	for _, loc := range r.re.FindAllStringIndex(message, -1) {
		if !containsAny(strings.ToLower(restOfLine(message[loc[1]:])), r.exemptions) {
			return true
		}
	}
	return false
}

// Pattern returns the rule's diagnostic form.
func (r injectionRule) Pattern() string {
	if len(r.exemptions) == 0 {
		return r.source
	}
	return r.source + "(?!.*" + strings.Join(r.exemptions, "|.*") + ")"
}

func restOfLine(s string) string {
	if i := strings.IndexAny(s, "\n\r\u2028\u2029"); i >= 0 {
		return s[:i]
	}
	return s
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Injection rule groups, evaluated in this order.
const (
	GroupInstructionOverride = "instruction_override"
	GroupRoleManipulation    = "role_manipulation"
	GroupSystemKeywords      = "system_keywords"
	GroupCodeBlock           = "code_block"
	GroupMetaDiscussion      = "meta_discussion"
)

func defaultInjectionRules() []injectionRule {
	return []injectionRule{
		newInjectionRule(GroupInstructionOverride, `ignore\s+(previous|above|all|prior)\s+(instructions?|rules?|prompts?)`),
		newInjectionRule(GroupInstructionOverride, `forget\s+(everything|all|previous|your)`),
		newInjectionRule(GroupInstructionOverride, `disregard\s+(previous|above|all|prior)`),

		newInjectionRule(GroupRoleManipulation, `you\s+(are\s+now|must\s+now|should\s+now)\s+(a|an)`),
		newInjectionRule(GroupRoleManipulation, `act\s+as\s+`, "hotel", "reservation", "receptionist"),
		newInjectionRule(GroupRoleManipulation, `pretend\s+(to\s+be|you\s+are)`),
		newInjectionRule(GroupRoleManipulation, `simulate\s+(being|a)`),
		newInjectionRule(GroupRoleManipulation, `roleplay\s+as`),

		newInjectionRule(GroupSystemKeywords, `system\s*:\s*`),
		newInjectionRule(GroupSystemKeywords, `new\s+(instructions?|rules?|role|behavior)`),
		newInjectionRule(GroupSystemKeywords, `override\s+(instructions?|settings?|rules?)`),
		newInjectionRule(GroupSystemKeywords, `change\s+your\s+(role|behavior|instructions?)`),

		newInjectionRule(GroupCodeBlock, "```\\s*system"),
		newInjectionRule(GroupCodeBlock, "```\\s*instructions?"),
		newInjectionRule(GroupCodeBlock, `<\s*system\s*>`),

		newInjectionRule(GroupMetaDiscussion, `what\s+(are|is)\s+your\s+(instructions?|rules?|limitations?)`),
		newInjectionRule(GroupMetaDiscussion, `show\s+me\s+your\s+(prompt|instructions?|system)`),
		newInjectionRule(GroupMetaDiscussion, `reveal\s+your`),
		newInjectionRule(GroupMetaDiscussion, `bypass\s+(restrictions?|rules?|filters?)`),
	}
}

// Off-topic categories, evaluated in this order.
const (
	CategoryMedical       = "medical"
	CategoryCooking       = "cooking"
	CategoryProgramming   = "programming"
	CategoryGardening     = "gardening"
	CategoryGeneralAdvice = "general_advice"
)

type topicRule struct {
	category string
	re       *regexp.Regexp
}

func defaultTopicRules() []topicRule {
	return []topicRule{
		{CategoryMedical, compilePattern(`\b(medicine|medication|treatment|diagnosis|symptoms?|disease|illness|doctor|hospital|cure|healing|therapy|prescription)\b`)},
		{CategoryCooking, compilePattern(`\b(recipe|cook|bake|ingredient|dish|meal|kitchen|culinary)\b`)},
		{CategoryProgramming, compilePattern(`\b(code|coding|program|programming|script|function|algorithm|debug|compile)\b`)},
		{CategoryGardening, compilePattern(`\b(plant|flower|garden|seed|soil|grow|botanical|horticulture)\b`)},
		{CategoryGeneralAdvice, compilePattern(`\b(how\s+to\s+(lose\s+weight|get\s+fit|be\s+happy|make\s+friends))\b`)},
	}
}

// hotelKeywords mark a message as hotel-related; any of them (as a substring
// of the lowercased message) suppresses off-topic blocking.
var hotelKeywords = []string{
	"room", "booking", "reservation", "check-in", "checkout", "check-out",
	"hotel", "guest", "availability", "quendoo", "property", "accommodation",
	"suite", "bed", "amenity", "amenities", "concierge", "reception",
	"price", "rate", "package", "deal", "stay", "night", "lodging",
}
