package template

// Patterns applied to email and phone fields. The phone pattern accepts an
// optional country code and common separators around 7 to 10 digits.
const (
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	PhonePattern = `^(\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{1,4}$`
)

// BuildRules derives the rule list for a field's current type and required
// flag from its existing rules. Any prior required rule is dropped and, when
// the field is required, a fresh one is prepended; email and phone fields
// gain a pattern rule unless one is already present. Calling twice with the
// same type and flag returns the same list.
func BuildRules(existing []ValidationRule, fieldType FieldType, required bool) []ValidationRule {
	rules := make([]ValidationRule, 0, len(existing)+2)
	for _, rule := range existing {
		if rule.Type == RuleRequired {
			continue
		}
		rules = append(rules, rule)
	}

	if required {
		rules = append([]ValidationRule{{
			Type:    RuleRequired,
			Message: "This field is required",
		}}, rules...)
	}

	if fieldType == FieldTypeEmail || fieldType == FieldTypePhone {
		if !hasRule(rules, RulePattern) {
			rules = append(rules, patternRule(fieldType))
		}
	}

	if len(rules) == 0 {
		return nil
	}
	return rules
}

func hasRule(rules []ValidationRule, ruleType string) bool {
	for _, rule := range rules {
		if rule.Type == ruleType {
			return true
		}
	}
	return false
}

func patternRule(fieldType FieldType) ValidationRule {
	if fieldType == FieldTypeEmail {
		return ValidationRule{
			Type:    RulePattern,
			Value:   EmailPattern,
			Message: "Please enter a valid email address",
		}
	}
	return ValidationRule{
		Type:    RulePattern,
		Value:   PhonePattern,
		Message: "Please enter a valid phone number",
	}
}
