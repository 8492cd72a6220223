package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	model "cobranza_backend/internals/features/finance/debts/model"
)

/* =========================================================
   Concept classification

   "MARZO CUOTA"    -> MONTHLY_DUE,    key "MARZO"
   "2025 MATRICULA" -> ENROLLMENT_FEE, key "2025"
   "UNIFORME"       -> PRODUCT (when the product index knows it)
   anything else    -> GENERIC_CONCEPT
========================================================= */

// Candidate is the text a Rule inspects. Folded has accents stripped
// (MATRÍCULA -> MATRICULA) and is only meant for keyword matching.
type Candidate struct {
	Normalized string
	Folded     string
	Tokens     []string
}

// Rule maps a predicate to a category. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Name     string
	Category model.DebtCategory
	Match    func(c Candidate) bool
}

// ProductMatcher answers whether a normalized description names a catalog product.
type ProductMatcher interface {
	HasProduct(normalized string) bool
}

type Classifier struct {
	rules []Rule
}

// NewClassifier uses the given rule table as-is. GENERIC_CONCEPT is the
// implicit fallback and never needs a rule.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// NewDefaultClassifier wires DefaultRules. products may be nil, in which case
// nothing is ever classified as PRODUCT.
func NewDefaultClassifier(products ProductMatcher) *Classifier {
	return NewClassifier(DefaultRules(products)...)
}

var yearToken = regexp.MustCompile(`^[0-9]{4}$`)

var monthNames = map[string]struct{}{
	"ENERO": {}, "FEBRERO": {}, "MARZO": {}, "ABRIL": {}, "MAYO": {}, "JUNIO": {},
	"JULIO": {}, "AGOSTO": {}, "SEPTIEMBRE": {}, "SETIEMBRE": {}, "OCTUBRE": {},
	"NOVIEMBRE": {}, "DICIEMBRE": {},
}

// DefaultRules keeps the historical precedence: enrollment, monthly, product.
func DefaultRules(products ProductMatcher) []Rule {
	rules := []Rule{
		{
			Name:     "enrollment-year-or-keyword",
			Category: model.DebtCategoryEnrollmentFee,
			Match: func(c Candidate) bool {
				if len(c.Tokens) > 0 && yearToken.MatchString(c.Tokens[0]) {
					return true
				}
				return hasAnyToken(c.Tokens, "MATRICULA", "INSCRIPCION")
			},
		},
		{
			Name:     "monthly-month-or-keyword",
			Category: model.DebtCategoryMonthlyDue,
			Match: func(c Candidate) bool {
				for _, t := range c.Tokens {
					if _, ok := monthNames[t]; ok {
						return true
					}
				}
				return hasAnyToken(c.Tokens, "CUOTA", "MENSUALIDAD")
			},
		},
	}
	if products != nil {
		rules = append(rules, Rule{
			Name:     "product-catalog-name",
			Category: model.DebtCategoryProduct,
			Match:    func(c Candidate) bool { return products.HasProduct(c.Normalized) },
		})
	}
	return rules
}

// Classify returns the category and the lookup key (text before the first space).
func (cl *Classifier) Classify(description string) (model.DebtCategory, string, error) {
	normalized := NormalizeDescription(description)
	if normalized == "" {
		return "", "", fmt.Errorf("%w: description is empty", ErrInvalidInput)
	}

	cand := Candidate{Normalized: normalized, Folded: FoldAccents(normalized)}
	cand.Tokens = tokenize(cand.Folded)

	category := model.DebtCategoryGenericConcept
	for _, r := range cl.rules {
		if r.Match != nil && r.Match(cand) {
			category = r.Category
			break
		}
	}
	return category, LookupKey(normalized), nil
}

// NormalizeDescription trims and upper-cases.
func NormalizeDescription(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// LookupKey is the substring before the first space, or the whole string.
func LookupKey(normalized string) string {
	key, _, _ := strings.Cut(normalized, " ")
	return key
}

// FoldAccents strips combining marks. A new transformer per call: chains are stateful.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasAnyToken(tokens []string, want ...string) bool {
	for _, t := range tokens {
		for _, w := range want {
			if t == w {
				return true
			}
		}
	}
	return false
}
