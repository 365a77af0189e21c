package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema is one JSON-LD entity found on a page. ParseError is set when the
// block could not be decoded; Data is nil in that case.
type Schema struct {
	Data       map[string]any `json:"data,omitempty"`
	ParseError string         `json:"parse_error,omitempty"`
}

// Types returns the entity's @type values.
func (s Schema) Types() []string {
	switch v := s.Data["@type"].(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, t := range v {
			if str, ok := t.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// HasType reports whether any @type is in set.
func (s Schema) HasType(set map[string]bool) bool {
	for _, t := range s.Types() {
		if set[t] {
			return true
		}
	}
	return false
}

// ValidationResult summarizes schema validation.
type ValidationResult struct {
	Valid              bool     `json:"valid"`
	Checked            int      `json:"checked"`
	Passed             int      `json:"passed"`
	Errors             []string `json:"errors,omitempty"`
	MissingRecommended []string `json:"missing_recommended,omitempty"`
}

var printer = message.NewPrinter(language.English)

var localBusinessTypes = map[string]bool{
	"LocalBusiness": true, "Restaurant": true, "Store": true, "Dentist": true,
	"MedicalBusiness": true, "LegalService": true, "Attorney": true, "AutoRepair": true,
	"AutomotiveBusiness": true, "HomeAndConstructionBusiness": true, "Plumber": true,
	"Electrician": true, "RealEstateAgent": true, "FinancialService": true,
	"FoodEstablishment": true, "CafeOrCoffeeShop": true, "Bakery": true, "BarOrPub": true,
	"HealthAndBeautyBusiness": true, "HairSalon": true, "BeautySalon": true,
	"ProfessionalService": true, "LodgingBusiness": true, "Hotel": true,
	"SportsActivityLocation": true, "EntertainmentBusiness": true,
}

var localBusinessRecommended = []string{"telephone", "url", "geo", "image", "priceRange"}

const baseSchemaJSON = `{
	"type": "object",
	"required": ["@type"],
	"properties": {
		"@type": {"anyOf": [{"type": "string", "minLength": 1}, {"type": "array", "minItems": 1, "items": {"type": "string"}}]}
	}
}`

// typeSchemas holds the required properties per schema.org type.
var typeSchemas = map[string]string{
	"Organization":   `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string", "minLength": 1}}}`,
	"LocalBusiness":  `{"type": "object", "required": ["name", "address"], "properties": {"name": {"type": "string", "minLength": 1}, "address": {"type": ["object", "string"]}}}`,
	"Article":        `{"type": "object", "required": ["headline"], "properties": {"headline": {"type": "string", "minLength": 1}}}`,
	"BlogPosting":    `{"type": "object", "required": ["headline"], "properties": {"headline": {"type": "string", "minLength": 1}}}`,
	"NewsArticle":    `{"type": "object", "required": ["headline"], "properties": {"headline": {"type": "string", "minLength": 1}}}`,
	"Product":        `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string", "minLength": 1}}}`,
	"FAQPage":        `{"type": "object", "required": ["mainEntity"], "properties": {"mainEntity": {"type": ["array", "object"]}}}`,
	"BreadcrumbList": `{"type": "object", "required": ["itemListElement"], "properties": {"itemListElement": {"type": "array", "minItems": 1}}}`,
	"Event":          `{"type": "object", "required": ["name", "startDate"]}`,
	"Recipe":         `{"type": "object", "required": ["name", "recipeIngredient"]}`,
	"WebSite":        `{"type": "object", "required": ["url"]}`,
}

var (
	baseSchema      *jsonschema.Schema
	compiledSchemas map[string]*jsonschema.Schema
)

func init() {
	baseSchema = mustCompileSchema(baseSchemaJSON, "base.schema.json")
	compiledSchemas = make(map[string]*jsonschema.Schema, len(typeSchemas))
	for name, raw := range typeSchemas {
		compiledSchemas[name] = mustCompileSchema(raw, strings.ToLower(name)+".schema.json")
	}
}

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

func (p *HTMLProvider) ExtractSchemaData(src string) []Schema {
	var out []Schema
	walk(p.docs.parse(src), func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Script {
			return true
		}
		if !strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
			return false
		}
		var raw strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				raw.WriteString(c.Data)
			}
		}
		out = append(out, decodeJSONLD(raw.String())...)
		return false
	})
	return out
}

func decodeJSONLD(raw string) []Schema {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Schema{{ParseError: "empty JSON-LD block"}}
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return []Schema{{ParseError: err.Error()}}
	}
	return flattenJSONLD(doc)
}

func flattenJSONLD(doc any) []Schema {
	switch v := doc.(type) {
	case []any:
		var out []Schema
		for _, item := range v {
			out = append(out, flattenJSONLD(item)...)
		}
		return out
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []Schema
			for _, item := range graph {
				out = append(out, flattenJSONLD(item)...)
			}
			return out
		}
		return []Schema{{Data: v}}
	default:
		return []Schema{{ParseError: fmt.Sprintf("unexpected JSON-LD value of type %T", doc)}}
	}
}

func (p *HTMLProvider) FindLocalBusinessSchema(schemas []Schema) *Schema {
	for i := range schemas {
		if schemas[i].HasType(localBusinessTypes) {
			return &schemas[i]
		}
	}
	return nil
}

func (p *HTMLProvider) ValidateSchemas(schemas []Schema) ValidationResult {
	res := ValidationResult{Checked: len(schemas)}
	for _, s := range schemas {
		errs := validateSchema(s)
		if len(errs) == 0 {
			res.Passed++
			continue
		}
		res.Errors = append(res.Errors, errs...)
	}
	res.Valid = res.Checked > 0 && res.Passed == res.Checked
	return res
}

func (p *HTMLProvider) ValidateLocalBusinessSchema(s Schema) ValidationResult {
	res := ValidationResult{Checked: 1}
	errs := validateSchema(s)
	if s.Data != nil && !s.HasType(map[string]bool{"LocalBusiness": true}) {
		// subtypes carry the same requirements as LocalBusiness
		errs = append(errs, validateAgainst(compiledSchemas["LocalBusiness"], "LocalBusiness", s.Data)...)
	}
	res.Errors = errs
	if len(errs) == 0 {
		res.Passed = 1
		res.Valid = true
	}
	for _, key := range localBusinessRecommended {
		if _, ok := s.Data[key]; !ok {
			res.MissingRecommended = append(res.MissingRecommended, key)
		}
	}
	_, hours := s.Data["openingHours"]
	_, spec := s.Data["openingHoursSpecification"]
	if !hours && !spec {
		res.MissingRecommended = append(res.MissingRecommended, "openingHoursSpecification")
	}
	return res
}

func validateSchema(s Schema) []string {
	if s.ParseError != "" {
		return []string{"invalid JSON-LD: " + s.ParseError}
	}
	errs := validateAgainst(baseSchema, "Thing", s.Data)
	if len(errs) > 0 {
		return errs
	}
	types := s.Types()
	sort.Strings(types)
	for _, t := range types {
		if sch, ok := compiledSchemas[t]; ok {
			errs = append(errs, validateAgainst(sch, t, s.Data)...)
		}
	}
	return errs
}

func validateAgainst(sch *jsonschema.Schema, typeName string, data map[string]any) []string {
	err := sch.Validate(any(data))
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("%s: %v", typeName, err)}
	}
	var errs []string
	collectSchemaErrors(typeName, ve, &errs)
	return errs
}

func collectSchemaErrors(typeName string, ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s %s: %s", typeName, loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(typeName, c, errs)
	}
}
