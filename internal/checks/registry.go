package checks

import (
	"sync"

	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

// Context tags.
const (
	TechnicalSEO        = "technical_seo"
	ContentOptimization = "content_optimization"
	Media               = "media"
	UserExperience      = "user_experience"
)

func op(tag, name, desc string, newFn func() scoring.Operation, cs ...suggestions.Code) scoring.OperationRegistration {
	return scoring.OperationRegistration{
		Descriptor:  scoring.Descriptor{TypeTag: tag, Name: name, Description: desc},
		Suggestions: cs,
		New:         newFn,
	}
}

func factor(tag, name, desc string, ops ...scoring.OperationRegistration) scoring.FactorRegistration {
	return scoring.FactorRegistration{
		Descriptor: scoring.Descriptor{TypeTag: tag, Name: name, Description: desc},
		Operations: ops,
	}
}

// DefaultRegistry returns the shipped context/factor/operation table. The
// returned value is shared and must not be modified.
var DefaultRegistry = sync.OnceValue(func() *scoring.Registry {
	return &scoring.Registry{Contexts: []scoring.ContextRegistration{
		{
			Descriptor: scoring.Descriptor{
				TypeTag:     TechnicalSEO,
				Name:        "Technical SEO",
				Description: "Structured data, indexability and page performance.",
			},
			Factors: []scoring.FactorRegistration{
				factor("structured_data", "Structured data", "JSON-LD presence and validity.",
					op("schema_markup_validation", "Schema markup validation",
						"Validates every JSON-LD entity against the schema.org requirements for its type.",
						func() scoring.Operation { return SchemaMarkupValidation{} },
						suggestions.AddSchemaMarkup, suggestions.FixSchemaErrors),
					op("local_business_schema", "LocalBusiness schema",
						"Checks contact and location pages for complete LocalBusiness markup.",
						func() scoring.Operation { return LocalBusinessSchema{} },
						suggestions.AddLocalBusinessSchema, suggestions.CompleteLocalBusinessSchema),
				),
				factor("indexability", "Indexability", "Whether search engines may index the page under its own URL.",
					op("canonical_tag", "Canonical tag",
						"Checks for a canonical link and whether it points at the page itself.",
						func() scoring.Operation { return CanonicalTag{} },
						suggestions.AddCanonicalTag, suggestions.ReviewCanonicalTarget),
					op("robots_meta", "Robots meta",
						"Flags noindex and nofollow directives.",
						func() scoring.Operation { return RobotsMeta{} },
						suggestions.RemoveNoindex, suggestions.ReviewNofollow),
				),
				factor("performance", "Performance", "Document weight and render-blocking resources.",
					op("html_size", "HTML size",
						"Scores the size of the HTML document.",
						func() scoring.Operation { return HTMLSize{} },
						suggestions.ReducePageWeight),
					op("render_blocking_scripts", "Render-blocking scripts",
						"Counts synchronous scripts in the document head.",
						func() scoring.Operation { return RenderBlockingScripts{} },
						suggestions.DeferBlockingScripts),
				),
			},
		},
		{
			Descriptor: scoring.Descriptor{
				TypeTag:     ContentOptimization,
				Name:        "Content optimization",
				Description: "Keyword targeting, content quality and meta tags.",
			},
			Factors: []scoring.FactorRegistration{
				factor("keyword_optimization", "Keyword optimization", "Use of the focus and secondary keywords.",
					op("primary_keyword_in_title", "Focus keyword in title",
						"Checks that the title contains the focus keyword.",
						func() scoring.Operation { return PrimaryKeywordInTitle{} },
						suggestions.SetPrimaryKeyword, suggestions.AddKeywordToTitle),
					op("keyword_density", "Keyword density",
						"Measures how often the focus keyword appears in the text.",
						func() scoring.Operation { return KeywordDensity{} },
						suggestions.IncreaseKeywordUsage, suggestions.ReduceKeywordStuffing),
					op("secondary_keyword_coverage", "Secondary keyword coverage",
						"Checks that each secondary keyword appears in the text.",
						func() scoring.Operation { return SecondaryKeywordCoverage{} },
						suggestions.CoverSecondaryKeywords),
				),
				factor("content_quality", "Content quality", "Length and variety of the body text.",
					op("content_length", "Content length",
						"Scores the word count of the body text.",
						func() scoring.Operation { return ContentLength{} },
						suggestions.ExpandContent),
					op("content_repetition", "Content repetition",
						"Finds phrases repeated more often than the text length warrants.",
						func() scoring.Operation { return ContentRepetition{} },
						suggestions.ReduceRepetition),
				),
				factor("meta_tags", "Meta tags", "Title and meta description.",
					op("meta_description_length", "Meta description length",
						"Checks that the meta description is present and 120 to 160 characters long.",
						func() scoring.Operation { return MetaDescriptionLength{} },
						suggestions.AddMetaDescription, suggestions.LengthenMetaDescription, suggestions.ShortenMetaDescription),
					op("title_length", "Title length",
						"Checks that the title is present and 30 to 60 characters long.",
						func() scoring.Operation { return TitleLength{} },
						suggestions.AddTitle, suggestions.AdjustTitleLength),
					op("keyword_in_meta_description", "Focus keyword in meta description",
						"Checks that the meta description contains the focus keyword.",
						func() scoring.Operation { return KeywordInMetaDescription{} },
						suggestions.AddKeywordToMetaDescription),
				),
			},
		},
		{
			Descriptor: scoring.Descriptor{
				TypeTag:     Media,
				Name:        "Media",
				Description: "Images and their accessibility.",
			},
			Factors: []scoring.FactorRegistration{
				factor("image_optimization", "Image optimization", "Alternative text on images.",
					op("alt_text_presence", "Alt text presence",
						"Scores the share of images with an alt attribute.",
						func() scoring.Operation { return AltTextPresence{} },
						suggestions.AddMissingAltText),
					op("alt_text_quality", "Alt text quality",
						"Rates how descriptive the alt texts are.",
						func() scoring.Operation { return AltTextQuality{} },
						suggestions.AddMissingAltText, suggestions.ImproveAltText),
				),
			},
		},
		{
			Descriptor: scoring.Descriptor{
				TypeTag:     UserExperience,
				Name:        "User experience",
				Description: "Document outline and navigation.",
			},
			Factors: []scoring.FactorRegistration{
				factor("heading_structure", "Heading structure", "H1 usage and heading order.",
					op("single_h1", "Single H1",
						"Checks that the page has exactly one H1.",
						func() scoring.Operation { return SingleH1{} },
						suggestions.AddH1, suggestions.UseSingleH1),
					op("heading_hierarchy", "Heading hierarchy",
						"Checks for subheadings and skipped heading levels.",
						func() scoring.Operation { return HeadingHierarchy{} },
						suggestions.AddSubheadings, suggestions.FixHeadingHierarchy),
				),
				factor("link_structure", "Link structure", "Internal and outbound links.",
					op("internal_links", "Internal links",
						"Counts links to the same site.",
						func() scoring.Operation { return InternalLinks{} },
						suggestions.AddInternalLinks),
					op("external_links", "External links",
						"Checks for links to other sites.",
						func() scoring.Operation { return ExternalLinks{} },
						suggestions.AddExternalReferences),
				),
			},
		},
	}}
})
