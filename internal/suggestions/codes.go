package suggestions

const (
	AddSchemaMarkup              Code = "add_schema_markup"
	FixSchemaErrors              Code = "fix_schema_errors"
	AddLocalBusinessSchema       Code = "add_local_business_schema"
	CompleteLocalBusinessSchema  Code = "complete_local_business_schema"
	AddCanonicalTag              Code = "add_canonical_tag"
	ReviewCanonicalTarget        Code = "review_canonical_target"
	RemoveNoindex                Code = "remove_noindex"
	ReviewNofollow               Code = "review_nofollow"
	ReducePageWeight             Code = "reduce_page_weight"
	DeferBlockingScripts         Code = "defer_blocking_scripts"
	SetPrimaryKeyword            Code = "set_primary_keyword"
	AddKeywordToTitle            Code = "add_keyword_to_title"
	IncreaseKeywordUsage         Code = "increase_keyword_usage"
	ReduceKeywordStuffing        Code = "reduce_keyword_stuffing"
	CoverSecondaryKeywords       Code = "cover_secondary_keywords"
	ExpandContent                Code = "expand_content"
	ReduceRepetition             Code = "reduce_repetition"
	AddMetaDescription           Code = "add_meta_description"
	LengthenMetaDescription      Code = "lengthen_meta_description"
	ShortenMetaDescription       Code = "shorten_meta_description"
	AddTitle                     Code = "add_title"
	AdjustTitleLength            Code = "adjust_title_length"
	AddKeywordToMetaDescription  Code = "add_keyword_to_meta_description"
	AddMissingAltText            Code = "add_missing_alt_text"
	ImproveAltText               Code = "improve_alt_text"
	AddH1                        Code = "add_h1"
	UseSingleH1                  Code = "use_single_h1"
	AddSubheadings               Code = "add_subheadings"
	FixHeadingHierarchy          Code = "fix_heading_hierarchy"
	AddInternalLinks             Code = "add_internal_links"
	AddExternalReferences        Code = "add_external_references"
)

var descriptors = []Descriptor{
	{AddSchemaMarkup, "Add structured data",
		"No schema.org JSON-LD was found. Structured data helps search engines understand and present the page.",
		PriorityHigh, 0.5, CategoryImplementation},
	{FixSchemaErrors, "Fix structured data errors",
		"One or more JSON-LD blocks are missing required properties or are malformed.",
		PriorityHigh, 0.9, CategoryError},
	{AddLocalBusinessSchema, "Add LocalBusiness schema",
		"This page looks like a contact or location page but has no LocalBusiness markup.",
		PriorityMedium, 0.5, CategoryImplementation},
	{CompleteLocalBusinessSchema, "Complete LocalBusiness schema",
		"The LocalBusiness markup is missing required or recommended properties such as address, telephone or opening hours.",
		PriorityMedium, 0.9, CategoryOptimization},
	{AddCanonicalTag, "Add a canonical tag",
		"Declare the preferred URL with <link rel=\"canonical\"> to avoid duplicate-content dilution.",
		PriorityHigh, 0.5, CategoryImplementation},
	{ReviewCanonicalTarget, "Review canonical target",
		"The canonical tag points to a different URL. Make sure this is intentional.",
		PriorityMedium, 0.9, CategoryWarning},
	{RemoveNoindex, "Remove noindex",
		"The robots meta tag tells search engines not to index this page.",
		PriorityCritical, 0.5, CategoryError},
	{ReviewNofollow, "Review nofollow",
		"The robots meta tag tells search engines not to follow links on this page.",
		PriorityMedium, 0.9, CategoryWarning},
	{ReducePageWeight, "Reduce page weight",
		"The HTML document is large. Trim inline styles, scripts and unused markup.",
		PriorityMedium, 0.7, CategoryOptimization},
	{DeferBlockingScripts, "Defer render-blocking scripts",
		"Scripts in <head> without async or defer delay the first render.",
		PriorityLow, 0.8, CategoryOptimization},
	{SetPrimaryKeyword, "Set a focus keyword",
		"No primary keyword is configured for this page, so keyword checks cannot run.",
		PriorityHigh, 0.5, CategoryNotice},
	{AddKeywordToTitle, "Use the focus keyword in the title",
		"The page title does not contain the primary keyword.",
		PriorityHigh, 0.5, CategoryOptimization},
	{IncreaseKeywordUsage, "Use the focus keyword more often",
		"The primary keyword appears too rarely in the content.",
		PriorityMedium, 0.9, CategoryOptimization},
	{ReduceKeywordStuffing, "Reduce keyword stuffing",
		"The primary keyword appears so often that the content may read as spam.",
		PriorityHigh, 0.9, CategoryWarning},
	{CoverSecondaryKeywords, "Cover secondary keywords",
		"Some secondary keywords do not appear in the content.",
		PriorityLow, 0.9, CategoryOptimization},
	{ExpandContent, "Expand the content",
		"The page has little text. Longer, substantive content tends to rank better.",
		PriorityMedium, 0.8, CategoryOptimization},
	{ReduceRepetition, "Reduce repeated phrases",
		"Several phrases are repeated many times. Vary the wording.",
		PriorityLow, 0.9, CategoryOptimization},
	{AddMetaDescription, "Add a meta description",
		"No meta description is set. Search engines will pick a snippet on their own.",
		PriorityHigh, 0.5, CategoryImplementation},
	{LengthenMetaDescription, "Lengthen the meta description",
		"The meta description is shorter than 120 characters.",
		PriorityLow, 0.9, CategoryOptimization},
	{ShortenMetaDescription, "Shorten the meta description",
		"The meta description is longer than 160 characters and will be truncated.",
		PriorityLow, 0.9, CategoryOptimization},
	{AddTitle, "Add a page title",
		"The page has no title.",
		PriorityCritical, 0.5, CategoryError},
	{AdjustTitleLength, "Adjust the title length",
		"Titles between 30 and 60 characters display best in search results.",
		PriorityLow, 0.9, CategoryOptimization},
	{AddKeywordToMetaDescription, "Use the focus keyword in the meta description",
		"The meta description does not mention the primary keyword.",
		PriorityMedium, 0.5, CategoryOptimization},
	{AddMissingAltText, "Add missing alt text",
		"Some images have no alt attribute text.",
		PriorityHigh, 0.95, CategoryImplementation},
	{ImproveAltText, "Improve alt text",
		"Alt texts look like file names or generic words. Describe what the image shows.",
		PriorityLow, 0.8, CategoryOptimization},
	{AddH1, "Add an H1 heading",
		"The page has no H1 heading.",
		PriorityHigh, 0.5, CategoryImplementation},
	{UseSingleH1, "Use a single H1",
		"The page has more than one H1 heading.",
		PriorityMedium, 0.9, CategoryWarning},
	{AddSubheadings, "Add subheadings",
		"The content has no headings to structure it.",
		PriorityMedium, 0.5, CategoryOptimization},
	{FixHeadingHierarchy, "Fix heading hierarchy",
		"Heading levels are skipped (for example H2 followed by H4).",
		PriorityLow, 0.9, CategoryOptimization},
	{AddInternalLinks, "Add internal links",
		"Link to related pages on the same site.",
		PriorityMedium, 0.9, CategoryOptimization},
	{AddExternalReferences, "Add external references",
		"Linking to authoritative sources can support the content.",
		PriorityLow, 0.9, CategoryNotice},
}
