package weights

// Defaults returns the shipped weight table. Sibling groups are normalized by
// their sum at aggregation time, so they need not add up to exactly 1.0.
func Defaults() Overrides {
	return Overrides{
		NamespaceContext: {
			"technical_seo":        0.30,
			"content_optimization": 0.45,
			"media":                0.15,
			"user_experience":      0.09,
		},
		NamespaceFactor: {
			// technical_seo
			"structured_data": 0.40,
			"indexability":    0.35,
			"performance":     0.25,
			// content_optimization
			"keyword_optimization": 0.40,
			"content_quality":      0.35,
			"meta_tags":            0.25,
			// media
			"image_optimization": 1.00,
			// user_experience
			"heading_structure": 0.60,
			"link_structure":    0.40,
		},
		NamespaceOperation: {
			// structured_data
			"schema_markup_validation": 0.60,
			"local_business_schema":    0.40,
			// indexability
			"canonical_tag": 0.50,
			"robots_meta":   0.50,
			// performance
			"html_size":               0.50,
			"render_blocking_scripts": 0.50,
			// keyword_optimization
			"primary_keyword_in_title":   0.35,
			"keyword_density":            0.35,
			"secondary_keyword_coverage": 0.30,
			// content_quality
			"content_length":     0.60,
			"content_repetition": 0.40,
			// meta_tags
			"meta_description_length":     0.50,
			"title_length":                0.30,
			"keyword_in_meta_description": 0.19,
			// image_optimization
			"alt_text_presence": 0.60,
			"alt_text_quality":  0.40,
			// heading_structure
			"single_h1":         0.50,
			"heading_hierarchy": 0.50,
			// link_structure
			"internal_links": 0.60,
			"external_links": 0.40,
		},
	}
}
