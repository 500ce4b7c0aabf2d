package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for entry documents.
//
// Notes get English stemming for natural-language search. Owner, mood, and
// triggers use the keyword analyzer: they are filters, never fuzzy matches,
// and compound trigger names like "Work Stress" must stay intact.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	notesFieldMapping := bleve.NewTextFieldMapping()
	notesFieldMapping.Analyzer = en.AnalyzerName
	notesFieldMapping.Store = true
	notesFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("notes", notesFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	ownerFieldMapping := bleve.NewTextFieldMapping()
	ownerFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("owner_id", ownerFieldMapping)

	moodFieldMapping := bleve.NewTextFieldMapping()
	moodFieldMapping.Analyzer = keyword.Name
	moodFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("mood", moodFieldMapping)

	triggersFieldMapping := bleve.NewTextFieldMapping()
	triggersFieldMapping.Analyzer = keyword.Name
	triggersFieldMapping.Store = true
	triggersFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("triggers", triggersFieldMapping)

	occurredAtFieldMapping := bleve.NewNumericFieldMapping()
	occurredAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("occurred_at", occurredAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
