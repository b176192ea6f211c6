package source

import "github.com/poiesic/qaembed/core"

// Field names a logical column of a source row.
type Field int

const (
	FieldPostURL Field = iota
	FieldTitle
	FieldAPIName
	FieldQuestion
	FieldAnswer
	FieldLevel1
	FieldLevel2
	FieldLevel3
	FieldLeafContractCategory
	FieldRootCause
	FieldEffect
	FieldMLLibrary
	FieldContractViolationLocation
	FieldDetectionTechnique
	FieldReasonsForNotLabeling
	FieldReasonsForLabeling
)

// Aliases lists the accepted column names per field, in priority order.
var Aliases = map[Field][]string{
	FieldPostURL:                   {"SO Post URL", "so_post_url", "url", "Post URL"},
	FieldTitle:                     {"Title", "title"},
	FieldAPIName:                   {"ML API Name", "ml_api_name", "API", "api"},
	FieldQuestion:                  {"Question", "question", "question_html"},
	FieldAnswer:                    {"Answer", "answer", "answer_html"},
	FieldLevel1:                    {"Level 1 (Central Contract Category)", "level1", "Level 1"},
	FieldLevel2:                    {"Level 2", "level2"},
	FieldLevel3:                    {"Level 3 (Hybrid Patterns)", "level3", "Level 3"},
	FieldLeafContractCategory:      {"Leaf Contract Category", "leafContractCategory"},
	FieldRootCause:                 {"Root Cause", "rootCause"},
	FieldEffect:                    {"Effect", "effect"},
	FieldMLLibrary:                 {"ML Library", "mlLibrary"},
	FieldContractViolationLocation: {"Contract Violation Location", "contractViolationLocation"},
	FieldDetectionTechnique:        {"Detection Technique", "detectionTechnique"},
	FieldReasonsForNotLabeling:     {"Reasons for not labelling", "reasonsForNotLabeling"},
	FieldReasonsForLabeling:        {"Reasons for labeling", "reasonsForLabeling"},
}

// DefaultReasonsForNotLabeling fills an empty reasons-for-not-labeling column.
const DefaultReasonsForNotLabeling = "NA"

// Row is a single source row keyed by column name.
type Row map[string]string

// Pick returns the value of the first alias of field with a non-empty value.
func (r Row) Pick(field Field) string {
	for _, name := range Aliases[field] {
		if v := r[name]; v != "" {
			return v
		}
	}
	return ""
}

// Labels extracts the label columns. An empty leaf category falls back to
// level 3.
func (r Row) Labels() core.Labels {
	labels := core.Labels{
		Level1:                    r.Pick(FieldLevel1),
		Level2:                    r.Pick(FieldLevel2),
		Level3:                    r.Pick(FieldLevel3),
		LeafContractCategory:      r.Pick(FieldLeafContractCategory),
		RootCause:                 r.Pick(FieldRootCause),
		Effect:                    r.Pick(FieldEffect),
		MLLibrary:                 r.Pick(FieldMLLibrary),
		ContractViolationLocation: r.Pick(FieldContractViolationLocation),
		DetectionTechnique:        r.Pick(FieldDetectionTechnique),
		ReasonsForNotLabeling:     r.Pick(FieldReasonsForNotLabeling),
		ReasonsForLabeling:        r.Pick(FieldReasonsForLabeling),
	}
	if labels.LeafContractCategory == "" {
		labels.LeafContractCategory = labels.Level3
	}
	if labels.ReasonsForNotLabeling == "" {
		labels.ReasonsForNotLabeling = DefaultReasonsForNotLabeling
	}
	return labels
}
