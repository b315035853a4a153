// Package types provides type definitions for the catalog, selection and classification data
// shared across the mindtype packages.
package types

// Fixed cardinalities of the classification model.
const (
	CategoryCount         = 3
	IntermediateTypeCount = 16
	FinalTypeCount        = 32
	MaxSelectionsPerCat   = 3
)

// Category is one of the three selection domains (mind / daily-life / leisure).
type Category struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	EnglishName  string `json:"english_name,omitempty" yaml:"english_name,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Instruction  string `json:"instruction,omitempty" yaml:"instruction,omitempty"`
	DisplayOrder int    `json:"display_order" yaml:"display_order"`
}

// MainKeyword groups sub-keywords under a category.
type MainKeyword struct {
	ID           int    `json:"id" yaml:"id"`
	CategoryID   int    `json:"category_id" yaml:"category_id"`
	Name         string `json:"name" yaml:"name"`
	SearchVolume int    `json:"search_volume,omitempty" yaml:"search_volume,omitempty"`
	DisplayOrder int    `json:"display_order" yaml:"display_order"`
}

// SubKeyword is the atomic selectable unit.
type SubKeyword struct {
	ID            int    `json:"id" yaml:"id"`
	MainKeywordID int    `json:"main_keyword_id" yaml:"main_keyword_id"`
	Name          string `json:"name" yaml:"name"`
	DisplayOrder  int    `json:"display_order" yaml:"display_order"`
}

// IntermediateType is one of the 16 archetype axes scores accumulate against.
type IntermediateType struct {
	ID              int    `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	Characteristics string `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`
	DisplayOrder    int    `json:"display_order" yaml:"display_order"`
}

// Trait is a titled strength or weakness of a final type.
type Trait struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// FinalType is one of the 32 terminal character types.
type FinalType struct {
	ID                 int      `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Animal             string   `json:"animal,omitempty" yaml:"animal,omitempty"`
	GroupName          string   `json:"group_name,omitempty" yaml:"group_name,omitempty"`
	OneLiner           string   `json:"one_liner,omitempty" yaml:"one_liner,omitempty"`
	Overview           string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	Greeting           string   `json:"greeting,omitempty" yaml:"greeting,omitempty"`
	Hashtags           []string `json:"hashtags,omitempty" yaml:"hashtags,omitempty"`
	Strengths          []Trait  `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Weaknesses         []Trait  `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`
	RelationshipStyle  string   `json:"relationship_style,omitempty" yaml:"relationship_style,omitempty"`
	BehaviorPattern    string   `json:"behavior_pattern,omitempty" yaml:"behavior_pattern,omitempty"`
	ImageFilename      string   `json:"image_filename,omitempty" yaml:"image_filename,omitempty"`
	ImageFilenameRight string   `json:"image_filename_right,omitempty" yaml:"image_filename_right,omitempty"`
	StrengthIcons      []string `json:"strength_icons,omitempty" yaml:"strength_icons,omitempty"`
	WeaknessIcons      []string `json:"weakness_icons,omitempty" yaml:"weakness_icons,omitempty"`
}

// KeywordTypeScore is the weight of one sub-keyword toward one intermediate type.
type KeywordTypeScore struct {
	SubKeywordID       int     `json:"sub_keyword_id" yaml:"sub_keyword_id"`
	IntermediateTypeID int     `json:"intermediate_type_id" yaml:"intermediate_type_id"`
	Score              float64 `json:"score" yaml:"score"`
}

// TypeCombination maps an ordered tuple of dominant intermediate types to a final type.
type TypeCombination struct {
	IntermediateTypeIDs []int `json:"intermediate_type_ids" yaml:"intermediate_type_ids"`
	FinalTypeID         int   `json:"final_type_id" yaml:"final_type_id"`
}

// CalculationWeight is the multiplier applied to a selection by its rank.
type CalculationWeight struct {
	Rank   int     `json:"rank" yaml:"rank"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// CatalogTables is the raw, unvalidated form of the reference data as supplied by a loader
// (seed file or database).
type CatalogTables struct {
	Version           string              `json:"version,omitempty" yaml:"version,omitempty"`
	Categories        []Category          `json:"categories" yaml:"categories"`
	MainKeywords      []MainKeyword       `json:"main_keywords" yaml:"main_keywords"`
	SubKeywords       []SubKeyword        `json:"sub_keywords" yaml:"sub_keywords"`
	IntermediateTypes []IntermediateType  `json:"intermediate_types" yaml:"intermediate_types"`
	FinalTypes        []FinalType         `json:"final_types" yaml:"final_types"`
	Scores            []KeywordTypeScore  `json:"scores" yaml:"scores"`
	Combinations      []TypeCombination   `json:"combinations" yaml:"combinations"`
	Weights           []CalculationWeight `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// KeywordItem is a sub-keyword as presented for browsing, joined with its main keyword.
type KeywordItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MainKeyword string `json:"main_keyword"`
}

// CategoryKeywords is a category with every selectable keyword in display order.
type CategoryKeywords struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	EnglishName string        `json:"english_name"`
	Description string        `json:"description"`
	Instruction string        `json:"instruction"`
	Keywords    []KeywordItem `json:"keywords"`
}
