// Package taxonomy defines the fixed vocabulary of the discovery platform:
// biological data types, disease categories, and tissue types, together with
// the keyword tables used to classify free-text archive metadata.
package taxonomy

import (
	"fmt"
	"strings"
)

// DataType identifies a supported biological data modality.
type DataType string

const (
	RNASeq       DataType = "rna_seq"
	Genomics     DataType = "genomics"
	Proteomics   DataType = "proteomics"
	Metabolomics DataType = "metabolomics"
	SingleCell   DataType = "single_cell"
	MultiOmics   DataType = "multi_omics"
)

// DataTypes lists all data types in declaration order. MultiOmics is a
// grouping value and is never used as a discovery target.
var DataTypes = []DataType{RNASeq, Genomics, Proteomics, Metabolomics, SingleCell, MultiOmics}

// DiscoverableDataTypes lists the data types a discovery run may target.
var DiscoverableDataTypes = []DataType{RNASeq, Genomics, Proteomics, Metabolomics, SingleCell}

// DiseaseFocus identifies a disease category.
type DiseaseFocus string

const (
	Cancer            DiseaseFocus = "cancer"
	Neurodegenerative DiseaseFocus = "neurodegenerative"
	Cardiovascular    DiseaseFocus = "cardiovascular"
	Metabolic         DiseaseFocus = "metabolic"
	Autoimmune        DiseaseFocus = "autoimmune"
	Infectious        DiseaseFocus = "infectious"
	Developmental     DiseaseFocus = "developmental"
)

// DiseaseFoci lists all disease categories. The order is the classification
// tie-break priority: when a record matches keywords from several categories,
// the first category in this list wins. The ordering itself is arbitrary but
// fixed; changing it silently changes classification results.
var DiseaseFoci = []DiseaseFocus{
	Cancer, Neurodegenerative, Cardiovascular, Metabolic,
	Autoimmune, Infectious, Developmental,
}

// TissueType identifies a tissue or organ.
type TissueType string

const (
	Brain    TissueType = "brain"
	Heart    TissueType = "heart"
	Liver    TissueType = "liver"
	Pancreas TissueType = "pancreas"
	Lung     TissueType = "lung"
	Breast   TissueType = "breast"
	Blood    TissueType = "blood"
	Muscle   TissueType = "muscle"
	Skin     TissueType = "skin"
	Gut      TissueType = "gut"
	Kidney   TissueType = "kidney"
	Prostate TissueType = "prostate"
	Ovary    TissueType = "ovary"
	Bone     TissueType = "bone"
	Thyroid  TissueType = "thyroid"
)

// TissueTypes lists all tissue types. As with DiseaseFoci, list order is the
// tie-break priority during classification.
var TissueTypes = []TissueType{
	Brain, Heart, Liver, Pancreas, Lung, Breast, Blood, Muscle,
	Skin, Gut, Kidney, Prostate, Ovary, Bone, Thyroid,
}

// DiseaseKeywords maps each disease category to the lowercase substrings that
// mark a record as belonging to it.
var DiseaseKeywords = map[DiseaseFocus][]string{
	Cancer: {
		"cancer", "tumor", "carcinoma", "adenocarcinoma", "sarcoma",
		"lymphoma", "leukemia", "malignant", "neoplasm", "metastasis",
	},
	Neurodegenerative: {
		"alzheimer", "parkinson", "huntington", "dementia", "neurodegenerat",
		"amyotrophic", "multiple sclerosis", "tauopathy", "synucleinopathy",
	},
	Cardiovascular: {
		"heart failure", "myocardial infarction", "atherosclerosis", "hypertension",
		"cardiovascular", "cardiac", "coronary", "stroke", "ischemia",
	},
	Metabolic: {
		"diabetes", "obesity", "metabolic syndrome", "insulin resistance",
		"hyperglycemia", "dyslipidemia", "metabolic disorder",
	},
	Autoimmune: {
		"rheumatoid arthritis", "lupus", "scleroderma", "autoimmune",
		"inflammatory bowel", "crohn", "ulcerative colitis", "psoriasis",
	},
	Infectious: {
		"covid", "sars", "influenza", "tuberculosis", "hepatitis",
		"sepsis", "pneumonia", "infection", "pathogen",
	},
	Developmental: {
		"autism", "adhd", "developmental delay", "intellectual disability",
		"down syndrome", "fragile x", "developmental disorder",
	},
}

// TissueKeywords maps each tissue type to the lowercase substrings used to
// infer it from sample and study titles.
var TissueKeywords = map[TissueType][]string{
	Brain:    {"brain", "cortex", "hippocampus", "cerebellum", "neural", "neuron"},
	Heart:    {"heart", "cardiac", "myocardial", "cardiomyocyte"},
	Liver:    {"liver", "hepatic", "hepatocyte"},
	Pancreas: {"pancreas", "pancreatic", "islet", "beta cell"},
	Lung:     {"lung", "pulmonary", "alveolar", "bronchial"},
	Breast:   {"breast", "mammary"},
	Blood:    {"blood", "plasma", "serum", "lymphocyte", "leukocyte"},
	Muscle:   {"muscle", "skeletal", "cardiac muscle"},
	Skin:     {"skin", "dermal", "epidermal"},
	Gut:      {"gut", "intestine", "colon", "duodenum", "jejunum"},
	Kidney:   {"kidney", "renal", "nephron"},
	Prostate: {"prostate", "prostatic"},
	Ovary:    {"ovary", "ovarian", "follicle"},
	Bone:     {"bone", "osteoblast", "osteoclast", "marrow"},
	Thyroid:  {"thyroid", "thyroidal"},
}

// LibraryStrategies maps a data type to the ENA library_strategy values that
// identify it in the archive.
var LibraryStrategies = map[DataType][]string{
	RNASeq:       {"RNA-Seq"},
	Genomics:     {"WGS", "WXS", "ChIP-Seq", "ATAC-Seq"},
	Proteomics:   {"Proteomics"},
	Metabolomics: {"Metabolomics"},
	SingleCell:   {"RNA-Seq"},
}

// ParseDataType validates a data type string.
func ParseDataType(s string) (DataType, error) {
	dt := DataType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DataTypes {
		if dt == known {
			return dt, nil
		}
	}
	return "", fmt.Errorf("unknown data type: %q", s)
}

// ParseDiseaseFocus validates a disease focus string.
func ParseDiseaseFocus(s string) (DiseaseFocus, error) {
	df := DiseaseFocus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DiseaseFoci {
		if df == known {
			return df, nil
		}
	}
	return "", fmt.Errorf("unknown disease focus: %q", s)
}

// ParseTissueType validates a tissue type string. An empty string is valid and
// means "no tissue filter".
func ParseTissueType(s string) (TissueType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	tt := TissueType(s)
	for _, known := range TissueTypes {
		if tt == known {
			return tt, nil
		}
	}
	return "", fmt.Errorf("unknown tissue type: %q", s)
}
