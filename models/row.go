package models

// InteractionRow is the flat projection of the interaction join view
// (both exon/protein/gene sides, method, orthology fields). Network,
// search and export queries all scan into this shape; optional fields
// stay nil when the joined row has no value.
type InteractionRow struct {
	EEIID uint `json:"eei_id" gorm:"column:eei_id"`

	Exon1 string `json:"exon1" gorm:"column:exon1"` // Ensembl exon IDs
	Exon2 string `json:"exon2" gorm:"column:exon2"`

	Protein1 string `json:"protein1" gorm:"column:protein1"` // UniProt IDs
	Protein2 string `json:"protein2" gorm:"column:protein2"`

	Gene1 *string `json:"gene1,omitempty" gorm:"column:gene1"` // gene symbols; nil when unannotated
	Gene2 *string `json:"gene2,omitempty" gorm:"column:gene2"`

	MethodName string `json:"method_name" gorm:"column:method_name"`
	MethodType string `json:"method_type" gorm:"column:method_type"`

	PDBID          *string  `json:"pdb_id,omitempty" gorm:"column:pdb_id"`
	JaccardPercent *float64 `json:"jaccard_percent,omitempty" gorm:"column:jaccard_percent"`
	AA1            *string  `json:"aa1,omitempty" gorm:"column:aa1"`
	AA2            *string  `json:"aa2,omitempty" gorm:"column:aa2"`

	Confidence            *float64 `json:"confidence,omitempty" gorm:"column:confidence"`
	Identity1             *float64 `json:"identity1,omitempty" gorm:"column:identity1"`
	Identity2             *float64 `json:"identity2,omitempty" gorm:"column:identity2"`
	MouseExon1Coordinates *string  `json:"mouse_exon1_coordinates,omitempty" gorm:"column:mouse_exon1_coordinates"`
	MouseExon2Coordinates *string  `json:"mouse_exon2_coordinates,omitempty" gorm:"column:mouse_exon2_coordinates"`
}
