package models

// Organism is the species a gene belongs to.
type Organism struct {
	OrganismID uint   `json:"organism_id" gorm:"primaryKey;column:organism_id"`
	Name       string `json:"name" gorm:"uniqueIndex;not null"` // e.g. "Homo sapiens"
	TaxID      int    `json:"tax_id,omitempty" gorm:"column:tax_id;index"`
}

func (Organism) TableName() string { return "organisms" }

// Gene groups the exons and proteins of one locus.
type Gene struct {
	GeneID     uint   `json:"gene_id" gorm:"primaryKey;column:gene_id"`
	GeneSymbol string `json:"gene_symbol" gorm:"uniqueIndex;not null"` // e.g. "TP53"
	GeneName   string `json:"gene_name,omitempty"`
	OrganismID uint   `json:"organism_id" gorm:"index;not null"`
}

func (Gene) TableName() string { return "genes" }
