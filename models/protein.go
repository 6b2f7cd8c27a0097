package models

// Protein is the encoding protein of one interaction side.
type Protein struct {
	ProteinID       uint    `json:"protein_id" gorm:"primaryKey;column:protein_id"`
	UniprotID       string  `json:"uniprot_id" gorm:"column:uniprot_id;uniqueIndex;not null"` // e.g. "P04637"
	Name            string  `json:"name,omitempty"`
	SequenceLength  int     `json:"sequence_length,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`
	GeneID          *uint   `json:"gene_id,omitempty" gorm:"index"`
}

func (Protein) TableName() string { return "proteins" }
