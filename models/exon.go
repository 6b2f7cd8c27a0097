package models

// Exon is one exon with its genomic coordinates. Rows are written by the
// offline ingestion pipeline only; the API never mutates them.
type Exon struct {
	ExonID        uint   `json:"exon_id" gorm:"primaryKey;column:exon_id"`
	EnsemblExonID string `json:"ensembl_exon_id" gorm:"column:ensembl_exon_id;uniqueIndex;not null"` // e.g. "ENSE00003628846"
	Chromosome    string `json:"chromosome" gorm:"index"`
	Strand        int    `json:"strand"` // +1 / -1
	StartPos      int64  `json:"start_pos" gorm:"column:start_pos"`
	EndPos        int64  `json:"end_pos" gorm:"column:end_pos"`
	Length        int    `json:"length"`
	GeneID        *uint  `json:"gene_id,omitempty" gorm:"index"`
}

func (Exon) TableName() string { return "exons" }
