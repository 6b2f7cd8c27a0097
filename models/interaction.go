package models

import (
	"time"
)

// Method type tags. They decide which attribute side-tables apply.
const (
	MethodTypeExperimental = "experimental"
	MethodTypePredicted    = "predicted"
)

// Method is a detection method, e.g. PISA or EPPIC.
type Method struct {
	MethodID uint   `json:"method_id" gorm:"primaryKey;column:method_id"`
	Name     string `json:"name" gorm:"uniqueIndex;not null"`
	Type     string `json:"type" gorm:"index;not null"` // experimental | predicted
}

func (Method) TableName() string { return "eei_methods" }

// Interaction is one exon-exon interaction (EEI). The pair is stored
// directed but treated as unordered everywhere the API filters on it.
type Interaction struct {
	EEIID     uint      `json:"eei_id" gorm:"primaryKey;column:eei_id"`
	CreatedAt time.Time `json:"created_at"`

	Exon1ID    uint `json:"exon1_id" gorm:"column:exon1_id;index;not null"`
	Exon2ID    uint `json:"exon2_id" gorm:"column:exon2_id;index;not null"`
	Protein1ID uint `json:"protein1_id" gorm:"column:protein1_id;index;not null"`
	Protein2ID uint `json:"protein2_id" gorm:"column:protein2_id;index;not null"`
	MethodID   uint `json:"method_id" gorm:"index;not null"`

	// Structural fields; jaccard is populated mainly for experimental rows.
	PDBID          *string  `json:"pdb_id,omitempty" gorm:"column:pdb_id;index"`
	JaccardPercent *float64 `json:"jaccard_percent,omitempty" gorm:"column:jaccard_percent"`
	AA1            *string  `json:"aa1,omitempty" gorm:"column:aa1;type:text"`
	AA2            *string  `json:"aa2,omitempty" gorm:"column:aa2;type:text"`
}

func (Interaction) TableName() string { return "eei_interactions" }
