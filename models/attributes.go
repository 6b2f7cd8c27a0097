package models

import "gorm.io/datatypes"

// OrthologyMapping extends a predicted interaction with the orthology
// evidence behind it. Present iff the interaction's method is predicted.
type OrthologyMapping struct {
	EEIID      uint     `json:"eei_id" gorm:"primaryKey;column:eei_id"`
	Confidence *float64 `json:"confidence,omitempty"` // 0..1

	// Per-exon sequence identity against the mouse ortholog.
	Identity1 *float64 `json:"identity1,omitempty" gorm:"column:identity1"`
	Identity2 *float64 `json:"identity2,omitempty" gorm:"column:identity2"`

	// Mouse genome coordinate strings, e.g. "chr11:69580359-69580853".
	MouseExon1Coordinates *string `json:"mouse_exon1_coordinates,omitempty" gorm:"column:mouse_exon1_coordinates"`
	MouseExon2Coordinates *string `json:"mouse_exon2_coordinates,omitempty" gorm:"column:mouse_exon2_coordinates"`
}

func (OrthologyMapping) TableName() string { return "eei_orthology_mapping" }

// PisaAttributes carries PISA energetics for one interaction.
type PisaAttributes struct {
	EEIID          uint           `json:"eei_id" gorm:"primaryKey;column:eei_id"`
	FreeEnergy     *float64       `json:"free_energy,omitempty" gorm:"column:free_energy"`
	BuriedArea     *float64       `json:"buried_area,omitempty" gorm:"column:buried_area"`
	HydrogenBonds  *int           `json:"hydrogen_bonds,omitempty" gorm:"column:hydrogen_bonds"`
	SaltBridges    *int           `json:"salt_bridges,omitempty" gorm:"column:salt_bridges"`
	DisulfideBonds *int           `json:"disulfide_bonds,omitempty" gorm:"column:disulfide_bonds"`
	RawResult      datatypes.JSON `json:"raw_result,omitempty" gorm:"type:jsonb"` // untouched PISA output from the pipeline
}

func (PisaAttributes) TableName() string { return "eei_pisa_attributes" }

// EppicAttributes carries EPPIC classification scores for one interaction.
type EppicAttributes struct {
	EEIID     uint           `json:"eei_id" gorm:"primaryKey;column:eei_id"`
	CSScore   *float64       `json:"cs_score,omitempty" gorm:"column:cs_score"`
	CRScore   *float64       `json:"cr_score,omitempty" gorm:"column:cr_score"`
	RawResult datatypes.JSON `json:"raw_result,omitempty" gorm:"type:jsonb"`
}

func (EppicAttributes) TableName() string { return "eei_eppic_attributes" }
