package models

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// Exon and protein lookups accept either the surrogate integer key or the
// business key (Ensembl / UniProt ID). ParseNumericKey decides which column
// to match: a string of pure digits is treated as the integer key.
func ParseNumericKey(key string) (uint, bool) {
	if key == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// FindExon fetches one exon by exon_id or ensembl_exon_id.
func FindExon(ctx context.Context, db *gorm.DB, key string) (*Exon, error) {
	var exon Exon
	q := db.WithContext(ctx)
	if id, ok := ParseNumericKey(key); ok {
		q = q.Where("exon_id = ?", id)
	} else {
		q = q.Where("ensembl_exon_id = ?", key)
	}
	if err := q.First(&exon).Error; err != nil {
		return nil, err
	}
	return &exon, nil
}

// FindProtein fetches one protein by protein_id or uniprot_id.
func FindProtein(ctx context.Context, db *gorm.DB, key string) (*Protein, error) {
	var protein Protein
	q := db.WithContext(ctx)
	if id, ok := ParseNumericKey(key); ok {
		q = q.Where("protein_id = ?", id)
	} else {
		q = q.Where("uniprot_id = ?", key)
	}
	if err := q.First(&protein).Error; err != nil {
		return nil, err
	}
	return &protein, nil
}

// FindInteraction fetches one interaction by eei_id, together with its
// method and whatever attribute rows exist for it.
func FindInteraction(ctx context.Context, db *gorm.DB, id uint) (*InteractionDetail, error) {
	var detail InteractionDetail
	if err := db.WithContext(ctx).First(&detail.Interaction, "eei_id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).First(&detail.Method, "method_id = ?", detail.Interaction.MethodID).Error; err != nil {
		return nil, err
	}

	// Attribute rows are optional; missing ones are not an error.
	var om OrthologyMapping
	if err := db.WithContext(ctx).First(&om, "eei_id = ?", id).Error; err == nil {
		detail.Orthology = &om
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	var pisa PisaAttributes
	if err := db.WithContext(ctx).First(&pisa, "eei_id = ?", id).Error; err == nil {
		detail.Pisa = &pisa
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	var eppic EppicAttributes
	if err := db.WithContext(ctx).First(&eppic, "eei_id = ?", id).Error; err == nil {
		detail.Eppic = &eppic
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &detail, nil
}

// InteractionDetail bundles an interaction with its method and the
// attribute side-tables that apply to it.
type InteractionDetail struct {
	Interaction Interaction       `json:"interaction"`
	Method      Method            `json:"method"`
	Orthology   *OrthologyMapping `json:"orthology_mapping,omitempty"`
	Pisa        *PisaAttributes   `json:"pisa_attributes,omitempty"`
	Eppic       *EppicAttributes  `json:"eppic_attributes,omitempty"`
}
