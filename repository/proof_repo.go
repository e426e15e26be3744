package repository

import (
	"context"
	"errors"
	"time"

	proof_model "dogwalking/models/proof"

	"gorm.io/gorm"
)

// ProofRepository persists walk proofs and owner decisions on them.
type ProofRepository struct {
	DB *gorm.DB
}

func NewProofRepository(db *gorm.DB) *ProofRepository {
	return &ProofRepository{DB: db}
}

func (r *ProofRepository) Create(ctx context.Context, p *proof_model.WalkProof) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *ProofRepository) GetByID(ctx context.Context, id uint) (*proof_model.WalkProof, error) {
	var p proof_model.WalkProof
	err := r.DB.WithContext(ctx).
		Preload("Booking").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByBooking returns all proofs for a booking in upload order.
func (r *ProofRepository) ListByBooking(ctx context.Context, bookingID uint) ([]proof_model.WalkProof, error) {
	var proofs []proof_model.WalkProof
	err := r.DB.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("uploaded_at ASC").
		Find(&proofs).Error
	if err != nil {
		return nil, err
	}
	return proofs, nil
}

// DecideIf records an owner decision only while the proof is still pending.
// A zero-row update means the proof was already decided.
func (r *ProofRepository) DecideIf(ctx context.Context, id uint, status proof_model.ProofStatus, decidedAt time.Time, decidedBy uint) error {
	result := r.DB.WithContext(ctx).
		Model(&proof_model.WalkProof{}).
		Where("id = ? AND status = ?", id, proof_model.ProofStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"validated_at": decidedAt,
			"validated_by": decidedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// SetDogDetected writes the async screening verdict. Best effort only.
func (r *ProofRepository) SetDogDetected(ctx context.Context, id uint, detected bool) error {
	return r.DB.WithContext(ctx).
		Model(&proof_model.WalkProof{}).
		Where("id = ?", id).
		Update("dog_detected", detected).Error
}
