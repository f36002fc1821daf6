package dao

import (
	"context"

	"github.com/IkhsanDimas/nega-chatbot/sources/psql/models"

	"gorm.io/gorm"
)

type OTPDAO struct {
	DB *gorm.DB
}

func NewOTPDAO(db *gorm.DB) *OTPDAO {
	return &OTPDAO{DB: db}
}

// Replace removes any prior codes for the email and stores the new one,
// so at most one code per email is ever live.
func (dao *OTPDAO) Replace(ctx context.Context, otp *models.OTPCode) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", otp.Email).Delete(&models.OTPCode{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
}

// FindUnverified looks up a not-yet-verified code for the email.
func (dao *OTPDAO) FindUnverified(ctx context.Context, email, code string) (*models.OTPCode, error) {
	var otp models.OTPCode
	err := dao.DB.WithContext(ctx).
		First(&otp, "email = ? AND code = ? AND verified = ?", email, code, false).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (dao *OTPDAO) MarkVerified(ctx context.Context, otp *models.OTPCode) error {
	otp.Verified = true
	return dao.DB.WithContext(ctx).
		Model(&models.OTPCode{}).
		Where("id = ?", otp.ID).
		Update("verified", true).Error
}
