package controllers

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrEmptyContent  = errors.New("pesan tidak boleh kosong")
	ErrQuotaExceeded = errors.New("kuota harian habis, upgrade ke PRO untuk chat tanpa batas")
	ErrNotEditable   = errors.New("hanya pesan pengguna yang dapat diedit")
	ErrInvalidOTP    = errors.New("kode OTP tidak valid")
	ErrExpiredOTP    = errors.New("kode OTP sudah kadaluarsa")
	ErrInvalidInvite = errors.New("kode undangan tidak valid")
)
